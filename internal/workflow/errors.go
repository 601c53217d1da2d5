package workflow

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrRenderFailed = errors.New("render failed")

// RenderError is returned by the html stage when the document renderer fails.
// It matches ErrRenderFailed and unwraps to the renderer's error.
type RenderError struct {
	Input string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrRenderFailed, e.Input, e.Err)
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRenderFailed
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
