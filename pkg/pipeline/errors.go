package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet  = errors.New("p must be set")
	ErrStageNameMustBeSet = errors.New("stage name must be set")
	ErrStageFnMustBeSet   = errors.New("stage function must be set")
	ErrDuplicateStage     = errors.New("stage already added")
	ErrAlreadyRun         = errors.New("pipeline already run")
	ErrMissingInput       = errors.New("required input does not exist")
	ErrMissingOutput      = errors.New("expected output was not written")
)

// StageError is returned by Run when a stage fails. It unwraps to the cause.
type StageError struct {
	Stage string
	Index int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s (#%d): %v", e.Stage, e.Index, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *StageError) Cause() error {
	return e.Err
}
