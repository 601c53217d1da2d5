package workflow

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/internal/perspective"
	"github.com/askiada/go-reffy/internal/stage"
)

// Run is a validated invocation: the resolved perspective and the actions to
// execute, in canonical order.
type Run struct {
	Perspective perspective.Perspective
	Action      string
	Actions     []stage.Action
}

// NewRun resolves the perspective and expands the requested action. An empty
// action means every action. Nothing is written to disk.
func NewRun(reg *perspective.Registry, name, action string) (*Run, error) {
	if reg == nil {
		return nil, errors.New("registry must be set")
	}
	p, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	actions, err := stage.Expand(action)
	if err != nil {
		return nil, err
	}
	if action == "" {
		action = stage.All
	}

	return &Run{Perspective: p, Action: action, Actions: actions}, nil
}
