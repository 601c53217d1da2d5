package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/pkg/pipeline/model"
)

// Pipeline is an ordered list of stages run one after the other.
type Pipeline struct {
	mu        sync.Mutex
	opts      []model.PipelineOption
	stages    []*stage
	byName    map[string]*stage
	state     State
	current   int
	startTime time.Time
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		opts:   opts,
		byName: make(map[string]*stage),
		state:  StateValidating,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Stages returns the stages in run order.
func (p *Pipeline) Stages() []*model.StageInfo {
	res := make([]*model.StageInfo, 0, len(p.stages))
	for _, s := range p.stages {
		res = append(res, s.details)
	}

	return res
}

// Status returns the state of the run and the index of the current stage.
// Once the run succeeded the index equals the number of stages.
func (p *Pipeline) Status() (State, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state, p.current
}

func (p *Pipeline) setStatus(state State, current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
	p.current = current
}

// Run runs every stage in order and stops on the first failure.
// A pipeline can only be run once.
func (p *Pipeline) Run(ctx context.Context) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	state, _ := p.Status()
	if state != StateValidating {
		return ErrAlreadyRun
	}

	p.startTime = time.Now()
	for idx, s := range p.stages {
		p.setStatus(StateRunning, idx)

		// a cancelled context only stops the scheduling of the next stages
		err := ctx.Err()
		if err == nil {
			err = p.runStage(ctx, s)
		}
		if err != nil {
			p.setStatus(StateFailed, idx)

			return &StageError{Stage: s.details.Name, Index: idx, Err: err}
		}
	}
	p.setStatus(StateSucceeded, len(p.stages))

	return p.finishRun()
}

// Elapsed returns the time since Run started.
func (p *Pipeline) Elapsed() time.Duration {
	if p.startTime.IsZero() {
		return 0
	}

	return time.Since(p.startTime)
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
