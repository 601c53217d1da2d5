package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/pkg/pipeline/model"
)

// StageFunc runs a stage. It must only return once every file it writes is complete.
type StageFunc func(ctx context.Context) error

type stage struct {
	details *model.StageInfo
	fn      StageFunc
}

func prepareStage(p *Pipeline, name string, opts ...StageOption) (*model.StageInfo, []*model.StageInfo, error) {
	info := &model.StageInfo{
		Type:  model.NormalStageType,
		Name:  name,
		Index: len(p.stages),
	}
	for _, opt := range opts {
		opt(info)
	}

	parents := []*model.StageInfo{}
	for _, after := range info.After {
		if parent, ok := p.byName[after]; ok {
			parents = append(parents, parent.details)
		}
	}
	if len(parents) == 0 {
		parents = append(parents, model.StartStage)
	}

	for _, opt := range p.opts {
		err := opt.PrepareStage(parents, info)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	return info, parents, nil
}

// AddStage appends a stage to the pipeline. Stages run in the order they are added.
func AddStage(p *Pipeline, name string, fn StageFunc, opts ...StageOption) (*model.StageInfo, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if name == "" {
		return nil, ErrStageNameMustBeSet
	}
	if fn == nil {
		return nil, errors.Wrap(ErrStageFnMustBeSet, name)
	}
	if _, ok := p.byName[name]; ok {
		return nil, errors.Wrap(ErrDuplicateStage, name)
	}
	if p.state != StateValidating {
		return nil, ErrAlreadyRun
	}

	info, _, err := prepareStage(p, name, opts...)
	if err != nil {
		return nil, err
	}

	s := &stage{details: info, fn: fn}
	p.stages = append(p.stages, s)
	p.byName[name] = s

	return info, nil
}

func checkFiles(paths []string, sentinel error) error {
	for _, path := range paths {
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return errors.Wrap(sentinel, path)
		}
		if err != nil {
			return errors.Wrapf(err, "unable to stat %s", path)
		}
	}

	return nil
}

func (p *Pipeline) runStage(ctx context.Context, s *stage) error {
	err := checkFiles(s.details.Requires, ErrMissingInput)
	if err != nil {
		return err
	}

	for _, opt := range p.opts {
		err := opt.BeforeStage(s.details)
		if err != nil {
			return errors.Wrap(err, "unable to run before stage function")
		}
	}

	start := time.Now()
	err = s.fn(ctx)
	if err == nil {
		err = checkFiles(s.details.Produces, ErrMissingOutput)
	}
	elapsed := time.Since(start)

	if err != nil {
		for _, opt := range p.opts {
			optErr := opt.OnStageFailed(s.details, elapsed, err)
			if optErr != nil {
				return errors.Wrapf(err, "on stage failed hook: %v", optErr)
			}
		}

		return err
	}

	for _, opt := range p.opts {
		err := opt.OnStageDone(s.details, elapsed)
		if err != nil {
			return errors.Wrap(err, "unable to run stage done function")
		}
	}

	return nil
}
