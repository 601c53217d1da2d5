package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/pkg/pipeline/measure"
	"github.com/askiada/go-reffy/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
	// leaves are stages nothing depends on yet; they are linked to the end marker.
	leaves map[string]struct{}
	order  []string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}
	err = pd.AddStep(model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parents []*model.StageInfo, stage *model.StageInfo) error {
	err := pd.AddStep(stage.Name)
	if err != nil {
		return err
	}

	for _, parent := range parents {
		err := pd.AddLink(parent.Name, stage.Name)
		if err != nil {
			return err
		}
		delete(pd.leaves, parent.Name)
	}

	pd.leaves[stage.Name] = struct{}{}
	pd.order = append(pd.order, stage.Name)

	return nil
}

func (pd *pipelineDrawer) BeforeStage(stage *model.StageInfo) error {
	return nil
}

func (pd *pipelineDrawer) OnStageDone(stage *model.StageInfo, elapsed time.Duration) error {
	return nil
}

// OnStageFailed draws the graph right away since Finish is only called on success.
func (pd *pipelineDrawer) OnStageFailed(stage *model.StageInfo, elapsed time.Duration, _ error) error {
	err := pd.MarkFailed(stage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to mark failed stage")
	}

	return pd.draw()
}

func (pd *pipelineDrawer) Finish() error {
	return pd.draw()
}

func (pd *pipelineDrawer) draw() error {
	for _, name := range pd.order {
		if _, ok := pd.leaves[name]; !ok {
			continue
		}
		err := pd.AddLink(name, model.EndStage.Name)
		if err != nil {
			return err
		}
		delete(pd.leaves, name)
	}

	if pd.m != nil {
		err := pd.SetTotalTime(model.EndStage.Name, pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the stage graph once the pipeline is done.
// The measure is optional; when set, stage durations are added to the graph.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{
		Drawer:    drawer,
		m:         measure,
		startTime: time.Now(),
		leaves:    make(map[string]struct{}),
	}
}
