package measure

import (
	"time"

	"github.com/askiada/go-reffy/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.StartStage.Name)
	pm.AddMetric(model.EndStage.Name)
	pm.startTime = time.Now()

	return nil
}

func (pm *pipelineMeasure) PrepareStage(parents []*model.StageInfo, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) BeforeStage(stage *model.StageInfo) error {
	return nil
}

func (pm *pipelineMeasure) OnStageDone(stage *model.StageInfo, elapsed time.Duration) error {
	pm.GetMetric(stage.Name).AddDuration(elapsed)
	pm.GetMetric(stage.Name).SetTotalDuration(time.Since(pm.startTime))

	return nil
}

func (pm *pipelineMeasure) OnStageFailed(stage *model.StageInfo, elapsed time.Duration, err error) error {
	mt := pm.GetMetric(stage.Name)
	mt.AddDuration(elapsed)
	mt.SetFailed()

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	pm.GetMetric(model.EndStage.Name).SetTotalDuration(time.Since(pm.startTime))

	return nil
}

// PipelineMeasure records the duration of every stage into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
