package monitoring

import (
	"time"

	"github.com/askiada/go-reffy/pkg/pipeline/measure"
	"github.com/askiada/go-reffy/pkg/pipeline/model"
)

type pipelineLogger struct {
	runID string
	total int
	logf  func(format string, v ...interface{})
}

func (pl *pipelineLogger) log(format string, v ...interface{}) {
	if pl.logf == nil {
		Logf(format, v...)
		return
	}
	pl.logf(format, v...)
}

func (pl *pipelineLogger) New() error {
	return nil
}

func (pl *pipelineLogger) PrepareStage(_ []*model.StageInfo, _ *model.StageInfo) error {
	pl.total++
	return nil
}

func (pl *pipelineLogger) BeforeStage(stage *model.StageInfo) error {
	pl.log("[%s] stage %d/%d %s: started", pl.runID, stage.Index+1, pl.total, stage.Name)
	return nil
}

func (pl *pipelineLogger) OnStageDone(stage *model.StageInfo, elapsed time.Duration) error {
	pl.log("[%s] stage %d/%d %s: done in %s", pl.runID, stage.Index+1, pl.total, stage.Name, measure.Round(elapsed))
	return nil
}

func (pl *pipelineLogger) OnStageFailed(stage *model.StageInfo, elapsed time.Duration, err error) error {
	pl.log("[%s] stage %d/%d %s: failed after %s: %v", pl.runID, stage.Index+1, pl.total, stage.Name, measure.Round(elapsed), err)
	return nil
}

func (pl *pipelineLogger) Finish() error {
	pl.log("[%s] %d stage(s) completed", pl.runID, pl.total)
	return nil
}

// PipelineLogger logs stage transitions tagged with runID through logf, or
// through Logf when logf is nil.
func PipelineLogger(runID string, logf func(format string, v ...interface{})) model.PipelineOption {
	return &pipelineLogger{runID: runID, logf: logf}
}
