package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStage runs when a stage is added to the pipeline.
	PrepareStage(parents []*StageInfo, stage *StageInfo) error
	// BeforeStage runs right before the stage function is called.
	BeforeStage(stage *StageInfo) error
	// OnStageDone runs after the stage function returned without error.
	OnStageDone(stage *StageInfo, elapsed time.Duration) error
	// OnStageFailed runs after the stage function returned an error.
	OnStageFailed(stage *StageInfo, elapsed time.Duration, err error) error
	// Finish runs after the pipeline is finished successfully.
	Finish() error
}
