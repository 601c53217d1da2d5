package model

type stageType string

const (
	MarkerStageType stageType = "marker"
	NormalStageType stageType = "stage"
)

// StageInfo describes a stage as seen by pipeline options.
type StageInfo struct {
	Type stageType
	Name string
	// Index is the position of the stage in the run, -1 for markers.
	Index int
	// Requires lists the files that must exist before the stage starts.
	Requires []string
	// Produces lists the files the stage is expected to write.
	Produces []string
	// After lists the names of the stages this one depends on.
	After []string
}

var (
	StartStage = &StageInfo{Type: MarkerStageType, Name: "start", Index: -1}
	EndStage   = &StageInfo{Type: MarkerStageType, Name: "end", Index: -1}
)
