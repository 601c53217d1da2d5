package drawer

import (
	"time"

	"github.com/askiada/go-reffy/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a stage to the pipeline drawer.
	AddStep(stepname string) error
	// AddLink adds a link between parent and children stages.
	AddLink(parentStepName, childrenStepName string) error
	// MarkFailed highlights a stage that returned an error.
	MarkFailed(stepName string) error
	// Draw creates a file with the pipeline graph.
	Draw() error
	// SetTotalTime sets the total time for the stage.
	SetTotalTime(stepName string, totalTime time.Time) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
}
