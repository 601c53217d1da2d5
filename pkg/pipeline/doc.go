// Package pipeline provides a sequential stage pipeline for file based workflows.
//
// A pipeline is an ordered list of stages. Each stage declares the files it reads and the files it
// writes, and the only handoff between two stages is the filesystem: a stage starts only once the
// previous one has returned and every file it requires exists on disk. Files are therefore totally
// ordered by stage order and a stage never observes a partially written file from an earlier one.
//
// The pipeline stops on the first error. The remaining stages are not scheduled, and the error is
// returned as a *StageError that names the failing stage and wraps the original cause, so callers can
// still match it with errors.Is or errors.As. There is no retry and no partial success: callers that
// want to resume re-run the pipeline with a narrower set of stages once the cause is fixed.
//
// Options implementing model.PipelineOption observe the run. The measure and drawer subpackages
// provide options that record stage durations and draw the stage graph.
package pipeline
