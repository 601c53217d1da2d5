package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-reffy/pkg/pipeline"
	"github.com/askiada/go-reffy/pkg/pipeline/drawer"
	"github.com/askiada/go-reffy/pkg/pipeline/measure"
)

func TestAddStageNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddStage(nil, "crawl", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStageInvalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		name string
		fn   pipeline.StageFunc
		want error
	}{
		"empty name": {name: "", fn: func(ctx context.Context) error { return nil }, want: pipeline.ErrStageNameMustBeSet},
		"nil fn":     {name: "crawl", want: pipeline.ErrStageFnMustBeSet},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe := newPipeline(t)
			_, err := pipeline.AddStage(pipe, tc.name, tc.fn)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, pipe.Stages())
		})
	}
}

func TestAddStageDuplicate(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := newPipeline(t)
	_, err := pipeline.AddStage(pipe, "crawl", rec.stage("crawl", nil))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "crawl", rec.stage("crawl", nil))
	assert.ErrorIs(t, err, pipeline.ErrDuplicateStage)
}

func TestRunOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := newPipeline(t)
	for _, name := range []string{"crawl", "study", "markdown", "html"} {
		_, err := pipeline.AddStage(pipe, name, rec.stage(name, nil))
		require.NoError(t, err)
	}

	state, idx := pipe.Status()
	assert.Equal(t, pipeline.StateValidating, state)
	assert.Equal(t, 0, idx)

	require.NoError(t, pipe.Run(testContext(t)))
	assert.Equal(t, []string{"crawl", "study", "markdown", "html"}, rec.got())

	state, idx = pipe.Status()
	assert.Equal(t, pipeline.StateSucceeded, state)
	assert.Equal(t, 4, idx)
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()

	pipe := newPipeline(t)
	require.NoError(t, pipe.Run(testContext(t)))

	state, idx := pipe.Status()
	assert.Equal(t, pipeline.StateSucceeded, state)
	assert.Equal(t, 0, idx)
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := newPipeline(t)
	_, err := pipeline.AddStage(pipe, "crawl", rec.stage("crawl", nil))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "study", rec.stage("study", assert.AnError))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "markdown", rec.stage("markdown", nil))
	require.NoError(t, err)

	err = pipe.Run(testContext(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, assert.AnError, errors.Cause(err))

	var stageErr *pipeline.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "study", stageErr.Stage)
	assert.Equal(t, 1, stageErr.Index)
	assert.Equal(t, []string{"crawl", "study"}, rec.got())

	state, idx := pipe.Status()
	assert.Equal(t, pipeline.StateFailed, state)
	assert.Equal(t, 1, idx)
	assert.True(t, state.Terminal())
}

func TestRunMissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	pipe := newPipeline(t)
	_, err := pipeline.AddStage(pipe, "study", rec.stage("study", nil),
		pipeline.StageRequires(filepath.Join(dir, "crawl.json")))
	require.NoError(t, err)

	err = pipe.Run(testContext(t))
	assert.ErrorIs(t, err, pipeline.ErrMissingInput)
	assert.Empty(t, rec.got())
}

func TestRunInputFromPreviousStage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	crawl := filepath.Join(dir, "crawl.json")
	rec := &recorder{}
	pipe := newPipeline(t)
	_, err := pipeline.AddStage(pipe, "crawl", rec.writer(t, "crawl", crawl), pipeline.StageProduces(crawl))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "study", rec.stage("study", nil),
		pipeline.StageRequires(crawl), pipeline.StageAfter("crawl"))
	require.NoError(t, err)

	require.NoError(t, pipe.Run(testContext(t)))
	assert.Equal(t, []string{"crawl", "study"}, rec.got())
}

func TestRunMissingOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	pipe := newPipeline(t)
	_, err := pipeline.AddStage(pipe, "crawl", rec.stage("crawl", nil),
		pipeline.StageProduces(filepath.Join(dir, "crawl.json")))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "study", rec.stage("study", nil))
	require.NoError(t, err)

	err = pipe.Run(testContext(t))
	assert.ErrorIs(t, err, pipeline.ErrMissingOutput)
	assert.Equal(t, []string{"crawl"}, rec.got())
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pipe := newPipeline(t)
	_, err := pipeline.AddStage(pipe, "crawl", rec.stage("crawl", nil))
	require.NoError(t, err)

	require.NoError(t, pipe.Run(testContext(t)))
	assert.ErrorIs(t, pipe.Run(testContext(t)), pipeline.ErrAlreadyRun)

	_, err = pipeline.AddStage(pipe, "study", rec.stage("study", nil))
	assert.ErrorIs(t, err, pipeline.ErrAlreadyRun)
	assert.Equal(t, []string{"crawl"}, rec.got())
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	rec := &recorder{}
	pipe := newPipeline(t)
	_, err := pipeline.AddStage(pipe, "crawl", rec.stage("crawl", nil))
	require.NoError(t, err)

	err = pipe.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.got())
}

func TestRunWithMeasureAndDrawer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dotFile := filepath.Join(dir, "pipeline.dot")
	msr := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), msr),
	)
	require.NoError(t, err)

	crawl := touch(t, dir, "crawl.json")
	rec := &recorder{}
	_, err = pipeline.AddStage(pipe, "crawl", rec.stage("crawl", nil), pipeline.StageProduces(crawl))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "study", rec.stage("study", nil), pipeline.StageAfter("crawl"))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "diff", rec.stage("diff", nil), pipeline.StageAfter("crawl"))
	require.NoError(t, err)

	require.NoError(t, pipe.Run(testContext(t)))

	assert.Equal(t, int64(1), msr.GetMetric("crawl").Runs())
	assert.Equal(t, int64(1), msr.GetMetric("diff").Runs())
	assert.False(t, msr.GetMetric("study").Failed())

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "crawl"`)
	assert.Contains(t, string(content), `"crawl" -> "study"`)
	assert.Contains(t, string(content), `"crawl" -> "diff"`)
	assert.Contains(t, string(content), `"study" -> "end"`)
	assert.Contains(t, string(content), `"diff" -> "end"`)
	assert.NotContains(t, string(content), `"crawl" -> "end"`)
}

func TestRunFailureIsMeasuredAndDrawn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dotFile := filepath.Join(dir, "pipeline.dot")
	msr := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), nil),
	)
	require.NoError(t, err)

	rec := &recorder{}
	_, err = pipeline.AddStage(pipe, "crawl", rec.stage("crawl", assert.AnError))
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "study", rec.stage("study", nil), pipeline.StageAfter("crawl"))
	require.NoError(t, err)

	require.ErrorIs(t, pipe.Run(testContext(t)), assert.AnError)
	assert.True(t, msr.GetMetric("crawl").Failed())
	assert.Equal(t, int64(0), msr.GetMetric("study").Runs())

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `color="red"`)
}
