package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-reffy/pkg/pipeline"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) stage(name string, err error) pipeline.StageFunc {
	return func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)

		return err
	}
}

func (r *recorder) writer(t *testing.T, name, path string) pipeline.StageFunc {
	t.Helper()

	return func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, name)

		return os.WriteFile(path, []byte(name), 0o644)
	}
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.calls...)
}

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	pipe, err := pipeline.New()
	require.NoError(t, err)

	return pipe
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	return path
}
