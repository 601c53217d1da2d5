package workflow_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-reffy/internal/artifact"
	"github.com/askiada/go-reffy/internal/perspective"
	"github.com/askiada/go-reffy/internal/report"
	"github.com/askiada/go-reffy/internal/study"
	"github.com/askiada/go-reffy/internal/workflow"
)

var errBoom = errors.New("boom")

type calls struct {
	mu  sync.Mutex
	got []string
}

func (c *calls) add(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, call)
}

func (c *calls) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string{}, c.got...)
}

type fakeCrawler struct {
	calls *calls
	err   error
	// documentSet records the path given to the last crawl.
	documentSet string
	published   bool
}

func (f *fakeCrawler) Crawl(_ context.Context, documentSetPath, outputRoot string, preferPublished bool) error {
	f.calls.add("crawl")
	f.documentSet = documentSetPath
	f.published = preferPublished
	if f.err != nil {
		return f.err
	}

	return artifact.Write(outputRoot, artifact.Crawl, []byte(`{"results":[]}`))
}

type fakeStudier struct {
	calls *calls
	err   error
}

func (f *fakeStudier) StudyFile(_ context.Context, crawlPath string) (*study.Result, error) {
	f.calls.add("study")
	if f.err != nil {
		return nil, f.err
	}

	return &study.Result{Title: "Reffy crawl"}, nil
}

type fakeReporter struct {
	calls *calls
	err   error
	mu    sync.Mutex
	opts  []report.Options
}

func (f *fakeReporter) Generate(_ context.Context, crawlPath string, opts report.Options) (string, error) {
	f.calls.add("report")
	f.mu.Lock()
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	switch {
	case opts.OnlyNew:
		return "diffnew", nil
	case opts.DiffReport:
		return "diff", nil
	case opts.PerSpec:
		return "per spec", nil
	default:
		return "per issue", nil
	}
}

type fakeRenderer struct {
	calls *calls
	// failAt is the 1-based call that fails, 0 never fails.
	failAt int
	n      int
	inputs []string
}

func (f *fakeRenderer) Render(_ context.Context, input string, args []string) error {
	f.calls.add("render")
	f.n++
	f.inputs = append(f.inputs, input)
	if f.n == f.failAt {
		return errBoom
	}
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-o" {
			return os.WriteFile(args[i+1], []byte("<html></html>"), 0o644)
		}
	}

	return errors.New("no output given")
}

type fixture struct {
	calls    *calls
	crawler  *fakeCrawler
	studier  *fakeStudier
	reporter *fakeReporter
	renderer *fakeRenderer
	root     string
	registry *perspective.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	c := &calls{}
	root := t.TempDir()
	reg, err := perspective.NewRegistry(perspective.Perspective{
		Name:            "test",
		DocumentSet:     "specs-test.json",
		PreferPublished: true,
		Baseline:        "https://example.org/crawl.json",
		OutputRoot:      root,
	})
	require.NoError(t, err)

	return &fixture{
		calls:    c,
		crawler:  &fakeCrawler{calls: c},
		studier:  &fakeStudier{calls: c},
		reporter: &fakeReporter{calls: c},
		renderer: &fakeRenderer{calls: c},
		root:     root,
		registry: reg,
	}
}

func (f *fixture) collaborators() workflow.Collaborators {
	return workflow.Collaborators{
		Crawler:  f.crawler,
		Studier:  f.studier,
		Reporter: f.reporter,
		Renderer: f.renderer,
	}
}

func (f *fixture) run(t *testing.T, action string) error {
	t.Helper()

	run, err := workflow.NewRun(f.registry, "test", action)
	require.NoError(t, err)
	pipe, err := workflow.Build(run, workflow.Config{SpecsDir: "specs", TemplatesDir: "templates"}, f.collaborators())
	require.NoError(t, err)

	return pipe.Run(testContext(t))
}

func (f *fixture) seed(t *testing.T, names ...artifact.Name) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, artifact.Write(f.root, name, []byte("seed "+string(name))))
	}
}

func (f *fixture) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	res := []string{}
	for _, e := range entries {
		res = append(res, e.Name())
	}

	return res
}
