// Package cli parses the command line and runs the requested perspective and
// action through the workflow pipeline.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/internal/crawler"
	"github.com/askiada/go-reffy/internal/monitoring"
	"github.com/askiada/go-reffy/internal/pandoc"
	"github.com/askiada/go-reffy/internal/perspective"
	"github.com/askiada/go-reffy/internal/report"
	"github.com/askiada/go-reffy/internal/study"
	"github.com/askiada/go-reffy/internal/version"
	"github.com/askiada/go-reffy/internal/workflow"
	"github.com/askiada/go-reffy/pkg/pipeline/drawer"
	"github.com/askiada/go-reffy/pkg/pipeline/measure"
	"github.com/askiada/go-reffy/pkg/pipeline/model"
)

const (
	name = "reffy"

	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Settings are the run flags handed to the collaborators factory.
type Settings struct {
	SpecsDir     string
	TemplatesDir string
	Pandoc       string
	Concurrency  int
	Logf         func(format string, v ...interface{})
}

// CollaboratorsFunc builds the stage collaborators of a run.
type CollaboratorsFunc func(s Settings) workflow.Collaborators

// DefaultCollaborators wires the HTTP crawler, the study, the Markdown report
// generator and pandoc.
func DefaultCollaborators(s Settings) workflow.Collaborators {
	return workflow.Collaborators{
		Crawler:  crawler.New(crawler.WithConcurrency(s.Concurrency), crawler.WithLogger(s.Logf)),
		Studier:  study.New(),
		Reporter: report.New(),
		Renderer: pandoc.New(s.Pandoc),
	}
}

// App is the reffy command.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// Registry holds the perspectives known before any -config file is applied.
	Registry      *perspective.Registry
	Collaborators CollaboratorsFunc
	NewRunID      func() string
}

func New(stdout, stderr io.Writer) *App {
	return &App{
		Stdout:        stdout,
		Stderr:        stderr,
		Registry:      perspective.Default(),
		Collaborators: DefaultCollaborators,
		NewRunID:      uuid.NewString,
	}
}

// Run executes the command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	var showVersion bool
	root := flag.NewFlagSet(name, flag.ContinueOnError)
	root.SetOutput(a.Stderr)
	root.BoolVar(&showVersion, "version", false, "print version and exit")
	root.Usage = func() { a.usage(a.Stderr, a.Registry, nil) }
	if err := root.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}

		return ExitUsage
	}

	if showVersion {
		fmt.Fprintf(a.Stdout, "%s %s\n", name, version.String())
		return ExitOK
	}

	rest := root.Args()
	if len(rest) == 0 {
		fmt.Fprintln(a.Stderr, "missing command")
		a.usage(a.Stderr, a.Registry, nil)

		return ExitUsage
	}

	switch rest[0] {
	case "run":
		return a.runRun(ctx, rest[1:])
	case "help":
		a.usage(a.Stdout, a.Registry, nil)
		return ExitOK
	default:
		fmt.Fprintf(a.Stderr, "unknown command %q\n", rest[0])
		a.usage(a.Stderr, a.Registry, nil)

		return ExitUsage
	}
}

func (a *App) runRun(ctx context.Context, args []string) int {
	var configPath, graphPath string
	var quiet bool
	settings := Settings{}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	fs.StringVar(&configPath, "config", "", "YAML file overriding or declaring perspectives")
	fs.StringVar(&settings.SpecsDir, "specs-dir", "specs", "directory holding the document-set descriptors")
	fs.StringVar(&settings.TemplatesDir, "templates-dir", "templates", "directory holding the HTML report templates")
	fs.StringVar(&settings.Pandoc, "pandoc", pandoc.DefaultBinary, "pandoc binary")
	fs.StringVar(&graphPath, "graph", "", "write the stage graph to this DOT file")
	fs.IntVar(&settings.Concurrency, "concurrency", 4, "number of specifications crawled at the same time")
	fs.BoolVar(&quiet, "quiet", false, "do not log stage progress")
	fs.Usage = func() { a.usage(a.Stderr, a.Registry, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}

		return ExitUsage
	}

	reg := a.Registry
	if configPath != "" {
		var err error
		reg, err = perspective.LoadFile(configPath, reg)
		if err != nil {
			fmt.Fprintf(a.Stderr, "unable to load configuration: %v\n", err)
			return ExitUsage
		}
	}

	rest := fs.Args()
	switch {
	case len(rest) == 0:
		fmt.Fprintln(a.Stderr, "missing perspective")
		a.usage(a.Stderr, reg, fs)

		return ExitUsage
	case len(rest) > 2:
		fmt.Fprintf(a.Stderr, "too many arguments: %v\n", rest[2:])
		a.usage(a.Stderr, reg, fs)

		return ExitUsage
	}
	action := ""
	if len(rest) == 2 {
		action = rest[1]
	}

	run, err := workflow.NewRun(reg, rest[0], action)
	if err != nil {
		fmt.Fprintln(a.Stderr, err)
		a.usage(a.Stderr, reg, fs)

		return ExitUsage
	}

	logf := log.New(a.Stderr, "", log.LstdFlags).Printf
	if quiet {
		logf = func(string, ...interface{}) {}
	}
	settings.Logf = logf

	runID := a.NewRunID()
	m := measure.NewDefaultMeasure()
	opts := []model.PipelineOption{
		monitoring.PipelineLogger(runID, logf),
		measure.PipelineMeasure(m),
	}
	if graphPath != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(graphPath), m))
	}

	cfg := workflow.Config{SpecsDir: settings.SpecsDir, TemplatesDir: settings.TemplatesDir}
	pipe, err := workflow.Build(run, cfg, a.Collaborators(settings), opts...)
	if err != nil {
		return a.fail(err)
	}

	logf("[%s] run %s %s into %s", runID, run.Perspective.Name, run.Action, run.Perspective.OutputRoot)
	err = pipe.Run(ctx)
	if err != nil {
		return a.fail(err)
	}

	for _, s := range pipe.Stages() {
		logf("[%s] %-8s %s", runID, s.Name, m.GetMetric(s.Name).AVGDuration())
	}
	logf("[%s] total    %s", runID, measure.Round(pipe.Elapsed()))
	fmt.Fprintln(a.Stdout, "-- THE END --")

	return ExitOK
}

func (a *App) fail(err error) int {
	fmt.Fprintln(a.Stderr, "-- ERROR CAUGHT --")
	fmt.Fprintln(a.Stderr, err)

	return ExitError
}
