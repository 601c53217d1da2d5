package workflow

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/internal/artifact"
	"github.com/askiada/go-reffy/internal/pandoc"
	"github.com/askiada/go-reffy/internal/report"
	"github.com/askiada/go-reffy/internal/stage"
	"github.com/askiada/go-reffy/pkg/pipeline"
	"github.com/askiada/go-reffy/pkg/pipeline/model"
)

const (
	IndexTemplate    = "report-template.html"
	PerIssueTemplate = "report-perissue-template.html"
)

// Config locates the files stages read besides artifacts.
type Config struct {
	// SpecsDir holds the document-set descriptors.
	SpecsDir string
	// TemplatesDir holds the HTML templates given to the renderer.
	TemplatesDir string
}

type definition struct {
	inputs  []artifact.Name
	outputs []artifact.Name
	fn      func(w *worker, ctx context.Context) error
}

var definitions = map[stage.Action]definition{
	stage.Crawl: {
		outputs: []artifact.Name{artifact.Crawl},
		fn:      (*worker).crawl,
	},
	stage.Study: {
		inputs:  []artifact.Name{artifact.Crawl},
		outputs: []artifact.Name{artifact.Study},
		fn:      (*worker).study,
	},
	stage.Markdown: {
		inputs:  []artifact.Name{artifact.Crawl},
		outputs: []artifact.Name{artifact.IndexMD, artifact.PerIssueMD},
		fn:      (*worker).markdown,
	},
	stage.HTML: {
		inputs:  []artifact.Name{artifact.IndexMD, artifact.PerIssueMD},
		outputs: []artifact.Name{artifact.IndexHTML, artifact.PerIssueHTML},
		fn:      (*worker).html,
	},
	stage.Diff: {
		inputs:  []artifact.Name{artifact.Crawl},
		outputs: []artifact.Name{artifact.Diff},
		fn:      (*worker).diff,
	},
	stage.DiffNew: {
		inputs:  []artifact.Name{artifact.Crawl},
		outputs: []artifact.Name{artifact.DiffNew},
		fn:      (*worker).diffNew,
	},
}

type worker struct {
	run    *Run
	cfg    Config
	collab Collaborators
}

func (w *worker) path(name artifact.Name) string {
	return artifact.PathFor(w.run.Perspective.OutputRoot, name)
}

// Build creates the pipeline running the stages of run in canonical order.
// Stages declare the artifacts they read and write so the pipeline can fail a
// stage whose inputs are missing or which did not write its outputs.
func Build(run *Run, cfg Config, collab Collaborators, opts ...model.PipelineOption) (*pipeline.Pipeline, error) {
	if run == nil {
		return nil, errors.New("run must be set")
	}
	for _, action := range run.Actions {
		if err := collab.check(action); err != nil {
			return nil, err
		}
	}

	p, err := pipeline.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}

	w := &worker{run: run, cfg: cfg, collab: collab}
	root := run.Perspective.OutputRoot
	for _, action := range run.Actions {
		def, ok := definitions[action]
		if !ok {
			return nil, errors.Wrap(stage.ErrUnknownAction, action.String())
		}
		deps, err := stage.Dependencies(action)
		if err != nil {
			return nil, err
		}
		after := make([]string, 0, len(deps))
		for _, dep := range deps {
			after = append(after, dep.String())
		}

		fn := def.fn
		_, err = pipeline.AddStage(p, action.String(),
			func(ctx context.Context) error { return fn(w, ctx) },
			pipeline.StageRequires(artifact.Paths(root, def.inputs...)...),
			pipeline.StageProduces(artifact.Paths(root, def.outputs...)...),
			pipeline.StageAfter(after...),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add stage %s", action)
		}
	}

	return p, nil
}

func (w *worker) documentSetPath() string {
	ds := w.run.Perspective.DocumentSet
	if filepath.IsAbs(ds) {
		return ds
	}

	return filepath.Join(w.cfg.SpecsDir, ds)
}

func (w *worker) crawl(ctx context.Context) error {
	p := w.run.Perspective
	err := w.collab.Crawler.Crawl(ctx, w.documentSetPath(), p.OutputRoot, p.PreferPublished)
	if err != nil {
		return errors.Wrapf(err, "unable to crawl %s", w.documentSetPath())
	}

	return nil
}

func (w *worker) study(ctx context.Context) error {
	res, err := w.collab.Studier.StudyFile(ctx, w.path(artifact.Crawl))
	if err != nil {
		return errors.Wrap(err, "unable to study crawl results")
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to encode study results")
	}

	return artifact.Write(w.run.Perspective.OutputRoot, artifact.Study, data)
}

func (w *worker) writeReport(ctx context.Context, name artifact.Name, opts report.Options) error {
	text, err := w.collab.Reporter.Generate(ctx, w.path(artifact.Crawl), opts)
	if err != nil {
		return errors.Wrapf(err, "unable to generate %s", name)
	}

	return artifact.Write(w.run.Perspective.OutputRoot, name, []byte(text))
}

func (w *worker) markdown(ctx context.Context) error {
	err := w.writeReport(ctx, artifact.IndexMD, report.Options{PerSpec: true})
	if err != nil {
		return err
	}

	return w.writeReport(ctx, artifact.PerIssueMD, report.Options{})
}

func (w *worker) html(ctx context.Context) error {
	renderings := []struct {
		input    artifact.Name
		output   artifact.Name
		template string
	}{
		{input: artifact.IndexMD, output: artifact.IndexHTML, template: IndexTemplate},
		{input: artifact.PerIssueMD, output: artifact.PerIssueHTML, template: PerIssueTemplate},
	}
	for _, r := range renderings {
		args := pandoc.HTMLArgs(filepath.Join(w.cfg.TemplatesDir, r.template), w.path(r.output))
		err := w.collab.Renderer.Render(ctx, w.path(r.input), args)
		if err != nil {
			return &RenderError{Input: w.path(r.input), Err: err}
		}
	}

	return nil
}

func (w *worker) diff(ctx context.Context) error {
	return w.writeReport(ctx, artifact.Diff, report.Options{
		DiffReport:  true,
		RefBaseline: w.run.Perspective.Baseline,
	})
}

func (w *worker) diffNew(ctx context.Context) error {
	return w.writeReport(ctx, artifact.DiffNew, report.Options{
		DiffReport:  true,
		RefBaseline: w.run.Perspective.Baseline,
		OnlyNew:     true,
	})
}
