package workflow

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/internal/report"
	"github.com/askiada/go-reffy/internal/stage"
	"github.com/askiada/go-reffy/internal/study"
)

var ErrMissingCollaborator = errors.New("missing collaborator")

// Crawler crawls a document set and writes crawl.json under outputRoot.
type Crawler interface {
	Crawl(ctx context.Context, documentSetPath, outputRoot string, preferPublished bool) error
}

// Studier studies a crawl file.
type Studier interface {
	StudyFile(ctx context.Context, crawlPath string) (*study.Result, error)
}

// Reporter renders a textual report out of a crawl file.
type Reporter interface {
	Generate(ctx context.Context, crawlPath string, opts report.Options) (string, error)
}

// Renderer converts a Markdown file, writing the output named in args.
type Renderer interface {
	Render(ctx context.Context, input string, args []string) error
}

// Collaborators groups the implementations the stages call.
type Collaborators struct {
	Crawler  Crawler
	Studier  Studier
	Reporter Reporter
	Renderer Renderer
}

func (c Collaborators) check(action stage.Action) error {
	var ok bool
	switch action {
	case stage.Crawl:
		ok = c.Crawler != nil
	case stage.Study:
		ok = c.Studier != nil
	case stage.Markdown, stage.Diff, stage.DiffNew:
		ok = c.Reporter != nil
	case stage.HTML:
		ok = c.Renderer != nil
	}
	if !ok {
		return errors.Wrapf(ErrMissingCollaborator, "action %s", action)
	}

	return nil
}
