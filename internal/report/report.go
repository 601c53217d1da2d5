// Package report renders crawl and study results as Markdown reports.
package report

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-reffy/internal/crawler"
	"github.com/askiada/go-reffy/internal/study"
)

var ErrBaseline = errors.New("unable to load baseline")

// Options selects the report view.
type Options struct {
	// PerSpec groups anomalies per specification, otherwise per anomaly type.
	PerSpec bool
	// DiffReport compares the crawl with RefBaseline.
	DiffReport  bool
	RefBaseline string
	// OnlyNew restricts a diff report to anomalies absent from the baseline.
	OnlyNew bool
}

// Generator renders reports.
type Generator struct {
	client *http.Client
}

type Option func(g *Generator)

// WithHTTPClient replaces the client used to fetch remote baselines.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		g.client = client
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{client: &http.Client{Timeout: time.Minute}}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate studies the crawl file and renders the requested view.
func (g *Generator) Generate(ctx context.Context, crawlPath string, opts Options) (string, error) {
	crawl, err := crawler.ReadResult(crawlPath)
	if err != nil {
		return "", err
	}
	current := study.Study(crawl)

	if !opts.DiffReport {
		if opts.PerSpec {
			return render(perSpecTemplate, current)
		}

		return render(perIssueTemplate, groupByIssue(current))
	}

	if opts.RefBaseline == "" {
		return "", errors.Wrap(ErrBaseline, "no baseline reference")
	}

	baseline, err := g.loadBaseline(ctx, opts.RefBaseline)
	if err != nil {
		return "", err
	}

	return render(diffTemplate, compare(current, study.Study(baseline), opts))
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (g *Generator) loadBaseline(ctx context.Context, ref string) (*crawler.Result, error) {
	var data []byte
	if isRemote(ref) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, errors.Wrapf(ErrBaseline, "%s: %v", ref, err)
		}
		resp, err := g.client.Do(req)
		if err != nil {
			return nil, errors.Wrapf(ErrBaseline, "%s: %v", ref, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, errors.Wrapf(ErrBaseline, "%s: unexpected status %s", ref, resp.Status)
		}
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrapf(ErrBaseline, "%s: %v", ref, err)
		}
	} else {
		var err error
		data, err = os.ReadFile(ref)
		if err != nil {
			return nil, errors.Wrapf(ErrBaseline, "%s: %v", ref, err)
		}
	}

	res, err := crawler.ParseResult(data)
	if err != nil {
		return nil, errors.Wrapf(ErrBaseline, "%s: %v", ref, err)
	}

	return res, nil
}

func render(tpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	err := tpl.Execute(&sb, data)
	if err != nil {
		return "", errors.Wrapf(err, "unable to render %s", tpl.Name())
	}

	return sb.String(), nil
}
