// Package crawler fetches every specification of a document set and records
// basic facts about each of them in crawl.json.
package crawler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-reffy/internal/artifact"
	"github.com/askiada/go-reffy/internal/monitoring"
)

const defaultConcurrency = 4

// Crawler fetches document sets.
type Crawler struct {
	client      *http.Client
	concurrency int
	now         func() time.Time
	logf        func(format string, v ...interface{})
}

type Option func(c *Crawler)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.client = client
	}
}

// WithConcurrency sets how many specifications are fetched at the same time.
func WithConcurrency(concurrency int) Option {
	return func(c *Crawler) {
		c.concurrency = concurrency
	}
}

// WithClock replaces time.Now, used to date the crawl.
func WithClock(now func() time.Time) Option {
	return func(c *Crawler) {
		c.now = now
	}
}

// WithLogger sets where fetch failures are logged.
func WithLogger(logf func(format string, v ...interface{})) Option {
	return func(c *Crawler) {
		c.logf = logf
	}
}

func New(opts ...Option) *Crawler {
	c := &Crawler{
		client:      &http.Client{Timeout: time.Minute},
		concurrency: defaultConcurrency,
		now:         time.Now,
		logf:        monitoring.Logf,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.concurrency <= 0 {
		c.concurrency = 1
	}
	if c.logf == nil {
		c.logf = func(string, ...interface{}) {}
	}

	return c
}

// Crawl fetches every entry of the document set and writes crawl.json under
// outputRoot. A specification that cannot be fetched is recorded with its
// error; only an unreadable document set or a cancelled context fail the crawl.
func (c *Crawler) Crawl(ctx context.Context, documentSetPath, outputRoot string, preferPublished bool) error {
	entries, err := LoadDocumentSet(documentSetPath)
	if err != nil {
		return err
	}

	results := make([]Spec, len(entries))
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(c.concurrency)

	for idx, entry := range entries {
		idx := idx
		entry := entry
		errGrp.Go(func() error {
			spec, err := c.crawlSpec(dCtx, entry, preferPublished)
			if err != nil {
				return err
			}
			results[idx] = spec

			return nil
		})
	}

	err = errGrp.Wait()
	if err != nil {
		return errors.Wrap(err, "crawl interrupted")
	}

	res := Result{
		Title:   "Reffy crawl",
		Date:    c.now().UTC().Format(time.RFC3339),
		Options: ResultOptions{PublishedVersion: preferPublished},
		Results: results,
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to encode crawl result")
	}

	return artifact.Write(outputRoot, artifact.Crawl, data)
}

// crawlSpec only returns an error when ctx is done.
func (c *Crawler) crawlSpec(ctx context.Context, entry Entry, preferPublished bool) (Spec, error) {
	spec := Spec{
		Shortname: entry.Name(),
		URL:       entry.URL,
		Nightly:   entry.Nightly,
		Crawled:   entry.CrawlURL(preferPublished),
		Links:     []string{},
	}

	title, links, err := c.fetch(ctx, spec.Crawled)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return spec, ctxErr
	}
	if err != nil {
		c.logf("crawl %s: %v", spec.Crawled, err)
		spec.Error = err.Error()

		return spec, nil
	}

	spec.Title = title
	spec.Links = links

	return spec, nil
}

func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, []string, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, errors.Wrap(err, "invalid url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to create request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)

		return "", nil, errors.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to parse HTML")
	}

	title, links := extract(doc, base)

	return title, links, nil
}

// extract returns the document title and the absolute URLs of its links,
// without fragments, sorted and deduplicated.
func extract(doc *html.Node, base *url.URL) (string, []string) {
	title := ""
	seen := map[string]struct{}{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" {
					title = strings.Join(strings.Fields(textContent(n)), " ")
				}
			case "a":
				if link, ok := resolveLink(n, base); ok {
					seen[link] = struct{}{}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)

	return title, links
}

func resolveLink(n *html.Node, base *url.URL) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key != "href" {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil {
			return "", false
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return "", false
		}
		abs.Fragment = ""

		return abs.String(), true
	}

	return "", false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textContent(child))
	}

	return sb.String()
}
