// Package study looks for anomalies in a crawl result.
package study

import (
	"context"
	"strings"

	"github.com/askiada/go-reffy/internal/crawler"
)

// AnomalyType identifies a kind of anomaly.
type AnomalyType string

const (
	CrawlError   AnomalyType = "crawlError"
	NoTitle      AnomalyType = "noTitle"
	NoReferences AnomalyType = "noReferences"
)

// AnomalyTypes lists the anomaly types in report order.
func AnomalyTypes() []AnomalyType {
	return []AnomalyType{CrawlError, NoTitle, NoReferences}
}

// Title is the heading used for the anomaly type in reports.
func (t AnomalyType) Title() string {
	switch t {
	case CrawlError:
		return "Specifications that could not be crawled"
	case NoTitle:
		return "Specifications without a title"
	case NoReferences:
		return "Specifications that do not link to any other specification"
	default:
		return string(t)
	}
}

type Anomaly struct {
	Type    AnomalyType `json:"type"`
	Message string      `json:"message"`
}

type SpecResult struct {
	Shortname string    `json:"shortname"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Anomalies []Anomaly `json:"anomalies"`
}

type Stats struct {
	Crawled       int `json:"crawled"`
	Errors        int `json:"errors"`
	WithAnomalies int `json:"withAnomalies"`
}

// Result is the content of study.json.
type Result struct {
	Title   string       `json:"title"`
	Date    string       `json:"date"`
	Stats   Stats        `json:"stats"`
	Results []SpecResult `json:"results"`
}

// Studier studies crawl files.
type Studier struct{}

func New() *Studier {
	return &Studier{}
}

// StudyFile reads a crawl file and studies it.
func (s *Studier) StudyFile(_ context.Context, crawlPath string) (*Result, error) {
	crawl, err := crawler.ReadResult(crawlPath)
	if err != nil {
		return nil, err
	}

	return Study(crawl), nil
}

func normalize(u string) string {
	return strings.TrimSuffix(u, "/")
}

// Study returns the anomalies of every crawled specification, in crawl order.
func Study(crawl *crawler.Result) *Result {
	owners := map[string]string{}
	for _, spec := range crawl.Results {
		for _, u := range []string{spec.URL, spec.Nightly, spec.Crawled} {
			if u != "" {
				owners[normalize(u)] = spec.Shortname
			}
		}
	}

	res := &Result{
		Title:   "Reffy study",
		Date:    crawl.Date,
		Results: make([]SpecResult, 0, len(crawl.Results)),
	}

	for _, spec := range crawl.Results {
		sr := SpecResult{
			Shortname: spec.Shortname,
			URL:       spec.URL,
			Title:     spec.Title,
			Anomalies: []Anomaly{},
		}
		if sr.Title == "" {
			sr.Title = spec.Shortname
		}

		res.Stats.Crawled++
		if spec.Error != "" {
			res.Stats.Errors++
			sr.Anomalies = append(sr.Anomalies, Anomaly{Type: CrawlError, Message: spec.Error})
		} else {
			sr.Anomalies = append(sr.Anomalies, studySpec(spec, owners)...)
		}

		if len(sr.Anomalies) > 0 {
			res.Stats.WithAnomalies++
		}
		res.Results = append(res.Results, sr)
	}

	return res
}

func studySpec(spec crawler.Spec, owners map[string]string) []Anomaly {
	anomalies := []Anomaly{}
	if spec.Title == "" {
		anomalies = append(anomalies, Anomaly{Type: NoTitle, Message: "the document has no title"})
	}

	linked := false
	for _, link := range spec.Links {
		owner, ok := owners[normalize(link)]
		if ok && owner != spec.Shortname {
			linked = true

			break
		}
	}
	if !linked && len(owners) > 0 {
		anomalies = append(anomalies, Anomaly{Type: NoReferences, Message: "no link to another specification of the set"})
	}

	return anomalies
}
