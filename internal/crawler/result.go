package crawler

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Result is the content of crawl.json.
type Result struct {
	Title   string        `json:"title"`
	Date    string        `json:"date"`
	Options ResultOptions `json:"options"`
	Results []Spec        `json:"results"`
}

type ResultOptions struct {
	PublishedVersion bool `json:"publishedVersion"`
}

// Spec holds the facts gathered about one specification.
type Spec struct {
	Shortname string   `json:"shortname"`
	URL       string   `json:"url"`
	Nightly   string   `json:"nightly,omitempty"`
	Crawled   string   `json:"crawled"`
	Title     string   `json:"title,omitempty"`
	Links     []string `json:"links"`
	Error     string   `json:"error,omitempty"`
}

// ParseResult decodes a crawl result.
func ParseResult(data []byte) (*Result, error) {
	var res Result
	err := json.Unmarshal(data, &res)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode crawl result")
	}

	return &res, nil
}

// ReadResult reads a crawl result from disk.
func ReadResult(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	res, err := ParseResult(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return res, nil
}
