package crawler

import (
	"encoding/json"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidDocumentSet = errors.New("invalid document set")

// Entry is one specification of a document set. In the descriptor file it is
// either a bare URL or an object with the published URL and, optionally, the
// Editor's Draft URL.
type Entry struct {
	Shortname string `json:"shortname,omitempty"`
	URL       string `json:"url"`
	Nightly   string `json:"nightly,omitempty"`
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*e = Entry{URL: raw}

		return nil
	}

	type plain Entry
	var p plain
	err := json.Unmarshal(data, &p)
	if err != nil {
		return errors.Wrap(err, "entry must be a URL or an object")
	}
	*e = Entry(p)

	return nil
}

// CrawlURL picks the URL to fetch.
func (e Entry) CrawlURL(preferPublished bool) string {
	if !preferPublished && e.Nightly != "" {
		return e.Nightly
	}

	return e.URL
}

// Name returns the shortname, derived from the last path segment of the URL when absent.
func (e Entry) Name() string {
	if e.Shortname != "" {
		return e.Shortname
	}
	u, err := url.Parse(e.URL)
	if err != nil {
		return e.URL
	}
	name := path.Base(strings.TrimSuffix(u.Path, "/"))
	if name == "" || name == "." || name == "/" {
		return u.Host
	}

	return name
}

// LoadDocumentSet reads a document-set descriptor.
func LoadDocumentSet(file string) ([]Entry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read document set %s", file)
	}

	var entries []Entry
	err = json.Unmarshal(data, &entries)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDocumentSet, "%s: %v", file, err)
	}

	for i, e := range entries {
		if e.URL == "" {
			return nil, errors.Wrapf(ErrInvalidDocumentSet, "%s: entry %d has no url", file, i)
		}
	}

	return entries, nil
}
