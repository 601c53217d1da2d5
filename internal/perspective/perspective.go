// Package perspective holds the registry of named perspectives. A perspective
// selects the document set to crawl, whether published versions are preferred
// over drafts, the baseline used by the diff reports and the output directory.
package perspective

import (
	"path"

	"github.com/pkg/errors"
)

var (
	ErrUnknownPerspective = errors.New("unknown perspective")
	ErrInvalidPerspective = errors.New("invalid perspective")
)

// Perspective is the configuration bundle of a named perspective.
type Perspective struct {
	Name        string
	Description string
	// DocumentSet names the document-set descriptor, resolved against the specs directory.
	DocumentSet     string
	PreferPublished bool
	// Baseline is a URL or a path to the crawl result the diff reports compare against.
	Baseline   string
	OutputRoot string
}

// Validate checks that every required field is set.
func (p Perspective) Validate() error {
	switch {
	case p.Name == "":
		return errors.Wrap(ErrInvalidPerspective, "name is required")
	case p.DocumentSet == "":
		return errors.Wrapf(ErrInvalidPerspective, "%s: document set is required", p.Name)
	case p.OutputRoot == "":
		return errors.Wrapf(ErrInvalidPerspective, "%s: output root is required", p.Name)
	case p.Baseline == "":
		return errors.Wrapf(ErrInvalidPerspective, "%s: baseline is required", p.Name)
	}

	return nil
}

const baselineBaseURL = "https://tidoust.github.io/reffy-reports/"

func builtin(name, description, documentSet string, preferPublished bool) Perspective {
	return Perspective{
		Name:            name,
		Description:     description,
		DocumentSet:     documentSet,
		PreferPublished: preferPublished,
		Baseline:        baselineBaseURL + name + "/crawl.json",
		OutputRoot:      path.Join("reports", name),
	}
}

// Builtins returns the perspectives known without any configuration file.
func Builtins() []Perspective {
	return []Perspective{
		builtin("w3c",
			"take a W3C-centric perspective, preferring W3C specifications to WHATWG specifications "+
				"when both exist, and crawling latest Editor's Drafts of specifications",
			"specs-w3c.json", false),
		builtin("w3c-tr",
			"take a W3C-centric perspective, preferring W3C specifications to WHATWG specifications "+
				"when both exist, but crawling the latest published versions of specifications in /TR/ "+
				"space instead of the latest Editor's Drafts",
			"specs-w3c.json", true),
		builtin("whatwg",
			"take a WHATWG-centric perspective, preferring WHATWG specifications to W3C specifications "+
				"when both exist",
			"specs-whatwg.json", false),
	}
}
