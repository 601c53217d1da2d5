// Package artifact names the files exchanged between pipeline stages and
// confines their reads and writes to a perspective's output root.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var (
	ErrUnknownArtifact = errors.New("unknown artifact")
	ErrMissingArtifact = errors.New("artifact does not exist")
)

// Name is the file name of an artifact inside the output root.
type Name string

const (
	Crawl        Name = "crawl.json"
	Study        Name = "study.json"
	IndexMD      Name = "index.md"
	PerIssueMD   Name = "perissue.md"
	IndexHTML    Name = "index.html"
	PerIssueHTML Name = "perissue.html"
	Diff         Name = "diff.md"
	DiffNew      Name = "diffnew.md"
)

var known = []Name{Crawl, Study, IndexMD, PerIssueMD, IndexHTML, PerIssueHTML, Diff, DiffNew}

// All returns every artifact name.
func All() []Name {
	return append([]Name{}, known...)
}

// Known reports whether name is one of the artifacts.
func Known(name Name) bool {
	for _, k := range known {
		if k == name {
			return true
		}
	}

	return false
}

// PathFor joins the output root and the artifact name.
func PathFor(outputRoot string, name Name) string {
	return filepath.Join(outputRoot, string(name))
}

// Paths maps names to their path under outputRoot.
func Paths(outputRoot string, names ...Name) []string {
	res := make([]string, 0, len(names))
	for _, name := range names {
		res = append(res, PathFor(outputRoot, name))
	}

	return res
}

// Read returns the content of an artifact. A missing artifact is an error.
func Read(outputRoot string, name Name) ([]byte, error) {
	if !Known(name) {
		return nil, errors.Wrap(ErrUnknownArtifact, string(name))
	}
	path := PathFor(outputRoot, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(ErrMissingArtifact, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	return data, nil
}

// Write replaces an artifact atomically: readers see the old or the new
// content, never a partial file.
func Write(outputRoot string, name Name, data []byte) error {
	if !Known(name) {
		return errors.Wrap(ErrUnknownArtifact, string(name))
	}

	err := os.MkdirAll(outputRoot, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", outputRoot)
	}

	tmp, err := os.CreateTemp(outputRoot, "."+string(name)+".*")
	if err != nil {
		return errors.Wrapf(err, "unable to create temporary file for %s", name)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", name)
	}

	path := PathFor(outputRoot, name)
	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return errors.Wrapf(err, "unable to rename to %s", path)
	}

	return nil
}
