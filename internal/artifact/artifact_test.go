package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-reffy/internal/artifact"
)

func TestPathFor(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		root string
		name artifact.Name
		want string
	}{
		"relative": {root: "reports/w3c", name: artifact.Crawl, want: filepath.Join("reports", "w3c", "crawl.json")},
		"absolute": {root: "/srv/out", name: artifact.DiffNew, want: filepath.Join("/srv", "out", "diffnew.md")},
		"trailing": {root: "out/", name: artifact.IndexHTML, want: filepath.Join("out", "index.html")},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, artifact.PathFor(tc.root, tc.name))
			assert.Equal(t, artifact.PathFor(tc.root, tc.name), artifact.PathFor(tc.root, tc.name))
		})
	}
}

func TestPathForStaysUnderRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join("reports", "whatwg")
	for _, name := range artifact.All() {
		rel, err := filepath.Rel(root, artifact.PathFor(root, name))
		require.NoError(t, err)
		assert.Equal(t, string(name), rel)
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()

	assert.Len(t, artifact.All(), 8)
	for _, name := range artifact.All() {
		assert.True(t, artifact.Known(name))
	}
	assert.False(t, artifact.Known("../escape.json"))
	assert.False(t, artifact.Known("report.pdf"))
}

func TestWriteRead(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "reports", "w3c")
	require.NoError(t, artifact.Write(root, artifact.Study, []byte(`{"a":1}`)))

	got, err := artifact.Read(root, artifact.Study)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, artifact.Write(root, artifact.Study, []byte(`{}`)))
	got, err = artifact.Read(root, artifact.Study)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestReadMissing(t *testing.T) {
	t.Parallel()

	_, err := artifact.Read(t.TempDir(), artifact.Crawl)
	assert.ErrorIs(t, err, artifact.ErrMissingArtifact)
}

func TestUnknownArtifact(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	assert.ErrorIs(t, artifact.Write(root, "../escape.md", nil), artifact.ErrUnknownArtifact)
	_, err := artifact.Read(root, "notes.txt")
	assert.ErrorIs(t, err, artifact.ErrUnknownArtifact)
}
