package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupContentRepo initializes a Loam repository in a temp dir and writes
// docs (file name to markdown with frontmatter) into it. It returns the
// absolute dir and the repository, failing the test on any error.
func SetupContentRepo(t *testing.T, docs map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "failed to init content repo")

	for name, body := range docs {
		WriteDoc(t, dir, name, body)
	}
	return dir, repo
}

// WriteDoc writes one markdown document under dir, creating parent folders.
func WriteDoc(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}
