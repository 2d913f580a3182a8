package gitdownload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates every file (with parent dirs) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
	}
}

func collectPaths(t *testing.T, root string, cfg *Config) []string {
	t.Helper()
	var paths []string
	err := Walk(root, cfg, func(c Candidate) error {
		paths = append(paths, c.RelPath)
		return nil
	})
	require.NoError(t, err)
	return paths
}

func TestWalkLexicographicOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"zeta.go":     "z",
		"alpha.go":    "a",
		"sub/one.go":  "1",
		"sub/two.go":  "2",
		"a_dir/x.go":  "x",
		"README":      "readme",
	})

	paths := collectPaths(t, root, DefaultConfig())
	assert.Equal(t, []string{
		"README",
		"a_dir/x.go",
		"alpha.go",
		"sub/one.go",
		"sub/two.go",
		"zeta.go",
	}, paths)
}

func TestWalkPrunesFoldersTransitively(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":                          "ok",
		"node_modules/b.py":             "pruned",
		"src/node_modules/deep/c.py":    "pruned at depth",
		"src/keep.py":                   "ok",
		"vendor/nested/node_modules/d":  "pruned",
		"vendor/kept.py":                "ok",
	})

	cfg := &Config{SkipFolders: []string{"node_modules"}}
	paths := collectPaths(t, root, cfg)
	assert.Equal(t, []string{"a.py", "src/keep.py", "vendor/kept.py"}, paths)
}

func TestWalkRootNeverPruned(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "node_modules")
	writeTree(t, root, map[string]string{"a.py": "ok"})

	cfg := &Config{SkipFolders: []string{"node_modules"}}
	paths := collectPaths(t, root, cfg)
	assert.Equal(t, []string{"a.py"}, paths)
}

func TestWalkDotfilesAreOrdinaryCandidates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".env":       "SECRET=1",
		".gitignore": "*.log",
	})

	paths := collectPaths(t, root, DefaultConfig())
	assert.Equal(t, []string{".env", ".gitignore"}, paths)
}

func TestWalkCandidateFields(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"sub/File.PY": "hello"})

	var got Candidate
	err := Walk(root, DefaultConfig(), func(c Candidate) error {
		got = c
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "sub/File.PY", got.RelPath)
	assert.Equal(t, filepath.Join(root, "sub", "File.PY"), got.AbsPath)
	assert.Equal(t, int64(5), got.Size)
	assert.Equal(t, ".py", got.Ext, "extension should be lowercased")
}
