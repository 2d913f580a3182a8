package gitdownload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// candidateFor writes content under root and returns the walker's view of it.
func candidateFor(t *testing.T, root, rel string, content []byte) Candidate {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, content, 0644))
	return Candidate{
		RelPath: rel,
		AbsPath: abs,
		Size:    int64(len(content)),
		Ext:     strings.ToLower(filepath.Ext(rel)),
	}
}

func TestClassifyScenario(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		Extensions:    []string{".py"},
		SkipFolders:   []string{"node_modules"},
		SkipFiles:     []string{"LICENSE"},
		MaxFileSizeMB: 1.0,
	}
	cl := NewClassifier(cfg, nil)

	tests := []struct {
		name    string
		rel     string
		content []byte
		want    Decision
	}{
		{"small python file included", "a.py", bytes.Repeat([]byte("x"), 500), IncludeText},
		{"skip list beats everything", "LICENSE", bytes.Repeat([]byte("l"), 200), ExcludeSkipList},
		{"oversized file excluded", "big.py", bytes.Repeat([]byte("b"), 2*1024*1024), ExcludeTooLarge},
		{"extensionless file bypasses allow-list", "README", bytes.Repeat([]byte("r"), 50), IncludeText},
		{"disallowed extension excluded", "style.css", []byte("body {}"), ExcludeExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := candidateFor(t, root, tt.rel, tt.content)
			got, err := cl.Classify(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyRulePrecedence(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		Extensions:    []string{".py"},
		SkipFiles:     []string{"LICENSE.txt"},
		MaxFileSizeMB: 1.0,
	}
	cl := NewClassifier(cfg, nil)

	// Skip list wins over size and extension.
	big := candidateFor(t, root, "LICENSE.txt", bytes.Repeat([]byte("l"), 2*1024*1024))
	got, err := cl.Classify(big)
	require.NoError(t, err)
	assert.Equal(t, ExcludeSkipList, got)

	// Size wins over extension.
	huge := candidateFor(t, root, "data.xyz", bytes.Repeat([]byte("d"), 2*1024*1024))
	got, err = cl.Classify(huge)
	require.NoError(t, err)
	assert.Equal(t, ExcludeTooLarge, got)

	// Size wins over binary status: no content is read for oversized files.
	bin := candidateFor(t, root, "blob.py", append(bytes.Repeat([]byte{0}, 10), bytes.Repeat([]byte("p"), 2*1024*1024)...))
	got, err = cl.Classify(bin)
	require.NoError(t, err)
	assert.Equal(t, ExcludeTooLarge, got)
}

func TestClassifyBinaryToggle(t *testing.T) {
	root := t.TempDir()
	content := append([]byte("ELF"), 0, 1, 2, 0)

	disallow := &Config{MaxFileSizeMB: 10}
	cl := NewClassifier(disallow, nil)
	c := candidateFor(t, root, "prog.py", content)
	got, err := cl.Classify(c)
	require.NoError(t, err)
	assert.Equal(t, ExcludeBinary, got)

	allow := &Config{MaxFileSizeMB: 10, IncludeBinary: true}
	cl = NewClassifier(allow, nil)
	got, err = cl.Classify(c)
	require.NoError(t, err)
	assert.Equal(t, IncludeBinary, got)
}

func TestClassifyDetectorIsPluggable(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{MaxFileSizeMB: 10}
	alwaysBinary := func([]byte) bool { return true }
	cl := NewClassifier(cfg, alwaysBinary)

	c := candidateFor(t, root, "plain.py", []byte("print('hi')\n"))
	got, err := cl.Classify(c)
	require.NoError(t, err)
	assert.Equal(t, ExcludeBinary, got)
}

func TestClassifyReadErrorPropagates(t *testing.T) {
	cfg := &Config{MaxFileSizeMB: 10}
	cl := NewClassifier(cfg, nil)

	c := Candidate{RelPath: "gone.py", AbsPath: filepath.Join(t.TempDir(), "gone.py"), Ext: ".py"}
	_, err := cl.Classify(c)
	assert.Error(t, err)
}

func TestDefaultBinaryDetector(t *testing.T) {
	tests := []struct {
		name   string
		sample []byte
		want   bool
	}{
		{"plain ascii", []byte("hello world\n"), false},
		{"valid utf-8", []byte("héllo wörld ✓"), false},
		{"empty", nil, false},
		{"null byte", []byte{'a', 0, 'b'}, true},
		{"invalid utf-8", []byte{0xff, 0xfe, 'a'}, true},
		{"rune split at sample boundary", append(bytes.Repeat([]byte("a"), binarySampleSize-1), 0xe2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultBinaryDetector(tt.sample))
		})
	}
}

func TestClassifySamplesPrefixOnly(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{MaxFileSizeMB: 10}
	cl := NewClassifier(cfg, nil)

	// A null byte past the sampled prefix is never seen by the detector.
	content := append(bytes.Repeat([]byte("t"), binarySampleSize), 0)
	c := candidateFor(t, root, "tail-null.py", content)
	got, err := cl.Classify(c)
	require.NoError(t, err)
	assert.Equal(t, IncludeText, got)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "include-as-text", IncludeText.String())
	assert.Equal(t, "include-as-binary", IncludeBinary.String())
	assert.Equal(t, "exclude-skip-list", ExcludeSkipList.String())
	assert.Equal(t, "exclude-too-large", ExcludeTooLarge.String())
	assert.Equal(t, "exclude-extension", ExcludeExtension.String())
	assert.Equal(t, "exclude-binary-disallowed", ExcludeBinary.String())
	assert.True(t, IncludeText.Included())
	assert.True(t, IncludeBinary.Included())
	assert.False(t, ExcludeTooLarge.Included())
}
