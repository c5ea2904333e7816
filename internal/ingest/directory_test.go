package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	b := writeFile(t, root, "b.json")
	a := writeFile(t, root, "sub/a.json")
	writeFile(t, root, "sub/raw.pdf")
	writeFile(t, root, "notes.txt")

	paths, stats, err := ScanDirectory(root, false)
	require.NoError(t, err)

	assert.Equal(t, []string{b, a}, paths)
	assert.Equal(t, DirStats{Scanned: 4, Matched: 2}, stats)
}

func TestScanDirectory_SkipsHidden(t *testing.T) {
	root := t.TempDir()
	kept := writeFile(t, root, "a.json")
	writeFile(t, root, ".hidden.json")
	writeFile(t, root, ".cache/b.json")

	paths, stats, err := ScanDirectory(root, true)
	require.NoError(t, err)

	assert.Equal(t, []string{kept}, paths)
	assert.Equal(t, 1, stats.Matched)
}

func TestScanDirectory_EmptyRoot(t *testing.T) {
	_, _, err := ScanDirectory("  ", false)
	assert.Error(t, err)
}
