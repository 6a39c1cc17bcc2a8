package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFileType(t *testing.T) {
	for _, name := range []string{"a.csv", "A.CSV", "statement.Txt", "dir/x.csv"} {
		assert.NoError(t, CheckFileType(name), name)
	}
	for _, name := range []string{"a.pdf", "a.xlsx", "csv", "a.csv.bak", ""} {
		assert.ErrorIs(t, CheckFileType(name), ErrUnsupportedFileType, name)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, importDir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "processed"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), []byte("a,b,c\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feb.TXT"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("x"), 0o644))

	files, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	// os.ReadDir sorts by name.
	assert.Equal(t, "feb.TXT", files[0].Name)
	assert.Equal(t, "jan.csv", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "jan.csv"), files[1].Path)
	assert.Equal(t, int64(6), files[1].Size)
}

func TestScan_NoDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMarkProcessed(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, importDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), []byte("x"), 0o644))

	require.NoError(t, MarkProcessed(root, "jan.csv"))

	_, err := os.Stat(filepath.Join(dir, "jan.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, processedDir, "jan.csv"))
	assert.NoError(t, err)

	files, err := Scan(root)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMarkProcessed_Missing(t *testing.T) {
	err := MarkProcessed(t.TempDir(), "nope.csv")
	assert.ErrorContains(t, err, "moving nope.csv to processed")
}
