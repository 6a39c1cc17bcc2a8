package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace directories for statement files.
const (
	importDir    = "import"
	processedDir = "import/processed"
)

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// CheckFileType accepts names ending in .csv or .txt, in any case.
func CheckFileType(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return nil
	}
	return fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupportedFileType)
}

// Scan returns the statement files in <root>/import/. Files of other types are
// ignored; a missing directory yields no files.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || CheckFileType(e.Name()) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
