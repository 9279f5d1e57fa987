package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Folders served by the download endpoint
const (
	FolderUploads    = "uploads"
	FolderCompressed = "compressed"
)

// localStorage stores originals and derivatives on the local filesystem
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// EnsureDir creates every directory in dirs if it does not exist
func (s *localStorage) EnsureDir(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Save copies r into dir/name and returns the written path and byte count.
// A partially written file is removed on failure.
func (s *localStorage) Save(dir, name string, r io.Reader) (string, int64, error) {
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	sw := NewSizeWriter()
	if _, err := io.Copy(f, io.TeeReader(r, sw)); err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to close file: %w", err)
	}

	return path, sw.Size(), nil
}

// Remove deletes the file at path. A missing file is not an error.
func (s *localStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// OpenFile opens a stored file under one of the served folders.
// Unknown folders and names with path components report os.ErrNotExist.
func (s *localStorage) OpenFile(folder, name string) (*os.File, error) {
	if folder != FolderUploads && folder != FolderCompressed {
		return nil, os.ErrNotExist
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.basePath, folder, name))
}
