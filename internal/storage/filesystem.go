package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const fileExt = ".json"

// Compile-time check that FileSystem implements Storage.
var _ Storage = (*FileSystem)(nil)

// FileSystem implements Storage on the local filesystem.
// Documents are stored at <basePath>/<name>.json.
type FileSystem struct {
	basePath string
}

// NewFileSystem creates a FileSystem storage rooted at basePath.
func NewFileSystem(basePath string) *FileSystem {
	return &FileSystem{basePath: basePath}
}

func (fsys *FileSystem) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(fsys.basePath, name+fileExt), nil
}

// Store writes data to disk with an atomic temp file + rename, so readers
// never see a partially written document.
func (fsys *FileSystem) Store(name string, data io.Reader) (int64, error) {
	dst, err := fsys.path(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(fsys.basePath, 0755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", fsys.basePath, err)
	}

	tmp, err := os.CreateTemp(fsys.basePath, "."+name+"-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, data)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}
	tmpPath = ""

	return n, nil
}

// Retrieve opens the stored document.
func (fsys *FileSystem) Retrieve(name string) (io.ReadCloser, error) {
	path, err := fsys.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	return f, nil
}

// Delete removes the document. Deleting a missing document returns
// ErrNotFound.
func (fsys *FileSystem) Delete(name string) error {
	path, err := fsys.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("removing file %s: %w", path, err)
	}
	return nil
}

// Exists checks whether the document exists on disk.
func (fsys *FileSystem) Exists(name string) (bool, error) {
	path, err := fsys.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking file %s: %w", path, err)
}

// List returns the names of all stored documents. A missing base
// directory is an empty store.
func (fsys *FileSystem) List() ([]string, error) {
	entries, err := os.ReadDir(fsys.basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", fsys.basePath, err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), fileExt)
		if !ok || ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
