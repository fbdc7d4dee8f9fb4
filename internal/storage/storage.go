package storage

import (
	"errors"
	"fmt"
	"io"
	"regexp"
)

var (
	// ErrNotFound is returned when no dataset file exists under a name.
	ErrNotFound = errors.New("dataset not found")
	// ErrInvalidName is returned for names outside [A-Za-z0-9_-].
	ErrInvalidName = errors.New("invalid dataset name")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateName checks that name is safe to use as a file name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Storage defines the interface for named dataset documents.
type Storage interface {
	// Store writes the document and returns the number of bytes written.
	Store(name string, data io.Reader) (int64, error)

	// Retrieve returns a ReadCloser for the stored document.
	Retrieve(name string) (io.ReadCloser, error)

	// Delete removes the stored document.
	Delete(name string) error

	// Exists checks whether a document is stored under name.
	Exists(name string) (bool, error)

	// List returns the stored names in lexical order.
	List() ([]string, error)
}
