package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable means the database location could not be created or opened.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotInitialized means an operation ran before Open succeeded.
	ErrNotInitialized = errors.New("store not initialized")
	// ErrAlreadyOpen means Open was called on an open store.
	ErrAlreadyOpen = errors.New("store already open")
	// ErrDuplicateKey means an insert would violate a uniqueness constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrReferenceNotFound means a referenced file, tag, category or value does not exist.
	ErrReferenceNotFound = errors.New("reference not found")
)

// IsFatal reports whether err means the store itself is unusable, as opposed
// to a failure scoped to one entity.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNotInitialized) || errors.Is(err, ErrStoreUnavailable)
}

func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w", ErrReferenceNotFound, err)
	default:
		return err
	}
}

func referenceNotFound(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrReferenceNotFound, kind, name)
}
