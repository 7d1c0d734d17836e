package domain

import (
	"errors"
	"fmt"
)

// Storage failure classes
var (
	ErrQuotaExceeded    = errors.New("storage quota exceeded")
	ErrNotFound         = errors.New("not found")
	ErrNothingToRestore = errors.New("nothing to restore")
	ErrIO               = errors.New("storage I/O failure")
)

// QuotaError is returned when a write is rejected by the quota guard
type QuotaError struct {
	Decision Decision
}

func (e *QuotaError) Error() string {
	return e.Decision.Message
}

func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// IOError wraps a read, write or parse failure of a persisted artifact
type IOError struct {
	Op   string // "read", "write", "parse", "remove", "stat"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NotFoundError names the snapshot that could not be located
type NotFoundError struct {
	What string // e.g. `title "plan"` or "index 4"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snapshot %s not found", e.What)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
