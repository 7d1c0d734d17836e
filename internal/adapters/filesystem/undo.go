package filesystem

import (
	"errors"
	"os"

	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// UndoSlot implements ports.UndoSlot as a single JSON file.
// The file existing is what makes the slot non-empty.
type UndoSlot struct {
	path string
}

// Ensure UndoSlot implements ports.UndoSlot
var _ ports.UndoSlot = (*UndoSlot)(nil)

// NewUndoSlot creates an undo slot backed by path
func NewUndoSlot(path string) *UndoSlot {
	return &UndoSlot{path: path}
}

// Path returns the backing file
func (u *UndoSlot) Path() string {
	return u.path
}

// Hold replaces the slot contents with snapshot
func (u *UndoSlot) Hold(snapshot domain.Snapshot) error {
	return writeJSONAtomic(u.path, snapshot)
}

// Peek returns the held snapshot without clearing the slot
func (u *UndoSlot) Peek() (*domain.Snapshot, error) {
	var s domain.Snapshot
	found, err := readJSON(u.path, &s)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

// Take returns the held snapshot and clears the slot
func (u *UndoSlot) Take() (*domain.Snapshot, error) {
	s, err := u.Peek()
	if err != nil || s == nil {
		return s, err
	}
	if err := u.Clear(); err != nil {
		return nil, err
	}
	return s, nil
}

// Clear removes the backing file. Clearing an empty slot is not an error.
func (u *UndoSlot) Clear() error {
	if err := os.Remove(u.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &domain.IOError{Op: "remove", Path: u.path, Err: err}
	}
	return nil
}

// IsEmpty reports whether the backing file is absent
func (u *UndoSlot) IsEmpty() (bool, error) {
	_, err := os.Stat(u.path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, &domain.IOError{Op: "stat", Path: u.path, Err: err}
}
