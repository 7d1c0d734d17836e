package application

import (
	"errors"
	"fmt"

	"ideagraph/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrQuotaExceeded    = domain.ErrQuotaExceeded
	ErrNotFound         = domain.ErrNotFound
	ErrNothingToRestore = domain.ErrNothingToRestore
	ErrIO               = domain.ErrIO
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnavailable      = errors.New("assistant unavailable")
	ErrNoIndex          = errors.New("search index unavailable")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConnectError represents a rejected edge between two ideas
type ConnectError struct {
	Source string
	Target string
	Reason string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot connect %s to %s: %s", e.Source, e.Target, e.Reason)
}

func (e *ConnectError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// UserMessage returns the notice shown to a user for err
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQuotaExceeded):
		return err.Error() + ". Delete some idea sets and try again."
	case errors.Is(err, ErrNothingToRestore):
		return "Nothing to restore"
	case errors.Is(err, ErrNotFound):
		return err.Error()
	case errors.Is(err, ErrIO):
		return "Storage error: " + err.Error()
	default:
		return err.Error()
	}
}
