package repository

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task referenced by a write does not exist
	ErrTaskNotFound = errors.New("task not found")
)

// StoreWriteError wraps any failure of a create or batch commit. Nothing of
// the failed write is visible to readers; the caller decides whether to retry.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

func writeError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreWriteError{Op: op, Err: err}
}
