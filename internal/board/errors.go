package board

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned for writes attempted without a signed-in user.
	ErrNoSession = errors.New("no active session")

	// ErrForbidden is returned when the actor neither owns the column nor is a lead.
	ErrForbidden = errors.New("not allowed to edit this column")
)

// ValidationError rejects input before any store interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
