package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrSignInCancelled is returned when the user backs out of the Google consent
// screen. It is not a failure worth logging.
var ErrSignInCancelled = errors.New("sign-in was cancelled")

// DomainError reports a sign-in attempt from an origin the deployment does not
// trust. The message tells an operator how to fix it.
type DomainError struct {
	Origin string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf(
		"origin %q is not authorized for Google sign-in: add it to AUTH_ALLOWED_ORIGINS and to the authorized JavaScript origins of the OAuth client in the Google Cloud console",
		e.Origin,
	)
}

// CheckOrigin accepts any origin when allowed is empty.
func CheckOrigin(allowed []string, origin string) error {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, strings.TrimSuffix(origin, "/")) {
		return nil
	}
	return &DomainError{Origin: origin}
}
