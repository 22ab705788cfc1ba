package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrConflict              = errors.New("conflict")
)

// RejectionError carries a constraint engine rejection back to the caller.
// It unwraps to the fantasy sentinel matching the reason code.
type RejectionError struct {
	Decision fantasy.Decision
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("rejected %s: %s", e.Decision.Reason, e.Decision.Message)
}

func (e *RejectionError) Unwrap() error {
	return e.Decision.Reason.Sentinel()
}

func rejection(decision fantasy.Decision) error {
	return &RejectionError{Decision: decision}
}

// AsRejection returns the engine decision wrapped in err, if any.
func AsRejection(err error) (fantasy.Decision, bool) {
	var rejected *RejectionError
	if errors.As(err, &rejected) {
		return rejected.Decision, true
	}
	return fantasy.Decision{}, false
}
