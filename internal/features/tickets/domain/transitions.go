package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned by a TransitionPolicy that refuses a change.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionPolicy decides whether a ticket may move between two valid statuses.
type TransitionPolicy interface {
	Allow(from, to Status) error
}

// Permissive lets staff set any status from any status.
type Permissive struct{}

// Allow implements TransitionPolicy.
func (Permissive) Allow(_, _ Status) error { return nil }

// Strict only moves forward along the repair path. Rejected is reachable
// from received and diagnosing, and terminal statuses are final.
type Strict struct{}

// Allow implements TransitionPolicy.
func (Strict) Allow(from, to Status) error {
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	}
	if to == StatusRejected {
		if from == StatusReceived || from == StatusDiagnosing {
			return nil
		}
		return fmt.Errorf("%w: %s cannot be rejected", ErrInvalidTransition, from)
	}
	if to.Info().Step <= from.Info().Step {
		return fmt.Errorf("%w: %s to %s goes backwards", ErrInvalidTransition, from, to)
	}
	return nil
}

// PolicyFor returns Strict when strict is set and Permissive otherwise.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return Strict{}
	}
	return Permissive{}
}
