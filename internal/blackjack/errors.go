package blackjack

import (
	"errors"
	"fmt"
)

// ErrMissingConfiguration is returned when an action that needs an
// active session is invoked before Configure.
var ErrMissingConfiguration = errors.New("configure blackjack before playing")

// InvalidActionError rejects an operation whose preconditions do not
// hold: wrong phase, out-of-range amount, insufficient bankroll,
// ineligible hand, empty queue. It is always raised before any state
// mutation.
type InvalidActionError struct {
	Reason string
}

func (e *InvalidActionError) Error() string {
	return e.Reason
}

func invalidf(format string, args ...any) error {
	return &InvalidActionError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidAction reports whether err is an InvalidActionError
func IsInvalidAction(err error) bool {
	var iae *InvalidActionError
	return errors.As(err, &iae)
}
