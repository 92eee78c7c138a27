package holdem

import (
	"errors"
	"fmt"
)

// ErrHandComplete is returned for player actions issued after the hand
// has ended; callers should start the next hand instead.
var ErrHandComplete = errors.New("hand complete, start the next hand to continue")

// InvalidActionError reports an action that is not available in the
// current table state.
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
	var invalid *InvalidActionError
	return errors.As(err, &invalid)
}
