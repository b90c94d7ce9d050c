package orchestrator

import "github.com/archcanvas/archcanvas/internal/domain"

// InvalidIntentError is returned when an intent is missing a payload
// field its verb requires, e.g. AddNode without PositionSet.
type InvalidIntentError struct {
	Reason string
}

func (e *InvalidIntentError) Error() string {
	return "orchestrator: invalid intent: " + e.Reason
}

// isHarmless reports whether err is one of the taxonomy members the
// Orchestrator downgrades to a logged warning instead of surfacing: a
// concurrent-delete miss (*domain.NotFoundError) or a move to the
// node's current parent (*domain.AlreadyContainsError). The render
// still runs either way.
func isHarmless(err error) bool {
	switch err.(type) {
	case *domain.NotFoundError, *domain.AlreadyContainsError:
		return true
	default:
		return false
	}
}
