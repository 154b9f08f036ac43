package game

import (
	"errors"
	"fmt"

	"github.com/quizwire/server/internal/models"
)

// Validation failures raised before any state is touched.
var (
	ErrNoBoard      = errors.New("no board loaded")
	ErrBadIndex     = errors.New("prompt index out of range")
	ErrCellConsumed = errors.New("prompt already consumed")
)

// InvalidTransitionError reports an action fired from a phase whose
// legal-action set does not include it. The room is left untouched.
type InvalidTransitionError struct {
	Phase  models.Phase
	Action ActionKind
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot perform %q from phase %q", e.Action, e.Phase)
}

// IsInvalidTransition reports whether err is an illegal-transition
// rejection.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
