package engine

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is returned when a task is absent or owned by another
// user. Completion treats both the same so ownership is never leaked.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError rejects bad input before any ledger state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
