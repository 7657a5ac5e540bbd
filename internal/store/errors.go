package store

import (
	"fmt"
)

// ValidationError rejects an action before any optimistic change is
// applied, so there is nothing to roll back.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
