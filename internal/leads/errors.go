package leads

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLeadNotFound is returned when a lead is not found
var ErrLeadNotFound = errors.New("lead not found")

// ErrNotificationSkipped is returned by a Notifier that accepted the lead
// but delivered nothing, such as a log-only sender.
var ErrNotificationSkipped = errors.New("leads: notification not delivered")

// ValidationError names the form fields that were missing or invalid.
// Nothing has been written when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "leads: missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// Has reports whether field is among the rejected fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// PersistenceError wraps a failed insert. Callers may retry the submission.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("leads: persist failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
