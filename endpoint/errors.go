package endpoint

import "errors"

// ErrNotFound is returned when no endpoint has the requested id
var ErrNotFound = errors.New("endpoint not found")

// ValidationError reports client input that cannot be registered
type ValidationError struct {
	Field   string
	Message string
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return "endpoint validation: " + e.Field + ": " + e.Message + ": " + e.Details
	}
	return "endpoint validation: " + e.Field + ": " + e.Message
}
