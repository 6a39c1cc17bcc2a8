package backend

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is wrapped into ErrExternalService when the circuit breaker
// rejects a call without contacting the backend.
var ErrCircuitOpen = errors.New("backend circuit open")

// ErrNotFound indicates a backend record does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failed backend call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// statusError is a non-2xx response.
type statusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("supabase %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// StatusCode returns the HTTP status of a failed call, or 0 when err did not
// come from a backend response.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
