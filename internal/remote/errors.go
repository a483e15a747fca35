package remote

import "fmt"

// ServerError is a non-2xx response from the backend. Message carries the
// server-supplied reason when the body had one.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}
