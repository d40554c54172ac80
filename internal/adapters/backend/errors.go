package backend

import "fmt"

// ErrorKind classifies why a fetch failed. It is logged, never shown to the user.
type ErrorKind string

const (
	KindUnreachable ErrorKind = "unreachable"
	KindStatus      ErrorKind = "status"
	KindMalformed   ErrorKind = "malformed"
)

// ConnectionError is the single user-visible failure of the backend client.
// Message is static and safe to display; Err keeps the underlying cause for logs.
type ConnectionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ConnectionError) Error() string { return e.Message }

func (e *ConnectionError) Unwrap() error { return e.Err }

// Detail describes the cause for logging.
func (e *ConnectionError) Detail() string {
	return fmt.Sprintf("kind=%s cause=%v", e.Kind, e.Err)
}

// UserMessage is the text shown in the error overlay.
func (e *ConnectionError) UserMessage() string { return e.Message }

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}
