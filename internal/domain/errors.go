package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLevel is returned for unparsable or out-of-range flood levels.
	ErrInvalidLevel = errors.New("invalid flood level")

	// ErrBusy is returned when a chat send is attempted while another is in flight.
	ErrBusy = errors.New("chat request already in flight")

	// ErrClosed is returned when sending on a closed chat window.
	ErrClosed = errors.New("chat window is closed")

	// ErrEmptyMessage is returned when the trimmed chat input is empty.
	ErrEmptyMessage = errors.New("empty chat message")
)

// TransportError is the single error shape for failed round trips: a non-2xx
// status or a network failure (Status == 0).
type TransportError struct {
	Op      string // endpoint name, e.g. "map", "chat"
	Status  int    // HTTP status, 0 when no response was received
	Message string // server-supplied error text, if any
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%s request: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s request: status %d: %s", e.Op, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s request: status %d: %v", e.Op, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s request: status %d", e.Op, e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Network reports whether the request failed before any response arrived.
func (e *TransportError) Network() bool { return e.Status == 0 }

// BackendError is a 2xx response whose body reports status "error" (or
// otherwise lacks the payload the caller needs).
type BackendError struct {
	Op      string
	Status  Status
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend status %q", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: backend status %q: %s", e.Op, e.Status, e.Message)
}
