package svix

import (
	"errors"
	"fmt"
)

// Known error codes returned by the delivery service. Anything else is an
// unexpected remote failure the caller should surface verbatim.
const (
	// CodeNotFound signals an unknown application, event type or endpoint.
	CodeNotFound = "not_found"

	// CodeConflict signals that an entity with the same uid already exists.
	CodeConflict = "conflict"

	// CodeEventTypeExists signals that an event type name is already taken.
	CodeEventTypeExists = "event_type_exists"

	// CodeNoSubscribers signals that a message was addressed to zero
	// endpoints. Not an error condition for senders.
	CodeNoSubscribers = "no_subscribers"
)

// Error is a failure reported by the delivery service. Code and Detail carry
// the remote error verbatim for diagnostics.
type Error struct {
	Code   string
	Detail string
	Status int
}

func (e *Error) Error() string {
	return fmt.Sprintf("svix: server returned error %q with detail %q", e.Code, e.Detail)
}

// CodeIs reports whether err is a delivery service error with the given code.
func CodeIs(err error, code string) bool {
	var svixErr *Error
	return errors.As(err, &svixErr) && svixErr.Code == code
}
