// Package catalog manages webhook event type definitions: validated,
// schema-backed categories of notification registered with the delivery
// service.
package catalog

import (
	"errors"
	"regexp"
)

// Sentinel errors returned by catalog operations.
var (
	// ErrNotFound is returned when an event type is unknown or archived.
	ErrNotFound = errors.New("webhooks: event type not found")

	// ErrInvalidName is returned when an event type name is malformed.
	ErrInvalidName = errors.New("webhooks: invalid event type name")

	// ErrInvalidSchema is returned when an event type schema is not a valid
	// JSON Schema document.
	ErrInvalidSchema = errors.New("webhooks: invalid JSON schema")

	// ErrPayloadInvalid is returned when an event payload fails validation
	// against its event type's schema.
	ErrPayloadInvalid = errors.New("webhooks: payload validation failed")
)

// nameRe constrains event type names to the "<group>.<event>" form.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+$`)

// EventType is a webhook event type definition.
type EventType struct {
	// Name of the event type, in the form "<group>.<event>".
	Name string `json:"name"`

	// Description is a human-readable explanation of when this event fires.
	Description string `json:"description"`

	// Schema is the JSON Schema (draft 7) describing the payload sent when
	// the event is triggered.
	Schema map[string]any `json:"schema"`
}

// schemaVersion keys the schema inside the delivery service's versioned
// schema map. Only one version is maintained.
const schemaVersion = "1"
