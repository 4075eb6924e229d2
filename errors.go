package webhooks

import (
	"errors"

	"github.com/swhkit/webhooks/catalog"
	"github.com/swhkit/webhooks/endpoint"
	"github.com/swhkit/webhooks/signature"
)

// Sentinel errors returned by Webhooks operations. The service packages own
// these values; they are re-exported here so callers of the facade can match
// them without importing each package.
var (
	// ErrEventTypeNotFound is returned when an event type is not registered.
	ErrEventTypeNotFound = catalog.ErrNotFound

	// ErrInvalidEventTypeName is returned when an event type name does not
	// follow the <group>.<object> form.
	ErrInvalidEventTypeName = catalog.ErrInvalidName

	// ErrInvalidSchema is returned when an event type schema is not a valid
	// JSON Schema document.
	ErrInvalidSchema = catalog.ErrInvalidSchema

	// ErrPayloadValidationFailed is returned when an event payload fails
	// JSON Schema validation.
	ErrPayloadValidationFailed = catalog.ErrPayloadInvalid

	// ErrEndpointNotFound is returned when an endpoint cannot be found.
	ErrEndpointNotFound = endpoint.ErrNotFound

	// ErrVerificationFailed is returned when a webhook signature does not
	// verify against the endpoint secret.
	ErrVerificationFailed = signature.ErrVerificationFailed

	// ErrMissingServerURL is returned when no delivery service URL is
	// configured.
	ErrMissingServerURL = errors.New("webhooks: server URL is required")

	// ErrMissingAuthToken is returned when no delivery service auth token is
	// configured.
	ErrMissingAuthToken = errors.New("webhooks: auth token is required")
)
