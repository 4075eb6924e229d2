// Package svix is the client for the delivery service performing the actual
// signed HTTP delivery, retries and attempt-history storage.
//
// The Client interface is the seam between the webhooks control plane and
// the remote service: NewHTTPClient talks to a real server, while
// svixtest.Server provides an in-memory implementation for tests and local
// development.
package svix

import "context"

// Client exposes the delivery service operations the control plane consumes.
// Implementations must be safe for concurrent use.
type Client interface {
	// ApplicationGetOrCreate returns the application with the given uid,
	// creating it first if needed.
	ApplicationGetOrCreate(ctx context.Context, app ApplicationIn) (*ApplicationOut, error)

	// EventTypeCreate registers a new event type. Returns a
	// CodeEventTypeExists error when the name is already registered and not
	// archived; creating an archived name revives it.
	EventTypeCreate(ctx context.Context, et EventTypeIn) (*EventTypeOut, error)

	// EventTypeUpdate replaces the description and schemas of an event type,
	// reviving it if archived.
	EventTypeUpdate(ctx context.Context, name string, et EventTypeUpdate) (*EventTypeOut, error)

	// EventTypeGet returns an event type by name, archived ones included.
	EventTypeGet(ctx context.Context, name string) (*EventTypeOut, error)

	// EventTypeDelete archives an event type.
	EventTypeDelete(ctx context.Context, name string) error

	// EventTypeList returns one page of non-archived event types.
	EventTypeList(ctx context.Context, opts EventTypeListOptions) (ListResponse[EventTypeOut], error)

	// EndpointCreate registers an endpoint under an application. Returns a
	// CodeConflict error when the uid is already taken.
	EndpointCreate(ctx context.Context, appUID string, ep EndpointIn) (*EndpointOut, error)

	// EndpointUpdateHeaders replaces the custom headers sent with every
	// delivery to an endpoint.
	EndpointUpdateHeaders(ctx context.Context, appUID, endpointUID string, headers map[string]string) error

	// EndpointList returns one page of an application's endpoints in
	// creation order, direction per opts.Order.
	EndpointList(ctx context.Context, appUID string, opts EndpointListOptions) (ListResponse[EndpointOut], error)

	// EndpointGetSecret returns the signing secret of an endpoint.
	EndpointGetSecret(ctx context.Context, appUID, endpointUID string) (string, error)

	// EndpointDelete removes an endpoint.
	EndpointDelete(ctx context.Context, appUID, endpointUID string) error

	// MessageCreate submits a message for fan-out delivery. Returns a
	// CodeNoSubscribers error when no endpoint matches the message.
	MessageCreate(ctx context.Context, appUID string, msg MessageIn) (*MessageOut, error)

	// AttemptedMessageList returns one page of the messages addressed to an
	// endpoint within the options' time window.
	AttemptedMessageList(ctx context.Context, appUID, endpointUID string, opts AttemptListOptions) (ListResponse[EndpointMessageOut], error)

	// AttemptList returns one page of the delivery attempts made against an
	// endpoint within the options' time window.
	AttemptList(ctx context.Context, appUID, endpointUID string, opts AttemptListOptions) (ListResponse[MessageAttemptOut], error)
}
