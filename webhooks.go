package webhooks

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/swhkit/webhooks/catalog"
	"github.com/swhkit/webhooks/endpoint"
	"github.com/swhkit/webhooks/history"
	"github.com/swhkit/webhooks/id"
	"github.com/swhkit/webhooks/svix"
)

// Webhooks is the root client for managing webhook event types, endpoints,
// event dispatch and delivery history on the delivery service.
type Webhooks struct {
	config       Config
	configFile   string
	retentionSet bool
	client       svix.Client
	catalog      *catalog.Service
	endpoints    *endpoint.Service
	history      *history.Reader
	logger       *slog.Logger
}

// SentMessage identifies an event accepted by the delivery service.
type SentMessage struct {
	// ID is the delivery service's message identifier.
	ID string

	// Timestamp is when the message was accepted.
	Timestamp time.Time
}

// New creates a new Webhooks client with the given options.
//
// Unless a client is injected with WithClient, the delivery service URL and
// auth token must be supplied through options, a configuration file given via
// WithConfigFile, or the file named by the SWH_CONFIG_FILENAME environment
// variable.
func New(opts ...Option) (*Webhooks, error) {
	w := &Webhooks{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if err := loadConfigFile(&w.config, w.configFile, w.retentionSet); err != nil {
		return nil, err
	}
	if w.client == nil {
		if w.config.ServerURL == "" {
			return nil, ErrMissingServerURL
		}
		if w.config.AuthToken == "" {
			return nil, ErrMissingAuthToken
		}
		w.client = svix.NewHTTPClient(w.config.ServerURL, w.config.AuthToken,
			svix.WithLogger(w.logger))
	}
	w.wireServices()
	return w, nil
}

// Config returns the effective configuration after options and the
// configuration file have been merged.
func (w *Webhooks) Config() Config {
	return w.config
}

// wireServices initializes the internal services after options have been applied.
func (w *Webhooks) wireServices() {
	w.catalog = catalog.NewService(w.client, w.logger)
	w.endpoints = endpoint.NewService(w.client, w.catalog, w.logger)
	w.history = history.NewReader(w.client, w.endpoints, w.logger)
}

// EventTypeCreate registers a webhook event type, or updates it if a type
// with the same name already exists. Creating an event type whose name was
// previously deleted revives it with the new definition.
func (w *Webhooks) EventTypeCreate(ctx context.Context, et catalog.EventType) error {
	return w.catalog.CreateOrUpdate(ctx, et)
}

// EventTypeGet returns the registered event type with the given name.
func (w *Webhooks) EventTypeGet(ctx context.Context, name string) (*catalog.EventType, error) {
	return w.catalog.Get(ctx, name)
}

// EventTypesList returns all active registered event types, sorted by name.
func (w *Webhooks) EventTypesList(ctx context.Context) ([]catalog.EventType, error) {
	return w.catalog.List(ctx)
}

// EventTypeDelete removes an event type from the registry. The type is
// archived rather than erased, so its name stays reserved and a later
// EventTypeCreate with the same name revives it.
func (w *Webhooks) EventTypeDelete(ctx context.Context, name string) error {
	return w.catalog.Delete(ctx, name)
}

// EndpointCreate registers an endpoint to receive events of its event type.
// Creating an endpoint that already exists is a no-op.
func (w *Webhooks) EndpointCreate(ctx context.Context, ep endpoint.Endpoint) error {
	return w.endpoints.Create(ctx, ep)
}

// EndpointsList lazily yields the endpoints receiving events of the given
// type. See endpoint.ListOptions for channel filtering, ordering and limit.
func (w *Webhooks) EndpointsList(ctx context.Context, eventTypeName string, opts endpoint.ListOptions) iter.Seq2[endpoint.Endpoint, error] {
	return w.endpoints.List(ctx, eventTypeName, opts)
}

// EndpointGetSecret returns the secret used to sign deliveries to the
// endpoint. Receivers use it with signature.Verify to authenticate payloads.
func (w *Webhooks) EndpointGetSecret(ctx context.Context, ep endpoint.Endpoint) (string, error) {
	return w.endpoints.GetSecret(ctx, ep)
}

// EndpointDelete unregisters an endpoint.
func (w *Webhooks) EndpointDelete(ctx context.Context, ep endpoint.Endpoint) error {
	return w.endpoints.Delete(ctx, ep)
}

// EventSend validates the payload against the event type's schema and hands
// the event to the delivery service for fan-out. If channel is non-empty
// only endpoints subscribed to that channel receive the event; endpoints
// without a channel receive every event of their type regardless.
//
// Returns nil without error when no endpoint matched the event, since the
// delivery service has nothing to record in that case.
func (w *Webhooks) EventSend(ctx context.Context, eventTypeName string, payload any, channel string) (*SentMessage, error) {
	et, err := w.catalog.Get(ctx, eventTypeName)
	if err != nil {
		return nil, err
	}
	if err := w.catalog.ValidatePayload(et, payload); err != nil {
		return nil, err
	}

	msg := svix.MessageIn{
		EventType:              eventTypeName,
		Payload:                payload,
		PayloadRetentionPeriod: w.config.EventRetentionPeriod,
	}
	if channel != "" {
		msg.Channels = []string{id.ChannelToken(channel)}
	}

	out, err := w.client.MessageCreate(ctx, id.AppUID(eventTypeName), msg)
	if err != nil {
		if svix.CodeIs(err, svix.CodeNoSubscribers) {
			w.logger.DebugContext(ctx, "no endpoints matched event",
				"event_type", eventTypeName, "channel", channel)
			return nil, nil
		}
		return nil, err
	}
	return &SentMessage{ID: out.ID, Timestamp: out.Timestamp}, nil
}

// SentEventsList lazily yields the events delivered to an endpoint,
// optionally bounded to a time window, including the exact headers and
// signature each delivery carried.
func (w *Webhooks) SentEventsList(ctx context.Context, ep endpoint.Endpoint, window history.Window) iter.Seq2[history.SentEvent, error] {
	return w.history.List(ctx, ep, window)
}
