// Package endpoint manages webhook subscriber endpoints: the URLs
// registered to receive events of one type, optionally scoped to a channel.
package endpoint

import (
	"errors"

	"github.com/swhkit/webhooks/id"
)

// ErrNotFound is returned when an endpoint, or the event type it belongs
// to, is unknown.
var ErrNotFound = errors.New("webhooks: endpoint not found")

// EventTypeHeader is the custom header carrying the event type name on
// every webhook POST request.
const EventTypeHeader = "X-Swh-Event"

// Endpoint is a webhook subscriber endpoint.
type Endpoint struct {
	// URL of the endpoint receiving webhook messages.
	URL string `json:"url"`

	// EventTypeName is the type of event the endpoint receives.
	EventTypeName string `json:"event_type_name"`

	// Channel optionally restricts the endpoint to messages sent to that
	// channel. Channels are an extra filtering dimension orthogonal to
	// event types; an endpoint without one receives all messages of its
	// type. Empty means no channel.
	Channel string `json:"channel,omitempty"`

	// Metadata holds user-defined key-value pairs attached to the endpoint.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// UID returns the endpoint's unique identifier, derived from the
// (event type, url, channel) triple. Two endpoints differing only in
// metadata collide.
func (e Endpoint) UID() string {
	return id.EndpointUID(e.EventTypeName, e.URL, e.Channel)
}

// ListOptions configures endpoint listing.
type ListOptions struct {
	// Channel filters the listing: endpoints subscribed to this channel
	// plus every endpoint without a channel. When empty, only endpoints
	// without a channel are listed.
	Channel string

	// Ascending lists endpoints in creation order instead of the default
	// newest-first order.
	Ascending bool

	// Limit caps the number of yielded endpoints. Zero means no limit.
	Limit int
}
