// Package history reconstructs per-endpoint timelines of webhook delivery
// attempts from the delivery service's message and attempt records.
package history

import "time"

// SentEvent is one delivery attempt against an endpoint, joined with the
// original message payload and the exact signed headers of the POST
// request. It is a read-only projection derived at query time, never
// stored.
type SentEvent struct {
	// EventTypeName is the type of the sent event.
	EventTypeName string `json:"event_type_name"`

	// EndpointURL is the URL the attempt targeted.
	EndpointURL string `json:"endpoint_url"`

	// Channel is the endpoint's channel, set only when the message carried
	// channel scoping.
	Channel string `json:"channel,omitempty"`

	// Headers are the HTTP headers sent with the POST request, including
	// the recomputed webhook signature.
	Headers map[string]string `json:"headers"`

	// MsgID is the delivery service's message identifier.
	MsgID string `json:"msg_id"`

	// Payload is the JSON payload sent as the request body.
	Payload map[string]any `json:"payload"`

	// Timestamp is when the request was sent.
	Timestamp time.Time `json:"timestamp"`

	// Response is the body returned by the endpoint.
	Response string `json:"response"`

	// ResponseStatusCode is the HTTP status of the attempt.
	ResponseStatusCode int `json:"response_status_code"`
}

// Window bounds a history query to attempts within [After, Before). A nil
// bound leaves that side open.
type Window struct {
	Before *time.Time
	After  *time.Time
}
