package history

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"strconv"

	"github.com/swhkit/webhooks/endpoint"
	"github.com/swhkit/webhooks/id"
	"github.com/swhkit/webhooks/signature"
	"github.com/swhkit/webhooks/svix"
)

// Reader reconstructs delivery history for endpoints.
type Reader struct {
	client    svix.Client
	endpoints *endpoint.Service
	logger    *slog.Logger
}

// NewReader creates a history reader.
func NewReader(client svix.Client, endpoints *endpoint.Service, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		client:    client,
		endpoints: endpoints,
		logger:    logger,
	}
}

// messageRecord is the per-message side of the attempt join.
type messageRecord struct {
	payload  map[string]any
	channels []string
}

// List lazily yields the events sent to an endpoint within the window,
// in the delivery service's attempt order.
//
// Two passes against the service: first the messages addressed to the
// endpoint are indexed by id, then each delivery attempt is joined against
// that index to recover the original payload and recompute the signed
// header set the request carried.
func (r *Reader) List(ctx context.Context, ep endpoint.Endpoint, window Window) iter.Seq2[SentEvent, error] {
	return func(yield func(SentEvent, error) bool) {
		// A missing secret implies the endpoint itself is unknown.
		secret, err := r.endpoints.GetSecret(ctx, ep)
		if err != nil {
			yield(SentEvent{}, err)
			return
		}

		appUID := id.AppUID(ep.EventTypeName)
		endpointUID := ep.UID()
		opts := func(iterator string) svix.AttemptListOptions {
			return svix.AttemptListOptions{
				Iterator: iterator,
				Before:   window.Before,
				After:    window.After,
			}
		}

		messages := make(map[string]messageRecord)
		messagePages := func(ctx context.Context, iterator string) (svix.ListResponse[svix.EndpointMessageOut], error) {
			return r.client.AttemptedMessageList(ctx, appUID, endpointUID, opts(iterator))
		}
		for msg, err := range svix.Iterate(ctx, messagePages) {
			if err != nil {
				yield(SentEvent{}, err)
				return
			}
			messages[msg.ID] = messageRecord{payload: msg.Payload, channels: msg.Channels}
		}

		attemptPages := func(ctx context.Context, iterator string) (svix.ListResponse[svix.MessageAttemptOut], error) {
			return r.client.AttemptList(ctx, appUID, endpointUID, opts(iterator))
		}
		for attempt, err := range svix.Iterate(ctx, attemptPages) {
			if err != nil {
				yield(SentEvent{}, err)
				return
			}

			record, ok := messages[attempt.MsgID]
			if !ok {
				// An attempt whose message fell outside the index (e.g.
				// expired retention) still yields, with an empty payload.
				r.logger.DebugContext(ctx, "attempt without indexed message", "msg_id", attempt.MsgID)
			}
			payload := record.payload
			if payload == nil {
				payload = map[string]any{}
			}

			event, err := r.buildSentEvent(ep, secret, attempt, payload, record.channels)
			if err != nil {
				yield(SentEvent{}, err)
				return
			}
			if !yield(*event, nil) {
				return
			}
		}
	}
}

// buildSentEvent recomputes the exact header set the delivery service sent
// with the attempt, signing the body with the endpoint secret.
func (r *Reader) buildSentEvent(ep endpoint.Endpoint, secret string, attempt svix.MessageAttemptOut, payload map[string]any, channels []string) (*SentEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	sig, err := signature.Sign(secret, attempt.MsgID, attempt.Timestamp, body)
	if err != nil {
		return nil, err
	}

	channel := ""
	if len(channels) > 0 {
		channel = ep.Channel
	}

	return &SentEvent{
		EventTypeName: ep.EventTypeName,
		EndpointURL:   attempt.URL,
		Channel:       channel,
		Headers: map[string]string{
			"Content-Length":         strconv.Itoa(len(body)),
			"Content-Type":           "application/json",
			"Webhook-Id":             attempt.MsgID,
			"Webhook-Timestamp":      strconv.FormatInt(attempt.Timestamp.Unix(), 10),
			"Webhook-Signature":      sig,
			endpoint.EventTypeHeader: ep.EventTypeName,
		},
		MsgID:              attempt.MsgID,
		Payload:            payload,
		Timestamp:          attempt.Timestamp,
		Response:           attempt.Response,
		ResponseStatusCode: attempt.ResponseStatusCode,
	}, nil
}
