package endpoint

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/swhkit/webhooks/catalog"
	"github.com/swhkit/webhooks/id"
	"github.com/swhkit/webhooks/svix"
)

// Service provides endpoint management operations over the delivery
// service, scoped per event type through the catalog.
type Service struct {
	client  svix.Client
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewService creates an endpoint service.
func NewService(client svix.Client, cat *catalog.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:  client,
		catalog: cat,
		logger:  logger,
	}
}

// Create registers an endpoint to receive webhook messages. The operation
// is idempotent: re-creating the same (event type, url, channel) triple is
// a no-op. The event type custom header is (re-)set even on the idempotent
// path so repeated calls keep it fresh.
func (svc *Service) Create(ctx context.Context, ep Endpoint) error {
	if _, err := svc.catalog.Get(ctx, ep.EventTypeName); err != nil {
		return err
	}

	appUID := id.AppUID(ep.EventTypeName)
	endpointUID := ep.UID()

	// Channel names are arbitrary strings but the delivery service
	// restricts channel charset and length, so endpoints subscribe to a
	// derived token and the original name is kept in metadata for reverse
	// lookup.
	metadata := cloneMap(ep.Metadata)
	var channels []string
	if ep.Channel != "" {
		token := id.ChannelToken(ep.Channel)
		metadata[token] = ep.Channel
		channels = []string{token}
	}

	_, err := svc.client.EndpointCreate(ctx, appUID, svix.EndpointIn{
		URL:         ep.URL,
		UID:         endpointUID,
		Version:     1,
		FilterTypes: []string{ep.EventTypeName},
		Channels:    channels,
		Metadata:    metadata,
	})
	if err != nil && !svix.CodeIs(err, svix.CodeConflict) {
		return err
	}

	return svc.client.EndpointUpdateHeaders(ctx, appUID, endpointUID, map[string]string{
		EventTypeHeader: ep.EventTypeName,
	})
}

// List lazily yields the endpoints receiving messages for an event type,
// newest first unless opts.Ascending is set. Endpoints without a channel
// always pass the channel filter; a channel-scoped endpoint is only listed
// when opts.Channel matches its channel. Pagination stops as soon as
// opts.Limit endpoints have been yielded.
func (svc *Service) List(ctx context.Context, eventTypeName string, opts ListOptions) iter.Seq2[Endpoint, error] {
	return func(yield func(Endpoint, error) bool) {
		if _, err := svc.catalog.Get(ctx, eventTypeName); err != nil {
			yield(Endpoint{}, err)
			return
		}

		order := svix.OrderingDescending
		if opts.Ascending {
			order = svix.OrderingAscending
		}
		appUID := id.AppUID(eventTypeName)
		pageFn := func(ctx context.Context, iterator string) (svix.ListResponse[svix.EndpointOut], error) {
			return svc.client.EndpointList(ctx, appUID, svix.EndpointListOptions{
				Iterator: iterator,
				Order:    order,
			})
		}

		listed := 0
		for out, err := range svix.Iterate(ctx, pageFn) {
			if err != nil {
				yield(Endpoint{}, err)
				return
			}
			if !slices.Contains(out.FilterTypes, eventTypeName) {
				continue
			}

			// Recover the original channel name from its metadata token.
			metadata := cloneMap(out.Metadata)
			channel := ""
			if len(out.Channels) > 0 {
				token := out.Channels[0]
				channel = metadata[token]
				delete(metadata, token)
			}

			if channel != "" && channel != opts.Channel {
				continue
			}

			ep := Endpoint{
				URL:           out.URL,
				EventTypeName: eventTypeName,
				Channel:       channel,
				Metadata:      metadata,
			}
			if !yield(ep, nil) {
				return
			}
			listed++
			if opts.Limit > 0 && listed == opts.Limit {
				return
			}
		}
	}
}

// GetSecret returns the signing secret of an endpoint, used to verify
// webhook signatures.
func (svc *Service) GetSecret(ctx context.Context, ep Endpoint) (string, error) {
	secret, err := svc.client.EndpointGetSecret(ctx, id.AppUID(ep.EventTypeName), ep.UID())
	if svix.CodeIs(err, svix.CodeNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, describe(ep))
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Delete removes an endpoint.
func (svc *Service) Delete(ctx context.Context, ep Endpoint) error {
	if _, err := svc.catalog.Get(ctx, ep.EventTypeName); err != nil {
		return err
	}

	err := svc.client.EndpointDelete(ctx, id.AppUID(ep.EventTypeName), ep.UID())
	if svix.CodeIs(err, svix.CodeNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, describe(ep))
	}
	return err
}

func describe(ep Endpoint) string {
	if ep.Channel != "" {
		return fmt.Sprintf("endpoint %s for event type %s on channel %s does not exist",
			ep.URL, ep.EventTypeName, ep.Channel)
	}
	return fmt.Sprintf("endpoint %s for event type %s does not exist", ep.URL, ep.EventTypeName)
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
