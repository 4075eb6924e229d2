package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/swhkit/webhooks/id"
	"github.com/swhkit/webhooks/svix"
)

// Service is the event type registry, backed by the delivery service.
type Service struct {
	client    svix.Client
	validator *Validator
	logger    *slog.Logger
}

// NewService creates a catalog service over the given delivery service
// client.
func NewService(client svix.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:    client,
		validator: NewValidator(),
		logger:    logger,
	}
}

// CreateOrUpdate registers an event type, or updates its description and
// schema in place when the name is already registered. Re-creating an
// archived event type revives it. As a side effect the backing application
// for the event type is allocated (idempotently).
func (s *Service) CreateOrUpdate(ctx context.Context, et EventType) error {
	if !nameRe.MatchString(et.Name) {
		return fmt.Errorf("%w: name must be in the form '<group>.<event>', got %q", ErrInvalidName, et.Name)
	}
	if err := s.validator.CheckSchema(et.Schema); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	// One application per event type gathers all endpoints receiving it.
	app := svix.ApplicationIn{Name: et.Name, UID: id.AppUID(et.Name)}
	if _, err := s.client.ApplicationGetOrCreate(ctx, app); err != nil {
		return err
	}

	schemas := map[string]any{schemaVersion: et.Schema}
	_, err := s.client.EventTypeCreate(ctx, svix.EventTypeIn{
		Name:        et.Name,
		Description: et.Description,
		Schemas:     schemas,
	})
	if svix.CodeIs(err, svix.CodeEventTypeExists) {
		_, err = s.client.EventTypeUpdate(ctx, et.Name, svix.EventTypeUpdate{
			Description: et.Description,
			Schemas:     schemas,
		})
	}
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "event type registered", "name", et.Name)
	return nil
}

// Get returns a non-archived event type by name.
func (s *Service) Get(ctx context.Context, name string) (*EventType, error) {
	out, err := s.client.EventTypeGet(ctx, name)
	if svix.CodeIs(err, svix.CodeNotFound) {
		return nil, fmt.Errorf("%w: event type %s does not exist", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	if out.Archived {
		return nil, fmt.Errorf("%w: event type %s is archived", ErrNotFound, name)
	}

	return fromOut(out), nil
}

// List returns all registered, non-archived event types with their schemas.
func (s *Service) List(ctx context.Context) ([]EventType, error) {
	pageFn := func(ctx context.Context, iterator string) (svix.ListResponse[svix.EventTypeOut], error) {
		return s.client.EventTypeList(ctx, svix.EventTypeListOptions{
			Iterator:    iterator,
			WithContent: true,
		})
	}

	var types []EventType
	for out, err := range svix.Iterate(ctx, pageFn) {
		if err != nil {
			return nil, err
		}
		types = append(types, *fromOut(&out))
	}
	return types, nil
}

// Delete archives an event type. It disappears from Get, List and Send but
// can be revived by re-creating it under the same name.
func (s *Service) Delete(ctx context.Context, name string) error {
	err := s.client.EventTypeDelete(ctx, name)
	if svix.CodeIs(err, svix.CodeNotFound) {
		return fmt.Errorf("%w: event type %s does not exist", ErrNotFound, name)
	}
	return err
}

// ValidatePayload checks payload against an event type's schema, wrapping
// violations in ErrPayloadInvalid.
func (s *Service) ValidatePayload(et *EventType, payload any) error {
	if err := s.validator.ValidatePayload(et.Schema, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	return nil
}

func fromOut(out *svix.EventTypeOut) *EventType {
	et := &EventType{
		Name:        out.Name,
		Description: out.Description,
	}
	if schema, ok := out.Schemas[schemaVersion].(map[string]any); ok {
		et.Schema = schema
	}
	return et
}
