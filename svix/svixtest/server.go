// Package svixtest provides an in-memory delivery service for unit testing
// and local development.
//
// The fake honors the same contract as the real server: cursor pagination,
// channel scoping, conflict-tolerant endpoint creation and event type
// archival. Message submission simulates an immediate successful delivery
// to every matching endpoint so that attempt history can be queried right
// after sending.
package svixtest

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.jetify.com/typeid/v2"

	"github.com/swhkit/webhooks/signature"
	"github.com/swhkit/webhooks/svix"
)

const defaultPageSize = 50

// compile-time interface check.
var _ svix.Client = (*Server)(nil)

// Server is an in-memory implementation of svix.Client.
type Server struct {
	mu       sync.RWMutex
	pageSize int

	apps       map[string]*application      // keyed by app uid
	eventTypes map[string]*svix.EventTypeOut // keyed by name
}

type application struct {
	out       svix.ApplicationOut
	endpoints []*endpointRecord // creation order
}

type endpointRecord struct {
	out      svix.EndpointOut
	secret   string
	headers  map[string]string
	messages []svix.EndpointMessageOut // messages addressed to this endpoint
	attempts []svix.MessageAttemptOut  // simulated delivery attempts
}

// Option configures a Server.
type Option func(*Server)

// WithPageSize sets the page size of every listing, letting tests exercise
// multi-page iteration with few entities.
func WithPageSize(n int) Option {
	return func(s *Server) { s.pageSize = n }
}

// New creates an empty in-memory delivery service.
func New(opts ...Option) *Server {
	s := &Server{
		pageSize:   defaultPageSize,
		apps:       make(map[string]*application),
		eventTypes: make(map[string]*svix.EventTypeOut),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID(prefix string) string {
	tid, err := typeid.Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("svixtest: invalid id prefix %q: %v", prefix, err))
	}
	return tid.String()
}

func notFound(detail string) error {
	return &svix.Error{Code: svix.CodeNotFound, Detail: detail, Status: 404}
}

// page slices one page out of items using offset-encoded cursors.
func page[T any](items []T, iterator string, size int) (svix.ListResponse[T], error) {
	start := 0
	if iterator != "" {
		n, err := strconv.Atoi(iterator)
		if err != nil || n < 0 {
			return svix.ListResponse[T]{}, &svix.Error{Code: "validation", Detail: "invalid iterator", Status: 422}
		}
		start = n
	}
	if start > len(items) {
		start = len(items)
	}
	end := min(start+size, len(items))

	return svix.ListResponse[T]{
		Data:     slices.Clone(items[start:end]),
		Iterator: strconv.Itoa(end),
		Done:     end == len(items),
	}, nil
}

func (s *Server) ApplicationGetOrCreate(_ context.Context, app svix.ApplicationIn) (*svix.ApplicationOut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.apps[app.UID]; ok {
		out := existing.out
		return &out, nil
	}

	a := &application{
		out: svix.ApplicationOut{ID: newID("app"), Name: app.Name, UID: app.UID},
	}
	s.apps[app.UID] = a
	out := a.out
	return &out, nil
}

func (s *Server) EventTypeCreate(_ context.Context, et svix.EventTypeIn) (*svix.EventTypeOut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.eventTypes[et.Name]; ok {
		if !existing.Archived {
			return nil, &svix.Error{
				Code:   svix.CodeEventTypeExists,
				Detail: fmt.Sprintf("event type %s already exists", et.Name),
				Status: 409,
			}
		}
		// Re-creating an archived event type revives it.
		existing.Archived = false
		existing.Description = et.Description
		existing.Schemas = et.Schemas
		existing.UpdatedAt = now
		out := *existing
		return &out, nil
	}

	record := &svix.EventTypeOut{
		Name:        et.Name,
		Description: et.Description,
		Schemas:     et.Schemas,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.eventTypes[et.Name] = record
	out := *record
	return &out, nil
}

func (s *Server) EventTypeUpdate(_ context.Context, name string, et svix.EventTypeUpdate) (*svix.EventTypeOut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.eventTypes[name]
	if !ok {
		return nil, notFound(fmt.Sprintf("event type %s not found", name))
	}
	existing.Description = et.Description
	existing.Schemas = et.Schemas
	existing.Archived = false
	existing.UpdatedAt = time.Now().UTC()
	out := *existing
	return &out, nil
}

func (s *Server) EventTypeGet(_ context.Context, name string) (*svix.EventTypeOut, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	et, ok := s.eventTypes[name]
	if !ok {
		return nil, notFound(fmt.Sprintf("event type %s not found", name))
	}
	out := *et
	return &out, nil
}

func (s *Server) EventTypeDelete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	et, ok := s.eventTypes[name]
	if !ok || et.Archived {
		return notFound(fmt.Sprintf("event type %s not found", name))
	}
	et.Archived = true
	et.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Server) EventTypeList(_ context.Context, opts svix.EventTypeListOptions) (svix.ListResponse[svix.EventTypeOut], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]svix.EventTypeOut, 0, len(s.eventTypes))
	for _, et := range s.eventTypes {
		if et.Archived && !opts.IncludeArchived {
			continue
		}
		out := *et
		if !opts.WithContent {
			out.Schemas = nil
		}
		all = append(all, out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	return page(all, opts.Iterator, s.pageSize)
}

func (s *Server) EndpointCreate(_ context.Context, appUID string, ep svix.EndpointIn) (*svix.EndpointOut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[appUID]
	if !ok {
		return nil, notFound(fmt.Sprintf("application %s not found", appUID))
	}

	for _, existing := range app.endpoints {
		if existing.out.UID == ep.UID {
			return nil, &svix.Error{
				Code:   svix.CodeConflict,
				Detail: fmt.Sprintf("endpoint %s already exists", ep.UID),
				Status: 409,
			}
		}
	}

	record := &endpointRecord{
		out: svix.EndpointOut{
			ID:          newID("ep"),
			UID:         ep.UID,
			URL:         ep.URL,
			FilterTypes: slices.Clone(ep.FilterTypes),
			Channels:    slices.Clone(ep.Channels),
			Metadata:    cloneMap(ep.Metadata),
			CreatedAt:   time.Now().UTC(),
		},
		secret:  signature.GenerateSecret(),
		headers: make(map[string]string),
	}
	app.endpoints = append(app.endpoints, record)

	out := record.out
	out.Metadata = cloneMap(out.Metadata)
	return &out, nil
}

func (s *Server) EndpointUpdateHeaders(_ context.Context, appUID, endpointUID string, headers map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.endpoint(appUID, endpointUID)
	if err != nil {
		return err
	}
	record.headers = cloneMap(headers)
	return nil
}

func (s *Server) EndpointList(_ context.Context, appUID string, opts svix.EndpointListOptions) (svix.ListResponse[svix.EndpointOut], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[appUID]
	if !ok {
		return svix.ListResponse[svix.EndpointOut]{}, notFound(fmt.Sprintf("application %s not found", appUID))
	}

	all := make([]svix.EndpointOut, 0, len(app.endpoints))
	for _, record := range app.endpoints {
		out := record.out
		out.Metadata = cloneMap(out.Metadata)
		all = append(all, out)
	}
	if opts.Order != svix.OrderingAscending {
		slices.Reverse(all)
	}

	return page(all, opts.Iterator, s.pageSize)
}

func (s *Server) EndpointGetSecret(_ context.Context, appUID, endpointUID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.endpoint(appUID, endpointUID)
	if err != nil {
		return "", err
	}
	return record.secret, nil
}

func (s *Server) EndpointDelete(_ context.Context, appUID, endpointUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[appUID]
	if !ok {
		return notFound(fmt.Sprintf("application %s not found", appUID))
	}
	for i, record := range app.endpoints {
		if record.out.UID == endpointUID {
			app.endpoints = append(app.endpoints[:i], app.endpoints[i+1:]...)
			return nil
		}
	}
	return notFound(fmt.Sprintf("endpoint %s not found", endpointUID))
}

func (s *Server) MessageCreate(_ context.Context, appUID string, msg svix.MessageIn) (*svix.MessageOut, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[appUID]
	if !ok {
		return nil, notFound(fmt.Sprintf("application %s not found", appUID))
	}

	matched := make([]*endpointRecord, 0, len(app.endpoints))
	for _, record := range app.endpoints {
		if record.matches(msg) {
			matched = append(matched, record)
		}
	}
	if len(matched) == 0 {
		return nil, &svix.Error{
			Code:   svix.CodeNoSubscribers,
			Detail: "message has no subscribed endpoints",
			Status: 200,
		}
	}

	payload, err := payloadAsObject(msg.Payload)
	if err != nil {
		return nil, &svix.Error{Code: "validation", Detail: err.Error(), Status: 422}
	}

	now := time.Now().UTC()
	out := svix.MessageOut{
		ID:        newID("msg"),
		EventType: msg.EventType,
		Channels:  slices.Clone(msg.Channels),
		Timestamp: now,
	}

	// Simulate one immediately successful delivery per matched endpoint.
	for _, record := range matched {
		record.messages = append(record.messages, svix.EndpointMessageOut{
			ID:        out.ID,
			EventType: msg.EventType,
			Payload:   payload,
			Channels:  slices.Clone(msg.Channels),
			Timestamp: now,
		})
		record.attempts = append(record.attempts, svix.MessageAttemptOut{
			ID:                 newID("atmpt"),
			MsgID:              out.ID,
			URL:                record.out.URL,
			Response:           "OK",
			ResponseStatusCode: 200,
			Timestamp:          now,
		})
	}

	return &out, nil
}

func (s *Server) AttemptedMessageList(_ context.Context, appUID, endpointUID string, opts svix.AttemptListOptions) (svix.ListResponse[svix.EndpointMessageOut], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.endpoint(appUID, endpointUID)
	if err != nil {
		return svix.ListResponse[svix.EndpointMessageOut]{}, err
	}

	window := make([]svix.EndpointMessageOut, 0, len(record.messages))
	for _, m := range record.messages {
		if inWindow(m.Timestamp, opts) {
			window = append(window, m)
		}
	}
	return page(window, opts.Iterator, s.pageSize)
}

func (s *Server) AttemptList(_ context.Context, appUID, endpointUID string, opts svix.AttemptListOptions) (svix.ListResponse[svix.MessageAttemptOut], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.endpoint(appUID, endpointUID)
	if err != nil {
		return svix.ListResponse[svix.MessageAttemptOut]{}, err
	}

	window := make([]svix.MessageAttemptOut, 0, len(record.attempts))
	for _, a := range record.attempts {
		if inWindow(a.Timestamp, opts) {
			window = append(window, a)
		}
	}
	return page(window, opts.Iterator, s.pageSize)
}

// EndpointHeaders returns the custom headers currently set on an endpoint.
// Test-only accessor; the real server exposes this through its REST API.
func (s *Server) EndpointHeaders(appUID, endpointUID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, err := s.endpoint(appUID, endpointUID)
	if err != nil {
		return nil, err
	}
	return cloneMap(record.headers), nil
}

// endpoint looks up an endpoint record. Callers must hold s.mu.
func (s *Server) endpoint(appUID, endpointUID string) (*endpointRecord, error) {
	app, ok := s.apps[appUID]
	if !ok {
		return nil, notFound(fmt.Sprintf("application %s not found", appUID))
	}
	for _, record := range app.endpoints {
		if record.out.UID == endpointUID {
			return record, nil
		}
	}
	return nil, notFound(fmt.Sprintf("endpoint %s not found", endpointUID))
}

// matches reports whether a message reaches this endpoint: the event type
// must be among the endpoint's filter types, and an endpoint with a channel
// filter only receives messages tagged with one of its channels.
func (r *endpointRecord) matches(msg svix.MessageIn) bool {
	if !slices.Contains(r.out.FilterTypes, msg.EventType) {
		return false
	}
	if len(r.out.Channels) == 0 {
		return true
	}
	for _, ch := range msg.Channels {
		if slices.Contains(r.out.Channels, ch) {
			return true
		}
	}
	return false
}

func inWindow(t time.Time, opts svix.AttemptListOptions) bool {
	if opts.After != nil && t.Before(*opts.After) {
		return false
	}
	if opts.Before != nil && !t.Before(*opts.Before) {
		return false
	}
	return true
}

func payloadAsObject(payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payload is not serializable: %w", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	return obj, nil
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
