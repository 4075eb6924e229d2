package webhooks_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	webhooks "github.com/swhkit/webhooks"
	"github.com/swhkit/webhooks/catalog"
	"github.com/swhkit/webhooks/endpoint"
	"github.com/swhkit/webhooks/history"
	"github.com/swhkit/webhooks/signature"
	"github.com/swhkit/webhooks/svix/svixtest"
)

func ctx() context.Context { return context.Background() }

func setup(t *testing.T, opts ...svixtest.Option) *webhooks.Webhooks {
	t.Helper()
	w, err := webhooks.New(webhooks.WithClient(svixtest.New(opts...)))
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func originCreateType() catalog.EventType {
	return catalog.EventType{
		Name:        "origin.create",
		Description: "This event is triggered when a new origin is created",
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"origin_url"},
			"properties": map[string]any{
				"origin_url": map[string]any{"type": "string", "format": "iri"},
			},
		},
	}
}

func registerOriginCreate(t *testing.T, w *webhooks.Webhooks) {
	t.Helper()
	if err := w.EventTypeCreate(ctx(), originCreateType()); err != nil {
		t.Fatal(err)
	}
}

func createEndpoint(t *testing.T, w *webhooks.Webhooks, url, channel string) endpoint.Endpoint {
	t.Helper()
	ep := endpoint.Endpoint{URL: url, EventTypeName: "origin.create", Channel: channel}
	if err := w.EndpointCreate(ctx(), ep); err != nil {
		t.Fatal(err)
	}
	return ep
}

func sentEvents(t *testing.T, w *webhooks.Webhooks, ep endpoint.Endpoint) []history.SentEvent {
	t.Helper()
	var events []history.SentEvent
	for ev, err := range w.SentEventsList(ctx(), ep, history.Window{}) {
		if err != nil {
			t.Fatal(err)
		}
		events = append(events, ev)
	}
	return events
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := webhooks.New(); !errors.Is(err, webhooks.ErrMissingServerURL) {
		t.Errorf("got %v, want ErrMissingServerURL", err)
	}
	_, err := webhooks.New(webhooks.WithServerURL("http://localhost:8071"))
	if !errors.Is(err, webhooks.ErrMissingAuthToken) {
		t.Errorf("got %v, want ErrMissingAuthToken", err)
	}
	_, err = webhooks.New(
		webhooks.WithServerURL("http://localhost:8071"),
		webhooks.WithAuthToken("token"),
	)
	if err != nil {
		t.Errorf("got %v, want nil", err)
	}
}

func TestEventTypeLifecycle(t *testing.T) {
	w := setup(t)
	registerOriginCreate(t, w)

	et, err := w.EventTypeGet(ctx(), "origin.create")
	if err != nil {
		t.Fatal(err)
	}
	if et.Description != originCreateType().Description {
		t.Errorf("got %+v", et)
	}

	if err := w.EventTypeDelete(ctx(), "origin.create"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.EventTypeGet(ctx(), "origin.create"); !errors.Is(err, webhooks.ErrEventTypeNotFound) {
		t.Errorf("after delete: got %v, want ErrEventTypeNotFound", err)
	}

	// Recreating a deleted type revives it.
	registerOriginCreate(t, w)
	types, err := w.EventTypesList(ctx())
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != 1 || types[0].Name != "origin.create" {
		t.Errorf("after revive: %+v", types)
	}
}

func TestEventSendValidatesPayload(t *testing.T) {
	w := setup(t)
	registerOriginCreate(t, w)
	createEndpoint(t, w, "https://example.com/webhook", "")

	_, err := w.EventSend(ctx(), "origin.create", map[string]any{"origin": "wrong"}, "")
	if !errors.Is(err, webhooks.ErrPayloadValidationFailed) {
		t.Fatalf("got %v, want ErrPayloadValidationFailed", err)
	}
	if !strings.Contains(err.Error(), "origin_url") {
		t.Errorf("error does not name the violated property: %v", err)
	}

	_, err = w.EventSend(ctx(), "origin.visit", map[string]any{}, "")
	if !errors.Is(err, webhooks.ErrEventTypeNotFound) {
		t.Fatalf("unknown type: got %v, want ErrEventTypeNotFound", err)
	}
}

func TestEventSendNoSubscribers(t *testing.T) {
	w := setup(t)
	registerOriginCreate(t, w)

	// No endpoints at all: the event goes nowhere and that is not an error.
	sent, err := w.EventSend(ctx(), "origin.create",
		map[string]any{"origin_url": "https://example.org/p"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if sent != nil {
		t.Errorf("got %+v, want nil", sent)
	}
}

func TestEndToEndDelivery(t *testing.T) {
	w := setup(t)
	registerOriginCreate(t, w)
	ep := createEndpoint(t, w, "https://example.com/webhook", "")

	payload := map[string]any{"origin_url": "https://example.org/project"}
	sent, err := w.EventSend(ctx(), "origin.create", payload, "")
	if err != nil {
		t.Fatal(err)
	}
	if sent == nil || sent.ID == "" {
		t.Fatalf("got %+v", sent)
	}

	events := sentEvents(t, w, ep)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.MsgID != sent.ID {
		t.Errorf("msg id %q, want %q", ev.MsgID, sent.ID)
	}

	// A receiver holding the endpoint secret can authenticate the request
	// exactly as it was sent.
	secret, err := w.EndpointGetSecret(ctx(), ep)
	if err != nil {
		t.Fatal(err)
	}
	body, err := json.Marshal(ev.Payload)
	if err != nil {
		t.Fatal(err)
	}
	verified, err := signature.Verify(body, ev.Headers, secret)
	if err != nil {
		t.Fatal(err)
	}
	if verified["origin_url"] != payload["origin_url"] {
		t.Errorf("verified payload %v", verified)
	}
}

func TestChannelRouting(t *testing.T) {
	w := setup(t)
	registerOriginCreate(t, w)

	all := createEndpoint(t, w, "https://example.com/all", "")
	foo := createEndpoint(t, w, "https://example.com/foo", "foo")
	bar := createEndpoint(t, w, "https://example.com/bar", "bar")

	// One event on channel foo, one without a channel.
	if _, err := w.EventSend(ctx(), "origin.create",
		map[string]any{"origin_url": "https://example.org/a"}, "foo"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.EventSend(ctx(), "origin.create",
		map[string]any{"origin_url": "https://example.org/b"}, ""); err != nil {
		t.Fatal(err)
	}

	// The unchanneled endpoint receives both, foo only the channeled one,
	// bar nothing.
	if got := sentEvents(t, w, all); len(got) != 2 {
		t.Errorf("all: got %d events, want 2", len(got))
	}
	gotFoo := sentEvents(t, w, foo)
	if len(gotFoo) != 1 {
		t.Fatalf("foo: got %d events, want 1", len(gotFoo))
	}
	if gotFoo[0].Channel != "foo" {
		t.Errorf("foo: channel %q", gotFoo[0].Channel)
	}
	if got := sentEvents(t, w, bar); len(got) != 0 {
		t.Errorf("bar: got %d events, want 0", len(got))
	}
}

func TestEndpointsListEarlyStop(t *testing.T) {
	w := setup(t, svixtest.WithPageSize(2))
	registerOriginCreate(t, w)
	for _, url := range []string{
		"https://example.com/hook-1",
		"https://example.com/hook-2",
		"https://example.com/hook-3",
		"https://example.com/hook-4",
	} {
		createEndpoint(t, w, url, "")
	}

	var urls []string
	for ep, err := range w.EndpointsList(ctx(), "origin.create", endpoint.ListOptions{Ascending: true, Limit: 3}) {
		if err != nil {
			t.Fatal(err)
		}
		urls = append(urls, ep.URL)
	}
	if len(urls) != 3 || urls[0] != "https://example.com/hook-1" {
		t.Errorf("got %v", urls)
	}
}

func TestEndpointDelete(t *testing.T) {
	w := setup(t)
	registerOriginCreate(t, w)
	ep := createEndpoint(t, w, "https://example.com/webhook", "")

	if err := w.EndpointDelete(ctx(), ep); err != nil {
		t.Fatal(err)
	}
	if err := w.EndpointDelete(ctx(), ep); !errors.Is(err, webhooks.ErrEndpointNotFound) {
		t.Errorf("second delete: got %v, want ErrEndpointNotFound", err)
	}
	if _, err := w.EndpointGetSecret(ctx(), ep); !errors.Is(err, webhooks.ErrEndpointNotFound) {
		t.Errorf("secret after delete: got %v, want ErrEndpointNotFound", err)
	}
}
