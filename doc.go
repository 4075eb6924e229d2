// Package webhooks manages webhook event types, endpoint subscriptions and
// event dispatch on top of a Svix-compatible delivery service.
//
// It is a client library, not a delivery engine: retries, fan-out and
// persistence are all handled by the remote service. The library covers the
// management surface: registering JSON Schema validated event types,
// subscribing endpoints (optionally scoped to a channel), sending events and
// replaying delivery history. Receivers get signature verification for
// authenticating incoming payloads.
//
// Quick start:
//
//	w, err := webhooks.New(
//	    webhooks.WithServerURL("http://localhost:8071"),
//	    webhooks.WithAuthToken(token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	w.EventTypeCreate(ctx, catalog.EventType{
//	    Name:        "origin.create",
//	    Description: "This event is triggered when a new origin is created",
//	    Schema:      schema,
//	})
//
//	w.EventSend(ctx, "origin.create",
//	    map[string]any{"origin_url": "https://example.org/project"}, "")
//
// Receivers authenticate incoming deliveries with the endpoint secret:
//
//	payload, err := signature.Verify(body, headers, secret)
package webhooks
