package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/swhkit/webhooks/catalog"
	"github.com/swhkit/webhooks/svix/svixtest"
)

func ctx() context.Context { return context.Background() }

func setup(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(svixtest.New(), nil)
}

func originSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"title":    "origin.create",
		"required": []any{"origin_url"},
		"properties": map[string]any{
			"origin_url": map[string]any{"type": "string", "format": "iri"},
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := setup(t)

	et := catalog.EventType{
		Name:        "origin.create",
		Description: "This event is triggered when a new origin is created",
		Schema:      originSchema(),
	}
	if err := svc.CreateOrUpdate(ctx(), et); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx(), "origin.create")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != et.Name || got.Description != et.Description {
		t.Errorf("got %+v, want %+v", got, et)
	}
	if got.Schema["title"] != "origin.create" {
		t.Errorf("schema not round-tripped: %v", got.Schema)
	}
}

func TestCreateInvalidName(t *testing.T) {
	svc := setup(t)

	for _, name := range []string{"origin", "origin create", "origin.create.extra", ""} {
		err := svc.CreateOrUpdate(ctx(), catalog.EventType{Name: name, Schema: originSchema()})
		if !errors.Is(err, catalog.ErrInvalidName) {
			t.Errorf("name %q: got %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCreateInvalidSchema(t *testing.T) {
	svc := setup(t)

	err := svc.CreateOrUpdate(ctx(), catalog.EventType{
		Name:   "origin.create",
		Schema: map[string]any{"type": "unknown"},
	})
	if !errors.Is(err, catalog.ErrInvalidSchema) {
		t.Errorf("got %v, want ErrInvalidSchema", err)
	}
}

func TestCreateIsIdempotent(t *testing.T) {
	svc := setup(t)

	et := catalog.EventType{Name: "origin.create", Schema: originSchema()}
	if err := svc.CreateOrUpdate(ctx(), et); err != nil {
		t.Fatal(err)
	}

	// Second create updates in place.
	et.Description = "updated description"
	if err := svc.CreateOrUpdate(ctx(), et); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx(), "origin.create")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "updated description" {
		t.Errorf("description not updated: %q", got.Description)
	}
}

func TestGetUnknown(t *testing.T) {
	svc := setup(t)

	_, err := svc.Get(ctx(), "origin.create")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "origin.create") {
		t.Errorf("error does not name the event type: %v", err)
	}
}

func TestListSortedByName(t *testing.T) {
	svc := setup(t)

	for _, name := range []string{"origin.visit", "content.add", "origin.create"} {
		err := svc.CreateOrUpdate(ctx(), catalog.EventType{Name: name, Schema: originSchema()})
		if err != nil {
			t.Fatal(err)
		}
	}

	types, err := svc.List(ctx())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, et := range types {
		names = append(names, et.Name)
	}
	want := []string{"content.add", "origin.create", "origin.visit"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
	if types[0].Schema == nil {
		t.Error("List should include schemas")
	}
}

func TestDeleteAndRevive(t *testing.T) {
	svc := setup(t)

	et := catalog.EventType{Name: "origin.create", Schema: originSchema()}
	if err := svc.CreateOrUpdate(ctx(), et); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx(), "origin.create"); err != nil {
		t.Fatal(err)
	}

	// Archived types are hidden from Get, List and Delete.
	if _, err := svc.Get(ctx(), "origin.create"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	types, err := svc.List(ctx())
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != 0 {
		t.Errorf("List after delete: got %d types, want 0", len(types))
	}
	if err := svc.Delete(ctx(), "origin.create"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}

	// Re-creating the same name revives the archived type.
	et.Description = "revived"
	if err := svc.CreateOrUpdate(ctx(), et); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Get(ctx(), "origin.create")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "revived" {
		t.Errorf("revived description: %q", got.Description)
	}
}

func TestDeleteUnknown(t *testing.T) {
	svc := setup(t)

	err := svc.Delete(ctx(), "origin.create")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestValidatePayload(t *testing.T) {
	svc := setup(t)

	et := &catalog.EventType{Name: "origin.create", Schema: originSchema()}

	if err := svc.ValidatePayload(et, map[string]any{"origin_url": "https://example.org/p"}); err != nil {
		t.Fatal(err)
	}

	err := svc.ValidatePayload(et, map[string]any{"other": 1})
	if !errors.Is(err, catalog.ErrPayloadInvalid) {
		t.Fatalf("got %v, want ErrPayloadInvalid", err)
	}
	if !strings.Contains(err.Error(), "origin_url") {
		t.Errorf("error does not name the missing property: %v", err)
	}
}
