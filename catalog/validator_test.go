package catalog_test

import (
	"testing"

	"github.com/swhkit/webhooks/catalog"
)

func TestCheckSchema(t *testing.T) {
	v := catalog.NewValidator()

	if err := v.CheckSchema(originSchema()); err != nil {
		t.Fatal(err)
	}
	if err := v.CheckSchema(map[string]any{}); err != nil {
		t.Errorf("empty schema should compile: %v", err)
	}
	if err := v.CheckSchema(map[string]any{"type": "unknown"}); err == nil {
		t.Error("bogus type keyword should be rejected")
	}
	if err := v.CheckSchema(map[string]any{"required": "origin_url"}); err == nil {
		t.Error("non-array required should be rejected")
	}
}

func TestValidatePayloadTypes(t *testing.T) {
	v := catalog.NewValidator()
	schema := map[string]any{
		"type":     "object",
		"required": []any{"count"},
		"properties": map[string]any{
			"count": map[string]any{"type": "integer"},
		},
	}

	if err := v.ValidatePayload(schema, map[string]any{"count": 3}); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidatePayload(schema, map[string]any{"count": "three"}); err == nil {
		t.Error("string where integer expected should fail")
	}
	if err := v.ValidatePayload(schema, map[string]any{}); err == nil {
		t.Error("missing required property should fail")
	}
}

func TestValidatePayloadStructInput(t *testing.T) {
	v := catalog.NewValidator()
	schema := map[string]any{
		"type":     "object",
		"required": []any{"origin_url"},
	}

	// Typed payloads are validated through their JSON form.
	payload := struct {
		OriginURL string `json:"origin_url"`
	}{OriginURL: "https://example.org/p"}

	if err := v.ValidatePayload(schema, payload); err != nil {
		t.Fatal(err)
	}
}
