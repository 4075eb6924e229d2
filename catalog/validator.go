package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks schema documents and validates event payloads against
// them. Compiled schemas are cached by content.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema // keyed by schema JSON content
}

// NewValidator creates a new schema validator.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// CheckSchema verifies that schema is a structurally valid JSON Schema
// document under draft 7 semantics.
func (v *Validator) CheckSchema(schema map[string]any) error {
	_, err := v.compile(schema)
	return err
}

// ValidatePayload checks payload against the schema. The returned error
// carries the validator's violation detail.
func (v *Validator) ValidatePayload(schema map[string]any, payload any) error {
	compiled, err := v.compile(schema)
	if err != nil {
		return err
	}

	// The compiler validates decoded JSON values; round-trip typed payloads
	// so struct inputs behave like their wire form.
	decoded, err := normalize(payload)
	if err != nil {
		return err
	}

	return compiled.Validate(decoded)
}

// compile returns a compiled schema, using the cache for previously-seen
// documents.
func (v *Validator) compile(schema map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	key := string(raw)

	v.mu.RLock()
	if cached, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return cached, nil
	}
	v.mu.RUnlock()

	var doc any
	if unmarshalErr := json.Unmarshal(raw, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", unmarshalErr)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft7)

	const url = "webhooks://event-type/schema"
	if addErr := c.AddResource(url, doc); addErr != nil {
		return nil, fmt.Errorf("add schema resource: %w", addErr)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v.mu.Lock()
	v.cache[key] = compiled
	v.mu.Unlock()

	return compiled, nil
}

// normalize round-trips a value through JSON so validation always sees
// decoded JSON types.
func normalize(payload any) (any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return decoded, nil
}
