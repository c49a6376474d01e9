package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var bidSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(bidSchemaJSON))
})

// validateDetails checks a model answer against the bid schema and returns
// it with nulls removed. Null members mean "not found" and are accepted for
// any field; null list items are dropped rather than decoded as "".
func validateDetails(raw []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", doc)
	}

	schema, err := bidSchema()
	if err != nil {
		return nil, fmt.Errorf("bid schema: %w", err)
	}
	clean := dropNulls(doc)
	result, err := schema.Validate(gojsonschema.NewGoLoader(clean))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return nil, fmt.Errorf("response does not match bid schema: %s", strings.Join(msgs, "; "))
	}
	return json.Marshal(clean)
}

// dropNulls removes null object members and null or blank array items, recursively.
func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if val != nil {
				out[k] = dropNulls(val)
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			if s, ok := val.(string); val == nil || ok && strings.TrimSpace(s) == "" {
				continue
			}
			out = append(out, dropNulls(val))
		}
		return out
	default:
		return v
	}
}
