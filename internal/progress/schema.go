package progress

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	recordsSchemaURL = "schema://progress.json"
	legacySchemaURL  = "schema://progress-legacy.json"
)

var counter = map[string]any{"type": "integer", "minimum": 0}

// recordsSchema describes the current layout: {id: {attempts, correct}}.
var recordsSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type":     "object",
		"required": []any{"attempts", "correct"},
		"properties": map[string]any{
			"attempts": counter,
			"correct":  counter,
		},
		"additionalProperties": false,
	},
}

// legacySchema describes files written by the earlier quiz tool.
var legacySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"stats": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"correct":   counter,
					"incorrect": counter,
				},
			},
		},
		"correct":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"incorrect": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func schemaFor(url string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for u, def := range map[string]map[string]any{
			recordsSchemaURL: recordsSchema,
			legacySchemaURL:  legacySchema,
		} {
			doc, err := asJSONValue(def)
			if err != nil {
				compileErr = err
				return
			}
			if err := c.AddResource(u, doc); err != nil {
				compileErr = fmt.Errorf("add resource: %w", err)
				return
			}
		}
		compiled = make(map[string]*jsonschema.Schema, 2)
		for _, u := range []string{recordsSchemaURL, legacySchemaURL} {
			s, err := c.Compile(u)
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", u, err)
				return
			}
			compiled[u] = s
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return compiled[url], nil
}

// asJSONValue round-trips def through encoding/json so the compiler sees
// float64 numbers rather than Go ints.
func asJSONValue(def map[string]any) (any, error) {
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}
	return v, nil
}
