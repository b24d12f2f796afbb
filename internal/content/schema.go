package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

func stringList() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func nonEmptyString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

// documentSchema describes the content file. Top-level lists are optional;
// a kind without a list only fails when it is selected for posting.
var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"vocab": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"word":        nonEmptyString(),
					"translation": nonEmptyString(),
					"examples":    stringList(),
					"phrases":     stringList(),
				},
				"required": []any{"word", "translation"},
			},
		},
		"life_phrase": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"phrase":      nonEmptyString(),
					"translation": nonEmptyString(),
					"examples":    stringList(),
				},
				"required": []any{"phrase", "translation"},
			},
		},
		"grammar": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":    nonEmptyString(),
					"rule":     nonEmptyString(),
					"examples": stringList(),
					"note":     map[string]any{"type": "string"},
				},
				"required": []any{"title", "rule"},
			},
		},
		"daily_check": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{"type": "string"},
					"questions": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"q": nonEmptyString(),
								// Telegram accepts 2 to 10 poll options.
								"options": map[string]any{
									"type":     "array",
									"items":    map[string]any{"type": "string"},
									"minItems": 2,
									"maxItems": 10,
								},
							},
							"required": []any{"q", "options"},
						},
					},
				},
				"required": []any{"title", "questions"},
			},
		},
	},
}

const schemaURL = "schema://chebot-content.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go literals.
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validate checks raw JSON against the content schema.
func validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile content schema: %w", err)
	}

	if err := sch.Validate(parsed); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
