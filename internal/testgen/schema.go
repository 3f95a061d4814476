package testgen

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/asethi/tutorhub/internal/model"
)

// testSchema constrains the JSON shape the model must return: a questions
// array whose items carry one of the two question types, a subject from the
// closed set, and non-empty question text.
var testSchema = map[string]any{
	"type":     "object",
	"required": []string{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"type", "subject", "question"},
				"properties": map[string]any{
					"type": map[string]any{
						"enum": []string{string(model.TypeMultipleChoice), string(model.TypeShortAnswer)},
					},
					"subject": map[string]any{
						"enum": model.Subjects,
					},
					"question": map[string]any{"type": "string", "minLength": 1},
					"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"answer":   map[string]any{"type": "string"},
				},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiledTestSchema compiles the schema once and caches it.
// The definition goes through a JSON round trip because the compiler expects
// a parsed JSON value rather than arbitrary Go maps.
func compiledTestSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(testSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://test.json", def); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://test.json")
	})
	return compiledSchema, compileErr
}
