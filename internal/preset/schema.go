package preset

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// presetSchema is the JSON Schema every imported JSON preset must satisfy.
// Misspelled keys are rejected rather than silently ignored.
const presetSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "preset.schema.json",
  "type": "object",
  "required": ["name"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "timing": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "base_delay_ms": {"type": "integer", "minimum": 1},
        "delay_variance_ms": {"type": "integer", "minimum": 0},
        "word_boundary_enabled": {"type": "boolean"},
        "intra_word_speed_factor": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
        "inter_word_pause_ms": {"type": "integer", "minimum": 0},
        "punctuation_pause_enabled": {"type": "boolean"},
        "punctuation_pause_ms": {"type": "integer", "minimum": 0},
        "newline_pause_enabled": {"type": "boolean"},
        "newline_pause_ms": {"type": "integer", "minimum": 0},
        "shift_penalty_enabled": {"type": "boolean"},
        "shift_penalty_ms": {"type": "integer", "minimum": 0},
        "double_letter_enabled": {"type": "boolean"},
        "double_letter_speed_factor": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
        "burst_enabled": {"type": "boolean"},
        "burst_length_min": {"type": "integer", "minimum": 1},
        "burst_length_max": {"type": "integer", "minimum": 1},
        "burst_pause_ms": {"type": "integer", "minimum": 0},
        "fatigue_enabled": {"type": "boolean"},
        "fatigue_factor": {"type": "number", "minimum": 0}
      }
    },
    "typos": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "typo_prob": {"type": "integer", "minimum": 0, "maximum": 10000},
        "revision_prob": {"type": "integer", "minimum": 0, "maximum": 100},
        "adjacent_enabled": {"type": "boolean"},
        "transposition_enabled": {"type": "boolean"},
        "double_strike_enabled": {"type": "boolean"}
      }
    },
    "run": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "countdown_seconds": {"type": "integer", "minimum": 0},
        "focus_guard_enabled": {"type": "boolean"},
        "focus_check_interval": {"type": "integer", "minimum": 1},
        "precise_mode": {"type": "boolean"}
      }
    },
    "text": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "newlines": {"type": "string", "enum": ["keep", "space", "strip"]},
        "tabs_to_spaces": {"type": "integer", "minimum": 0},
        "collapse_spaces": {"type": "boolean"},
        "trim_lines": {"type": "boolean"},
        "max_length": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compileSchema compiles the embedded schema once per process.
func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("preset.schema.json", strings.NewReader(presetSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("preset.schema.json")
	})
	return compiledSchema, schemaErr
}

// validateJSON checks raw JSON preset data against the schema.
func validateJSON(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("preset: compile schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("preset: parse JSON: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("preset: schema validation: %w", err)
	}
	return nil
}
