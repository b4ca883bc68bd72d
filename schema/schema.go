// Package schema checks decoded JSON documents against a small JSON Schema
// subset. The API uses it to reject request bodies of the wrong shape before
// field rules are applied.
package schema

import (
	"fmt"
	"reflect"
)

// Schema is a JSON Schema (draft-07 subset).
//
// Supported keywords: type, required. Required keys are checked in the
// order they are listed, so the reported violation is deterministic.
type Schema struct {
	Type     string   `json:"type,omitempty"`
	Required []string `json:"required,omitempty"`
}

// Error describes the first violation found, with a JSON path such as
// "$".
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Msg
}

// Validate checks value, as produced by encoding/json into an any, against
// s. A nil schema accepts everything.
func Validate(s *Schema, value any) error {
	if s == nil {
		return nil
	}
	return validate(s, value, "$")
}

func validate(s *Schema, value any, path string) error {
	if s.Type != "" {
		if got := jsonType(value); got != s.Type && !(s.Type == "number" && got == "integer") {
			return &Error{Path: path, Msg: fmt.Sprintf("expected %s, got %s", s.Type, got)}
		}
	}
	if obj, ok := value.(map[string]any); ok {
		for _, field := range s.Required {
			if _, ok := obj[field]; !ok {
				return &Error{Path: path, Msg: fmt.Sprintf("missing required field %q", field)}
			}
		}
	}
	return nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case int, int64:
		return "integer"
	default:
		return reflect.TypeOf(v).String()
	}
}
