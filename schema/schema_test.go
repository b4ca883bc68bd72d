package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevemurr/media-library/schema"
)

func decode(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

func TestValidateNilSchema(t *testing.T) {
	require.NoError(t, schema.Validate(nil, map[string]any{"anything": "goes"}))
}

func TestValidateType(t *testing.T) {
	s := &schema.Schema{Type: "object"}
	require.NoError(t, schema.Validate(s, decode(t, `{}`)))

	tests := map[string]string{
		`[1]`:  "$: expected object, got array",
		`null`: "$: expected object, got null",
		`"x"`:  "$: expected object, got string",
		`3.5`:  "$: expected object, got number",
		`true`: "$: expected object, got boolean",
	}
	for doc, want := range tests {
		require.EqualError(t, schema.Validate(s, decode(t, doc)), want, doc)
	}

	require.NoError(t, schema.Validate(&schema.Schema{Type: "number"}, decode(t, `3.5`)))
	require.NoError(t, schema.Validate(&schema.Schema{Type: "number"}, 3))
}

func TestValidateRequired(t *testing.T) {
	s := &schema.Schema{Type: "object", Required: []string{"name", "author"}}

	err := schema.Validate(s, decode(t, `{"name": "Dune"}`))
	require.EqualError(t, err, `$: missing required field "author"`)

	require.NoError(t, schema.Validate(s, decode(t, `{"name": "Dune", "author": "Herbert"}`)))
	require.NoError(t, schema.Validate(s, decode(t, `{"name": null, "author": 7, "extra": 1}`)))
}

func TestValidateRequiredOrder(t *testing.T) {
	s := &schema.Schema{Type: "object", Required: []string{"name", "publication_date", "author", "category"}}

	for i := 0; i < 50; i++ {
		err := schema.Validate(s, decode(t, `{}`))
		var se *schema.Error
		require.ErrorAs(t, err, &se)
		require.Equal(t, "$", se.Path)
		require.Equal(t, `missing required field "name"`, se.Msg)
	}

	err := schema.Validate(s, decode(t, `{"name": "Dune", "category": "Book"}`))
	require.EqualError(t, err, `$: missing required field "publication_date"`)
}
