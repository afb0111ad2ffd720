package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_Leaf(t *testing.T) {
	d := Domain{Leaf{Field: "name", Op: "ilike", Value: "moka"}}

	assert.Equal(t, []any{[]any{"name", "ilike", "moka"}}, d.Flatten())
}

func TestFlatten_NestedOr(t *testing.T) {
	d := Domain{
		Or{
			Left: Or{
				Left:  Leaf{Field: "name", Op: "ilike", Value: "a"},
				Right: Leaf{Field: "name", Op: "ilike", Value: "b"},
			},
			Right: Leaf{Field: "name", Op: "ilike", Value: "c"},
		},
	}

	flat := d.Flatten()
	require.Len(t, flat, 5)
	assert.Equal(t, "|", flat[0])
	assert.Equal(t, "|", flat[1])
	assert.Equal(t, []any{"name", "ilike", "a"}, flat[2])
	assert.Equal(t, []any{"name", "ilike", "b"}, flat[3])
	assert.Equal(t, []any{"name", "ilike", "c"}, flat[4])
}

func TestFlatten_AndNot(t *testing.T) {
	d := Domain{
		And{
			Left:  Leaf{Field: "active", Op: "=", Value: true},
			Right: Not{Inner: Leaf{Field: "type", Op: "=", Value: "service"}},
		},
	}

	flat := d.Flatten()
	require.Len(t, flat, 4)
	assert.Equal(t, "&", flat[0])
	assert.Equal(t, []any{"active", "=", true}, flat[1])
	assert.Equal(t, "!", flat[2])
	assert.Equal(t, []any{"type", "=", "service"}, flat[3])
}

func TestFromList_RoundTrip(t *testing.T) {
	// Parsing a flattened domain and flattening it again must be lossless.
	flat := []any{
		"|", "|",
		[]any{"name", "ilike", "a"},
		[]any{"default_code", "ilike", "b"},
		[]any{"barcode", "ilike", "c"},
		[]any{"active", "=", true},
	}

	d, err := FromList(flat)
	require.NoError(t, err)
	assert.Equal(t, 4, d.LeafCount())
	assert.Equal(t, flat, d.Flatten())
}

func TestFromList_Errors(t *testing.T) {
	tests := []struct {
		name string
		list []any
	}{
		{"dangling operator", []any{"|", []any{"name", "ilike", "a"}}},
		{"unknown operator", []any{"??", []any{"name", "ilike", "a"}}},
		{"short condition", []any{[]any{"name", "ilike"}}},
		{"non-string field", []any{[]any{42, "ilike", "a"}}},
		{"bare scalar", []any{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromList(tt.list)
			assert.Error(t, err)
		})
	}
}

func TestParseString(t *testing.T) {
	d, err := ParseString(`[["name", "ilike", "noisette"]]`)
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, Leaf{Field: "name", Op: "ilike", Value: "noisette"}, d[0])

	d, err = ParseString("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseString("not json")
	assert.Error(t, err)
}

func TestParseRaw_BothWireForms(t *testing.T) {
	// Direct JSON array.
	d, err := ParseRaw(json.RawMessage(`[["name", "ilike", "moka"]]`))
	require.NoError(t, err)
	require.Len(t, d, 1)

	// JSON string containing an encoded array.
	d, err = ParseRaw(json.RawMessage(`"[[\"name\", \"ilike\", \"moka\"]]"`))
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, Leaf{Field: "name", Op: "ilike", Value: "moka"}, d[0])

	// Absent and null both yield an empty domain.
	d, err = ParseRaw(nil)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseRaw(json.RawMessage("null"))
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseRaw(json.RawMessage("42"))
	assert.Error(t, err)
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields(json.RawMessage(`["id", "name"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, fields)

	fields, err = ParseFields(json.RawMessage(`"id, name , barcode"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "barcode"}, fields)

	fields, err = ParseFields(json.RawMessage(`"[\"id\", \"name\"]"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, fields)

	fields, err = ParseFields(nil)
	require.NoError(t, err)
	assert.Nil(t, fields)

	_, err = ParseFields(json.RawMessage("42"))
	assert.Error(t, err)
}
