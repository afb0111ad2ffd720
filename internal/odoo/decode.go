package odoo

import (
	"fmt"
)

// Records coerces a search_read/read result into a list of field maps.
func Records(result any) ([]map[string]any, error) {
	list, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("odoo: expected record list, got %T", result)
	}

	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("odoo: expected record map, got %T", item)
		}
		records = append(records, rec)
	}
	return records, nil
}

// AsString coerces an Odoo field value to a string. Odoo returns boolean
// false for unset char fields; that decodes to the empty string.
func AsString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// AsInt coerces an Odoo numeric field value to an int.
func AsInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// AsFloat coerces an Odoo numeric field value to a float64.
func AsFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// RelationName extracts the display name from an Odoo many2one value, which
// comes back as an [id, "Display Name"] pair, or false when unset.
func RelationName(v any) string {
	pair, ok := v.([]any)
	if !ok || len(pair) < 2 {
		return ""
	}
	return AsString(pair[1])
}
