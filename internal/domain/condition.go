package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Expr is a single boolean search condition over Odoo domain leaves, stored
// as a tagged tree. Odoo's wire format is a flattened list in prefix (Polish)
// notation; Flatten produces it and the parse entry points consume it. All
// downstream code works on the tree, never on the raw wire shape.
type Expr interface {
	isExpr()
}

// Leaf is a (field, operator, value) condition triple.
type Leaf struct {
	Field string
	Op    string
	Value any
}

// Or combines two expressions with logical OR ("|" in prefix notation).
type Or struct {
	Left  Expr
	Right Expr
}

// And combines two expressions with logical AND ("&" in prefix notation).
type And struct {
	Left  Expr
	Right Expr
}

// Not negates an expression ("!" in prefix notation).
type Not struct {
	Inner Expr
}

func (Leaf) isExpr() {}
func (Or) isExpr()   {}
func (And) isExpr()  {}
func (Not) isExpr()  {}

// Domain is an ordered sequence of expressions. Odoo treats consecutive
// top-level expressions as an implicit AND.
type Domain []Expr

// Flatten renders the domain in Odoo's flattened prefix notation, e.g.
// ["|", "|", [f, op, v], [f, op, v], [f, op, v]] for a three-leaf OR chain.
// A left-nested OR chain of N leaves always yields N-1 leading "|" markers.
func (d Domain) Flatten() []any {
	out := make([]any, 0, len(d)*2)
	for _, e := range d {
		out = flattenExpr(out, e)
	}
	return out
}

func flattenExpr(out []any, e Expr) []any {
	switch v := e.(type) {
	case Leaf:
		out = append(out, []any{v.Field, v.Op, v.Value})
	case Or:
		out = append(out, "|")
		out = flattenExpr(out, v.Left)
		out = flattenExpr(out, v.Right)
	case And:
		out = append(out, "&")
		out = flattenExpr(out, v.Left)
		out = flattenExpr(out, v.Right)
	case Not:
		out = append(out, "!")
		out = flattenExpr(out, v.Inner)
	}
	return out
}

// LeafCount returns the number of leaf conditions in the domain.
func (d Domain) LeafCount() int {
	n := 0
	for _, e := range d {
		n += leafCount(e)
	}
	return n
}

func leafCount(e Expr) int {
	switch v := e.(type) {
	case Leaf:
		return 1
	case Or:
		return leafCount(v.Left) + leafCount(v.Right)
	case And:
		return leafCount(v.Left) + leafCount(v.Right)
	case Not:
		return leafCount(v.Inner)
	}
	return 0
}

// FromList parses a structured domain list (already-decoded JSON) into the
// canonical tree form. Operators "|", "&", "!" are consumed prefix-style;
// everything else must be a [field, op, value] triple.
func FromList(list []any) (Domain, error) {
	var d Domain
	rest := list
	for len(rest) > 0 {
		var (
			e   Expr
			err error
		)
		e, rest, err = parseExpr(rest)
		if err != nil {
			return nil, err
		}
		d = append(d, e)
	}
	return d, nil
}

func parseExpr(rest []any) (Expr, []any, error) {
	if len(rest) == 0 {
		return nil, nil, fmt.Errorf("domain: unexpected end of expression")
	}
	head, rest := rest[0], rest[1:]

	switch tok := head.(type) {
	case string:
		switch tok {
		case "|", "&":
			left, rest, err := parseExpr(rest)
			if err != nil {
				return nil, nil, err
			}
			right, rest, err := parseExpr(rest)
			if err != nil {
				return nil, nil, err
			}
			if tok == "|" {
				return Or{Left: left, Right: right}, rest, nil
			}
			return And{Left: left, Right: right}, rest, nil
		case "!":
			inner, rest, err := parseExpr(rest)
			if err != nil {
				return nil, nil, err
			}
			return Not{Inner: inner}, rest, nil
		default:
			return nil, nil, fmt.Errorf("domain: unknown operator %q", tok)
		}
	case []any:
		leaf, err := parseLeaf(tok)
		if err != nil {
			return nil, nil, err
		}
		return leaf, rest, nil
	default:
		return nil, nil, fmt.Errorf("domain: unexpected element %T", head)
	}
}

func parseLeaf(triple []any) (Leaf, error) {
	if len(triple) != 3 {
		return Leaf{}, fmt.Errorf("domain: condition must have 3 elements, got %d", len(triple))
	}
	field, ok := triple[0].(string)
	if !ok {
		return Leaf{}, fmt.Errorf("domain: condition field must be a string, got %T", triple[0])
	}
	op, ok := triple[1].(string)
	if !ok {
		return Leaf{}, fmt.Errorf("domain: condition operator must be a string, got %T", triple[1])
	}
	return Leaf{Field: field, Op: op, Value: triple[2]}, nil
}

// ParseString parses a JSON-encoded domain string, e.g.
// `[["name","ilike","noisette"]]`. An empty or blank string yields an empty
// domain.
func ParseString(s string) (Domain, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var list []any
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, fmt.Errorf("domain must be a JSON list or a JSON-encoded string: %w", err)
	}
	return FromList(list)
}

// ParseRaw accepts the two wire forms callers may send for a domain: a JSON
// array or a JSON string containing an encoded array. Absent/null yields an
// empty domain. Both forms funnel into the same canonical tree.
func ParseRaw(raw json.RawMessage) (Domain, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		return FromList(list)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseString(s)
	}

	return nil, fmt.Errorf("domain must be a JSON list or a JSON-encoded string")
}

// ParseFields accepts the two wire forms for a field list: a JSON array of
// strings or a single string that is either a JSON-encoded array or a
// comma-separated list. Absent/null yields nil.
func ParseFields(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("fields must be a JSON list or a comma-separated string")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	// A string starting with "[" is tried as a JSON list first, falling back
	// to comma splitting.
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &list); err == nil {
			return list, nil
		}
	}

	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields, nil
}
