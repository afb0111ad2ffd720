package match

import (
	"github.com/utafrali/OdooGateway/internal/domain"
)

// Candidate fields searched by the multi-field domain. Name is the only
// field guaranteed to exist on every Odoo product model; default_code and
// barcode are optional and trigger the documented fallback when absent from
// the remote schema.
const (
	FieldName    = "name"
	FieldCode    = "default_code"
	FieldBarcode = "barcode"
)

// opILike is Odoo's case-insensitive substring operator.
const opILike = "ilike"

// BuildOrDomain tokenizes the query and builds a single-field OR chain:
// (field ilike tok1) OR (field ilike tok2) OR ... Any token matching is
// enough. The chain is left-nested so it flattens to N-1 "|" markers
// followed by N leaves.
func BuildOrDomain(field, query string) domain.Domain {
	tokens := Tokenize(query)

	expr := domain.Expr(domain.Leaf{Field: field, Op: opILike, Value: tokens[0]})
	for _, tok := range tokens[1:] {
		expr = domain.Or{Left: expr, Right: domain.Leaf{Field: field, Op: opILike, Value: tok}}
	}
	return domain.Domain{expr}
}

// BuildMultiFieldOrDomain matches the whole normalized query (non-tokenized)
// as a substring of any of the three candidate fields:
// OR(OR(name match, code match), barcode match).
func BuildMultiFieldOrDomain(query string) domain.Domain {
	qn := Normalize(query)
	return domain.Domain{
		domain.Or{
			Left: domain.Or{
				Left:  domain.Leaf{Field: FieldName, Op: opILike, Value: qn},
				Right: domain.Leaf{Field: FieldCode, Op: opILike, Value: qn},
			},
			Right: domain.Leaf{Field: FieldBarcode, Op: opILike, Value: qn},
		},
	}
}

// BuildNameOnlyDomain is the reduced-field fallback used when the remote
// schema rejects the optional fields: the whole normalized query against
// name alone.
func BuildNameOnlyDomain(query string) domain.Domain {
	return domain.Domain{
		domain.Leaf{Field: FieldName, Op: opILike, Value: Normalize(query)},
	}
}
