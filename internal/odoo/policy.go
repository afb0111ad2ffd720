package odoo

import (
	apperrors "github.com/utafrali/OdooGateway/pkg/errors"
)

// Policy is the read-only access guard: only the listed model methods may
// reach Odoo. It is consulted before every execute_kw call, including calls
// originating inside the gateway, so a future code path cannot accidentally
// invoke a mutating method.
type Policy struct {
	allowed map[string]struct{}
}

// ReadOnlyPolicy returns the fixed allow-list of read-only Odoo methods.
func ReadOnlyPolicy() Policy {
	return Policy{allowed: map[string]struct{}{
		"search_read": {},
		"read":        {},
		"fields_get":  {},
		"name_search": {},
	}}
}

// Allowed reports whether the method is on the allow-list.
func (p Policy) Allowed(method string) bool {
	_, ok := p.allowed[method]
	return ok
}

// Authorize returns a Forbidden error when the method is not allowed.
func (p Policy) Authorize(method string) error {
	if !p.Allowed(method) {
		return apperrors.Forbidden("method not allowed: " + method)
	}
	return nil
}
