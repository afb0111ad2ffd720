package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/OdooGateway/internal/domain"
	"github.com/utafrali/OdooGateway/internal/odoo"
)

// GatewayService exposes the generic read-only Odoo operations as thin
// passthroughs. Each method assembles execute_kw arguments; the access
// policy inside the client guards every call.
type GatewayService struct {
	odoo   odoo.Executor
	logger *slog.Logger
}

// NewGatewayService creates a new passthrough service.
func NewGatewayService(executor odoo.Executor, logger *slog.Logger) *GatewayService {
	return &GatewayService{
		odoo:   executor,
		logger: logger,
	}
}

// SearchReadInput holds the parameters for a search_read call.
type SearchReadInput struct {
	Model   string
	Domain  domain.Domain
	Fields  []string
	Limit   int
	Offset  int
	Order   string
	Context map[string]any
}

// SearchRead runs search_read on an arbitrary model with the caller's domain.
func (s *GatewayService) SearchRead(ctx context.Context, in SearchReadInput) (any, error) {
	kw := map[string]any{
		"fields": fieldList(in.Fields),
		"limit":  in.Limit,
		"offset": in.Offset,
	}
	if in.Order != "" {
		kw["order"] = in.Order
	}
	if in.Context != nil {
		kw["context"] = in.Context
	}

	return s.odoo.ExecuteKw(ctx, in.Model, "search_read", []any{in.Domain.Flatten()}, kw)
}

// Read fetches specific records by id.
func (s *GatewayService) Read(ctx context.Context, model string, ids []int, fields []string, callCtx map[string]any) (any, error) {
	kw := map[string]any{"fields": fieldList(fields)}
	if callCtx != nil {
		kw["context"] = callCtx
	}

	idList := make([]any, len(ids))
	for i, id := range ids {
		idList[i] = id
	}

	return s.odoo.ExecuteKw(ctx, model, "read", []any{idList}, kw)
}

// FieldsGet introspects a model's field definitions.
func (s *GatewayService) FieldsGet(ctx context.Context, model string, attributes []string, callCtx map[string]any) (any, error) {
	kw := map[string]any{}
	if len(attributes) > 0 {
		kw["attributes"] = attributes
	}
	if callCtx != nil {
		kw["context"] = callCtx
	}

	return s.odoo.ExecuteKw(ctx, model, "fields_get", []any{}, kw)
}

// NameSearch runs Odoo's name_search with an optional extra domain.
func (s *GatewayService) NameSearch(ctx context.Context, model, name string, dom domain.Domain, limit int, callCtx map[string]any) (any, error) {
	kw := map[string]any{"limit": limit}
	if callCtx != nil {
		kw["context"] = callCtx
	}

	return s.odoo.ExecuteKw(ctx, model, "name_search", []any{name, dom.Flatten()}, kw)
}

// fieldList keeps an empty field selection as an empty list rather than nil
// so the XML-RPC layer encodes it as an array.
func fieldList(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}
