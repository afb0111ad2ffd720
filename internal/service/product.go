package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/utafrali/OdooGateway/internal/domain"
	"github.com/utafrali/OdooGateway/internal/match"
	"github.com/utafrali/OdooGateway/internal/odoo"
	apperrors "github.com/utafrali/OdooGateway/pkg/errors"
)

// Odoo models walked by the resolution chain: an abstract template owns
// variants (product.product); a variant owns quantity records (stock.quant).
const (
	modelTemplate = "product.template"
	modelVariant  = "product.product"
	modelQuant    = "stock.quant"
)

// errNoVariant is the documented message for a template with no variant.
const errNoVariant = "No variant found"

// ProductService implements tolerant product resolution and the
// template -> variant -> stock lookup chain.
type ProductService struct {
	odoo    odoo.Executor
	matcher *match.Matcher
	logger  *slog.Logger
}

// NewProductService creates a new product resolution service.
func NewProductService(executor odoo.Executor, matcher *match.Matcher, logger *slog.Logger) *ProductService {
	return &ProductService{
		odoo:    executor,
		matcher: matcher,
		logger:  logger,
	}
}

// FindTemplates searches product templates with a tokenized OR domain on the
// name field and ranks the results by how many query tokens each name
// contains. The sort is stable so equal ranks keep Odoo's return order.
func (s *ProductService) FindTemplates(ctx context.Context, query string, limit int) ([]domain.RankedTemplate, error) {
	dom := match.BuildOrDomain(match.FieldName, query)

	result, err := s.odoo.ExecuteKw(ctx, modelTemplate, "search_read",
		[]any{dom.Flatten()},
		map[string]any{"fields": []string{"id", "name"}, "limit": limit},
	)
	if err != nil {
		return nil, err
	}

	records, err := odoo.Records(result)
	if err != nil {
		return nil, err
	}

	templates := make([]domain.RankedTemplate, 0, len(records))
	for _, rec := range records {
		name := odoo.AsString(rec["name"])
		templates = append(templates, domain.RankedTemplate{
			ID:   odoo.AsInt(rec["id"]),
			Name: name,
			Rank: match.TokenOverlap(query, name),
		})
	}

	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Rank > templates[j].Rank
	})

	s.logger.DebugContext(ctx, "templates found",
		slog.String("query", query),
		slog.Int("count", len(templates)),
	)
	return templates, nil
}

// Resolve searches templates across name, default_code, and barcode, scores
// every candidate against the query, and returns them ranked by descending
// score, truncated to limit.
func (s *ProductService) Resolve(ctx context.Context, query string, limit int) ([]domain.ScoredCandidate, error) {
	candidates, err := s.searchCandidates(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	ranked := s.matcher.Rank(query, candidates)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// searchCandidates fetches candidate templates with the multi-field substring
// domain. When Odoo rejects the call (typically because default_code or
// barcode is absent from the installed schema) it retries once with the
// guaranteed name field only. Any further fault propagates.
func (s *ProductService) searchCandidates(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	fetch := limit * 4
	if fetch < 20 {
		fetch = 20
	}

	result, err := s.odoo.ExecuteKw(ctx, modelTemplate, "search_read",
		[]any{match.BuildMultiFieldOrDomain(query).Flatten()},
		map[string]any{
			"fields": []string{"id", "name", match.FieldCode, match.FieldBarcode},
			"limit":  fetch,
		},
	)
	if err != nil {
		if !errors.Is(err, apperrors.ErrRemoteFault) {
			return nil, err
		}

		s.logger.WarnContext(ctx, "multi-field search rejected, retrying with name only",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)

		result, err = s.odoo.ExecuteKw(ctx, modelTemplate, "search_read",
			[]any{match.BuildNameOnlyDomain(query).Flatten()},
			map[string]any{"fields": []string{"id", "name"}, "limit": fetch},
		)
		if err != nil {
			return nil, err
		}
	}

	records, err := odoo.Records(result)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, domain.Candidate{
			ID:          odoo.AsInt(rec["id"]),
			Name:        odoo.AsString(rec["name"]),
			DefaultCode: odoo.AsString(rec[match.FieldCode]),
			Barcode:     odoo.AsString(rec[match.FieldBarcode]),
		})
	}
	return candidates, nil
}

// ResolveVariant returns the first variant of a template, treating it as
// canonical when several exist. Returns NotFound when the template has no
// variant.
func (s *ProductService) ResolveVariant(ctx context.Context, templateID int) (int, error) {
	dom := domain.Domain{domain.Leaf{Field: "product_tmpl_id", Op: "=", Value: templateID}}

	result, err := s.odoo.ExecuteKw(ctx, modelVariant, "search_read",
		[]any{dom.Flatten()},
		map[string]any{"fields": []string{"id"}, "limit": 1},
	)
	if err != nil {
		return 0, err
	}

	records, err := odoo.Records(result)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, apperrors.NotFound(errNoVariant)
	}
	return odoo.AsInt(records[0]["id"]), nil
}

// Stock fetches all quantity records for a variant. The per-product dataset
// is assumed small enough that no pagination is needed.
func (s *ProductService) Stock(ctx context.Context, productID int) ([]domain.StockRecord, error) {
	dom := domain.Domain{domain.Leaf{Field: "product_id", Op: "=", Value: productID}}

	result, err := s.odoo.ExecuteKw(ctx, modelQuant, "search_read",
		[]any{dom.Flatten()},
		map[string]any{"fields": []string{"location_id", "quantity"}},
	)
	if err != nil {
		return nil, err
	}

	records, err := odoo.Records(result)
	if err != nil {
		return nil, err
	}

	stock := make([]domain.StockRecord, 0, len(records))
	for _, rec := range records {
		stock = append(stock, domain.StockRecord{
			Location: odoo.RelationName(rec["location_id"]),
			Quantity: odoo.AsFloat(rec["quantity"]),
		})
	}
	return stock, nil
}

// StockByTemplate walks template -> first variant -> stock. NotFound
// propagates when the template has no variant.
func (s *ProductService) StockByTemplate(ctx context.Context, templateID int) ([]domain.StockRecord, error) {
	variantID, err := s.ResolveVariant(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return s.Stock(ctx, variantID)
}

// StockQuery resolves a free-text query to a product and, when the match is
// confident, fetches its stock. An ambiguous match returns the top
// candidates for the caller to disambiguate; a missing variant is reported
// in the Error field with the selection preserved.
func (s *ProductService) StockQuery(ctx context.Context, query string, limit int) (*domain.StockQueryResult, error) {
	ranked, err := s.Resolve(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	res := s.matcher.Classify(ranked)
	if !res.Confident {
		return &domain.StockQueryResult{
			Query:             query,
			NeedsConfirmation: true,
			TopCandidates:     res.Candidates,
		}, nil
	}

	out := &domain.StockQueryResult{
		Query:    query,
		Selected: res.Selected,
	}

	stock, err := s.StockByTemplate(ctx, res.Selected.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			out.Error = errNoVariant
			return out, nil
		}
		return nil, err
	}

	out.Stock = stock
	return out, nil
}
