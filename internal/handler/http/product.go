package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/OdooGateway/internal/domain"
	"github.com/utafrali/OdooGateway/internal/service"
	"github.com/utafrali/OdooGateway/pkg/httputil"
	"github.com/utafrali/OdooGateway/pkg/validator"
)

// defaultResolveLimit caps result lists when the caller does not ask for a
// specific limit.
const defaultResolveLimit = 10

// ProductHandler serves the tolerant product search and stock endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// FindProductTemplatesRequest is the JSON body for POST /odoo/find_product_templates.
type FindProductTemplatesRequest struct {
	Q     string `json:"q" validate:"required"`
	Limit int    `json:"limit" validate:"gte=0,lte=100"`
}

// templatesResponse is the JSON shape for the tokenized template search.
type templatesResponse struct {
	Query   string                  `json:"query"`
	Results []domain.RankedTemplate `json:"results"`
}

// resolveResponse is the JSON shape for scored candidate lists.
type resolveResponse struct {
	Query   string                   `json:"query"`
	Results []domain.ScoredCandidate `json:"results"`
}

// stockQueryResponse is the JSON shape for the combined stock query.
type stockQueryResponse struct {
	Query             string                   `json:"query"`
	NeedsConfirmation bool                     `json:"needs_confirmation"`
	Selected          *domain.ScoredCandidate  `json:"selected,omitempty"`
	Stock             []domain.StockRecord     `json:"stock,omitempty"`
	TopCandidates     []domain.ScoredCandidate `json:"top_candidates,omitempty"`
	Error             string                   `json:"error,omitempty"`
}

// FindProductTemplates handles POST /odoo/find_product_templates
func (h *ProductHandler) FindProductTemplates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FindProductTemplatesRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultResolveLimit
	}

	templates, err := h.service.FindTemplates(r.Context(), req.Q, req.Limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if templates == nil {
		templates = []domain.RankedTemplate{}
	}

	httputil.WriteJSON(w, http.StatusOK, templatesResponse{Query: req.Q, Results: templates})
}

// ResolveProduct handles GET /resolve_product
func (h *ProductHandler) ResolveProduct(w http.ResponseWriter, r *http.Request) {
	query, limit, ok := h.queryParams(w, r)
	if !ok {
		return
	}

	ranked, err := h.service.Resolve(r.Context(), query, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if ranked == nil {
		ranked = []domain.ScoredCandidate{}
	}

	httputil.WriteJSON(w, http.StatusOK, resolveResponse{Query: query, Results: ranked})
}

// StockQuery handles GET /stock_query
func (h *ProductHandler) StockQuery(w http.ResponseWriter, r *http.Request) {
	query, limit, ok := h.queryParams(w, r)
	if !ok {
		return
	}

	result, err := h.service.StockQuery(r.Context(), query, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stockQueryResponse{
		Query:             result.Query,
		NeedsConfirmation: result.NeedsConfirmation,
		Selected:          result.Selected,
		Stock:             result.Stock,
		TopCandidates:     result.TopCandidates,
		Error:             result.Error,
	})
}

// StockByID handles GET /stock/{id}. A template without a variant is a 404
// with a structured body, applied uniformly.
func (h *ProductHandler) StockByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	stock, err := h.service.StockByTemplate(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if stock == nil {
		stock = []domain.StockRecord{}
	}

	httputil.WriteJSON(w, http.StatusOK, stock)
}

// queryParams extracts and validates the q and limit query parameters shared
// by the GET resolution endpoints.
func (h *ProductHandler) queryParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "q is required",
			Code:  "INVALID_PARAMETER",
		})
		return "", 0, false
	}

	limit := defaultResolveLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "limit must be an integer between 1 and 100",
				Code:  "INVALID_PARAMETER",
			})
			return "", 0, false
		}
		limit = n
	}

	return query, limit, true
}
