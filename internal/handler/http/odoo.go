package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/utafrali/OdooGateway/internal/domain"
	"github.com/utafrali/OdooGateway/internal/service"
	apperrors "github.com/utafrali/OdooGateway/pkg/errors"
	"github.com/utafrali/OdooGateway/pkg/httputil"
	"github.com/utafrali/OdooGateway/pkg/validator"
)

// OdooHandler serves the generic passthrough endpoints. Responses carry the
// raw Odoo payload so callers of the original gateway stay compatible.
type OdooHandler struct {
	service *service.GatewayService
	logger  *slog.Logger
}

// NewOdooHandler creates a new passthrough HTTP handler.
func NewOdooHandler(svc *service.GatewayService, logger *slog.Logger) *OdooHandler {
	return &OdooHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SearchReadRequest is the JSON body for POST /odoo/search_read. Domain and
// fields accept both a JSON array and a string-encoded form.
type SearchReadRequest struct {
	Model   string          `json:"model" validate:"required"`
	Domain  json.RawMessage `json:"domain"`
	Fields  json.RawMessage `json:"fields"`
	Limit   int             `json:"limit" validate:"gte=0"`
	Offset  int             `json:"offset" validate:"gte=0"`
	Order   string          `json:"order"`
	Context map[string]any  `json:"context"`
}

// ReadRequest is the JSON body for POST /odoo/read.
type ReadRequest struct {
	Model   string          `json:"model" validate:"required"`
	IDs     []int           `json:"ids" validate:"required,min=1"`
	Fields  json.RawMessage `json:"fields"`
	Context map[string]any  `json:"context"`
}

// FieldsGetRequest is the JSON body for POST /odoo/fields_get.
type FieldsGetRequest struct {
	Model      string         `json:"model" validate:"required"`
	Attributes []string       `json:"attributes"`
	Context    map[string]any `json:"context"`
}

// NameSearchRequest is the JSON body for POST /odoo/name_search.
type NameSearchRequest struct {
	Model   string          `json:"model" validate:"required"`
	Name    string          `json:"name" validate:"required"`
	Domain  json.RawMessage `json:"domain"`
	Limit   int             `json:"limit" validate:"gte=0"`
	Context map[string]any  `json:"context"`
}

// --- Handlers ---

// SearchRead handles POST /odoo/search_read
func (h *OdooHandler) SearchRead(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SearchReadRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	dom, err := domain.ParseRaw(req.Domain)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}
	fields, err := domain.ParseFields(req.Fields)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	if req.Limit == 0 {
		req.Limit = 80
	}

	result, err := h.service.SearchRead(r.Context(), service.SearchReadInput{
		Model:   req.Model,
		Domain:  dom,
		Fields:  fields,
		Limit:   req.Limit,
		Offset:  req.Offset,
		Order:   req.Order,
		Context: req.Context,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Read handles POST /odoo/read
func (h *OdooHandler) Read(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReadRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	fields, err := domain.ParseFields(req.Fields)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	result, err := h.service.Read(r.Context(), req.Model, req.IDs, fields, req.Context)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// FieldsGet handles POST /odoo/fields_get
func (h *OdooHandler) FieldsGet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FieldsGetRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.FieldsGet(r.Context(), req.Model, req.Attributes, req.Context)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// NameSearch handles POST /odoo/name_search
func (h *OdooHandler) NameSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req NameSearchRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	dom, err := domain.ParseRaw(req.Domain)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	if req.Limit == 0 {
		req.Limit = 10
	}

	result, err := h.service.NameSearch(r.Context(), req.Model, req.Name, dom, req.Limit, req.Context)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
