package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/OdooGateway/internal/match"
	"github.com/utafrali/OdooGateway/internal/service"
	"github.com/utafrali/OdooGateway/pkg/health"
)

// --- Mock Executor ---

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) ExecuteKw(ctx context.Context, model, method string, args []any, kw map[string]any) (any, error) {
	a := m.Called(ctx, model, method, args, kw)
	return a.Get(0), a.Error(1)
}

// --- Test Helpers ---

func newTestRouter(exec *mockExecutor) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	matcher := match.NewMatcher(match.DefaultThresholds())
	gatewaySvc := service.NewGatewayService(exec, logger)
	productSvc := service.NewProductService(exec, matcher, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("odoo", func(context.Context) error { return nil })

	return NewRouter(gatewaySvc, productSvc, healthHandler, RouterConfig{}, logger)
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func records(recs ...map[string]any) []any {
	out := make([]any, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return out
}

// --- Tests ---

func TestRoot_ReportsRunning(t *testing.T) {
	router := newTestRouter(new(mockExecutor))

	rec := doRequest(t, router, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "running"}, decodeBody(t, rec))
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(new(mockExecutor))

	rec := doRequest(t, router, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchRead_StringDomainForm(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("ExecuteKw", mock.Anything, "product.template", "search_read", mock.Anything, mock.Anything).
		Return(records(map[string]any{"id": int64(1), "name": "Moka"}), nil)

	router := newTestRouter(exec)

	body := `{"model": "product.template", "domain": "[[\"name\", \"ilike\", \"moka\"]]", "fields": "id,name"}`
	rec := doRequest(t, router, http.MethodPost, "/odoo/search_read", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var result []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "Moka", result[0]["name"])
	exec.AssertExpectations(t)
}

func TestSearchRead_MissingModel(t *testing.T) {
	router := newTestRouter(new(mockExecutor))

	rec := doRequest(t, router, http.MethodPost, "/odoo/search_read", `{"domain": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestSearchRead_MalformedDomain(t *testing.T) {
	router := newTestRouter(new(mockExecutor))

	body := `{"model": "product.template", "domain": "not json"}`
	rec := doRequest(t, router, http.MethodPost, "/odoo/search_read", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeBody(t, rec)["code"])
}

func TestFindProductTemplates(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("ExecuteKw", mock.Anything, "product.template", "search_read", mock.Anything, mock.Anything).
		Return(records(
			map[string]any{"id": int64(1), "name": "Green Tea"},
			map[string]any{"id": int64(2), "name": "Cafe Noisette"},
		), nil)

	router := newTestRouter(exec)

	rec := doRequest(t, router, http.MethodPost, "/odoo/find_product_templates", `{"q": "cafe noisette"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "cafe noisette", body["query"])

	results, ok := body["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "Cafe Noisette", first["name"])
}

func TestResolveProduct_RequiresQuery(t *testing.T) {
	router := newTestRouter(new(mockExecutor))

	rec := doRequest(t, router, http.MethodGet, "/resolve_product", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeBody(t, rec)["code"])
}

func TestResolveProduct_InvalidLimit(t *testing.T) {
	router := newTestRouter(new(mockExecutor))

	rec := doRequest(t, router, http.MethodGet, "/resolve_product?q=moka&limit=1000", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveProduct_ReturnsScoredCandidates(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("ExecuteKw", mock.Anything, "product.template", "search_read", mock.Anything, mock.Anything).
		Return(records(
			map[string]any{"id": int64(2), "name": "Cafe Noisette", "default_code": false, "barcode": false},
		), nil)

	router := newTestRouter(exec)

	rec := doRequest(t, router, http.MethodGet, "/resolve_product?q=noisette", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "Cafe Noisette", first["name"])
	assert.Greater(t, first["score"].(float64), 0.0)
}

func TestStockQuery_ConfidentMatch(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("ExecuteKw", mock.Anything, "product.template", "search_read", mock.Anything, mock.Anything).
		Return(records(
			map[string]any{"id": int64(42), "name": "Cafe Noisette", "default_code": false, "barcode": false},
		), nil)
	exec.On("ExecuteKw", mock.Anything, "product.product", "search_read", mock.Anything, mock.Anything).
		Return(records(map[string]any{"id": int64(99)}), nil)
	exec.On("ExecuteKw", mock.Anything, "stock.quant", "search_read", mock.Anything, mock.Anything).
		Return(records(
			map[string]any{"location_id": []any{int64(8), "WH/Stock"}, "quantity": 4.0},
		), nil)

	router := newTestRouter(exec)

	rec := doRequest(t, router, http.MethodGet, "/stock_query?q=cafe+noisette", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["needs_confirmation"])
	require.NotNil(t, body["selected"])
	stock := body["stock"].([]any)
	require.Len(t, stock, 1)
	assert.Equal(t, "WH/Stock", stock[0].(map[string]any)["location"])
	assert.Nil(t, body["top_candidates"])
	assert.Nil(t, body["error"])
}

func TestStockQuery_AmbiguousMatch(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("ExecuteKw", mock.Anything, "product.template", "search_read", mock.Anything, mock.Anything).
		Return(records(
			map[string]any{"id": int64(1), "name": "Cafe Noisette", "default_code": false, "barcode": false},
			map[string]any{"id": int64(2), "name": "Cafe Noisette Bio", "default_code": false, "barcode": false},
		), nil)

	router := newTestRouter(exec)

	rec := doRequest(t, router, http.MethodGet, "/stock_query?q=cafe+noisette", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["needs_confirmation"])
	assert.Nil(t, body["selected"])
	assert.Nil(t, body["stock"])

	candidates := body["top_candidates"].([]any)
	assert.Len(t, candidates, 2)
}

func TestStockByID(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("ExecuteKw", mock.Anything, "product.product", "search_read", mock.Anything, mock.Anything).
		Return(records(map[string]any{"id": int64(99)}), nil)
	exec.On("ExecuteKw", mock.Anything, "stock.quant", "search_read", mock.Anything, mock.Anything).
		Return(records(
			map[string]any{"location_id": []any{int64(8), "WH/Stock"}, "quantity": 4.0},
		), nil)

	router := newTestRouter(exec)

	rec := doRequest(t, router, http.MethodGet, "/stock/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var stock []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stock))
	require.Len(t, stock, 1)
	assert.Equal(t, "WH/Stock", stock[0]["location"])
}

func TestStockByID_NoVariant(t *testing.T) {
	exec := new(mockExecutor)
	exec.On("ExecuteKw", mock.Anything, "product.product", "search_read", mock.Anything, mock.Anything).
		Return(records(), nil)

	router := newTestRouter(exec)

	rec := doRequest(t, router, http.MethodGet, "/stock/42", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "No variant found", body["error"])
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestStockByID_InvalidID(t *testing.T) {
	router := newTestRouter(new(mockExecutor))

	rec := doRequest(t, router, http.MethodGet, "/stock/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeBody(t, rec)["code"])
}
