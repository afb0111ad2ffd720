package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/OdooGateway/internal/service"
	"github.com/utafrali/OdooGateway/pkg/health"
	"github.com/utafrali/OdooGateway/pkg/httputil"
	"github.com/utafrali/OdooGateway/pkg/middleware"
)

// RouterConfig holds the router-level knobs sourced from configuration.
type RouterConfig struct {
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all gateway routes registered.
func NewRouter(
	gatewaySvc *service.GatewayService,
	productSvc *service.ProductService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("gateway"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("gateway"))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	}

	// Liveness for humans and load balancers alike.
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "running"})
	})
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	odooHandler := NewOdooHandler(gatewaySvc, logger)
	productHandler := NewProductHandler(productSvc, logger)

	r.Route("/odoo", func(r chi.Router) {
		r.Post("/search_read", odooHandler.SearchRead)
		r.Post("/read", odooHandler.Read)
		r.Post("/fields_get", odooHandler.FieldsGet)
		r.Post("/name_search", odooHandler.NameSearch)
		r.Post("/find_product_templates", productHandler.FindProductTemplates)
	})

	r.Get("/resolve_product", productHandler.ResolveProduct)
	r.Get("/stock_query", productHandler.StockQuery)
	r.Get("/stock/{id}", productHandler.StockByID)

	return r
}
