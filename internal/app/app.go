package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/OdooGateway/internal/config"
	handler "github.com/utafrali/OdooGateway/internal/handler/http"
	"github.com/utafrali/OdooGateway/internal/match"
	"github.com/utafrali/OdooGateway/internal/odoo"
	"github.com/utafrali/OdooGateway/internal/service"
	"github.com/utafrali/OdooGateway/pkg/health"
	"github.com/utafrali/OdooGateway/pkg/tracing"
)

// App wires together all dependencies and runs the gateway.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// The Odoo handshake happens here: a failed authentication refuses startup.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "odoo-gateway",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Single long-lived Odoo session, authenticated once and shared
	// read-only by every request.
	client, err := odoo.NewClient(odoo.Config{
		URL:      cfg.OdooURL,
		Database: cfg.OdooDB,
		Username: cfg.OdooUsername,
		APIKey:   cfg.OdooAPIKey,
	}, odoo.DefaultTransportConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("create odoo client: %w", err)
	}
	if err := client.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("odoo handshake: %w", err)
	}

	matcher := match.NewMatcher(match.Thresholds{
		MinScore:       cfg.MatchMinScore,
		MinMargin:      cfg.MatchMinMargin,
		SubstringBonus: cfg.MatchSubstringBonus,
		MaxSuggestions: cfg.MatchMaxSuggestions,
	})

	gatewayService := service.NewGatewayService(client, logger)
	productService := service.NewProductService(client, matcher, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("odoo", client.Ping)

	router := handler.NewRouter(gatewayService, productService, healthHandler, handler.RouterConfig{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
