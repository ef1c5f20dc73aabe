// Package app wires configuration, logging, observability, services and the
// HTTP router into one runnable application with graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"sinepulse/internal/config"
	apierrors "sinepulse/internal/errors"
	"sinepulse/internal/exporter"
	"sinepulse/internal/filmdata"
	"sinepulse/internal/infrastructure"
	"sinepulse/internal/middleware"
	"sinepulse/internal/services"
	transport "sinepulse/internal/transport/http"
	"sinepulse/internal/websocket"
)

// Application is the composed film analytics server.
type Application struct {
	config *config.Config
	logger *slog.Logger
	server *http.Server
	otel   *infrastructure.OTelProviders
	hub    *websocket.Hub
	store  *filmdata.Store

	hubCancel context.CancelFunc
}

// New builds the application from configuration. It fails fast: a catalog
// that cannot be loaded at startup is a startup error, not a runtime 500.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to prepare directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	var metrics *infrastructure.BusinessMetrics
	if otelProviders.Meter != nil {
		metrics, err = infrastructure.CreateBusinessMetrics(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
	}

	store := filmdata.NewStore(cfg.CatalogPath(), logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	catalog, err := store.Get(startupCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.CatalogPath(), err)
	}
	logger.Info("catalog loaded",
		slog.String("path", cfg.CatalogPath()),
		slog.Int("record_count", catalog.Len()))
	if metrics != nil {
		metrics.CatalogReloadsTotal.Add(startupCtx, 1)
		metrics.CatalogRecordsLoaded.Add(startupCtx, int64(catalog.Len()))
	}

	app := &Application{
		config: cfg,
		logger: logger,
		otel:   otelProviders,
		store:  store,
		hub:    websocket.NewHub(logger),
	}

	dashboardSvc := services.NewDashboardService(store, cfg.Dashboard, logger, metrics)
	healthSvc := services.NewHealthService(store, infrastructure.ServiceName, infrastructure.ServiceVersion, logger)
	reportExporter := exporter.New(logger, metrics)

	router := app.setupRouter(dashboardSvc, healthSvc, reportExporter)

	app.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// setupRouter assembles the middleware chain and the API routes.
func (a *Application) setupRouter(dashboardSvc *services.DashboardService, healthSvc *services.HealthService, reportExporter *exporter.Exporter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))

	if a.config.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: a.config.Security.AllowedOrigins,
			Logger:         a.logger,
		}))
	}

	if a.config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.config.Security.RateLimit.RPS,
			a.config.Security.RateLimit.Burst,
			a.logger,
		)
		r.Use(limiter.Handler)
	}

	r.Use(middleware.Timeout(a.config.Server.WriteTimeout, a.logger))

	errorHandler := apierrors.NewErrorHandler(a.logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	dashboardHandler := transport.NewDashboardHandler(dashboardSvc, a.logger, errorHandler)
	catalogHandler := transport.NewCatalogHandler(dashboardSvc, dashboardSvc, a.hub, a.logger, errorHandler)
	exportHandler := transport.NewExportHandler(dashboardSvc, reportExporter,
		a.config.Dashboard.TopGenres, a.config.Dashboard.RuntimeBins, a.logger, errorHandler)
	healthHandler := transport.NewHealthHandler(healthSvc, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Mount("/films", catalogHandler.FilmRoutes())
		r.Mount("/catalog", catalogHandler.CatalogRoutes())
		r.Mount("/export", exportHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
	})

	if a.otel.PrometheusHTTP != nil {
		r.Handle("/metrics", a.otel.PrometheusHTTP)
	}

	r.Get("/ws", a.hub.ServeWS)

	if a.config.Paths.WebDir != "" {
		if _, err := os.Stat(a.config.Paths.WebDir); err == nil {
			fileServer := http.FileServer(http.Dir(a.config.Paths.WebDir))
			r.Handle("/*", fileServer)
		}
	}

	return r
}

// Run starts the hub and the HTTP server and blocks until shutdown. It
// returns nil on a clean signal-triggered shutdown.
func (a *Application) Run(ctx context.Context) error {
	hubCtx, cancel := context.WithCancel(context.Background())
	a.hubCancel = cancel
	go a.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("catalog", a.config.CatalogPath()))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down")
	}

	return a.Stop()
}

// Stop gracefully shuts down the server, the hub and the observability
// providers within the configured shutdown timeout.
func (a *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.hubCancel != nil {
		a.hubCancel()
	}

	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			a.logger.Warn("observability shutdown failed", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("server stopped")
	infrastructure.CloseLogFile()
	return nil
}
