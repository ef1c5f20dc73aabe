package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler serves liveness, readiness and version endpoints.
type HealthHandler struct {
	service HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes returns the health router, mounted at /api/health.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Liveness)
	r.Get("/ready", h.Readiness)

	return r
}

// Liveness handles GET /api/health
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.Liveness())
}

// Readiness handles GET /api/health/ready
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status, ready := h.service.Readiness(r.Context())
	if !ready {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, dataResponse{Status: "error", Data: status})
		return
	}
	respond(w, r, status)
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.service.Version())
}
