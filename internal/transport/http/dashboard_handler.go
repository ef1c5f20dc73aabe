package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "sinepulse/internal/errors"
)

// DashboardHandler serves the chart and KPI aggregation endpoints. All of
// them accept the optional from/to year window.
type DashboardHandler struct {
	service      DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard router, mounted at /api/dashboard.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", h.Summary)
	r.Get("/trends/yearly", h.YearlyTrend)
	r.Get("/genres", h.TopGenres)
	r.Get("/ratings", h.RatingDistribution)
	r.Get("/ratings/decades", h.RatingByDecade)
	r.Get("/runtime/histogram", h.RuntimeHistogram)

	return r
}

// Summary handles GET /api/dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	params, err := yearParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respond(w, r, summary)
}

// YearlyTrend handles GET /api/dashboard/trends/yearly
func (h *DashboardHandler) YearlyTrend(w http.ResponseWriter, r *http.Request) {
	params, err := yearParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.YearlyTrend(r.Context(), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respondList(w, r, rows, len(rows))
}

// TopGenres handles GET /api/dashboard/genres?top=N
func (h *DashboardHandler) TopGenres(w http.ResponseWriter, r *http.Request) {
	params, err := yearParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	topN, err := intParam(r, "top")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.TopGenres(r.Context(), params, topN)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respondList(w, r, rows, len(rows))
}

// RatingDistribution handles GET /api/dashboard/ratings
func (h *DashboardHandler) RatingDistribution(w http.ResponseWriter, r *http.Request) {
	params, err := yearParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.RatingDistribution(r.Context(), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respondList(w, r, rows, len(rows))
}

// RatingByDecade handles GET /api/dashboard/ratings/decades
func (h *DashboardHandler) RatingByDecade(w http.ResponseWriter, r *http.Request) {
	params, err := yearParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.RatingByDecade(r.Context(), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respondList(w, r, rows, len(rows))
}

// RuntimeHistogram handles GET /api/dashboard/runtime/histogram?bins=N
func (h *DashboardHandler) RuntimeHistogram(w http.ResponseWriter, r *http.Request) {
	params, err := yearParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	bins, err := intParam(r, "bins")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.RuntimeHistogram(r.Context(), params, bins)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respondList(w, r, rows, len(rows))
}
