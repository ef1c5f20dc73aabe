package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "sinepulse/internal/errors"
	"sinepulse/internal/exporter"
)

// ExportHandler streams dashboard reports as CSV or Excel downloads. The
// report is built from the same catalog snapshot and year window the
// dashboard endpoints use.
type ExportHandler struct {
	source       ExportSource
	exporter     *exporter.Exporter
	topGenres    int
	runtimeBins  int
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler with the configured report
// defaults.
func NewExportHandler(source ExportSource, exp *exporter.Exporter, topGenres, runtimeBins int, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		source:       source,
		exporter:     exp,
		topGenres:    topGenres,
		runtimeBins:  runtimeBins,
		logger:       logger.With(slog.String("handler", "export")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export router, mounted at /api/export.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{report}.{format}", h.Export)

	return r
}

// Export handles GET /api/export/{report}.{format}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	report := chi.URLParam(r, "report")
	format := chi.URLParam(r, "format")

	contentType := exporter.ContentType(format)
	if contentType == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "must be csv or xlsx"))
		return
	}

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
	bins, err := intParam(r, "bins")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if topN <= 0 {
		topN = h.topGenres
	}
	if bins <= 0 {
		bins = h.runtimeBins
	}

	catalog, err := h.source.Catalog(r.Context(), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	opts := exporter.Options{
		TopGenres:      topN,
		RuntimeBins:    bins,
		LongFilmCutoff: h.source.LongFilmCutoff(),
	}

	// Validate the report name before committing response headers.
	if _, err := h.exporter.BuildTable(catalog, report, opts); err != nil {
		if errors.Is(err, exporter.ErrUnknownReport) {
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError(fmt.Sprintf("report %q", report)))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exporter.Filename(report, format)))

	if err := h.exporter.Export(r.Context(), catalog, report, format, opts, w); err != nil {
		// Headers are already out; the truncated body is all we can signal.
		h.logger.ErrorContext(r.Context(), "export stream failed",
			slog.String("report", report),
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}
