package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "sinepulse/internal/errors"
)

// CatalogHandler serves the catalog identity endpoint and the explicit
// reload trigger, and the title search endpoint.
type CatalogHandler struct {
	catalogs     CatalogService
	films        FilmService
	notifier     ReloadNotifier
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCatalogHandler creates a catalog handler. notifier may be nil.
func NewCatalogHandler(catalogs CatalogService, films FilmService, notifier ReloadNotifier, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CatalogHandler {
	return &CatalogHandler{
		catalogs:     catalogs,
		films:        films,
		notifier:     notifier,
		logger:       logger.With(slog.String("handler", "catalog")),
		errorHandler: errorHandler,
	}
}

// CatalogRoutes returns the router mounted at /api/catalog.
func (h *CatalogHandler) CatalogRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Info)
	r.Post("/reload", h.Reload)

	return r
}

// FilmRoutes returns the router mounted at /api/films.
func (h *CatalogHandler) FilmRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Search)

	return r
}

// Info handles GET /api/catalog
func (h *CatalogHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalogs.CatalogInfo(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respond(w, r, info)
}

// Reload handles POST /api/catalog/reload
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalogs.ReloadCatalog(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	if h.notifier != nil {
		h.notifier.BroadcastCatalogReloaded(info)
	}

	h.logger.InfoContext(r.Context(), "catalog reload triggered",
		slog.Int("record_count", info.RecordCount))

	respond(w, r, info)
}

// Search handles GET /api/films?q=&limit=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := yearParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	query := r.URL.Query().Get("q")

	results, err := h.films.SearchFilms(r.Context(), params, query, limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceErrorToAPI(err))
		return
	}

	respondList(w, r, results, len(results))
}
