package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sinepulse/internal/config"
	apierrors "sinepulse/internal/errors"
	"sinepulse/internal/filmdata"
	"sinepulse/internal/services"
	"sinepulse/pkg/contracts/domain"
)

// recordingNotifier captures reload broadcasts.
type recordingNotifier struct {
	events []domain.CatalogInfo
}

func (n *recordingNotifier) BroadcastCatalogReloaded(info domain.CatalogInfo) {
	n.events = append(n.events, info)
}

func testCatalogRouter(t *testing.T, notifier ReloadNotifier) chi.Router {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(handlerTestCSV), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := filmdata.NewStore(path, logger)
	svc := services.NewDashboardService(store, config.Default().Dashboard, logger, nil)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	handler := NewCatalogHandler(svc, svc, notifier, logger, errorHandler)

	r := chi.NewRouter()
	r.Mount("/api/catalog", handler.CatalogRoutes())
	r.Mount("/api/films", handler.FilmRoutes())
	return r
}

func TestCatalogInfoEndpoint(t *testing.T) {
	router := testCatalogRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/catalog")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["record_count"])
	assert.Equal(t, true, data["has_years"])
	assert.Equal(t, float64(1994), data["min_year"])
	assert.Equal(t, float64(1996), data["max_year"])
}

func TestCatalogReloadEndpoint_NotifiesClients(t *testing.T) {
	notifier := &recordingNotifier{}
	router := testCatalogRouter(t, notifier)

	rec := doRequest(t, router, http.MethodPost, "/api/catalog/reload")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, 4, notifier.events[0].RecordCount)
}

func TestCatalogReloadEndpoint_WrongMethod(t *testing.T) {
	router := testCatalogRouter(t, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/catalog/reload")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFilmSearchEndpoint(t *testing.T) {
	router := testCatalogRouter(t, nil)

	t.Run("default listing", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/films")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, float64(4), body["count"])
	})

	t.Run("query match", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/films?q=film+b")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeEnvelope(t, rec)
		require.Equal(t, float64(1), body["count"])
		row := body["data"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "Film B", row["title"])
		assert.Equal(t, "13+", row["rating"])
	})

	t.Run("limit", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/films?limit=2")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(2), decodeEnvelope(t, rec)["count"])
	})

	t.Run("year window applies to search", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/films?from=1996&to=1996")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeEnvelope(t, rec)
		require.Equal(t, float64(1), body["count"])
		row := body["data"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "Film D", row["title"])
	})
}
