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

	"sinepulse/internal/filmdata"
	"sinepulse/internal/services"
)

func testHealthRouter(t *testing.T, catalogCSV string) chi.Router {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	path := filepath.Join(t.TempDir(), "catalog.csv")
	if catalogCSV != "" {
		require.NoError(t, os.WriteFile(path, []byte(catalogCSV), 0o644))
	}
	store := filmdata.NewStore(path, logger)

	handler := NewHealthHandler(services.NewHealthService(store, "sinepulse", "test", logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())
	r.Get("/api/version", handler.Version)
	return r
}

func TestLivenessEndpoint(t *testing.T) {
	router := testHealthRouter(t, handlerTestCSV)

	rec := doRequest(t, router, http.MethodGet, "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
}

func TestReadinessEndpoint(t *testing.T) {
	router := testHealthRouter(t, handlerTestCSV)

	rec := doRequest(t, router, http.MethodGet, "/api/health/ready")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "ready", data["status"])
}

func TestReadinessEndpoint_MissingCatalog(t *testing.T) {
	router := testHealthRouter(t, "")

	rec := doRequest(t, router, http.MethodGet, "/api/health/ready")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "error", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "not_ready", data["status"])
}

func TestVersionEndpoint(t *testing.T) {
	router := testHealthRouter(t, handlerTestCSV)

	rec := doRequest(t, router, http.MethodGet, "/api/version")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "sinepulse", data["service"])
	assert.Equal(t, "test", data["version"])
	assert.NotEmpty(t, data["go_version"])
}
