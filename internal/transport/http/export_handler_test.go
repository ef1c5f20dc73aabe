package http

import (
	"encoding/csv"
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
	"sinepulse/internal/exporter"
	"sinepulse/internal/filmdata"
	"sinepulse/internal/services"
)

func testExportRouter(t *testing.T) chi.Router {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(handlerTestCSV), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := filmdata.NewStore(path, logger)
	defaults := config.Default().Dashboard
	svc := services.NewDashboardService(store, defaults, logger, nil)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	handler := NewExportHandler(svc, exporter.New(logger, nil),
		defaults.TopGenres, defaults.RuntimeBins, logger, errorHandler)

	r := chi.NewRouter()
	r.Mount("/api/export", handler.Routes())
	return r
}

func TestExportEndpoint_CSV(t *testing.T) {
	router := testExportRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/export/yearly.csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `"yearly.csv"`)

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "count"}, rows[0])
	assert.Len(t, rows, 4) // header + three distinct years
}

func TestExportEndpoint_XLSX(t *testing.T) {
	router := testExportRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/export/genres.xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestExportEndpoint_YearWindow(t *testing.T) {
	router := testExportRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/export/yearly.csv?from=1995&to=1995")

	require.Equal(t, http.StatusOK, rec.Code)
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1995", "2"}, rows[1])
}

func TestExportEndpoint_UnknownReport(t *testing.T) {
	router := testExportRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/export/bogus.csv")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportEndpoint_UnknownFormat(t *testing.T) {
	router := testExportRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/export/yearly.pdf")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
