package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	apierrors "sinepulse/internal/errors"
	"sinepulse/internal/services"
)

// dataResponse is the success envelope shared by all JSON endpoints.
type dataResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  int         `json:"count,omitempty"`
}

// respond writes a success envelope around data.
func respond(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, dataResponse{Status: "success", Data: data})
}

// respondList writes a success envelope with an explicit row count, so
// chart clients can distinguish an empty table from a missing one.
func respondList(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	render.JSON(w, r, dataResponse{Status: "success", Data: data, Count: count})
}

// yearParams extracts the optional from/to year window from the query string.
func yearParams(r *http.Request) (services.QueryParams, error) {
	var params services.QueryParams

	if raw := r.URL.Query().Get("from"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return params, apierrors.ErrValidation("from", "must be an integer year")
		}
		params.FromYear = &year
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return params, apierrors.ErrValidation("to", "must be an integer year")
		}
		params.ToYear = &year
	}
	return params, nil
}

// intParam parses an optional positive integer query parameter. Zero means
// absent, letting the service apply its configured default.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apierrors.ErrValidation(name, "must be a positive integer")
	}
	return n, nil
}

// serviceErrorToAPI translates service sentinels to transport errors.
// Unknown errors pass through for the central handler's taxonomy mapping.
func serviceErrorToAPI(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidYearRange):
		return apierrors.ErrValidation("from/to", "from year must not exceed to year")
	case errors.Is(err, services.ErrInvalidQuery):
		return apierrors.NewValidationError(err.Error())
	case errors.Is(err, services.ErrNoFilmsFound):
		return apierrors.NotFoundError("films")
	case errors.Is(err, services.ErrCatalogNotLoaded):
		return apierrors.ErrCatalogLoadFailure(err)
	default:
		return err
	}
}
