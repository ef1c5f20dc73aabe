package services

import "errors"

// Service-level sentinel errors. Handlers map these onto transport errors
// with errors.Is, so wrap rather than replace them when adding context.
var (
	// ErrInvalidYearRange indicates a year filter where from exceeds to.
	ErrInvalidYearRange = errors.New("invalid year range: from exceeds to")

	// ErrInvalidQuery indicates a query parameter outside its allowed range.
	ErrInvalidQuery = errors.New("invalid query parameter")

	// ErrNoFilmsFound indicates an empty result where at least one record
	// was required.
	ErrNoFilmsFound = errors.New("no films found")

	// ErrCatalogNotLoaded indicates the catalog has not been loaded yet.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)
