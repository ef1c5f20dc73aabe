package filmdata

import (
	"strings"

	"sinepulse/pkg/contracts/domain"
)

// Catalog is an immutable set of cleaned film records. All methods are pure
// reads; filtered views share the underlying record storage, so concurrent
// dashboard sessions can query one catalog without locking.
type Catalog struct {
	films []domain.Film
	path  string
}

// NewCatalog wraps an already-cleaned record slice. The caller must not
// mutate films afterwards.
func NewCatalog(films []domain.Film) *Catalog {
	return &Catalog{films: films}
}

// Len returns the number of records, including those with an unknown year.
func (c *Catalog) Len() int {
	return len(c.films)
}

// Path returns the source file the catalog was loaded from, if any.
func (c *Catalog) Path() string {
	return c.path
}

// Films returns the record slice. Callers treat it as read-only.
func (c *Catalog) Films() []domain.Film {
	return c.films
}

// YearBounds returns the minimum and maximum known production years.
// ok is false when no record has a year.
func (c *Catalog) YearBounds() (min, max int, ok bool) {
	for _, f := range c.films {
		if !f.HasYear {
			continue
		}
		if !ok {
			min, max = f.Year, f.Year
			ok = true
			continue
		}
		if f.Year < min {
			min = f.Year
		}
		if f.Year > max {
			max = f.Year
		}
	}
	return min, max, ok
}

// FilterByYearRange returns the subset with a known year inside [lo, hi].
// Records with an absent year are excluded from range-filtered views; they
// still count toward the unfiltered Len.
func (c *Catalog) FilterByYearRange(lo, hi int) *Catalog {
	filtered := make([]domain.Film, 0, len(c.films))
	for _, f := range c.films {
		if f.HasYear && f.Year >= lo && f.Year <= hi {
			filtered = append(filtered, f)
		}
	}
	return &Catalog{films: filtered, path: c.path}
}

// Search returns records whose title contains query, case-insensitively.
// An empty query returns the first limit records of the catalog, matching
// the registry explorer's default view. limit <= 0 means no cap.
func (c *Catalog) Search(query string, limit int) []domain.Film {
	if query == "" {
		if limit <= 0 || limit > len(c.films) {
			limit = len(c.films)
		}
		return c.films[:limit]
	}

	needle := strings.ToLower(query)
	var matches []domain.Film
	for _, f := range c.films {
		if strings.Contains(strings.ToLower(f.Title), needle) {
			matches = append(matches, f)
			if limit > 0 && len(matches) == limit {
				break
			}
		}
	}
	return matches
}
