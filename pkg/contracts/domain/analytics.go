package domain

import "time"

// YearCount is one row of the yearly production trend table.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// GenreCount is one row of the exploded genre distribution. A film with k
// genres contributes one count to each of its k genres.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// RatingCount is one row of the age rating distribution.
type RatingCount struct {
	Rating string `json:"rating"`
	Count  int    `json:"count"`
}

// DecadeRatingCount is one row of the rating-by-decade breakdown.
type DecadeRatingCount struct {
	Decade int    `json:"decade"`
	Rating string `json:"rating"`
	Count  int    `json:"count"`
}

// HistogramBin is one equal-width runtime bucket. Lo is inclusive; Hi is
// exclusive except for the last bin, which includes the maximum value.
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// DashboardKPIs mirrors the metric tiles of the monitoring dashboard.
// Rates are fractions in [0,1] and defined as 0 for an empty selection.
type DashboardKPIs struct {
	TotalFilms         int     `json:"total_films"`
	Unclassified       int     `json:"unclassified"`
	UnclassifiedRate   float64 `json:"unclassified_rate"`
	MissingRuntime     int     `json:"missing_runtime"`
	MissingRuntimeRate float64 `json:"missing_runtime_rate"`
	AverageRuntime     float64 `json:"average_runtime,omitempty"`
	HasAverageRuntime  bool    `json:"has_average_runtime"`
}

// SummaryInsights carries the executive summary signals: production peak,
// dominant genre and runtime outliers.
type SummaryInsights struct {
	PeakYear          int    `json:"peak_year,omitempty"`
	PeakYearCount     int    `json:"peak_year_count,omitempty"`
	HasPeakYear       bool   `json:"has_peak_year"`
	TopGenre          string `json:"top_genre,omitempty"`
	TopGenreCount     int    `json:"top_genre_count,omitempty"`
	LongFilmCount     int    `json:"long_film_count"`
	LongFilmCutoffMin int    `json:"long_film_cutoff_min"`
}

// CatalogInfo describes the loaded catalog file and its identity, exposed by
// GET /api/catalog and pushed to websocket clients after a reload.
type CatalogInfo struct {
	Path        string    `json:"path"`
	LoadedAt    time.Time `json:"loaded_at"`
	ModTime     time.Time `json:"mod_time"`
	SizeBytes   int64     `json:"size_bytes"`
	RecordCount int       `json:"record_count"`
	MinYear     int       `json:"min_year,omitempty"`
	MaxYear     int       `json:"max_year,omitempty"`
	HasYears    bool      `json:"has_years"`
}
