package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"sinepulse/internal/config"
	"sinepulse/internal/filmdata"
	"sinepulse/internal/infrastructure"
	"sinepulse/pkg/contracts/domain"
)

// QueryParams narrows a dashboard query to a production year window. Nil
// bounds mean unbounded on that side; records without a known year are
// excluded as soon as either bound is set.
type QueryParams struct {
	FromYear *int `validate:"omitempty,min=1800,max=2200"`
	ToYear   *int `validate:"omitempty,min=1800,max=2200"`
}

// bounded reports whether any year filter is in effect.
func (p QueryParams) bounded() bool {
	return p.FromYear != nil || p.ToYear != nil
}

// DashboardSummary is the single payload behind the summary endpoint: the
// KPI tiles, the headline insights and the applied selection window.
type DashboardSummary struct {
	KPIs     domain.DashboardKPIs   `json:"kpis"`
	Insights domain.SummaryInsights `json:"insights"`
	FromYear int                    `json:"from_year,omitempty"`
	ToYear   int                    `json:"to_year,omitempty"`
	Filtered bool                   `json:"filtered"`
}

// FilmSearchResult is one row of the title search response.
type FilmSearchResult struct {
	Title      string   `json:"title"`
	Year       int      `json:"year,omitempty"`
	HasYear    bool     `json:"has_year"`
	RuntimeMin int      `json:"runtime_min,omitempty"`
	HasRuntime bool     `json:"has_runtime"`
	Genres     []string `json:"genres"`
	Rating     string   `json:"rating"`
}

// DashboardService answers the fixed set of dashboard aggregations over the
// catalog store. Every method resolves the current catalog snapshot, applies
// the year window, and delegates to the pure aggregation layer, so two
// identical requests against an unchanged file return identical payloads.
type DashboardService struct {
	store    *filmdata.Store
	defaults config.Dashboard
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *infrastructure.BusinessMetrics
}

// NewDashboardService creates a dashboard service over the given store.
// metrics may be nil, for tests and the offline report tool.
func NewDashboardService(store *filmdata.Store, defaults config.Dashboard, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:    store,
		defaults: defaults,
		validate: validator.New(),
		logger:   logger.With(slog.String("service", "dashboard")),
		metrics:  metrics,
	}
}

// view resolves the catalog and applies the year window from params.
func (s *DashboardService) view(ctx context.Context, params QueryParams) (*filmdata.Catalog, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, err)
	}
	if params.FromYear != nil && params.ToYear != nil && *params.FromYear > *params.ToYear {
		return nil, ErrInvalidYearRange
	}

	catalog, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !params.bounded() {
		return catalog, nil
	}

	lo, hi, ok := catalog.YearBounds()
	if !ok {
		// No record carries a year, so any bounded view is empty.
		return catalog.FilterByYearRange(1, 0), nil
	}
	if params.FromYear != nil {
		lo = *params.FromYear
	}
	if params.ToYear != nil {
		hi = *params.ToYear
	}
	return catalog.FilterByYearRange(lo, hi), nil
}

// count records a dashboard query on the business metrics, when wired.
func (s *DashboardService) count(ctx context.Context, kind string) {
	if s.metrics != nil {
		s.metrics.DashboardQueriesTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("query", kind)))
	}
}

// Summary returns the KPI tiles and headline insights for the selection.
func (s *DashboardService) Summary(ctx context.Context, params QueryParams) (*DashboardSummary, error) {
	catalog, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	s.count(ctx, "summary")

	summary := &DashboardSummary{
		KPIs:     catalog.KPIs(),
		Insights: catalog.Insights(s.defaults.LongFilmMinutes),
		Filtered: params.bounded(),
	}
	if params.FromYear != nil {
		summary.FromYear = *params.FromYear
	}
	if params.ToYear != nil {
		summary.ToYear = *params.ToYear
	}
	return summary, nil
}

// YearlyTrend returns the per-year production counts, ascending.
func (s *DashboardService) YearlyTrend(ctx context.Context, params QueryParams) ([]domain.YearCount, error) {
	catalog, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	s.count(ctx, "yearly_trend")
	return catalog.YearlyCounts(), nil
}

// TopGenres returns the topN exploded genre counts. topN <= 0 falls back to
// the configured default.
func (s *DashboardService) TopGenres(ctx context.Context, params QueryParams, topN int) ([]domain.GenreCount, error) {
	if topN <= 0 {
		topN = s.defaults.TopGenres
	}
	if topN > 100 {
		return nil, fmt.Errorf("%w: top must be at most 100", ErrInvalidQuery)
	}

	catalog, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	s.count(ctx, "top_genres")
	return catalog.GenreCounts(topN), nil
}

// RatingDistribution returns counts per age rating label.
func (s *DashboardService) RatingDistribution(ctx context.Context, params QueryParams) ([]domain.RatingCount, error) {
	catalog, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	s.count(ctx, "rating_distribution")
	return catalog.RatingDistribution(), nil
}

// RatingByDecade returns the per-decade rating breakdown.
func (s *DashboardService) RatingByDecade(ctx context.Context, params QueryParams) ([]domain.DecadeRatingCount, error) {
	catalog, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	s.count(ctx, "rating_by_decade")
	return catalog.RatingByDecade(), nil
}

// RuntimeHistogram buckets the known runtimes. bins <= 0 falls back to the
// configured default.
func (s *DashboardService) RuntimeHistogram(ctx context.Context, params QueryParams, bins int) ([]domain.HistogramBin, error) {
	if bins <= 0 {
		bins = s.defaults.RuntimeBins
	}
	if bins > 200 {
		return nil, fmt.Errorf("%w: bins must be at most 200", ErrInvalidQuery)
	}

	catalog, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	s.count(ctx, "runtime_histogram")
	return catalog.RuntimeHistogram(bins), nil
}

// SearchFilms returns title matches, capped at limit. limit <= 0 falls back
// to the configured result cap. An empty query returns the head of the
// catalog, mirroring the explorer's default listing.
func (s *DashboardService) SearchFilms(ctx context.Context, params QueryParams, query string, limit int) ([]FilmSearchResult, error) {
	if limit <= 0 {
		limit = s.defaults.SearchResultCap
	}

	catalog, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	s.count(ctx, "film_search")

	films := catalog.Search(query, limit)
	results := make([]FilmSearchResult, 0, len(films))
	for _, f := range films {
		results = append(results, FilmSearchResult{
			Title:      f.Title,
			Year:       f.Year,
			HasYear:    f.HasYear,
			RuntimeMin: f.RuntimeMin,
			HasRuntime: f.HasRuntime,
			Genres:     f.Genres,
			Rating:     f.RatingClean,
		})
	}
	return results, nil
}

// CatalogInfo describes the currently cached catalog, loading it first if
// nothing has been cached yet.
func (s *DashboardService) CatalogInfo(ctx context.Context) (domain.CatalogInfo, error) {
	if _, ok := s.store.Info(); !ok {
		if _, err := s.store.Get(ctx); err != nil {
			return domain.CatalogInfo{}, err
		}
	}
	info, ok := s.store.Info()
	if !ok {
		return domain.CatalogInfo{}, ErrCatalogNotLoaded
	}
	return info, nil
}

// ReloadCatalog forces a fresh load from disk and returns the new identity.
func (s *DashboardService) ReloadCatalog(ctx context.Context) (domain.CatalogInfo, error) {
	catalog, err := s.store.Reload(ctx)
	if err != nil {
		return domain.CatalogInfo{}, err
	}

	if s.metrics != nil {
		s.metrics.CatalogReloadsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("trigger", "api")))
		s.metrics.CatalogRecordsLoaded.Add(ctx, int64(catalog.Len()))
	}

	s.logger.InfoContext(ctx, "catalog reloaded on request",
		slog.Int("record_count", catalog.Len()))

	info, ok := s.store.Info()
	if !ok {
		return domain.CatalogInfo{}, ErrCatalogNotLoaded
	}
	return info, nil
}

// Catalog exposes the current catalog snapshot for callers that need the raw
// aggregation surface, such as the report exporter.
func (s *DashboardService) Catalog(ctx context.Context, params QueryParams) (*filmdata.Catalog, error) {
	return s.view(ctx, params)
}

// LongFilmCutoff returns the configured long film threshold in minutes.
func (s *DashboardService) LongFilmCutoff() int {
	return s.defaults.LongFilmMinutes
}
