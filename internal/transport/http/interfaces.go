package http

import (
	"context"

	"sinepulse/internal/filmdata"
	"sinepulse/internal/services"
	"sinepulse/pkg/contracts/domain"
)

// DashboardService answers the fixed dashboard aggregations.
// Implemented by services.DashboardService.
type DashboardService interface {
	Summary(ctx context.Context, params services.QueryParams) (*services.DashboardSummary, error)
	YearlyTrend(ctx context.Context, params services.QueryParams) ([]domain.YearCount, error)
	TopGenres(ctx context.Context, params services.QueryParams, topN int) ([]domain.GenreCount, error)
	RatingDistribution(ctx context.Context, params services.QueryParams) ([]domain.RatingCount, error)
	RatingByDecade(ctx context.Context, params services.QueryParams) ([]domain.DecadeRatingCount, error)
	RuntimeHistogram(ctx context.Context, params services.QueryParams, bins int) ([]domain.HistogramBin, error)
}

// FilmService answers title searches.
type FilmService interface {
	SearchFilms(ctx context.Context, params services.QueryParams, query string, limit int) ([]services.FilmSearchResult, error)
}

// CatalogService exposes catalog identity and explicit invalidation.
type CatalogService interface {
	CatalogInfo(ctx context.Context) (domain.CatalogInfo, error)
	ReloadCatalog(ctx context.Context) (domain.CatalogInfo, error)
}

// ExportSource supplies catalog snapshots and tunables to the export handler.
type ExportSource interface {
	Catalog(ctx context.Context, params services.QueryParams) (*filmdata.Catalog, error)
	LongFilmCutoff() int
}

// HealthService answers liveness, readiness and version queries.
type HealthService interface {
	Liveness() services.HealthStatus
	Readiness(ctx context.Context) (services.HealthStatus, bool)
	Version() services.VersionInfo
}

// ReloadNotifier is notified after a successful catalog reload. The
// websocket hub implements it; a nil notifier disables push updates.
type ReloadNotifier interface {
	BroadcastCatalogReloaded(info domain.CatalogInfo)
}
