package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"sinepulse/internal/filmdata"
)

// HealthStatus is the payload of the liveness and readiness endpoints.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Checks    []Check   `json:"checks,omitempty"`
}

// Check is one named readiness probe result.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// HealthService answers liveness, readiness and version queries. Readiness
// requires the catalog to be loadable; liveness only requires the process.
type HealthService struct {
	store     *filmdata.Store
	logger    *slog.Logger
	service   string
	version   string
	startedAt time.Time
}

// NewHealthService creates a health service probing the given store.
func NewHealthService(store *filmdata.Store, service, version string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		store:     store,
		logger:    logger.With(slog.String("service", "health")),
		service:   service,
		version:   version,
		startedAt: time.Now(),
	}
}

// Liveness reports that the process is up. It never fails.
func (s *HealthService) Liveness() HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
	}
}

// Readiness reports whether the service can answer dashboard queries, which
// means the catalog file must stat and parse.
func (s *HealthService) Readiness(ctx context.Context) (HealthStatus, bool) {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
	}

	catalogCheck := Check{Name: "catalog", Status: "ok"}
	if catalog, err := s.store.Get(ctx); err != nil {
		catalogCheck.Status = "failed"
		catalogCheck.Detail = err.Error()
		status.Status = "not_ready"
		s.logger.WarnContext(ctx, "readiness check failed", slog.String("error", err.Error()))
	} else if catalog.Len() == 0 {
		catalogCheck.Detail = "catalog is empty"
	}
	status.Checks = append(status.Checks, catalogCheck)

	return status, status.Status == "ready"
}

// Version returns build identity for the version endpoint.
func (s *HealthService) Version() VersionInfo {
	return VersionInfo{
		Service:   s.service,
		Version:   s.version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
