package filmdata

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"sinepulse/internal/errors"
	"sinepulse/pkg/contracts/domain"
)

// fileIdentity is the cache key for a loaded catalog: path plus mtime and
// size. Hashing multi-megabyte CSVs on every request would cost more than
// the stat call, and an edited file practically always changes one of the
// two.
type fileIdentity struct {
	path    string
	modTime time.Time
	size    int64
}

// Store memoizes the catalog load keyed on file identity. Reads share one
// immutable Catalog; a reload swaps the pointer under the write lock, so
// in-flight queries keep the snapshot they started with.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	catalog  *Catalog
	identity fileIdentity
	loadedAt time.Time
}

// NewStore creates a store for the catalog at path. Nothing is loaded until
// the first Get or Reload.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

// Get returns the current catalog, loading it on first use and reloading
// only when the file identity has changed since the cached load.
func (s *Store) Get(ctx context.Context) (*Catalog, error) {
	identity, err := s.stat()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.catalog != nil && s.identity == identity {
		catalog := s.catalog
		s.mu.RUnlock()
		return catalog, nil
	}
	s.mu.RUnlock()

	return s.load(ctx, identity)
}

// Reload forces a fresh load regardless of the cached identity. This is the
// explicit invalidation entry point behind POST /api/catalog/reload.
func (s *Store) Reload(ctx context.Context) (*Catalog, error) {
	identity, err := s.stat()
	if err != nil {
		return nil, err
	}
	return s.load(ctx, identity)
}

// Info describes the cached catalog. ok is false before the first load.
func (s *Store) Info() (domain.CatalogInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.catalog == nil {
		return domain.CatalogInfo{}, false
	}

	info := domain.CatalogInfo{
		Path:        s.path,
		LoadedAt:    s.loadedAt,
		ModTime:     s.identity.modTime,
		SizeBytes:   s.identity.size,
		RecordCount: s.catalog.Len(),
	}
	info.MinYear, info.MaxYear, info.HasYears = s.catalog.YearBounds()
	return info, true
}

func (s *Store) stat() (fileIdentity, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return fileIdentity{}, errors.NewStorageError("failed to stat catalog file", err)
	}
	return fileIdentity{path: s.path, modTime: fi.ModTime(), size: fi.Size()}, nil
}

func (s *Store) load(ctx context.Context, identity fileIdentity) (*Catalog, error) {
	catalog, err := Load(s.path, s.logger)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.catalog = catalog
	s.identity = identity
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "catalog cached",
		slog.String("path", s.path),
		slog.Int("record_count", catalog.Len()),
		slog.Int64("size_bytes", identity.size),
		slog.Time("mod_time", identity.modTime))

	return catalog, nil
}
