// Command filmreport generates the full set of dashboard reports from a
// catalog CSV without starting the server. One file per report and format
// is written to the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"sinepulse/internal/config"
	"sinepulse/internal/exporter"
	"sinepulse/internal/filmdata"
)

func main() {
	cfg := config.Default()

	catalogPath := flag.String("catalog", cfg.Paths.CatalogFile, "path to the catalog CSV")
	outDir := flag.String("out", cfg.Paths.ReportsDir, "output directory for report files")
	format := flag.String("format", "", "restrict output to one format (csv or xlsx)")
	fromYear := flag.Int("from", 0, "lower bound of the year filter (0 = unbounded)")
	toYear := flag.Int("to", 0, "upper bound of the year filter (0 = unbounded)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := run(*catalogPath, *outDir, *format, *fromYear, *toYear, cfg.Dashboard, logger); err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(catalogPath, outDir, format string, fromYear, toYear int, defaults config.Dashboard, logger *slog.Logger) error {
	catalog, err := filmdata.Load(catalogPath, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if fromYear != 0 || toYear != 0 {
		lo, hi, ok := catalog.YearBounds()
		if ok {
			if fromYear != 0 {
				lo = fromYear
			}
			if toYear != 0 {
				hi = toYear
			}
			if lo > hi {
				return fmt.Errorf("invalid year filter: %d..%d", lo, hi)
			}
			catalog = catalog.FilterByYearRange(lo, hi)
		}
	}

	logger.Info("catalog loaded",
		slog.String("path", catalogPath),
		slog.Int("record_count", catalog.Len()))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	formats := []string{exporter.FormatCSV, exporter.FormatXLSX}
	if format != "" {
		if exporter.ContentType(format) == "" {
			return fmt.Errorf("unsupported format: %s", format)
		}
		formats = []string{format}
	}

	reports := []string{
		exporter.ReportSummary,
		exporter.ReportYearly,
		exporter.ReportGenres,
		exporter.ReportRatings,
		exporter.ReportDecades,
		exporter.ReportRuntime,
		exporter.ReportFilms,
	}

	opts := exporter.Options{
		TopGenres:      defaults.TopGenres,
		RuntimeBins:    defaults.RuntimeBins,
		LongFilmCutoff: defaults.LongFilmMinutes,
	}

	exp := exporter.New(logger, nil)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(4)

	for _, report := range reports {
		for _, f := range formats {
			report, f := report, f
			g.Go(func() error {
				path := filepath.Join(outDir, exporter.Filename(report, f))
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				defer file.Close()

				if err := exp.Export(ctx, catalog, report, f, opts, file); err != nil {
					return err
				}
				logger.Info("report written", slog.String("path", path))
				return nil
			})
		}
	}

	return g.Wait()
}
