// Package exporter renders the dashboard aggregation tables as downloadable
// CSV and Excel reports. Every report is a flat table built from a catalog
// snapshot, so an export and the dashboard view it mirrors always agree.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"sinepulse/internal/filmdata"
	"sinepulse/internal/infrastructure"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Report names accepted by Export.
const (
	ReportYearly  = "yearly"
	ReportGenres  = "genres"
	ReportRatings = "ratings"
	ReportDecades = "decades"
	ReportRuntime = "runtime"
	ReportFilms   = "films"
	ReportSummary = "summary"
)

var (
	// ErrUnknownReport indicates a report name that Export does not produce.
	ErrUnknownReport = errors.New("unknown report")

	// ErrUnknownFormat indicates an unsupported output format.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Options carries the tunables a report shares with the dashboard queries.
type Options struct {
	TopGenres      int
	RuntimeBins    int
	LongFilmCutoff int
}

// Table is a flat report: one header row and uniform data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Exporter renders report tables. metrics may be nil.
type Exporter struct {
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// New creates an exporter.
func New(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger:  logger.With(slog.String("component", "exporter")),
		metrics: metrics,
	}
}

// Export writes the named report in the given format to w.
func (e *Exporter) Export(ctx context.Context, catalog *filmdata.Catalog, report, format string, opts Options, w io.Writer) error {
	table, err := e.BuildTable(catalog, report, opts)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		err = writeCSV(table, w)
	case FormatXLSX:
		err = writeXLSX(table, w)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s report as %s: %w", report, format, err)
	}

	if e.metrics != nil {
		e.metrics.ExportsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("report", report),
			attribute.String("format", format)))
	}

	e.logger.InfoContext(ctx, "report exported",
		slog.String("report", report),
		slog.String("format", format),
		slog.Int("rows", len(table.Rows)))

	return nil
}

// BuildTable assembles the named report table from the catalog snapshot.
func (e *Exporter) BuildTable(catalog *filmdata.Catalog, report string, opts Options) (*Table, error) {
	switch strings.ToLower(report) {
	case ReportYearly:
		return yearlyTable(catalog), nil
	case ReportGenres:
		return genresTable(catalog, opts.TopGenres), nil
	case ReportRatings:
		return ratingsTable(catalog), nil
	case ReportDecades:
		return decadesTable(catalog), nil
	case ReportRuntime:
		return runtimeTable(catalog, opts.RuntimeBins), nil
	case ReportFilms:
		return filmsTable(catalog), nil
	case ReportSummary:
		return summaryTable(catalog, opts.LongFilmCutoff), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, report)
	}
}

// ContentType returns the MIME type for a format, or empty if unsupported.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return ""
	}
}

// Filename returns the suggested download filename for a report.
func Filename(report, format string) string {
	return fmt.Sprintf("%s.%s", strings.ToLower(report), strings.ToLower(format))
}

func yearlyTable(catalog *filmdata.Catalog) *Table {
	table := &Table{Name: "Yearly Production", Header: []string{"year", "count"}}
	for _, row := range catalog.YearlyCounts() {
		table.Rows = append(table.Rows, []interface{}{row.Year, row.Count})
	}
	return table
}

func genresTable(catalog *filmdata.Catalog, topN int) *Table {
	table := &Table{Name: "Top Genres", Header: []string{"genre", "count"}}
	for _, row := range catalog.GenreCounts(topN) {
		table.Rows = append(table.Rows, []interface{}{row.Genre, row.Count})
	}
	return table
}

func ratingsTable(catalog *filmdata.Catalog) *Table {
	table := &Table{Name: "Rating Distribution", Header: []string{"rating", "count"}}
	for _, row := range catalog.RatingDistribution() {
		table.Rows = append(table.Rows, []interface{}{row.Rating, row.Count})
	}
	return table
}

func decadesTable(catalog *filmdata.Catalog) *Table {
	table := &Table{Name: "Ratings by Decade", Header: []string{"decade", "rating", "count"}}
	for _, row := range catalog.RatingByDecade() {
		table.Rows = append(table.Rows, []interface{}{row.Decade, row.Rating, row.Count})
	}
	return table
}

func runtimeTable(catalog *filmdata.Catalog, bins int) *Table {
	table := &Table{Name: "Runtime Histogram", Header: []string{"from_min", "to_min", "count"}}
	for _, bin := range catalog.RuntimeHistogram(bins) {
		table.Rows = append(table.Rows, []interface{}{bin.Lo, bin.Hi, bin.Count})
	}
	return table
}

func filmsTable(catalog *filmdata.Catalog) *Table {
	table := &Table{Name: "Films", Header: []string{"title", "year", "runtime_min", "genres", "rating"}}
	for _, f := range catalog.Films() {
		year := interface{}("")
		if f.HasYear {
			year = f.Year
		}
		runtime := interface{}("")
		if f.HasRuntime {
			runtime = f.RuntimeMin
		}
		table.Rows = append(table.Rows, []interface{}{
			f.Title, year, runtime, strings.Join(f.Genres, ", "), f.RatingClean,
		})
	}
	return table
}

func summaryTable(catalog *filmdata.Catalog, longFilmCutoff int) *Table {
	kpis := catalog.KPIs()
	insights := catalog.Insights(longFilmCutoff)

	table := &Table{Name: "Summary", Header: []string{"metric", "value"}}
	table.Rows = append(table.Rows,
		[]interface{}{"total_films", kpis.TotalFilms},
		[]interface{}{"unclassified", kpis.Unclassified},
		[]interface{}{"unclassified_rate", kpis.UnclassifiedRate},
		[]interface{}{"missing_runtime", kpis.MissingRuntime},
		[]interface{}{"missing_runtime_rate", kpis.MissingRuntimeRate},
	)
	if kpis.HasAverageRuntime {
		table.Rows = append(table.Rows, []interface{}{"average_runtime_min", kpis.AverageRuntime})
	}
	if insights.HasPeakYear {
		table.Rows = append(table.Rows,
			[]interface{}{"peak_year", insights.PeakYear},
			[]interface{}{"peak_year_count", insights.PeakYearCount},
		)
	}
	if insights.TopGenre != "" {
		table.Rows = append(table.Rows,
			[]interface{}{"top_genre", insights.TopGenre},
			[]interface{}{"top_genre_count", insights.TopGenreCount},
		)
	}
	table.Rows = append(table.Rows,
		[]interface{}{fmt.Sprintf("films_over_%d_min", longFilmCutoff), insights.LongFilmCount},
	)
	return table
}
