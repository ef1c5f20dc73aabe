package filmdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"sinepulse/internal/errors"
	"sinepulse/pkg/contracts/domain"
)

// genreSeparator is the literal separator used by the source CSV. The fields
// look like "Drama, Comedy"; splitting on a bare comma would leave leading
// spaces on every tag after the first.
const genreSeparator = ", "

// requiredColumns must all be present (after header normalization) or the
// load fails. Additional columns are ignored.
var requiredColumns = []string{"title", "year", "runtime", "genre", "rating"}

// Load reads a film metadata CSV and returns an immutable Catalog.
//
// Headers are matched case/whitespace-insensitively. A malformed value in any
// row degrades to its sentinel (absent year/runtime, "Unknown" genre,
// "Unclassified" rating) and never fails the load; only a missing/unreadable
// file or a missing required column is an error.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open catalog file %s", path), err)
	}
	defer f.Close()

	catalog, err := Read(f, logger)
	if err != nil {
		return nil, err
	}
	catalog.path = path
	return catalog, nil
}

// Read parses catalog CSV content from r. Split out from Load so tests and
// the report generator can feed in-memory data.
func Read(r io.Reader, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows degrade per-field, not per-file
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read catalog header row", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var films []domain.Film
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			// A row the csv reader cannot tokenize at all is skipped, matching
			// the per-field degradation policy.
			logger.Warn("skipping unparseable catalog row",
				slog.Int("line", line),
				slog.String("error", err.Error()))
			continue
		}
		films = append(films, cleanRow(row, columns))
	}

	logger.Info("catalog loaded",
		slog.Int("record_count", len(films)))

	return &Catalog{films: films}, nil
}

// mapColumns normalizes headers to lowercase-trimmed form and resolves the
// index of every required column.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if _, seen := columns[normalized]; !seen {
			columns[normalized] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, errors.NewParsingError(
				fmt.Sprintf("catalog is missing required column %q", col), nil)
		}
	}
	return columns, nil
}

// cleanRow converts one raw CSV row into a Film, applying the sentinel
// defaults for every malformed or empty field.
func cleanRow(row []string, columns map[string]int) domain.Film {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	film := domain.Film{Title: field("title")}

	if year, ok := parseYear(field("year")); ok {
		film.Year = year
		film.HasYear = true
		film.Decade = decadeOf(year)
	}

	if minutes, ok := extractRuntimeMinutes(field("runtime")); ok {
		film.RuntimeMin = minutes
		film.HasRuntime = true
	}

	film.Genres = splitGenres(field("genre"))

	film.RatingRaw = field("rating")
	film.RatingClean = film.RatingRaw
	if film.RatingClean == "" {
		film.RatingClean = domain.UnclassifiedRating
	}

	return film
}

// parseYear coerces the year field to an integer; unparseable values map to
// absent. Values like "1990.0" (a float-typed export artifact) still parse.
func parseYear(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	if year, err := strconv.Atoi(raw); err == nil {
		return year, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// extractRuntimeMinutes pulls the first run of digits out of a free-text
// runtime field ("90 min", "approx. 123 minutes"). No digits means absent.
func extractRuntimeMinutes(raw string) (int, bool) {
	start := -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			minutes, _ := strconv.Atoi(raw[start:i])
			return minutes, true
		}
	}
	if start >= 0 {
		minutes, _ := strconv.Atoi(raw[start:])
		return minutes, true
	}
	return 0, false
}

// splitGenres splits the comma-separated genre field, defaulting to the
// single "Unknown" tag when the field is empty.
func splitGenres(raw string) []string {
	if raw == "" {
		return []string{domain.UnknownGenre}
	}
	parts := strings.Split(raw, genreSeparator)
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			genres = append(genres, tag)
		}
	}
	if len(genres) == 0 {
		return []string{domain.UnknownGenre}
	}
	return genres
}

// decadeOf buckets a year into its decade: floor(year/10)*10. Integer
// division truncates toward zero, so negative years are floored explicitly.
func decadeOf(year int) int {
	d := year / 10
	if year < 0 && year%10 != 0 {
		d--
	}
	return d * 10
}
