package filmdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sinepulse/pkg/contracts/domain"
)

// film is a compact test record constructor.
func film(title string, year, runtime int, rating string, genres ...string) domain.Film {
	f := domain.Film{Title: title, RatingClean: rating, Genres: genres}
	if year != 0 {
		f.Year = year
		f.HasYear = true
		f.Decade = decadeOf(year)
	}
	if runtime != 0 {
		f.RuntimeMin = runtime
		f.HasRuntime = true
	}
	return f
}

func sampleCatalog() *Catalog {
	return NewCatalog([]domain.Film{
		film("A", 1994, 100, "SU", "Drama"),
		film("B", 1995, 160, "13+", "Drama", "Comedy"),
		film("C", 1995, 0, "Unclassified", "Horror"),
		film("D", 1996, 90, "SU", "Comedy"),
		film("E", 0, 200, "Unclassified", "Drama"),
	})
}

func TestYearlyCounts(t *testing.T) {
	got := sampleCatalog().YearlyCounts()

	assert.Equal(t, []domain.YearCount{
		{Year: 1994, Count: 1},
		{Year: 1995, Count: 2},
		{Year: 1996, Count: 1},
	}, got)
}

func TestYearlyCounts_SumMatchesKnownYearRecords(t *testing.T) {
	catalog := sampleCatalog()

	sum := 0
	for _, row := range catalog.YearlyCounts() {
		sum += row.Count
	}

	known := 0
	for _, f := range catalog.Films() {
		if f.HasYear {
			known++
		}
	}
	assert.Equal(t, known, sum)
}

func TestGenreCounts_ExplodesAndOrders(t *testing.T) {
	got := sampleCatalog().GenreCounts(10)

	// Drama appears 3 times; Comedy 2; Horror 1. A film with two genres
	// contributes to both.
	assert.Equal(t, []domain.GenreCount{
		{Genre: "Drama", Count: 3},
		{Genre: "Comedy", Count: 2},
		{Genre: "Horror", Count: 1},
	}, got)
}

func TestGenreCounts_TieKeepsFirstSeen(t *testing.T) {
	catalog := NewCatalog([]domain.Film{
		film("A", 2000, 90, "SU", "Thriller"),
		film("B", 2001, 90, "SU", "Romance"),
	})

	got := catalog.GenreCounts(10)

	assert.Equal(t, "Thriller", got[0].Genre)
	assert.Equal(t, "Romance", got[1].Genre)
}

func TestGenreCounts_TopNTruncates(t *testing.T) {
	got := sampleCatalog().GenreCounts(1)

	require.Len(t, got, 1)
	assert.Equal(t, "Drama", got[0].Genre)
}

func TestRatingDistribution_FirstEncounterOrder(t *testing.T) {
	got := sampleCatalog().RatingDistribution()

	assert.Equal(t, []domain.RatingCount{
		{Rating: "SU", Count: 2},
		{Rating: "13+", Count: 1},
		{Rating: "Unclassified", Count: 2},
	}, got)
}

func TestRatingByDecade_ExcludesUnknownYears(t *testing.T) {
	got := sampleCatalog().RatingByDecade()

	// Record E has no year and therefore no decade.
	total := 0
	for _, row := range got {
		assert.Equal(t, 1990, row.Decade)
		total += row.Count
	}
	assert.Equal(t, 4, total)
}

func TestRuntimeHistogram(t *testing.T) {
	catalog := NewCatalog([]domain.Film{
		film("A", 2000, 60, "SU", "Drama"),
		film("B", 2000, 90, "SU", "Drama"),
		film("C", 2000, 120, "SU", "Drama"),
	})

	bins := catalog.RuntimeHistogram(2)

	require.Len(t, bins, 2)
	assert.Equal(t, 60.0, bins[0].Lo)
	assert.Equal(t, 90.0, bins[0].Hi)
	assert.Equal(t, 120.0, bins[1].Hi)
	// 60 falls in the first bin; 90 in the second; the max 120 lands in the
	// last bin even though its upper edge is nominally exclusive.
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 2, bins[1].Count)
}

func TestRuntimeHistogram_AllValuesIdentical(t *testing.T) {
	catalog := NewCatalog([]domain.Film{
		film("A", 2000, 90, "SU", "Drama"),
		film("B", 2000, 90, "SU", "Drama"),
	})

	bins := catalog.RuntimeHistogram(5)

	require.Len(t, bins, 1)
	assert.Equal(t, 90.0, bins[0].Lo)
	assert.Equal(t, 90.0, bins[0].Hi)
	assert.Equal(t, 2, bins[0].Count)
}

func TestRuntimeHistogram_NoKnownRuntimes(t *testing.T) {
	catalog := NewCatalog([]domain.Film{
		film("A", 2000, 0, "SU", "Drama"),
	})

	assert.Nil(t, catalog.RuntimeHistogram(10))
}

func TestPeakYear_TieResolvesToSmallestYear(t *testing.T) {
	catalog := NewCatalog([]domain.Film{
		film("A", 1995, 90, "SU", "Drama"),
		film("B", 1995, 90, "SU", "Drama"),
		film("C", 1997, 90, "SU", "Drama"),
		film("D", 1997, 90, "SU", "Drama"),
	})

	year, count, ok := catalog.PeakYear()

	require.True(t, ok)
	assert.Equal(t, 1995, year)
	assert.Equal(t, 2, count)
}

func TestPeakYear_EmptySelection(t *testing.T) {
	_, _, ok := NewCatalog(nil).PeakYear()
	assert.False(t, ok)
}

func TestTopGenre(t *testing.T) {
	genre, count, ok := sampleCatalog().TopGenre()

	require.True(t, ok)
	assert.Equal(t, "Drama", genre)
	assert.Equal(t, 3, count)
}

func TestLongFilmCount_StrictlyGreater(t *testing.T) {
	catalog := NewCatalog([]domain.Film{
		film("A", 2000, 150, "SU", "Drama"),
		film("B", 2000, 151, "SU", "Drama"),
		film("C", 2000, 0, "SU", "Drama"),
	})

	assert.Equal(t, 1, catalog.LongFilmCount(150))
}

func TestRates_EmptySelectionIsZero(t *testing.T) {
	empty := NewCatalog(nil)

	assert.Zero(t, empty.UnclassifiedRate())
	assert.Zero(t, empty.MissingRuntimeRate())

	_, ok := empty.AverageRuntime()
	assert.False(t, ok)
}

func TestRates(t *testing.T) {
	catalog := sampleCatalog()

	assert.InDelta(t, 0.4, catalog.UnclassifiedRate(), 1e-9)
	assert.InDelta(t, 0.2, catalog.MissingRuntimeRate(), 1e-9)

	avg, ok := catalog.AverageRuntime()
	require.True(t, ok)
	assert.InDelta(t, 137.5, avg, 1e-9)
}

func TestFilterByYearRange(t *testing.T) {
	catalog := sampleCatalog()

	filtered := catalog.FilterByYearRange(1995, 1996)

	assert.Equal(t, 3, filtered.Len())
	for _, f := range filtered.Films() {
		assert.True(t, f.HasYear)
		assert.GreaterOrEqual(t, f.Year, 1995)
		assert.LessOrEqual(t, f.Year, 1996)
	}
}

func TestFilterByYearRange_Idempotent(t *testing.T) {
	catalog := sampleCatalog()

	once := catalog.FilterByYearRange(1994, 1996)
	twice := once.FilterByYearRange(1994, 1996)

	assert.Equal(t, once.Films(), twice.Films())
}

func TestFilterByYearRange_ExcludesUnknownYears(t *testing.T) {
	lo, hi, ok := sampleCatalog().YearBounds()
	require.True(t, ok)

	full := sampleCatalog().FilterByYearRange(lo, hi)

	// Record E has no year, so even the widest window drops it.
	assert.Equal(t, 4, full.Len())
}

func TestSearch(t *testing.T) {
	catalog := NewCatalog([]domain.Film{
		film("Pengabdi Setan", 2017, 107, "17+", "Horror"),
		film("Pengabdi Setan 2", 2022, 119, "17+", "Horror"),
		film("Laskar Pelangi", 2008, 124, "SU", "Drama"),
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		got := catalog.Search("pengabdi", 20)
		assert.Len(t, got, 2)
	})

	t.Run("empty query returns head of catalog", func(t *testing.T) {
		got := catalog.Search("", 2)
		require.Len(t, got, 2)
		assert.Equal(t, "Pengabdi Setan", got[0].Title)
		assert.Equal(t, "Pengabdi Setan 2", got[1].Title)
	})

	t.Run("limit caps matches", func(t *testing.T) {
		got := catalog.Search("setan", 1)
		assert.Len(t, got, 1)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, catalog.Search("zzz", 20))
	})
}

func TestKPIs(t *testing.T) {
	kpis := sampleCatalog().KPIs()

	assert.Equal(t, 5, kpis.TotalFilms)
	assert.Equal(t, 2, kpis.Unclassified)
	assert.Equal(t, 1, kpis.MissingRuntime)
	assert.True(t, kpis.HasAverageRuntime)
	assert.InDelta(t, 137.5, kpis.AverageRuntime, 1e-9)
}

func TestInsights(t *testing.T) {
	insights := sampleCatalog().Insights(150)

	assert.True(t, insights.HasPeakYear)
	assert.Equal(t, 1995, insights.PeakYear)
	assert.Equal(t, 2, insights.PeakYearCount)
	assert.Equal(t, "Drama", insights.TopGenre)
	assert.Equal(t, 2, insights.LongFilmCount)
	assert.Equal(t, 150, insights.LongFilmCutoffMin)
}
