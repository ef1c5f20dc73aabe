package filmdata

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sinepulse/internal/errors"
	"sinepulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readCatalog(t *testing.T, csv string) *Catalog {
	t.Helper()
	catalog, err := Read(strings.NewReader(csv), testLogger())
	require.NoError(t, err)
	return catalog
}

func TestRead_CleansFields(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want domain.Film
	}{
		{
			name: "fully populated row",
			csv:  "title,year,runtime,genre,rating\nTjoet Nja' Dhien,1988,110 min,\"Drama, History\",13+\n",
			want: domain.Film{
				Title:       "Tjoet Nja' Dhien",
				Year:        1988,
				HasYear:     true,
				Decade:      1980,
				RuntimeMin:  110,
				HasRuntime:  true,
				Genres:      []string{"Drama", "History"},
				RatingRaw:   "13+",
				RatingClean: "13+",
			},
		},
		{
			name: "runtime with surrounding prose",
			csv:  "title,year,runtime,genre,rating\nPengabdi Setan,2017,approx. 123 minutes,Horror,17+\n",
			want: domain.Film{
				Title:       "Pengabdi Setan",
				Year:        2017,
				HasYear:     true,
				Decade:      2010,
				RuntimeMin:  123,
				HasRuntime:  true,
				Genres:      []string{"Horror"},
				RatingRaw:   "17+",
				RatingClean: "17+",
			},
		},
		{
			name: "float-typed year export artifact",
			csv:  "title,year,runtime,genre,rating\nLaskar Pelangi,1990.0,124,Drama,SU\n",
			want: domain.Film{
				Title:       "Laskar Pelangi",
				Year:        1990,
				HasYear:     true,
				Decade:      1990,
				RuntimeMin:  124,
				HasRuntime:  true,
				Genres:      []string{"Drama"},
				RatingRaw:   "SU",
				RatingClean: "SU",
			},
		},
		{
			name: "missing year and runtime",
			csv:  "title,year,runtime,genre,rating\nLewat Djam Malam,,,Drama,\n",
			want: domain.Film{
				Title:       "Lewat Djam Malam",
				Genres:      []string{"Drama"},
				RatingClean: domain.UnclassifiedRating,
			},
		},
		{
			name: "unparseable year degrades to absent",
			csv:  "title,year,runtime,genre,rating\nFilm X,unknown,95,Comedy,SU\n",
			want: domain.Film{
				Title:       "Film X",
				RuntimeMin:  95,
				HasRuntime:  true,
				Genres:      []string{"Comedy"},
				RatingRaw:   "SU",
				RatingClean: "SU",
			},
		},
		{
			name: "empty genre gets the unknown tag",
			csv:  "title,year,runtime,genre,rating\nFilm Y,2001,90,,21+\n",
			want: domain.Film{
				Title:       "Film Y",
				Year:        2001,
				HasYear:     true,
				Decade:      2000,
				RuntimeMin:  90,
				HasRuntime:  true,
				Genres:      []string{domain.UnknownGenre},
				RatingRaw:   "21+",
				RatingClean: "21+",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := readCatalog(t, tt.csv)
			require.Equal(t, 1, catalog.Len())
			assert.Equal(t, tt.want, catalog.Films()[0])
		})
	}
}

func TestRead_HeaderNormalization(t *testing.T) {
	csv := " Title , YEAR ,Runtime,Genre,Rating\nFilm Z,1995,100,Drama,SU\n"

	catalog := readCatalog(t, csv)

	require.Equal(t, 1, catalog.Len())
	film := catalog.Films()[0]
	assert.Equal(t, "Film Z", film.Title)
	assert.Equal(t, 1995, film.Year)
	assert.True(t, film.HasYear)
}

func TestRead_ExtraColumnsIgnored(t *testing.T) {
	csv := "title,year,runtime,genre,rating,votes,description\nFilm A,2000,90,Drama,SU,123,long text\n"

	catalog := readCatalog(t, csv)

	require.Equal(t, 1, catalog.Len())
	assert.Equal(t, "Film A", catalog.Films()[0].Title)
}

func TestRead_MissingRequiredColumn(t *testing.T) {
	csv := "title,year,runtime,genre\nFilm A,2000,90,Drama\n"

	_, err := Read(strings.NewReader(csv), testLogger())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Contains(t, err.Error(), "rating")
}

func TestRead_ShortRowDegradesPerField(t *testing.T) {
	// Second row stops after the year column; the missing fields take their
	// sentinels instead of failing the load.
	csv := "title,year,runtime,genre,rating\nFilm A,2000\nFilm B,2001,90,Drama,SU\n"

	catalog := readCatalog(t, csv)

	require.Equal(t, 2, catalog.Len())
	short := catalog.Films()[0]
	assert.Equal(t, "Film A", short.Title)
	assert.True(t, short.HasYear)
	assert.False(t, short.HasRuntime)
	assert.Equal(t, []string{domain.UnknownGenre}, short.Genres)
	assert.Equal(t, domain.UnclassifiedRating, short.RatingClean)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.csv", testLogger())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestLoad_RepeatedLoadsYieldIdenticalTables(t *testing.T) {
	csv := "title,year,runtime,genre,rating\n" +
		"Film A,1994,100,Drama,SU\n" +
		"Film B,1995,160,\"Drama, Comedy\",13+\n" +
		"Film C,1995,,Horror,\n" +
		"Film D,1996,approx. 90 minutes,Comedy,SU\n" +
		"Film E,,200,Drama,\n"

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	first, err := Load(path, testLogger())
	require.NoError(t, err)
	second, err := Load(path, testLogger())
	require.NoError(t, err)

	// Two loads of the same file produce identical records and identical
	// derived tables, including row order.
	assert.Equal(t, first.Films(), second.Films())
	assert.Equal(t, first.YearlyCounts(), second.YearlyCounts())
	assert.Equal(t, first.GenreCounts(10), second.GenreCounts(10))
	assert.Equal(t, first.RatingDistribution(), second.RatingDistribution())
	assert.Equal(t, first.RatingByDecade(), second.RatingByDecade())
	assert.Equal(t, first.RuntimeHistogram(5), second.RuntimeHistogram(5))
	assert.Equal(t, first.KPIs(), second.KPIs())
	assert.Equal(t, first.Insights(150), second.Insights(150))
}

func TestExtractRuntimeMinutes(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"90 min", 90, true},
		{"approx. 123 minutes", 123, true},
		{"123", 123, true},
		{"1h 45m", 1, true}, // first digit run wins
		{"", 0, false},
		{"unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := extractRuntimeMinutes(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecadeOf(t *testing.T) {
	assert.Equal(t, 1980, decadeOf(1988))
	assert.Equal(t, 2000, decadeOf(2000))
	assert.Equal(t, 2000, decadeOf(2009))
	assert.Equal(t, 2010, decadeOf(2010))
}
