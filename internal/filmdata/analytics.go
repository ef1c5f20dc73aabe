package filmdata

import (
	"sort"

	"sinepulse/pkg/contracts/domain"
)

// Aggregations over a Catalog. All of them are deterministic pure reads with
// the stable orderings the dashboard depends on, and every ratio or mean
// degrades to zero/absent on an empty selection instead of failing.

// YearlyCounts groups records by production year, ascending. Records with an
// unknown year are not represented.
func (c *Catalog) YearlyCounts() []domain.YearCount {
	counts := make(map[int]int)
	for _, f := range c.films {
		if f.HasYear {
			counts[f.Year]++
		}
	}

	rows := make([]domain.YearCount, 0, len(counts))
	for year, n := range counts {
		rows = append(rows, domain.YearCount{Year: year, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

// GenreCounts explodes the genre lists and returns the topN genres by count,
// descending. A tie keeps the earlier-encountered genre first.
func (c *Catalog) GenreCounts(topN int) []domain.GenreCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, f := range c.films {
		for _, g := range f.Genres {
			if _, seen := counts[g]; !seen {
				firstSeen[g] = len(firstSeen)
			}
			counts[g]++
		}
	}

	rows := make([]domain.GenreCount, 0, len(counts))
	for genre, n := range counts {
		rows = append(rows, domain.GenreCount{Genre: genre, Count: n})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return firstSeen[rows[i].Genre] < firstSeen[rows[j].Genre]
	})

	if topN > 0 && topN < len(rows) {
		rows = rows[:topN]
	}
	return rows
}

// RatingDistribution counts records per cleaned rating label, in the order
// the distinct labels were first encountered.
func (c *Catalog) RatingDistribution() []domain.RatingCount {
	counts := make(map[string]int)
	var order []string
	for _, f := range c.films {
		if _, seen := counts[f.RatingClean]; !seen {
			order = append(order, f.RatingClean)
		}
		counts[f.RatingClean]++
	}

	rows := make([]domain.RatingCount, 0, len(order))
	for _, rating := range order {
		rows = append(rows, domain.RatingCount{Rating: rating, Count: counts[rating]})
	}
	return rows
}

// RatingByDecade counts records per (decade, rating) pair, decades ascending
// with ratings in first-encounter order within each decade. Records with an
// unknown year have no decade and are excluded.
func (c *Catalog) RatingByDecade() []domain.DecadeRatingCount {
	type key struct {
		decade int
		rating string
	}
	counts := make(map[key]int)
	ratingOrder := make(map[key]int)
	for _, f := range c.films {
		if !f.HasYear {
			continue
		}
		k := key{decade: f.Decade, rating: f.RatingClean}
		if _, seen := counts[k]; !seen {
			ratingOrder[k] = len(ratingOrder)
		}
		counts[k]++
	}

	rows := make([]domain.DecadeRatingCount, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, domain.DecadeRatingCount{Decade: k.decade, Rating: k.rating, Count: n})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Decade != rows[j].Decade {
			return rows[i].Decade < rows[j].Decade
		}
		oi := ratingOrder[key{rows[i].Decade, rows[i].Rating}]
		oj := ratingOrder[key{rows[j].Decade, rows[j].Rating}]
		return oi < oj
	})
	return rows
}

// RuntimeHistogram buckets the known runtimes into binCount equal-width bins.
// Returns nil when no runtime is known or binCount is not positive.
func (c *Catalog) RuntimeHistogram(binCount int) []domain.HistogramBin {
	if binCount <= 0 {
		return nil
	}

	var values []int
	for _, f := range c.films {
		if f.HasRuntime {
			values = append(values, f.RuntimeMin)
		}
	}
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	width := float64(max-min) / float64(binCount)
	if width == 0 {
		// All values identical: a single degenerate bin holds everything.
		return []domain.HistogramBin{{Lo: float64(min), Hi: float64(max), Count: len(values)}}
	}

	bins := make([]domain.HistogramBin, binCount)
	for i := range bins {
		bins[i].Lo = float64(min) + float64(i)*width
		bins[i].Hi = float64(min) + float64(i+1)*width
	}
	for _, v := range values {
		idx := int(float64(v-min) / width)
		if idx >= binCount {
			idx = binCount - 1 // max value lands in the last bin
		}
		bins[idx].Count++
	}
	return bins
}

// PeakYear returns the (year, count) pair with the highest yearly count.
// Ties resolve to the smallest year. ok is false for an empty selection.
func (c *Catalog) PeakYear() (year, count int, ok bool) {
	for _, row := range c.YearlyCounts() {
		if !ok || row.Count > count {
			year, count, ok = row.Year, row.Count, true
		}
	}
	return year, count, ok
}

// TopGenre returns the single most common exploded genre. Ties resolve to
// the first-encountered label. ok is false for an empty selection.
func (c *Catalog) TopGenre() (genre string, count int, ok bool) {
	rows := c.GenreCounts(1)
	if len(rows) == 0 {
		return "", 0, false
	}
	return rows[0].Genre, rows[0].Count, true
}

// LongFilmCount counts records whose runtime strictly exceeds thresholdMin.
func (c *Catalog) LongFilmCount(thresholdMin int) int {
	n := 0
	for _, f := range c.films {
		if f.HasRuntime && f.RuntimeMin > thresholdMin {
			n++
		}
	}
	return n
}

// UnclassifiedRate is the fraction of records without an age rating, 0 for
// an empty selection.
func (c *Catalog) UnclassifiedRate() float64 {
	if len(c.films) == 0 {
		return 0
	}
	n := 0
	for _, f := range c.films {
		if f.RatingClean == domain.UnclassifiedRating {
			n++
		}
	}
	return float64(n) / float64(len(c.films))
}

// MissingRuntimeRate is the fraction of records with an absent runtime, 0
// for an empty selection.
func (c *Catalog) MissingRuntimeRate() float64 {
	if len(c.films) == 0 {
		return 0
	}
	n := 0
	for _, f := range c.films {
		if !f.HasRuntime {
			n++
		}
	}
	return float64(n) / float64(len(c.films))
}

// AverageRuntime is the mean of the known runtimes. ok is false when no
// runtime is known.
func (c *Catalog) AverageRuntime() (avg float64, ok bool) {
	sum, n := 0, 0
	for _, f := range c.films {
		if f.HasRuntime {
			sum += f.RuntimeMin
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// KPIs assembles the dashboard metric tiles for this catalog view.
func (c *Catalog) KPIs() domain.DashboardKPIs {
	kpis := domain.DashboardKPIs{TotalFilms: len(c.films)}
	for _, f := range c.films {
		if f.RatingClean == domain.UnclassifiedRating {
			kpis.Unclassified++
		}
		if !f.HasRuntime {
			kpis.MissingRuntime++
		}
	}
	if kpis.TotalFilms > 0 {
		kpis.UnclassifiedRate = float64(kpis.Unclassified) / float64(kpis.TotalFilms)
		kpis.MissingRuntimeRate = float64(kpis.MissingRuntime) / float64(kpis.TotalFilms)
	}
	kpis.AverageRuntime, kpis.HasAverageRuntime = c.AverageRuntime()
	return kpis
}

// Insights assembles the executive summary block.
func (c *Catalog) Insights(longFilmCutoffMin int) domain.SummaryInsights {
	insights := domain.SummaryInsights{
		LongFilmCount:     c.LongFilmCount(longFilmCutoffMin),
		LongFilmCutoffMin: longFilmCutoffMin,
	}
	insights.PeakYear, insights.PeakYearCount, insights.HasPeakYear = c.PeakYear()
	if genre, count, ok := c.TopGenre(); ok {
		insights.TopGenre = genre
		insights.TopGenreCount = count
	}
	return insights
}
