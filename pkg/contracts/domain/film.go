package domain

// Film represents one cleaned catalog row. Year and RuntimeMin carry explicit
// presence flags because the source CSV routinely ships malformed or empty
// values that are normalized to "absent" rather than rejecting the row.
type Film struct {
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	HasYear     bool     `json:"has_year"`
	RuntimeMin  int      `json:"runtime_min,omitempty"`
	HasRuntime  bool     `json:"has_runtime"`
	Decade      int      `json:"decade,omitempty"`
	Genres      []string `json:"genres"`
	RatingRaw   string   `json:"rating_raw,omitempty"`
	RatingClean string   `json:"rating"`
}

// Default labels applied when the source field is empty.
const (
	UnknownGenre       = "Unknown"
	UnclassifiedRating = "Unclassified"
)
