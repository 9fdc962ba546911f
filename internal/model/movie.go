package model

// SwipeCard is a movie offered for swiping, as returned by a candidate source.
type SwipeCard struct {
	TmdbID      int
	Title       string
	Overview    *string
	PosterURL   *string
	BackdropURL *string
	ReleaseYear *int
	Rating      *float64
}
