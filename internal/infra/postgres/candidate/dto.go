package infra_postgres_candidate

import (
	"database/sql"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
)

type libraryMovieDB struct {
	TmdbID      int             `db:"tmdb_id"`
	Title       string          `db:"title"`
	Overview    sql.NullString  `db:"overview"`
	PosterURL   sql.NullString  `db:"poster_url"`
	BackdropURL sql.NullString  `db:"backdrop_url"`
	ReleaseYear sql.NullInt64   `db:"release_year"`
	Rating      sql.NullFloat64 `db:"rating"`
}

func (m *libraryMovieDB) ToDomain() model.SwipeCard {
	card := model.SwipeCard{
		TmdbID: m.TmdbID,
		Title:  m.Title,
	}
	if m.Overview.Valid {
		card.Overview = &m.Overview.String
	}
	if m.PosterURL.Valid {
		card.PosterURL = &m.PosterURL.String
	}
	if m.BackdropURL.Valid {
		card.BackdropURL = &m.BackdropURL.String
	}
	if m.ReleaseYear.Valid {
		year := int(m.ReleaseYear.Int64)
		card.ReleaseYear = &year
	}
	if m.Rating.Valid {
		card.Rating = &m.Rating.Float64
	}
	return card
}
