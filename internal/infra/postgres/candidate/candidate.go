package infra_postgres_candidate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	usecase_room "github.com/humanbelnik/kinoswap/rooms/internal/usecase/room"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Driver serves swipe candidates from the synced library tables.
type Driver struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

type Option func(*Driver)

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

func New(
	db *sqlx.DB,
	opts ...Option,
) *Driver {
	d := &Driver{
		db:     db,
		logger: log.With().Str("module", "infra.postgres.candidate").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Candidates ignores userID: every member of a scope swipes on the same library.
func (d *Driver) Candidates(ctx context.Context, userID string, scope model.Scope) ([]model.SwipeCard, error) {
	const syncedQuery = `
		SELECT EXISTS(
			SELECT 1 FROM library_syncs
			WHERE provider = $1 AND server_id = $2
		)
	`
	var synced bool
	if err := d.db.GetContext(ctx, &synced, syncedQuery, scope.Kind.String(), scope.ServerID); err != nil {
		return nil, fmt.Errorf("check library sync: %w", err)
	}
	if !synced {
		d.logger.Debug().Str("scope", scope.String()).Msg("library not synced")
		return nil, usecase_room.ErrLibraryNotSynced
	}

	const moviesQuery = `
		SELECT tmdb_id, title, overview, poster_url, backdrop_url, release_year, rating
		FROM library_movies
		WHERE provider = $1 AND server_id = $2
		ORDER BY position, tmdb_id
	`
	var rows []libraryMovieDB
	if err := d.db.SelectContext(ctx, &rows, moviesQuery, scope.Kind.String(), scope.ServerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []model.SwipeCard{}, nil
		}
		return nil, fmt.Errorf("load library movies: %w", err)
	}

	cards := make([]model.SwipeCard, len(rows))
	for i := range rows {
		cards[i] = rows[i].ToDomain()
	}
	return cards, nil
}
