package infra_postgres_candidate

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	usecase_room "github.com/humanbelnik/kinoswap/rooms/internal/usecase/room"
	"github.com/jmoiron/sqlx"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type CandidateInfraUnitSuite struct {
	suite.Suite
}

type resources struct {
	db     *sqlx.DB
	mock   sqlmock.Sqlmock
	driver *Driver
	ctx    context.Context
}

func initResources(t provider.T) *resources {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	driver := New(sqlxDB)

	return &resources{
		db:     sqlxDB,
		mock:   mock,
		driver: driver,
		ctx:    context.Background(),
	}
}

var (
	radarr     = model.Scope{Kind: model.ServiceRadarr, ServerID: "srv1"}
	movieCols  = []string{"tmdb_id", "title", "overview", "poster_url", "backdrop_url", "release_year", "rating"}
	syncedCols = []string{"exists"}
)

func (s *CandidateInfraUnitSuite) TestCandidates(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		setupMocks  func(r *resources)
		expectError error
		expectIDs   []int
	}{
		{
			name: "Should return library in stored order",
			setupMocks: func(r *resources) {
				r.mock.ExpectQuery("FROM library_syncs").
					WithArgs("radarr", "srv1").
					WillReturnRows(sqlmock.NewRows(syncedCols).AddRow(true))
				r.mock.ExpectQuery("FROM library_movies").
					WithArgs("radarr", "srv1").
					WillReturnRows(sqlmock.NewRows(movieCols).
						AddRow(30, "Heat", "LA crime", "http://img/p30", nil, 1995, 8.3).
						AddRow(10, "Alien", nil, nil, nil, nil, nil).
						AddRow(20, "Brazil", nil, nil, "http://img/b20", 1985, nil))
			},
			expectIDs: []int{30, 10, 20},
		},
		{
			name: "Should return empty deck for synced but empty library",
			setupMocks: func(r *resources) {
				r.mock.ExpectQuery("FROM library_syncs").
					WithArgs("radarr", "srv1").
					WillReturnRows(sqlmock.NewRows(syncedCols).AddRow(true))
				r.mock.ExpectQuery("FROM library_movies").
					WithArgs("radarr", "srv1").
					WillReturnRows(sqlmock.NewRows(movieCols))
			},
			expectIDs: []int{},
		},
		{
			name: "Should report unsynced library",
			setupMocks: func(r *resources) {
				r.mock.ExpectQuery("FROM library_syncs").
					WithArgs("radarr", "srv1").
					WillReturnRows(sqlmock.NewRows(syncedCols).AddRow(false))
			},
			expectError: usecase_room.ErrLibraryNotSynced,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			cards, err := r.driver.Candidates(r.ctx, "u1", radarr)

			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
			} else {
				require.NoError(t, err)
				ids := make([]int, len(cards))
				for i, c := range cards {
					ids[i] = c.TmdbID
				}
				assert.Equal(t, tc.expectIDs, ids)
			}
			assert.NoError(t, r.mock.ExpectationsWereMet())
		})
	}
}

func (s *CandidateInfraUnitSuite) TestOptionalFields(t provider.T) {
	t.Parallel()
	r := initResources(t)

	r.mock.ExpectQuery("FROM library_syncs").
		WillReturnRows(sqlmock.NewRows(syncedCols).AddRow(true))
	r.mock.ExpectQuery("FROM library_movies").
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(30, "Heat", "LA crime", "http://img/p30", nil, 1995, 8.3).
			AddRow(10, "Alien", nil, nil, nil, nil, nil))

	cards, err := r.driver.Candidates(r.ctx, "u1", radarr)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	heat := cards[0]
	assert.Equal(t, "Heat", heat.Title)
	require.NotNil(t, heat.Overview)
	assert.Equal(t, "LA crime", *heat.Overview)
	require.NotNil(t, heat.PosterURL)
	assert.Nil(t, heat.BackdropURL)
	require.NotNil(t, heat.ReleaseYear)
	assert.Equal(t, 1995, *heat.ReleaseYear)
	require.NotNil(t, heat.Rating)
	assert.InDelta(t, 8.3, *heat.Rating, 1e-9)

	alien := cards[1]
	assert.Nil(t, alien.Overview)
	assert.Nil(t, alien.PosterURL)
	assert.Nil(t, alien.ReleaseYear)
	assert.Nil(t, alien.Rating)
}

func (s *CandidateInfraUnitSuite) TestQueryErrorsAreWrapped(t provider.T) {
	t.Parallel()

	t.Run("Should wrap sync check failure", func(t provider.T) {
		r := initResources(t)
		dbErr := errors.New("connection reset")
		r.mock.ExpectQuery("FROM library_syncs").WillReturnError(dbErr)

		_, err := r.driver.Candidates(r.ctx, "u1", radarr)
		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "check library sync")
		assert.NotErrorIs(t, err, usecase_room.ErrLibraryNotSynced)
	})

	t.Run("Should wrap movie query failure", func(t provider.T) {
		r := initResources(t)
		dbErr := errors.New("relation does not exist")
		r.mock.ExpectQuery("FROM library_syncs").
			WillReturnRows(sqlmock.NewRows(syncedCols).AddRow(true))
		r.mock.ExpectQuery("FROM library_movies").WillReturnError(dbErr)

		_, err := r.driver.Candidates(r.ctx, "u1", radarr)
		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "load library movies")
	})
}

func TestCandidateInfraUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(CandidateInfraUnitSuite))
}
