package usecase_room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	"github.com/humanbelnik/kinoswap/rooms/internal/service/matching"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomClosed    = errors.New("room is closed to new users")
	ErrNotRoomOwner  = errors.New("only the room owner can do this")
	ErrNotRoomMember = errors.New("user is not a member of the room")

	// Candidate sources report this when the scope's library has never been synced.
	ErrLibraryNotSynced = errors.New("library has not been synced for this server yet")
)

const (
	MinDeckSize = 1
	MaxDeckSize = 50

	MaxQuorum = 50

	// Upper bound of interactions read back for a match query.
	MatchInteractionsCap = 50_000
)

type RoomStore interface {
	Create(room model.Room)
	Get(roomID model.RoomID) (model.Room, bool)
	Update(room model.Room)
	CleanupExpired() int
}

type InteractionLog interface {
	Append(roomID model.RoomID, interaction model.Interaction) model.Interaction
	List(roomID model.RoomID, limit int) []model.Interaction
	CleanupExpired() int
}

//go:generate mockery --name=CandidateSource --output=./mocks/candidates --filename=candidates.go --outpkg=mocks
type CandidateSource interface {
	Candidates(ctx context.Context, userID string, scope model.Scope) ([]model.SwipeCard, error)
}

//go:generate mockery --name=LibraryCache --output=./mocks/library --filename=library.go --outpkg=mocks
type LibraryCache interface {
	OwnedIDs(ctx context.Context, scope model.Scope) (map[int]struct{}, error)
}

type Usecase struct {
	rooms        RoomStore
	interactions InteractionLog
	candidates   CandidateSource
	library      LibraryCache

	locks  *roomLocks
	now    func() time.Time
	newID  func() model.RoomID
	logger zerolog.Logger
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func WithIDGenerator(newID func() model.RoomID) Option {
	return func(u *Usecase) {
		u.newID = newID
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func New(
	rooms RoomStore,
	interactions InteractionLog,
	candidates CandidateSource,
	library LibraryCache,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		rooms:        rooms,
		interactions: interactions,
		candidates:   candidates,
		library:      library,
		locks:        newRoomLocks(),
		now:          time.Now,
		newID: func() model.RoomID {
			return model.RoomID(uuid.New().String())
		},
		logger: log.With().Str("module", "usecase.room").Logger(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Usecase) Create(ctx context.Context, ownerUserID string, scope model.Scope) (model.Room, error) {
	if err := ctx.Err(); err != nil {
		return model.Room{}, err
	}

	room := model.NewRoom(u.newID(), ownerUserID, scope, u.now())
	u.rooms.Create(room)

	u.logger.Info().
		Str("room", string(room.ID)).
		Str("owner", ownerUserID).
		Str("scope", scope.String()).
		Msg("room created")
	return room, nil
}

func (u *Usecase) Get(ctx context.Context, roomID model.RoomID) (model.Room, error) {
	if err := ctx.Err(); err != nil {
		return model.Room{}, err
	}
	room, ok := u.rooms.Get(roomID)
	if !ok {
		return model.Room{}, ErrRoomNotFound
	}
	return room, nil
}

// Join is a no-op for existing members, even once the room is closed.
func (u *Usecase) Join(ctx context.Context, roomID model.RoomID, userID string) (model.Room, error) {
	unlock, err := u.locks.lock(ctx, roomID)
	if err != nil {
		return model.Room{}, err
	}
	defer unlock()

	room, err := u.Get(ctx, roomID)
	if err != nil {
		return model.Room{}, err
	}
	if room.HasMember(userID) {
		return room, nil
	}
	if room.IsClosed {
		return model.Room{}, ErrRoomClosed
	}
	if err := ctx.Err(); err != nil {
		return model.Room{}, err
	}

	room = room.WithMember(userID, u.now())
	u.rooms.Update(room)

	u.logger.Info().
		Str("room", string(roomID)).
		Str("user", userID).
		Int("members", len(room.Members)).
		Msg("user joined room")
	return room, nil
}

// Close is idempotent for the owner.
func (u *Usecase) Close(ctx context.Context, roomID model.RoomID, userID string) (model.Room, error) {
	unlock, err := u.locks.lock(ctx, roomID)
	if err != nil {
		return model.Room{}, err
	}
	defer unlock()

	room, err := u.Get(ctx, roomID)
	if err != nil {
		return model.Room{}, err
	}
	if !room.IsOwner(userID) {
		return model.Room{}, ErrNotRoomOwner
	}
	if room.IsClosed {
		return room, nil
	}
	if err := ctx.Err(); err != nil {
		return model.Room{}, err
	}

	room = room.Closed(u.now())
	u.rooms.Update(room)

	u.logger.Info().Str("room", string(roomID)).Msg("room closed")
	return room, nil
}

// SwipeDeck returns up to limit candidates the user has not swiped in this room yet.
// Swipes made outside the room do not hide anything here.
func (u *Usecase) SwipeDeck(ctx context.Context, roomID model.RoomID, userID string, limit int) ([]model.SwipeCard, error) {
	room, err := u.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(userID) {
		return nil, ErrNotRoomMember
	}

	pool, err := u.candidates.Candidates(ctx, userID, room.Scope)
	if err != nil {
		u.logger.Warn().Err(err).Str("room", string(roomID)).Msg("candidate source failed")
		return nil, err
	}

	seen := make(map[int]struct{})
	for _, in := range u.interactions.List(roomID, MatchInteractionsCap) {
		if in.UserID == userID {
			seen[in.TmdbID] = struct{}{}
		}
	}

	var owned map[int]struct{}
	if room.Scope.Kind == model.ServiceRadarr {
		owned, err = u.library.OwnedIDs(ctx, room.Scope)
		if err != nil {
			return nil, fmt.Errorf("load library ids: %w", err)
		}
	}

	size := clamp(limit, MinDeckSize, MaxDeckSize)
	deck := make([]model.SwipeCard, 0, min(size, len(pool)))
	for _, card := range pool {
		if len(deck) == size {
			break
		}
		if _, ok := seen[card.TmdbID]; ok {
			continue
		}
		if _, ok := owned[card.TmdbID]; ok {
			continue
		}
		deck = append(deck, card)
	}
	return deck, nil
}

func (u *Usecase) AddInteraction(
	ctx context.Context,
	roomID model.RoomID,
	userID string,
	tmdbID int,
	action model.InteractionAction,
) (model.Interaction, error) {
	unlock, err := u.locks.lock(ctx, roomID)
	if err != nil {
		return model.Interaction{}, err
	}
	defer unlock()

	room, err := u.Get(ctx, roomID)
	if err != nil {
		return model.Interaction{}, err
	}
	if !room.HasMember(userID) {
		return model.Interaction{}, ErrNotRoomMember
	}
	if err := ctx.Err(); err != nil {
		return model.Interaction{}, err
	}

	now := u.now()
	interaction := u.interactions.Append(roomID, model.Interaction{
		UserID:    userID,
		Scope:     room.Scope,
		TmdbID:    tmdbID,
		Action:    action,
		CreatedAt: now,
	})
	u.rooms.Update(room.Touched(now))

	u.logger.Debug().
		Str("room", string(roomID)).
		Str("user", userID).
		Int("tmdb_id", tmdbID).
		Stringer("action", action).
		Msg("interaction recorded")
	return interaction, nil
}

// ListMatches uses the current member count as quorum, not the number of
// members that actually swiped.
func (u *Usecase) ListMatches(ctx context.Context, roomID model.RoomID) ([]int, error) {
	room, err := u.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	minUsers := clamp(len(room.Members), matching.MinQuorum, MaxQuorum)
	interactions := u.interactions.List(roomID, MatchInteractionsCap)
	return matching.QuorumMatches(room.Scope, interactions, minUsers), nil
}

// CleanupExpired sweeps both stores and reports how many rooms and log buckets were dropped.
func (u *Usecase) CleanupExpired() (rooms int, buckets int) {
	return u.rooms.CleanupExpired(), u.interactions.CleanupExpired()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
