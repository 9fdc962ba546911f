package infra_memory_room

import (
	"sync"
	"time"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultTTL = 2 * time.Hour

// Store keeps room state in memory and forgets rooms idle for longer than ttl.
// Entries for different rooms never contend with each other.
type Store struct {
	rooms  sync.Map // model.RoomID -> *entry
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// entry is never modified after it is stored; updates swap the pointer.
type entry struct {
	room model.Room
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: log.With().Str("module", "infra.memory.room").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(room model.Room) {
	s.rooms.Store(room.ID, &entry{room: room.Clone()})
}

// Get returns the room unless it is missing or expired.
// Expired rooms are evicted on the spot.
func (s *Store) Get(roomID model.RoomID) (model.Room, bool) {
	v, ok := s.rooms.Load(roomID)
	if !ok {
		return model.Room{}, false
	}
	e := v.(*entry)
	if s.expired(e) {
		// Only the exact entry we judged expired is removed, a concurrent
		// Update that swapped in a fresh value survives.
		if s.rooms.CompareAndDelete(roomID, e) {
			s.logger.Debug().Str("room", string(roomID)).Msg("room expired")
		}
		return model.Room{}, false
	}
	return e.room.Clone(), true
}

func (s *Store) Update(room model.Room) {
	s.rooms.Store(room.ID, &entry{room: room.Clone()})
}

func (s *Store) CleanupExpired() int {
	evicted := 0
	s.rooms.Range(func(k, v any) bool {
		if s.expired(v.(*entry)) && s.rooms.CompareAndDelete(k, v) {
			evicted++
		}
		return true
	})
	if evicted > 0 {
		s.logger.Info().Int("evicted", evicted).Msg("expired rooms cleaned up")
	}
	return evicted
}

func (s *Store) expired(e *entry) bool {
	return s.now().Sub(e.room.LastActivityAt) > s.ttl
}
