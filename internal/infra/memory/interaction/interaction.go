package infra_memory_interaction

import (
	"sync"
	"time"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultTTL = 2 * time.Hour

// Log is an append-only, per-room interaction log kept in memory.
// Each room has its own bucket with its own idle timer.
type Log struct {
	buckets sync.Map // model.RoomID -> *bucket
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

type bucket struct {
	mu           sync.Mutex
	items        []model.Interaction
	seq          uint64
	lastActivity time.Time
	// dead is set once the bucket has been dropped from the map;
	// writers that still hold a pointer must start a new bucket.
	dead bool
}

type Option func(*Log)

func WithTTL(ttl time.Duration) Option {
	return func(l *Log) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Log) {
		l.logger = logger
	}
}

func New(opts ...Option) *Log {
	l := &Log{
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: log.With().Str("module", "infra.memory.interaction").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records the interaction and returns it with its sequence number set.
// Identical interactions are all kept.
func (l *Log) Append(roomID model.RoomID, interaction model.Interaction) model.Interaction {
	for {
		v, _ := l.buckets.LoadOrStore(roomID, &bucket{lastActivity: l.now()})
		b := v.(*bucket)

		b.mu.Lock()
		if b.dead {
			b.mu.Unlock()
			continue
		}
		now := l.now()
		if l.expiredLocked(b, now) {
			l.dropLocked(roomID, b)
			b.mu.Unlock()
			continue
		}
		b.seq++
		interaction.Seq = b.seq
		b.items = append(b.items, interaction)
		b.lastActivity = now
		b.mu.Unlock()
		return interaction
	}
}

// List returns up to limit interactions, most recent first.
func (l *Log) List(roomID model.RoomID, limit int) []model.Interaction {
	if limit <= 0 {
		return []model.Interaction{}
	}
	v, ok := l.buckets.Load(roomID)
	if !ok {
		return []model.Interaction{}
	}
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()
	now := l.now()
	if b.dead {
		return []model.Interaction{}
	}
	if l.expiredLocked(b, now) {
		l.dropLocked(roomID, b)
		return []model.Interaction{}
	}
	b.lastActivity = now

	n := min(limit, len(b.items))
	out := make([]model.Interaction, 0, n)
	for i := len(b.items) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, b.items[i])
	}
	return out
}

func (l *Log) CleanupExpired() int {
	evicted := 0
	now := l.now()
	l.buckets.Range(func(k, v any) bool {
		b := v.(*bucket)
		b.mu.Lock()
		if !b.dead && l.expiredLocked(b, now) {
			l.dropLocked(k.(model.RoomID), b)
			evicted++
		}
		b.mu.Unlock()
		return true
	})
	if evicted > 0 {
		l.logger.Info().Int("evicted", evicted).Msg("expired interaction buckets cleaned up")
	}
	return evicted
}

func (l *Log) expiredLocked(b *bucket, now time.Time) bool {
	return now.Sub(b.lastActivity) > l.ttl
}

func (l *Log) dropLocked(roomID model.RoomID, b *bucket) {
	b.dead = true
	b.items = nil
	l.buckets.CompareAndDelete(roomID, b)
}
