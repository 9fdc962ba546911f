package infra_memory_interaction

import (
	"sync"
	"testing"
	"time"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type InteractionLogUnitSuite struct {
	suite.Suite
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type resources struct {
	log   *Log
	clock *fakeClock
}

func initResources() *resources {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	return &resources{
		log:   New(WithClock(clock.Now), WithTTL(2*time.Hour)),
		clock: clock,
	}
}

func validInteraction(userID string, tmdbID int, action model.InteractionAction) model.Interaction {
	return model.Interaction{
		UserID: userID,
		Scope:  model.Scope{Kind: model.ServiceRadarr, ServerID: "srv1"},
		TmdbID: tmdbID,
		Action: action,
	}
}

func (s *InteractionLogUnitSuite) TestAppendAndList(t provider.T) {
	t.Parallel()
	r := initResources()

	first := r.log.Append("r1", validInteraction("u1", 10, model.ActionLike))
	second := r.log.Append("r1", validInteraction("u2", 10, model.ActionLike))
	third := r.log.Append("r1", validInteraction("u1", 10, model.ActionLike))

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, uint64(3), third.Seq)

	t.Run("Should list most recent first", func(t provider.T) {
		got := r.log.List("r1", 10)
		require.Len(t, got, 3)
		assert.Equal(t, third, got[0])
		assert.Equal(t, second, got[1])
		assert.Equal(t, first, got[2])
	})

	t.Run("Should respect limit", func(t provider.T) {
		got := r.log.List("r1", 2)
		require.Len(t, got, 2)
		assert.Equal(t, third, got[0])
		assert.Equal(t, second, got[1])
	})

	t.Run("Should return empty for non-positive limit", func(t provider.T) {
		assert.Empty(t, r.log.List("r1", 0))
		assert.Empty(t, r.log.List("r1", -5))
	})

	t.Run("Should keep rooms apart", func(t provider.T) {
		assert.Empty(t, r.log.List("r2", 10))
	})
}

func (s *InteractionLogUnitSuite) TestListKeepsBucketAlive(t provider.T) {
	t.Parallel()
	r := initResources()
	r.log.Append("r1", validInteraction("u1", 10, model.ActionLike))

	r.clock.Advance(90 * time.Minute)
	require.Len(t, r.log.List("r1", 10), 1)

	r.clock.Advance(90 * time.Minute)
	assert.Len(t, r.log.List("r1", 10), 1)
}

func (s *InteractionLogUnitSuite) TestExpiry(t provider.T) {
	t.Parallel()

	t.Run("Should forget bucket idle past ttl", func(t provider.T) {
		r := initResources()
		r.log.Append("r1", validInteraction("u1", 10, model.ActionLike))

		r.clock.Advance(2*time.Hour + time.Second)
		assert.Empty(t, r.log.List("r1", 10))
	})

	t.Run("Should start over after expiry", func(t provider.T) {
		r := initResources()
		r.log.Append("r1", validInteraction("u1", 10, model.ActionLike))
		r.log.Append("r1", validInteraction("u1", 11, model.ActionLike))

		r.clock.Advance(3 * time.Hour)
		got := r.log.Append("r1", validInteraction("u2", 12, model.ActionNope))

		assert.Equal(t, uint64(1), got.Seq)
		list := r.log.List("r1", 10)
		require.Len(t, list, 1)
		assert.Equal(t, 12, list[0].TmdbID)
	})

	t.Run("Should sweep only expired buckets", func(t provider.T) {
		r := initResources()
		r.log.Append("old", validInteraction("u1", 10, model.ActionLike))
		r.clock.Advance(time.Hour)
		r.log.Append("fresh", validInteraction("u1", 10, model.ActionLike))
		r.clock.Advance(time.Hour + time.Minute)

		assert.Equal(t, 1, r.log.CleanupExpired())
		assert.Equal(t, 0, r.log.CleanupExpired())
		assert.Len(t, r.log.List("fresh", 10), 1)
		assert.Empty(t, r.log.List("old", 10))
	})
}

func (s *InteractionLogUnitSuite) TestConcurrentAppend(t provider.T) {
	t.Parallel()
	r := initResources()

	const writers, perWriter = 16, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				r.log.Append("r1", validInteraction("u", i, model.ActionLike))
			}
		}()
	}
	wg.Wait()

	got := r.log.List("r1", writers*perWriter*2)
	require.Len(t, got, writers*perWriter)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1].Seq, got[i].Seq)
	}
}

func TestInteractionLogUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(InteractionLogUnitSuite))
}
