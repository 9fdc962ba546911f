package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultInterval = time.Minute

type Cleaner interface {
	CleanupExpired() (rooms int, buckets int)
}

// Sweeper periodically evicts idle rooms and their interaction logs.
type Sweeper struct {
	cleaner  Cleaner
	interval time.Duration
	logger   zerolog.Logger
}

func New(cleaner Cleaner, interval time.Duration) *Sweeper {
	if interval < time.Second {
		interval = DefaultInterval
	}
	return &Sweeper{
		cleaner:  cleaner,
		interval: interval,
		logger:   log.With().Str("module", "service.sweeper").Logger(),
	}
}

func (s *Sweeper) Sweep() {
	rooms, buckets := s.cleaner.CleanupExpired()
	if rooms > 0 || buckets > 0 {
		s.logger.Info().Int("rooms", rooms).Int("buckets", buckets).Msg("expired state evicted")
	}
}

// Run blocks until ctx is done. The scheduler ticks with one second resolution.
func (s *Sweeper) Run(ctx context.Context) error {
	scheduler := gocron.NewScheduler()
	if err := scheduler.Every(uint64(s.interval / time.Second)).Seconds().Do(s.Sweep); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.logger.Info().Dur("interval", s.interval).Msg("sweeper started")
	stopped := scheduler.Start()

	<-ctx.Done()
	stopped <- true
	scheduler.Clear()

	s.logger.Info().Msg("sweeper stopped")
	return nil
}
