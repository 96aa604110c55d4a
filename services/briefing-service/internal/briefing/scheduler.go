package briefing

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Scheduler triggers the dispatcher on a fixed interval. It is the only
// scheduling mechanism the service knows about; RunOnce stays callable
// directly (the dispatch command, tests) without it.
type Scheduler struct {
	dispatcher *Dispatcher
	interval   time.Duration
	log        zerolog.Logger
}

func NewScheduler(dispatcher *Dispatcher, logger zerolog.Logger) *Scheduler {
	interval := viper.GetDuration("briefing.interval")
	if interval <= 0 {
		interval = 1 * time.Minute
	}

	return &Scheduler{
		dispatcher: dispatcher,
		interval:   interval,
		log:        logger,
	}
}

// Run fires an immediate cycle and then one per interval until the context
// is cancelled. Cycles run to completion; there is no overlap guard, so
// the interval should comfortably exceed a cycle's duration.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("briefing scheduler started")

	s.dispatcher.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("briefing scheduler stopped")
			return
		case <-ticker.C:
			s.dispatcher.RunOnce(ctx)
		}
	}
}
