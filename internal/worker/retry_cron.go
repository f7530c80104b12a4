package worker

// retry_cron.go
// Background goroutine that replays dead-lettered notification jobs which
// failed only because the SMTP breaker was open. It skips ticks while the
// breaker is still open.

import (
	"context"
	"time"

	"machineshop/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 20
)

type RetryCronConfig struct {
	RDB      *redis.Client
	CB       *infra.CircuitBreaker
	Interval time.Duration
}

// StartRetryCron ticks until ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = retryTickInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("retry_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				replayTick(ctx, cfg)
			}
		}
	}()
}

func replayTick(ctx context.Context, cfg RetryCronConfig) {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}
	n, err := ReplayDLQ(ctx, cfg.RDB, QueueNotificaciones, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: replay failed")
		return
	}
	if n > 0 {
		log.Info().Int("count", n).Msg("retry_cron: jobs replayed from dlq")
	}
}
