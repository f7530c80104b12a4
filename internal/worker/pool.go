package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueNotificaciones = "jobs:notificaciones"

// Job types.
const (
	JobEmail = "email"
)

// Job is the envelope stored in the Redis list.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	// Replays counts how many times the job came back from the DLQ.
	Replays int `json:"replays,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes a notification e-mail job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload any) error {
	return d.enqueue(ctx, QueueNotificaciones, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one job payload. Returning a PermanentError skips the
// remaining attempts.
type Handler func(ctx context.Context, payload json.RawMessage) error

type PoolConfig struct {
	Workers     int
	MaxAttempts int
	Handlers    map[string]Handler
	// PopTimeout bounds each BRPOP so workers notice cancellation.
	PopTimeout time.Duration
}

// Pool tracks the running worker goroutines.
type Pool struct {
	wg sync.WaitGroup
}

// Wait blocks until every worker returned after ctx was cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

// StartWorkerPool launches cfg.Workers goroutines consuming QueueNotificaciones.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = 5 * time.Second
	}
	p := &Pool{}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			runWorker(ctx, rdb, cfg, id)
		}(i)
	}
	log.Info().Int("workers", cfg.Workers).Msg("worker pool started")
	return p
}

func runWorker(ctx context.Context, rdb *redis.Client, cfg PoolConfig, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
		}
		result, err := rdb.BRPop(ctx, cfg.PopTimeout, QueueNotificaciones).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
				sleepCtx(ctx, time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		processJob(ctx, rdb, cfg, result[0], result[1])
	}
}

func processJob(ctx context.Context, rdb *redis.Client, cfg PoolConfig, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "", json.RawMessage(raw), "malformed envelope: "+err.Error(), 0, false)
		return
	}
	attempts, err := ejecutar(ctx, cfg, job)
	if err == nil {
		return
	}
	if ctx.Err() != nil {
		// shutting down: put the job back for the next run
		_ = rdb.LPush(context.Background(), queue, raw).Err()
		return
	}
	pushDLQ(ctx, rdb, DLQEntry{
		OriginalQueue: queue,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        err.Error(),
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
		Reintentable:  esReintentable(err),
		Replays:       job.Replays,
	})
}

// ejecutar runs the job handler with retries and returns how many attempts were made.
func ejecutar(ctx context.Context, cfg PoolConfig, job Job) (int, error) {
	h, ok := cfg.Handlers[job.Type]
	if !ok {
		return 0, Permanent(errors.New("no handler for job type " + job.Type))
	}
	attempts := 0
	err := withRetry(ctx, cfg.MaxAttempts, func(attempt int) error {
		attempts = attempt + 1
		if err := h(ctx, job.Payload); err != nil {
			log.Warn().Err(err).Str("type", job.Type).Int("attempt", attempts).Msg("job attempt failed")
			return err
		}
		return nil
	})
	return attempts, err
}

// retryBaseDelay is the first backoff step; tests shrink it.
var retryBaseDelay = time.Second

// withRetry calls fn up to maxAttempts times with exponential backoff
// (immediate, base, 2×base, …). A PermanentError stops immediately.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			if !sleepCtx(ctx, retryBaseDelay<<uint(i-1)) {
				return ctx.Err()
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err
		var perm *PermanentError
		if errors.As(err, &perm) {
			return err
		}
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// PermanentError marks a failure that retrying cannot fix.
type PermanentError struct{ Err error }

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func Permanent(err error) error { return &PermanentError{Err: err} }
