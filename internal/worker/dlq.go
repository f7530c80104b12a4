package worker

// dlq.go: dead letter queue
// Notification jobs that exhaust their attempts land in dlq:{queue}. Entries
// that failed only because the SMTP breaker was open are flagged replayable and
// pushed back by the replay cron once the breaker closes.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"machineshop/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// maxReplays caps how often one job may come back from the DLQ.
const maxReplays = 3

type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339
	Attempts      int             `json:"attempts"`
	Reintentable  bool            `json:"reintentable"`
	Replays       int             `json:"replays,omitempty"`
}

// esReintentable reports failures caused by the breaker rather than by the job itself.
func esReintentable(err error) bool {
	return errors.Is(err, infra.ErrCircuitOpen)
}

// SendToDLQ pushes a failed job to the dead letter queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int, reintentable bool) {
	pushDLQ(ctx, rdb, DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
		Reintentable:  reintentable,
	})
}

func pushDLQ(ctx context.Context, rdb *redis.Client, entry DLQEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", entry.OriginalQueue).Msg("dlq: failed to marshal entry")
		return
	}
	dlqKey := DLQPrefix + entry.OriginalQueue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push")
		return
	}
	log.Warn().
		Str("queue", entry.OriginalQueue).
		Str("job_type", entry.JobType).
		Str("reason", entry.Reason).
		Int("attempts", entry.Attempts).
		Bool("reintentable", entry.Reintentable).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ReplayDLQ moves up to limit replayable entries back to their queue and
// returns how many were moved. Non-replayable entries are left in place.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) (int, error) {
	dlqKey := DLQPrefix + queue
	raws, err := rdb.LRange(ctx, dlqKey, -limit, -1).Result()
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, raw := range raws {
		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || !entry.Reintentable {
			continue
		}
		if entry.Replays >= maxReplays {
			continue
		}
		job, err := json.Marshal(Job{Type: entry.JobType, Payload: entry.Payload, Replays: entry.Replays + 1})
		if err != nil {
			continue
		}
		_, err = rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LRem(ctx, dlqKey, 1, raw)
			pipe.LPush(ctx, queue, job)
			return nil
		})
		if err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}
