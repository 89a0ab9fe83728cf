package worker

// Alert jobs that keep failing are parked on a dead letter list
// (dlq:jobs:stock_alerts) instead of cycling through the queue forever.
// Entries carry enough context to inspect and replay them by hand.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

type deadLetter struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Cause    string          `json:"cause"`
	ParkedAt string          `json:"parked_at"`
	Attempts int             `json:"attempts"`
}

// parkJob moves an exhausted job to the dead letter list for its queue.
func parkJob(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	entry := deadLetter{
		Queue:    queue,
		Type:     job.Type,
		Payload:  job.Payload,
		Cause:    cause.Error(),
		ParkedAt: time.Now().UTC().Format(time.RFC3339),
		Attempts: job.Attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Str("cause", entry.Cause).
		Int("attempts", job.Attempts).
		Msg("alert job parked in dead letter queue")
}

// DLQLength reports how many jobs are parked for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
