package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqKey = "jobs:dlq"

// DLQEntry preserves the failed job with enough context to diagnose
// and replay it by hand.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// SendToDLQ parks a job that could not be processed. Best effort: if Redis
// itself is down we only log.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload []byte, errMsg string, attempts int) {
	entry := DLQEntry{
		Queue:    queue,
		Type:     jobType,
		Payload:  payload,
		Error:    errMsg,
		Attempts: attempts,
		FailedAt: time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal DLQ entry")
		return
	}
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to push job to DLQ")
		return
	}
	log.Warn().Str("queue", queue).Str("type", jobType).Str("error", errMsg).Msg("job sent to DLQ")
}

// DLQLength reports how many jobs are parked. Exposed for the health check.
func DLQLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, dlqKey).Result()
}
