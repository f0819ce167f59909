package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces dead letters per source queue, e.g. dlq:jobs:email.
const DLQPrefix = "dlq:"

// DeadLetter is a job that will not be retried again, kept for inspection.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	Intentos int             `json:"intentos"`
	FailedAt time.Time       `json:"failed_at"`
}

// SendToDLQ parks a failed job. Push errors are logged; the job is lost in
// that case, as it would be if the worker crashed.
func SendToDLQ(ctx context.Context, rdb listPusher, queue, jobType string, payload json.RawMessage, motivo string, intentos int) {
	data, err := json.Marshal(DeadLetter{
		Queue:    queue,
		JobType:  jobType,
		Payload:  payload,
		Motivo:   motivo,
		Intentos: intentos,
		FailedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	key := DLQPrefix + queue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: failed to push")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("dlq: job parked")
}

// DLQLength is how many dead letters queue has accumulated.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
