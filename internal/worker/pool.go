package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"facturas/internal/dto"
	"facturas/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEnvioFactura = "envio_factura"

	// MaxIntentos is how many times a job runs before it lands in the DLQ.
	MaxIntentos = 3

	// RetryPrefix namespaces the delayed-retry sorted set per queue, e.g.
	// retry:jobs:email. Members are encoded jobs scored by their due time.
	RetryPrefix = "retry:"

	retryTickInterval = time.Second
	retryBatchSize    = 50
	brpopErrorPause   = 2 * time.Second
)

// RetryBackoff is the delay before the first retry; attempt n waits n times
// as long. Never shorter than the SMTP breaker's open timeout.
var RetryBackoff = infra.DefaultCBConfig("smtp").OpenTimeout

// Job is the generic envelope for all async tasks.
type Job struct {
	// ID keeps otherwise identical jobs distinct in the retry set.
	ID       string          `json:"id,omitempty"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. Returning a Permanent error skips the
// remaining retries.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// listPusher is the slice of the Redis client used to (re)enqueue jobs.
type listPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// jobQueue adds the sorted-set calls behind delayed retries.
type jobQueue interface {
	listPusher
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd
	ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb listPusher
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEnvioFactura queues an invoice email.
func (d *Dispatcher) EnqueueEnvioFactura(ctx context.Context, p dto.EnvioFacturaPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEnvioFactura, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{ID: uuid.NewString(), Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb listPusher, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming QueueEmail.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers map[string]Handler, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	go runRetryPromoter(ctx, rdb, QueueEmail)
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers map[string]Handler, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Warn().Err(err).Int("worker", id).Msg("brpop failed, pausing")
				select {
				case <-ctx.Done():
				case <-time.After(brpopErrorPause):
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// processJob runs one raw job. Transient failures are scheduled for a
// delayed retry until MaxIntentos; everything else that fails goes to the DLQ.
// An open circuit does not consume an attempt.
func processJob(ctx context.Context, q jobQueue, handlers map[string]Handler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, q, queue, "", json.RawMessage(fmt.Sprintf("%q", raw)), "envelope invalido: "+err.Error(), 0)
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, q, queue, job.Type, job.Payload, "tipo de job desconocido", job.Attempts)
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}

	if errors.Is(err, infra.ErrCircuitOpen) {
		scheduleRetry(ctx, q, queue, job, RetryBackoff, err)
		return
	}
	job.Attempts++
	var perm *permanentError
	if errors.As(err, &perm) || job.Attempts >= MaxIntentos {
		SendToDLQ(ctx, q, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	scheduleRetry(ctx, q, queue, job, time.Duration(job.Attempts)*RetryBackoff, err)
}

func scheduleRetry(ctx context.Context, q jobQueue, queue string, job Job, delay time.Duration, cause error) {
	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to marshal retry")
		return
	}
	due := time.Now().Add(delay)
	if err := q.ZAdd(ctx, RetryPrefix+queue, redis.Z{Score: float64(due.UnixMilli()), Member: encoded}).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to schedule retry")
		return
	}
	log.Warn().Err(cause).
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Time("retry_at", due).
		Msg("job failed, retry scheduled")
}

func runRetryPromoter(ctx context.Context, q jobQueue, queue string) {
	ticker := time.NewTicker(retryTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := promoteDueRetries(ctx, q, queue, time.Now()); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Str("queue", queue).Msg("retry promotion failed")
			}
		}
	}
}

// promoteDueRetries moves retries due at or before now back onto queue.
// ZRem decides ownership, so concurrent promoters never push a job twice.
func promoteDueRetries(ctx context.Context, q jobQueue, queue string, now time.Time) (int, error) {
	key := RetryPrefix + queue
	due, err := q.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, member := range due {
		removed, err := q.ZRem(ctx, key, member).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue
		}
		if err := q.LPush(ctx, queue, member).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
