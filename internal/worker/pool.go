package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEgresos = "jobs:egresos"
	QueueAlertas = "jobs:alertas"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// CopiaEgresoPayload asks for the denormalized copy of one gasto in the
// general expense ledger.
type CopiaEgresoPayload struct {
	TransaccionID string `json:"transaccion_id"`
}

// AlertaSaldoPayload notifies that the balance fell below the threshold.
// Amounts travel in centavos.
type AlertaSaldoPayload struct {
	Periodo string `json:"periodo"`
	Saldo   int64  `json:"saldo"`
	Umbral  int64  `json:"umbral"`
}

// Dispatcher enqueues async jobs into Redis lists. The worker pool dequeues
// them via BRPOP. It satisfies the service layer's Notificador.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// NotificarCopiaEgreso pushes a general-ledger copy job to Redis.
func (d *Dispatcher) NotificarCopiaEgreso(ctx context.Context, transaccionID uuid.UUID) error {
	return d.enqueue(ctx, QueueEgresos, "copia_egreso", CopiaEgresoPayload{TransaccionID: transaccionID.String()})
}

// NotificarSaldoBajo pushes a low-balance alert job to Redis.
func (d *Dispatcher) NotificarSaldoBajo(ctx context.Context, periodo string, saldo, umbral int64) error {
	return d.enqueue(ctx, QueueAlertas, "alerta_saldo", AlertaSaldoPayload{Periodo: periodo, Saldo: saldo, Umbral: umbral})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers bundles the per-queue processors wired at the composition root.
type WorkerHandlers struct {
	Egresos *EgresoWorker
	Alertas *AlertaWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueEgresos, QueueAlertas}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "unknown", []byte(raw), "unmarshal: "+err.Error(), 1)
		return
	}

	switch queue {
	case QueueEgresos:
		handlers.Egresos.Process(ctx, rdb, job.Payload)
	case QueueAlertas:
		handlers.Alertas.Process(ctx, rdb, job.Payload)
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("job from unknown queue dropped")
	}
}
