package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTicket  = "jobs:ticket"
	QueueReporte = "jobs:reporte"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// TicketPayload asks for the receipt PDF of a committed sale.
type TicketPayload struct {
	VentaID string `json:"venta_id"`
}

// ReportePayload asks for the PDF sales report of an inclusive day range.
type ReportePayload struct {
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`
	Email string `json:"email"`
}

// Handler processes one job payload. A returned error triggers a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarTicket pushes a ticket PDF job to Redis.
func (d *Dispatcher) EncolarTicket(ctx context.Context, ventaID uuid.UUID) error {
	return d.enqueue(ctx, QueueTicket, TicketPayload{VentaID: ventaID.String()})
}

// EncolarReporte pushes a report job to Redis.
func (d *Dispatcher) EncolarReporte(ctx context.Context, desde, hasta, email string) error {
	return d.enqueue(ctx, QueueReporte, ReportePayload{Desde: desde, Hasta: hasta, Email: email})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: queue, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers}
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	queues := make([]string, 0, len(p.handlers))
	for q := range p.handlers {
		queues = append(queues, q)
	}
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i, queues)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int, queues []string) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

// accion is what the pool does with a job after running it.
type accion int

const (
	accionListo accion = iota
	accionReintentar
	accionDLQ
)

// siguienteAccion decides between done, retry and dead-letter. job.Attempts
// already counts the run that just finished.
func siguienteAccion(job Job, err error) accion {
	switch {
	case err == nil:
		return accionListo
	case job.Attempts < MaxAttempts:
		return accionReintentar
	default:
		return accionDLQ
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		p.aDLQ(ctx, queue, Job{Type: "desconocido", Payload: json.RawMessage(strconv.Quote(raw))}, err.Error())
		return
	}

	handler, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler registered")
		return
	}

	job.Attempts++
	err := handler(ctx, job.Payload)
	switch siguienteAccion(job, err) {
	case accionListo:
		log.Info().Str("queue", queue).Int("attempt", job.Attempts).Msg("job done")
	case accionReintentar:
		log.Warn().Err(err).Str("queue", queue).Int("attempt", job.Attempts).Msg("job failed, requeueing")
		encoded, mErr := json.Marshal(job)
		if mErr == nil {
			mErr = p.rdb.LPush(ctx, queue, encoded).Err()
		}
		if mErr != nil {
			p.aDLQ(ctx, queue, job, mErr.Error())
		}
	case accionDLQ:
		p.aDLQ(ctx, queue, job, err.Error())
	}
}
