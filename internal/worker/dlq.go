package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that exhaust MaxAttempts, or that cannot be decoded, are parked in
// dlq:{cola} for manual inspection. Each list keeps the newest DLQMax entries.
const (
	DLQPrefix = "dlq:"
	DLQMax    = 500
)

// Fallido is a dead-lettered job plus the context needed to replay it by hand.
type Fallido struct {
	Cola     string          `json:"cola"`
	Tipo     string          `json:"tipo"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	Intentos int             `json:"intentos"`
	FalloEn  time.Time       `json:"fallo_en"`
}

func (p *Pool) aDLQ(ctx context.Context, cola string, job Job, motivo string) {
	data, err := json.Marshal(Fallido{
		Cola:     cola,
		Tipo:     job.Type,
		Payload:  job.Payload,
		Motivo:   motivo,
		Intentos: job.Attempts,
		FalloEn:  time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("queue", cola).Msg("dlq: marshal")
		return
	}

	key := DLQPrefix + cola
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, DLQMax-1)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push")
		return
	}
	log.Warn().
		Str("queue", cola).
		Str("job_type", job.Type).
		Str("reason", motivo).
		Int("attempts", job.Attempts).
		Msg("dlq: job parked")
}

// EstadoColas reports pending and dead-lettered jobs per queue for /health.
func EstadoColas(ctx context.Context, rdb *redis.Client) map[string]int64 {
	colas := []string{QueueTicket, QueueReporte}
	pipe := rdb.Pipeline()
	pendientes := make([]*redis.IntCmd, len(colas))
	fallidos := make([]*redis.IntCmd, len(colas))
	for i, q := range colas {
		pendientes[i] = pipe.LLen(ctx, q)
		fallidos[i] = pipe.LLen(ctx, DLQPrefix+q)
	}
	_, _ = pipe.Exec(ctx)

	out := make(map[string]int64, 2*len(colas))
	for i, q := range colas {
		if n, err := pendientes[i].Result(); err == nil {
			out[q] = n
		}
		if n, err := fallidos[i].Result(); err == nil {
			out[DLQPrefix+q] = n
		}
	}
	return out
}
