package worker

// reporte_cron.go
// Background goroutine that watches the store's calendar day and, when it
// rolls over, queues the PDF report of the day that just ended.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ReporteCronConfig holds all dependencies for the report goroutine.
type ReporteCronConfig struct {
	Dispatcher *Dispatcher
	Interval   time.Duration
	Email      string
	Now        func() time.Time // store-local clock
}

// StartReporteCron launches a background goroutine that ticks every Interval.
// It respects the context for graceful shutdown.
func StartReporteCron(ctx context.Context, cfg ReporteCronConfig) {
	if cfg.Email == "" {
		log.Info().Msg("reporte_cron: REPORT_EMAIL empty, daily report disabled")
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		ultimo := cfg.Now()
		log.Info().Dur("interval", cfg.Interval).Msg("reporte_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reporte_cron: shutting down")
				return
			case <-ticker.C:
				ahora := cfg.Now()
				dia, ok := diaCerrado(ultimo, ahora)
				ultimo = ahora
				if !ok {
					continue
				}
				if err := cfg.Dispatcher.EncolarReporte(ctx, dia, dia, cfg.Email); err != nil {
					log.Error().Err(err).Str("dia", dia).Msg("reporte_cron: enqueue failed")
					continue
				}
				log.Info().Str("dia", dia).Msg("reporte_cron: daily report queued")
			}
		}
	}()
}

// diaCerrado reports the YYYY-MM-DD day that ended between two ticks, if any.
// Only the most recent closed day is returned when several passed at once.
func diaCerrado(anterior, ahora time.Time) (string, bool) {
	a := inicioDia(anterior)
	b := inicioDia(ahora)
	if !b.After(a) {
		return "", false
	}
	return b.AddDate(0, 0, -1).Format("2006-01-02"), true
}

func inicioDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
