package worker

// reporte_worker.go
// Builds the PDF sales report for a day range, stores it next to the tickets
// and mails it to the requested address.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/infra"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	"github.com/rs/zerolog/log"
)

type ReporteWorker struct {
	reportes    service.ReporteService
	mailer      *infra.Mailer
	tienda      string
	storagePath string
	loc         *time.Location
}

func NewReporteWorker(reportes service.ReporteService, mailer *infra.Mailer, tienda, storagePath string, loc *time.Location) *ReporteWorker {
	return &ReporteWorker{reportes: reportes, mailer: mailer, tienda: tienda, storagePath: storagePath, loc: loc}
}

func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("reporte_worker: invalid payload: %w", err)
	}
	inicio, fin, err := service.RangoDias(payload.Desde, payload.Hasta, w.loc)
	if err != nil {
		return fmt.Errorf("reporte_worker: %w", err)
	}

	pdf, err := w.reportes.ExportarPDF(ctx, inicio, fin)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(w.storagePath, 0o755); err != nil {
		return fmt.Errorf("reporte_worker: create storage dir: %w", err)
	}
	path := filepath.Join(w.storagePath, fmt.Sprintf("reporte_%s_%s.pdf", payload.Desde, payload.Hasta))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("reporte_worker: write file: %w", err)
	}
	log.Info().Str("path", path).Msg("reporte_worker: pdf generated")

	if payload.Email == "" || w.mailer == nil || !w.mailer.Configurado() {
		log.Warn().Str("path", path).Msg("reporte_worker: no recipient or SMTP, report kept on disk")
		return nil
	}
	subject := fmt.Sprintf("%s - Reporte de ventas %s a %s", w.tienda, payload.Desde, payload.Hasta)
	if err := w.mailer.EnviarAdjunto(payload.Email, subject, "Se adjunta el reporte de ventas.", path); err != nil {
		return fmt.Errorf("reporte_worker: send to %s: %w", payload.Email, err)
	}
	log.Info().Str("to", payload.Email).Msg("reporte_worker: report sent")
	return nil
}
