package worker

// ticket_worker.go
// Renders the receipt PDF of a committed sale and, when the sale carries a
// customer e-mail, mails it through the SMTP circuit breaker.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/infra"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type TicketWorker struct {
	ventaRepo   repository.VentaRepository
	mailer      *infra.Mailer
	tienda      string
	storagePath string
}

func NewTicketWorker(ventaRepo repository.VentaRepository, mailer *infra.Mailer, tienda, storagePath string) *TicketWorker {
	return &TicketWorker{ventaRepo: ventaRepo, mailer: mailer, tienda: tienda, storagePath: storagePath}
}

func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TicketPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("ticket_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return fmt.Errorf("ticket_worker: invalid venta_id: %w", err)
	}
	venta, err := w.ventaRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ticket_worker: load venta %s: %w", id, err)
	}

	path, err := infra.GenerarTicketPDF(venta, w.tienda, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("ticket", venta.NumeroTicket).Str("path", path).Msg("ticket_worker: pdf generated")

	if venta.ClienteEmail == nil || *venta.ClienteEmail == "" || w.mailer == nil || !w.mailer.Configurado() {
		return nil
	}
	subject := fmt.Sprintf("%s - Ticket %s", w.tienda, venta.NumeroTicket)
	body := fmt.Sprintf("Gracias por su compra. Total: $%s", venta.Total.StringFixed(2))
	if err := w.mailer.EnviarAdjunto(*venta.ClienteEmail, subject, body, path); err != nil {
		return fmt.Errorf("ticket_worker: send to %s: %w", *venta.ClienteEmail, err)
	}
	log.Info().Str("ticket", venta.NumeroTicket).Str("to", *venta.ClienteEmail).Msg("ticket_worker: ticket sent")
	return nil
}
