package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// escritura serializes every mutating operation of the POS core in this
// process. Public operations take it; the *Tx variants called from inside a
// locked operation do not. Row locks in the transaction cover other processes.
var escritura sync.Mutex

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Encolador queues background jobs. worker.Dispatcher implements it.
type Encolador interface {
	EncolarTicket(ctx context.Context, ventaID uuid.UUID) error
	EncolarReporte(ctx context.Context, desde, hasta, email string) error
}

// notFound converts gorm.ErrRecordNotFound into a NotFound domain error and
// passes any other error through.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg)
	}
	return err
}

// inicioDelDia returns local midnight of t's calendar day in t's location.
func inicioDelDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// finDelDia returns the last representable instant of t's calendar day.
func finDelDia(t time.Time) time.Time {
	return inicioDelDia(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func formatTime(t time.Time) string { return t.Format(time.RFC3339) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
