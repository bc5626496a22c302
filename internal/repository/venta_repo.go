package repository

import (
	"context"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByTicket(ctx context.Context, numero string) (*model.Venta, error)
	ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
	// NextTicketNumber consumes the next sequence for fecha (YYYYMMDD). It must
	// run inside the checkout transaction so a rollback gives the number back.
	NextTicketNumber(ctx context.Context, tx *gorm.DB, fecha string) (int, error)
	// UltimoTicketNumber returns the last consumed sequence for fecha, 0 if none.
	UltimoTicketNumber(ctx context.Context, fecha string) (int, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func itemsPorPosicion(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items", itemsPorPosicion).Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *ventaRepo) FindByTicket(ctx context.Context, numero string) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items", itemsPorPosicion).Where("numero_ticket = ?", numero).First(&v).Error
	return &v, err
}

// ListEnRango returns sales created in [desde, hasta] in chronological order.
func (r *ventaRepo) ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items", itemsPorPosicion).
		Where("created_at >= ? AND created_at <= ?", desde, hasta).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

const nextTicketSQL = `INSERT INTO ticket_secuencias (fecha, ultimo) VALUES (?, 1)
ON CONFLICT (fecha) DO UPDATE SET ultimo = ticket_secuencias.ultimo + 1
RETURNING ultimo`

func (r *ventaRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB, fecha string) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw(nextTicketSQL, fecha).Scan(&num).Error
	return num, err
}

func (r *ventaRepo) UltimoTicketNumber(ctx context.Context, fecha string) (int, error) {
	var seq model.TicketSecuencia
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha).Limit(1).Find(&seq).Error
	return seq.Ultimo, err
}
