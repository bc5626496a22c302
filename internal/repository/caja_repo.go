package repository

import (
	"context"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CajaRepository interface {
	CreateTx(tx *gorm.DB, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	FindAbierta(ctx context.Context) (*model.Caja, error)
	ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Caja, error)

	FindAbiertaForUpdateTx(tx *gorm.DB) (*model.Caja, error)
	UpdateTx(tx *gorm.DB, c *model.Caja) error

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, cajaID uuid.UUID) ([]model.MovimientoCaja, error)

	CreateGastoTx(tx *gorm.DB, g *model.Gasto) error
	ListGastos(ctx context.Context, cajaID uuid.UUID) ([]model.Gasto, error)
	ListGastosEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Gasto, error)

	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

// CreateTx relies on the partial unique index idx_cajas_una_abierta to reject
// a second open register even under concurrent opens.
func (r *cajaRepo) CreateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindAbierta(ctx context.Context) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("estado = ?", model.CajaAbierta).First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindAbiertaForUpdateTx(tx *gorm.DB) (*model.Caja, error) {
	var c model.Caja
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("estado = ?", model.CajaAbierta).
		First(&c).Error
	return &c, err
}

// ListEnRango returns registers opened in [desde, hasta], oldest first.
func (r *cajaRepo) ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).
		Where("abierta_en >= ? AND abierta_en <= ?", desde, hasta).
		Order("abierta_en ASC").
		Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) UpdateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Save(c).Error
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, cajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) CreateGastoTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Create(g).Error
}

func (r *cajaRepo) ListGastos(ctx context.Context, cajaID uuid.UUID) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Order("created_at ASC").Find(&gastos).Error
	return gastos, err
}

func (r *cajaRepo) ListGastosEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", desde, hasta).
		Order("created_at ASC").
		Find(&gastos).Error
	return gastos, err
}
