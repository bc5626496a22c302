package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de movimiento de stock.
const (
	MovEntrada    = "entrada"    // stock-in: +cantidad
	MovSalida     = "salida"     // manual stock-out: -cantidad
	MovVenta      = "venta"      // sale-driven stock-out: -cantidad
	MovAjuste     = "ajuste"     // absolute set: stock = cantidad
	MovDevolucion = "devolucion" // return: +cantidad
)

// MovimientoStock is one Kardex entry. Entries are append-only; the
// repository exposes no update or delete. ProductoNombre is a snapshot so the
// history stays readable after a product is renamed.
//
// Secuencia numbers a product's entries 1, 2, 3... in write order. Several
// entries written in one checkout can share a timestamp; Secuencia cannot.
type MovimientoStock struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Secuencia      int64           `gorm:"not null;default:0"`
	ProductoNombre string          `gorm:"not null"`
	Tipo           string          `gorm:"type:varchar(20);not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAnterior  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo     decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo         *string
	Referencia     *string   `gorm:"index"` // ticket number when the movement comes from a sale
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time `gorm:"index"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
