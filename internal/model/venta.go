package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Metodos de pago.
const (
	PagoEfectivo = "efectivo"
	PagoTarjeta  = "tarjeta"
	PagoVale     = "vale"
)

// Venta is a committed sale. It is never edited or deleted; corrections go
// through new stock movements or expenses.
type Venta struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NumeroTicket  string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago    string          `gorm:"type:varchar(10);not null"`
	MontoPagado   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cambio        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ClienteID     *string
	ClienteNombre *string
	ClienteEmail  *string
	CajaID        uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time `gorm:"index"`

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

func (v *Venta) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VentaItem is a line snapshot taken at checkout: product data is copied, not
// referenced, so later catalog edits never change a ticket.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Posicion       int             `gorm:"not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Nombre         string          `gorm:"not null"`
	CodigoBarras   string          `gorm:"not null"`
	UnidadMedida   string          `gorm:"type:varchar(10);not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EsPaquete      bool            `gorm:"not null;default:false"`
}

func (i *VentaItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TicketSecuencia is the durable per-day ticket counter. Fecha is YYYYMMDD in
// the store's time zone; Ultimo is the last sequence handed out that day.
type TicketSecuencia struct {
	Fecha  string `gorm:"type:varchar(8);primaryKey"`
	Ultimo int    `gorm:"not null"`
}
