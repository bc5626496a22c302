package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de caja. Cerrada es terminal: un turno nuevo abre una caja nueva.
const (
	CajaAbierta = "abierta"
	CajaCerrada = "cerrada"
)

// Clasificacion del arqueo al cierre.
const (
	CierreSobrante = "sobrante" // diferencia > 0
	CierreFaltante = "faltante" // diferencia < 0
	CierreExacto   = "exacto"   // diferencia = 0
)

// Caja is one cash-drawer shift.
//
// MontoEsperado always equals MontoApertura + TotalVentasEfectivo - TotalGastos.
// TotalVentasEfectivo only counts cash tender; card and voucher sales never
// touch the drawer and are reported from the sales history instead.
type Caja struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Estado              string          `gorm:"type:varchar(10);not null;default:'abierta'"`
	UsuarioID           uuid.UUID       `gorm:"type:uuid;not null"`
	MontoApertura       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoActual         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoEsperado       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalVentasEfectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalGastos         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AbiertaEn           time.Time       `gorm:"not null;index"`

	// Set on close.
	MontoCierre   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Clasificacion *string          `gorm:"type:varchar(10)"`
	CerradaEn     *time.Time
}

func (c *Caja) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ClasificarDiferencia returns sobrante, faltante or exacto for a closing difference.
func ClasificarDiferencia(diferencia decimal.Decimal) string {
	switch diferencia.Sign() {
	case 1:
		return CierreSobrante
	case -1:
		return CierreFaltante
	default:
		return CierreExacto
	}
}

// Tipos de movimiento de caja.
const (
	MovCajaApertura      = "apertura"
	MovCajaVentaEfectivo = "venta_efectivo"
	MovCajaGasto         = "gasto"
	MovCajaCierre        = "cierre"
)

// MovimientoCaja is an immutable entry in the register's audit trail.
// Monto is signed: sales add, expenses subtract. Apertura and cierre carry the
// opening and counted amounts for reference.
type MovimientoCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CajaID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo        string          `gorm:"type:varchar(20);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	Referencia  *string
	CreatedAt   time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }

func (m *MovimientoCaja) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Categorias de gasto.
const (
	GastoProveedores   = "proveedores"
	GastoServicios     = "servicios"
	GastoRenta         = "renta"
	GastoSueldos       = "sueldos"
	GastoMantenimiento = "mantenimiento"
	GastoInsumos       = "insumos"
	GastoOtros         = "otros"
)

// Gasto is a cash expense paid out of the drawer during an open shift.
type Gasto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Descripcion string          `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Categoria   string          `gorm:"type:varchar(20);not null"`
	CajaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (g *Gasto) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
