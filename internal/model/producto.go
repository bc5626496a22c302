package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Unidades de medida. Pieza y paquete se venden por unidades enteras;
// kg y litro admiten cantidades fraccionarias.
const (
	UnidadPieza   = "pieza"
	UnidadPaquete = "paquete"
	UnidadKg      = "kg"
	UnidadLitro   = "litro"
)

// Categorias de producto.
const (
	CategoriaAbarrotes       = "abarrotes"
	CategoriaBebidas         = "bebidas"
	CategoriaLacteos         = "lacteos"
	CategoriaBotanas         = "botanas"
	CategoriaDulceria        = "dulceria"
	CategoriaLimpieza        = "limpieza"
	CategoriaHigiene         = "higiene"
	CategoriaPanaderia       = "panaderia"
	CategoriaFrutasVerduras  = "frutas_verduras"
	CategoriaCarnesEmbutidos = "carnes_embutidos"
	CategoriaOtros           = "otros"
)

// Escalas de las columnas: importes en centavos, cantidades y stock en milésimas.
const (
	DecimalesMonto    = 2
	DecimalesCantidad = 3
)

// CantidadValida reports whether q fits a decimal(12,3) column unchanged.
func CantidadValida(q decimal.Decimal) bool { return q.Equal(q.Round(DecimalesCantidad)) }

// MontoValido reports whether m is a whole number of cents.
func MontoValido(m decimal.Decimal) bool { return m.Equal(m.Round(DecimalesMonto)) }

// UnidadFraccionable reports whether quantities of the unit may be fractional.
func UnidadFraccionable(unidad string) bool {
	return unidad == UnidadKg || unidad == UnidadLitro
}

// Producto is a sellable item. Stock is written only by the inventory ledger,
// never by catalog updates. Activo=false is a soft delete: the row stays so
// Kardex entries keep pointing at it.
type Producto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CodigoBarras string          `gorm:"index;not null"`
	Nombre       string          `gorm:"index;not null"`
	Categoria    string          `gorm:"type:varchar(30);not null"`
	UnidadMedida string          `gorm:"type:varchar(10);not null;default:'pieza'"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PrecioPaquete applies when a whole pack of CantidadPaquete units is sold at once.
	PrecioPaquete   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CantidadPaquete *int
	Stock           decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Activo          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TienePrecioPaquete reports whether bulk pricing is configured.
func (p *Producto) TienePrecioPaquete() bool {
	return p.PrecioPaquete != nil && p.PrecioPaquete.IsPositive()
}
