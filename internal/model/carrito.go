package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Carrito is the operator's pending cart. It is stored as a JSON document
// (not a table) and lives until checkout or an explicit clear.
type Carrito struct {
	UsuarioID uuid.UUID     `json:"usuario_id"`
	Items     []CarritoItem `json:"items"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CarritoItem freezes the price at the moment the product was added.
// For package lines Cantidad counts packs and CantidadPaquete holds the
// number of units per pack used to discount stock.
type CarritoItem struct {
	ProductoID      uuid.UUID       `json:"producto_id"`
	Nombre          string          `json:"nombre"`
	CodigoBarras    string          `json:"codigo_barras"`
	UnidadMedida    string          `json:"unidad_medida"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	EsPaquete       bool            `json:"es_paquete"`
	CantidadPaquete int             `json:"cantidad_paquete,omitempty"`
	PrecioUsado     decimal.Decimal `json:"precio_usado"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// UnidadesStock is the quantity the line removes from stock.
func (it CarritoItem) UnidadesStock() decimal.Decimal {
	if it.EsPaquete && it.CantidadPaquete > 1 {
		return it.Cantidad.Mul(decimal.NewFromInt(int64(it.CantidadPaquete)))
	}
	return it.Cantidad
}

// Importe is cantidad × precio rounded to cents, half away from zero. It is
// the amount printed on the ticket line.
func Importe(cantidad, precio decimal.Decimal) decimal.Decimal {
	return cantidad.Mul(precio).Round(DecimalesMonto)
}

// Total is the sum of all line subtotals.
func (c *Carrito) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// CantidadArticulos is the sum of all line quantities.
func (c *Carrito) CantidadArticulos() decimal.Decimal {
	n := decimal.Zero
	for _, it := range c.Items {
		n = n.Add(it.Cantidad)
	}
	return n
}

// Vacio reports whether the cart has no lines.
func (c *Carrito) Vacio() bool { return len(c.Items) == 0 }
