package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoApertura decimal.Decimal `json:"monto_apertura" validate:"min=0"`
}

type CerrarCajaRequest struct {
	MontoCierre decimal.Decimal `json:"monto_cierre" validate:"min=0"`
}

type GastoRequest struct {
	Descripcion string          `json:"descripcion" validate:"required,min=3,max=255"`
	Monto       decimal.Decimal `json:"monto"       validate:"gt=0"`
	Categoria   string          `json:"categoria"   validate:"required,oneof=proveedores servicios renta sueldos mantenimiento insumos otros"`
}

// RangoFechas is bound from ?desde=YYYY-MM-DD&hasta=YYYY-MM-DD. Both ends are inclusive days.
type RangoFechas struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	ID                  string           `json:"id"`
	Estado              string           `json:"estado"`
	UsuarioID           string           `json:"usuario_id"`
	MontoApertura       decimal.Decimal  `json:"monto_apertura"`
	MontoActual         decimal.Decimal  `json:"monto_actual"`
	MontoEsperado       decimal.Decimal  `json:"monto_esperado"`
	TotalVentasEfectivo decimal.Decimal  `json:"total_ventas_efectivo"`
	TotalGastos         decimal.Decimal  `json:"total_gastos"`
	MontoCierre         *decimal.Decimal `json:"monto_cierre"`
	Diferencia          *decimal.Decimal `json:"diferencia"`
	Clasificacion       *string          `json:"clasificacion"` // sobrante | faltante | exacto
	AbiertaEn           string           `json:"abierta_en"`
	CerradaEn           *string          `json:"cerrada_en"`
}

type GastoResponse struct {
	ID          string          `json:"id"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Categoria   string          `json:"categoria"`
	CajaID      string          `json:"caja_id"`
	UsuarioID   string          `json:"usuario_id"`
	CreatedAt   string          `json:"created_at"`
}

type MovimientoCajaResponse struct {
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	Referencia  *string         `json:"referencia"`
	CreatedAt   string          `json:"created_at"`
}

type ReporteCajaResponse struct {
	Caja        CajaResponse             `json:"caja"`
	Gastos      []GastoResponse          `json:"gastos"`
	Movimientos []MovimientoCajaResponse `json:"movimientos"`
}
