package dto

import "github.com/shopspring/decimal"

type ProductoVendido struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Importe    decimal.Decimal `json:"importe"`
}

type ResumenVentasResponse struct {
	Desde        string                     `json:"desde"`
	Hasta        string                     `json:"hasta"`
	NumeroVentas int                        `json:"numero_ventas"`
	IngresoTotal decimal.Decimal            `json:"ingreso_total"`
	Descuentos   decimal.Decimal            `json:"descuentos"`
	PorMetodo    map[string]decimal.Decimal `json:"por_metodo"`
	ProductosTop []ProductoVendido          `json:"productos_top"`
	TotalGastos  decimal.Decimal            `json:"total_gastos"`
	Utilidad     decimal.Decimal            `json:"utilidad"` // ingreso - gastos
	Cajas        []CajaResponse             `json:"cajas"`
}

type EnviarReporteRequest struct {
	Desde string `json:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `json:"hasta" validate:"required,datetime=2006-01-02"`
	Email string `json:"email" validate:"omitempty,email"`
}
