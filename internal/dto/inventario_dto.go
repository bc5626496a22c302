package dto

import "github.com/shopspring/decimal"

type AjusteStockRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Tipo       string          `json:"tipo"        validate:"required,oneof=entrada salida venta ajuste devolucion"`
	Motivo     *string         `json:"motivo"      validate:"omitempty,max=255"`
	Referencia *string         `json:"referencia"  validate:"omitempty,max=64"`
}

type MovimientoStockFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=entrada salida venta ajuste devolucion"`
	Desde      string `form:"desde"` // YYYY-MM-DD
	Hasta      string `form:"hasta"` // YYYY-MM-DD
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoStockResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	Secuencia      int64           `json:"secuencia"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	StockAnterior  decimal.Decimal `json:"stock_anterior"`
	StockNuevo     decimal.Decimal `json:"stock_nuevo"`
	Motivo         *string         `json:"motivo"`
	Referencia     *string         `json:"referencia"`
	UsuarioID      string          `json:"usuario_id"`
	CreatedAt      string          `json:"created_at"`
}

type MovimientoStockListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

type AlertaStockResponse struct {
	ProductoID  string          `json:"producto_id"`
	Nombre      string          `json:"nombre"`
	StockActual decimal.Decimal `json:"stock_actual"`
	StockMinimo decimal.Decimal `json:"stock_minimo"`
	Categoria   string          `json:"categoria"`
}
