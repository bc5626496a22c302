package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras    string           `json:"codigo_barras"    validate:"required,min=1,max=32"`
	Nombre          string           `json:"nombre"           validate:"required,min=2,max=120"`
	Categoria       string           `json:"categoria"        validate:"required,oneof=abarrotes bebidas lacteos botanas dulceria limpieza higiene panaderia frutas_verduras carnes_embutidos otros"`
	UnidadMedida    string           `json:"unidad_medida"    validate:"omitempty,oneof=pieza paquete kg litro"`
	PrecioCompra    decimal.Decimal  `json:"precio_compra"`
	PrecioVenta     decimal.Decimal  `json:"precio_venta"`
	PrecioPaquete   *decimal.Decimal `json:"precio_paquete"`
	CantidadPaquete *int             `json:"cantidad_paquete"`
	StockInicial    decimal.Decimal  `json:"stock_inicial"    validate:"min=0"`
	StockMinimo     decimal.Decimal  `json:"stock_minimo"     validate:"min=0"`
}

// ActualizarProductoRequest merges only the fields that are present.
// Stock is deliberately absent: it changes only through inventory movements.
type ActualizarProductoRequest struct {
	CodigoBarras    *string          `json:"codigo_barras"    validate:"omitempty,min=1,max=32"`
	Nombre          *string          `json:"nombre"           validate:"omitempty,min=2,max=120"`
	Categoria       *string          `json:"categoria"        validate:"omitempty,oneof=abarrotes bebidas lacteos botanas dulceria limpieza higiene panaderia frutas_verduras carnes_embutidos otros"`
	UnidadMedida    *string          `json:"unidad_medida"    validate:"omitempty,oneof=pieza paquete kg litro"`
	PrecioCompra    *decimal.Decimal `json:"precio_compra"`
	PrecioVenta     *decimal.Decimal `json:"precio_venta"`
	PrecioPaquete   *decimal.Decimal `json:"precio_paquete"`
	CantidadPaquete *int             `json:"cantidad_paquete"`
	StockMinimo     *decimal.Decimal `json:"stock_minimo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Q         string `form:"q"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos, otro = activos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID              string           `json:"id"`
	CodigoBarras    string           `json:"codigo_barras"`
	Nombre          string           `json:"nombre"`
	Categoria       string           `json:"categoria"`
	UnidadMedida    string           `json:"unidad_medida"`
	PrecioCompra    decimal.Decimal  `json:"precio_compra"`
	PrecioVenta     decimal.Decimal  `json:"precio_venta"`
	PrecioPaquete   *decimal.Decimal `json:"precio_paquete"`
	CantidadPaquete *int             `json:"cantidad_paquete"`
	Stock           decimal.Decimal  `json:"stock"`
	StockMinimo     decimal.Decimal  `json:"stock_minimo"`
	Activo          bool             `json:"activo"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
