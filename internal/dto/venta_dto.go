package dto

import "github.com/shopspring/decimal"

// ─── Carrito ─────────────────────────────────────────────────────────────────

// AgregarCarritoRequest identifies the product by id or by scanned barcode.
// Cantidad defaults to 1 only when omitted; an explicit zero is rejected.
type AgregarCarritoRequest struct {
	ProductoID   *string          `json:"producto_id"   validate:"omitempty,uuid"`
	CodigoBarras *string          `json:"codigo_barras" validate:"omitempty,min=1,max=32"`
	Cantidad     *decimal.Decimal `json:"cantidad"`
	EsPaquete    bool             `json:"es_paquete"`
}

type ActualizarCantidadRequest struct {
	Cantidad  decimal.Decimal `json:"cantidad"`
	EsPaquete bool            `json:"es_paquete"`
}

type CarritoItemResponse struct {
	ProductoID   string          `json:"producto_id"`
	Nombre       string          `json:"nombre"`
	CodigoBarras string          `json:"codigo_barras"`
	UnidadMedida string          `json:"unidad_medida"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	EsPaquete    bool            `json:"es_paquete"`
	PrecioUsado  decimal.Decimal `json:"precio_usado"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type CarritoResponse struct {
	Items             []CarritoItemResponse `json:"items"`
	Total             decimal.Decimal       `json:"total"`
	CantidadArticulos decimal.Decimal       `json:"cantidad_articulos"`
}

// ─── Cobro ───────────────────────────────────────────────────────────────────

type CobrarRequest struct {
	MetodoPago    string          `json:"metodo_pago"    validate:"required,oneof=efectivo tarjeta vale"`
	MontoPagado   decimal.Decimal `json:"monto_pagado"   validate:"min=0"`
	Descuento     decimal.Decimal `json:"descuento"      validate:"min=0"`
	CajaID        *string         `json:"caja_id"        validate:"omitempty,uuid"`
	ClienteID     *string         `json:"cliente_id"     validate:"omitempty,max=64"`
	ClienteNombre *string         `json:"cliente_nombre" validate:"omitempty,max=120"`
	ClienteEmail  *string         `json:"cliente_email"  validate:"omitempty,email"`
}

type VentaItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	CodigoBarras   string          `json:"codigo_barras"`
	UnidadMedida   string          `json:"unidad_medida"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	EsPaquete      bool            `json:"es_paquete"`
}

type VentaResponse struct {
	ID            string              `json:"id"`
	NumeroTicket  string              `json:"numero_ticket"`
	Items         []VentaItemResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Descuento     decimal.Decimal     `json:"descuento"`
	Total         decimal.Decimal     `json:"total"`
	MetodoPago    string              `json:"metodo_pago"`
	MontoPagado   decimal.Decimal     `json:"monto_pagado"`
	Cambio        decimal.Decimal     `json:"cambio"`
	ClienteID     *string             `json:"cliente_id"`
	ClienteNombre *string             `json:"cliente_nombre"`
	CajaID        string              `json:"caja_id"`
	UsuarioID     string              `json:"usuario_id"`
	CreatedAt     string              `json:"created_at"`
}

// TotalDiaResponse reports revenue over all payment methods, unlike the
// register's cash-only total.
type TotalDiaResponse struct {
	Fecha        string          `json:"fecha"`
	NumeroVentas int             `json:"numero_ventas"`
	IngresoTotal decimal.Decimal `json:"ingreso_total"`
}

type SiguienteTicketResponse struct {
	NumeroTicket string `json:"numero_ticket"`
}
