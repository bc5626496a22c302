package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/middleware"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Carrito Handler ──────────────────────────────────────────────────────────
// Every operator has one cart, keyed by the user id in the JWT.

type CarritoHandler struct{ svc service.VentaService }

func NewCarritoHandler(svc service.VentaService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Carrito(c.Request.Context(), middleware.UsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agregar godoc
// @Summary Agrega un producto al carrito por id o codigo de barras
// @Tags carrito
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AgregarCarritoRequest true "Producto y cantidad"
// @Success 200 {object} dto.CarritoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/carrito/items [post]
func (h *CarritoHandler) Agregar(c *gin.Context) {
	var req dto.AgregarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarAlCarrito(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) ActualizarCantidad(c *gin.Context) {
	productoID, ok := paramUUID(c, "producto_id")
	if !ok {
		return
	}
	var req dto.ActualizarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidad(c.Request.Context(), middleware.UsuarioID(c), productoID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar removes the product from the cart. ?es_paquete=true|false narrows
// it to the pack or unit line when both are present.
func (h *CarritoHandler) Quitar(c *gin.Context) {
	productoID, ok := paramUUID(c, "producto_id")
	if !ok {
		return
	}
	var esPaquete *bool
	if raw, present := c.GetQuery("es_paquete"); present {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("es_paquete debe ser true o false"))
			return
		}
		esPaquete = &v
	}
	resp, err := h.svc.QuitarDelCarrito(c.Request.Context(), middleware.UsuarioID(c), productoID, esPaquete)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	if err := h.svc.VaciarCarrito(c.Request.Context(), middleware.UsuarioID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Ventas Handler ───────────────────────────────────────────────────────────

type VentasHandler struct {
	svc      service.VentaService
	reportes service.ReporteService
	loc      *time.Location
}

func NewVentasHandler(svc service.VentaService, reportes service.ReporteService, loc *time.Location) *VentasHandler {
	return &VentasHandler{svc: svc, reportes: reportes, loc: loc}
}

// Cobrar godoc
// @Summary Cobra el carrito del operador y registra la venta
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CobrarRequest true "Forma de pago"
// @Success 201 {object} dto.VentaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas/cobrar [post]
func (h *VentasHandler) Cobrar(c *gin.Context) {
	var req dto.CobrarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cobrar(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentasHandler) SiguienteTicket(c *gin.Context) {
	numero, err := h.svc.SiguienteTicket(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SiguienteTicketResponse{NumeroTicket: numero})
}

func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns the sales of ?desde=&hasta=, or a single ?ticket=.
func (h *VentasHandler) Listar(c *gin.Context) {
	if ticket := c.Query("ticket"); ticket != "" {
		resp, err := h.svc.ObtenerPorTicket(c.Request.Context(), ticket)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, []dto.VentaResponse{*resp})
		return
	}

	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	inicio, fin, err := service.RangoDias(rango.Desde, rango.Hasta, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.VentasEnRango(c.Request.Context(), inicio, fin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Hoy(c *gin.Context) {
	resp, err := h.svc.VentasDeHoy(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) TotalDia(c *gin.Context) {
	resp, err := h.svc.TotalVentasDelDia(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TicketPDF renders the 80mm receipt and serves it as a download.
func (h *VentasHandler) TicketPDF(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	path, err := h.reportes.TicketPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
