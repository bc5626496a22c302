package handler

import (
	"net/http"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/middleware"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	svc service.InventarioService
	loc *time.Location
}

func NewInventarioHandler(svc service.InventarioService, loc *time.Location) *InventarioHandler {
	return &InventarioHandler{svc: svc, loc: loc}
}

// Ajustar godoc
// @Summary Registra un movimiento de stock (entrada, salida, ajuste, devolucion)
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AjusteStockRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoStockResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/inventario/ajustes [post]
func (h *InventarioHandler) Ajustar(c *gin.Context) {
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.AlertasStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Kardex returns every movement of one product, newest first.
func (h *InventarioHandler) Kardex(c *gin.Context) {
	id, ok := paramUUID(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.MovimientosPorProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) Movimientos(c *gin.Context) {
	var filter dto.MovimientoStockFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
