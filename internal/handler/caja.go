package handler

import (
	"net/http"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/middleware"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct {
	svc service.CajaService
	loc *time.Location
}

func NewCajaHandler(svc service.CajaService, loc *time.Location) *CajaHandler {
	return &CajaHandler{svc: svc, loc: loc}
}

// Abrir godoc
// @Summary Abre la caja con el fondo inicial
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.CajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra la caja con el efectivo contado y clasifica la diferencia
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Efectivo contado"
// @Success 200 {object} dto.CajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actual returns the open register or 404 when there is none.
func (h *CajaHandler) Actual(c *gin.Context) {
	resp, err := h.svc.Actual(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) RegistrarGasto(c *gin.Context) {
	var req dto.GastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarGasto(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CajaHandler) Gastos(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GastosPorCaja(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) ObtenerReporte(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial lists the registers opened within ?desde=&hasta= (inclusive days).
func (h *CajaHandler) Historial(c *gin.Context) {
	var rango dto.RangoFechas
	if !bindQuery(c, &rango) {
		return
	}
	inicio, fin, err := service.RangoDias(rango.Desde, rango.Hasta, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.CajasEnRango(c.Request.Context(), inicio, fin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
