package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct {
	svc service.ReporteService
	loc *time.Location
}

func NewReportesHandler(svc service.ReporteService, loc *time.Location) *ReportesHandler {
	return &ReportesHandler{svc: svc, loc: loc}
}

// rango parses ?desde=&hasta= and writes the error response when invalid.
func (h *ReportesHandler) rango(c *gin.Context) (dto.RangoFechas, time.Time, time.Time, bool) {
	var r dto.RangoFechas
	if !bindQuery(c, &r) {
		return r, time.Time{}, time.Time{}, false
	}
	if r.Hasta == "" {
		r.Hasta = r.Desde
	}
	inicio, fin, err := service.RangoDias(r.Desde, r.Hasta, h.loc)
	if err != nil {
		respondError(c, err)
		return r, time.Time{}, time.Time{}, false
	}
	return r, inicio, fin, true
}

// Ventas godoc
// @Summary Resumen de ventas, gastos y cajas de un rango de dias
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param desde query string true "YYYY-MM-DD"
// @Param hasta query string false "YYYY-MM-DD (inclusive)"
// @Success 200 {object} dto.ResumenVentasResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/reportes/ventas [get]
func (h *ReportesHandler) Ventas(c *gin.Context) {
	_, inicio, fin, ok := h.rango(c)
	if !ok {
		return
	}
	resp, err := h.svc.ResumenVentas(c.Request.Context(), inicio, fin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) VentasPDF(c *gin.Context) {
	r, inicio, fin, ok := h.rango(c)
	if !ok {
		return
	}
	pdf, err := h.svc.ExportarPDF(c.Request.Context(), inicio, fin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ventas_%s_%s.pdf"`, r.Desde, r.Hasta))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// VentasCSV buffers the export so a failed query still yields a JSON error.
func (h *ReportesHandler) VentasCSV(c *gin.Context) {
	r, inicio, fin, ok := h.rango(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportarCSV(c.Request.Context(), inicio, fin, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ventas_%s_%s.csv"`, r.Desde, r.Hasta))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Enviar queues the PDF report for e-mail delivery and answers 202.
func (h *ReportesHandler) Enviar(c *gin.Context) {
	var req dto.EnviarReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarReporte(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true})
}
