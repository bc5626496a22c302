package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/config"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/infra"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const topProductos = 10

type ReporteService interface {
	ResumenVentas(ctx context.Context, inicio, fin time.Time) (*dto.ResumenVentasResponse, error)
	ExportarPDF(ctx context.Context, inicio, fin time.Time) ([]byte, error)
	ExportarCSV(ctx context.Context, inicio, fin time.Time, w io.Writer) error
	// TicketPDF renders the receipt of a sale and returns the file path.
	TicketPDF(ctx context.Context, ventaID uuid.UUID) (string, error)
	// EnviarReporte queues the PDF report for e-mail delivery.
	EnviarReporte(ctx context.Context, req dto.EnviarReporteRequest) error
}

type reporteService struct {
	ventaRepo repository.VentaRepository
	cajaRepo  repository.CajaRepository
	caja      CajaService
	jobs      Encolador
	cfg       *config.Config
}

func NewReporteService(
	ventaRepo repository.VentaRepository,
	cajaRepo repository.CajaRepository,
	caja CajaService,
	jobs Encolador,
	cfg *config.Config,
) ReporteService {
	return &reporteService{ventaRepo: ventaRepo, cajaRepo: cajaRepo, caja: caja, jobs: jobs, cfg: cfg}
}

// RangoDias parses an inclusive YYYY-MM-DD day range in loc. An empty hasta
// means the same day as desde.
func RangoDias(desde, hasta string, loc *time.Location) (time.Time, time.Time, error) {
	if desde == "" {
		return time.Time{}, time.Time{}, apierror.Validation("desde es obligatorio (YYYY-MM-DD)")
	}
	if hasta == "" {
		hasta = desde
	}
	d, err := time.ParseInLocation("2006-01-02", desde, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.Validation("desde debe tener formato YYYY-MM-DD")
	}
	h, err := time.ParseInLocation("2006-01-02", hasta, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.Validation("hasta debe tener formato YYYY-MM-DD")
	}
	if h.Before(d) {
		return time.Time{}, time.Time{}, apierror.Validation("hasta no puede ser anterior a desde")
	}
	return d, finDelDia(h), nil
}

// ── ResumenVentas ─────────────────────────────────────────────────────────────

func (s *reporteService) ResumenVentas(ctx context.Context, inicio, fin time.Time) (*dto.ResumenVentasResponse, error) {
	ventas, err := s.ventaRepo.ListEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}
	gastos, err := s.cajaRepo.ListGastosEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}
	cajas, err := s.caja.CajasEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}

	resumen := ResumirVentas(ventas)
	resumen.Desde = inicio.Format("2006-01-02")
	resumen.Hasta = fin.Format("2006-01-02")
	for _, g := range gastos {
		resumen.TotalGastos = resumen.TotalGastos.Add(g.Monto)
	}
	resumen.Utilidad = resumen.IngresoTotal.Sub(resumen.TotalGastos)
	resumen.Cajas = cajas
	return resumen, nil
}

// ResumirVentas aggregates revenue, discounts, the payment-method breakdown
// and the best-selling products of a set of sales.
func ResumirVentas(ventas []model.Venta) *dto.ResumenVentasResponse {
	r := &dto.ResumenVentasResponse{
		NumeroVentas: len(ventas),
		IngresoTotal: decimal.Zero,
		Descuentos:   decimal.Zero,
		TotalGastos:  decimal.Zero,
		PorMetodo: map[string]decimal.Decimal{
			model.PagoEfectivo: decimal.Zero,
			model.PagoTarjeta:  decimal.Zero,
			model.PagoVale:     decimal.Zero,
		},
		ProductosTop: []dto.ProductoVendido{},
		Cajas:        []dto.CajaResponse{},
	}

	porProducto := make(map[uuid.UUID]*dto.ProductoVendido)
	for _, v := range ventas {
		r.IngresoTotal = r.IngresoTotal.Add(v.Total)
		r.Descuentos = r.Descuentos.Add(v.Descuento)
		r.PorMetodo[v.MetodoPago] = r.PorMetodo[v.MetodoPago].Add(v.Total)
		for _, it := range v.Items {
			pv, ok := porProducto[it.ProductoID]
			if !ok {
				pv = &dto.ProductoVendido{ProductoID: it.ProductoID.String(), Nombre: it.Nombre}
				porProducto[it.ProductoID] = pv
			}
			pv.Cantidad = pv.Cantidad.Add(it.Cantidad)
			pv.Importe = pv.Importe.Add(it.Subtotal)
		}
	}

	for _, pv := range porProducto {
		r.ProductosTop = append(r.ProductosTop, *pv)
	}
	sort.Slice(r.ProductosTop, func(i, j int) bool {
		a, b := r.ProductosTop[i], r.ProductosTop[j]
		if !a.Cantidad.Equal(b.Cantidad) {
			return a.Cantidad.GreaterThan(b.Cantidad)
		}
		return strings.ToLower(a.Nombre) < strings.ToLower(b.Nombre)
	})
	if len(r.ProductosTop) > topProductos {
		r.ProductosTop = r.ProductosTop[:topProductos]
	}
	r.Utilidad = r.IngresoTotal
	return r
}

// ── Exportación ───────────────────────────────────────────────────────────────

func (s *reporteService) ExportarPDF(ctx context.Context, inicio, fin time.Time) ([]byte, error) {
	resumen, err := s.ResumenVentas(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}
	return infra.GenerarReportePDF(resumen, s.cfg.StoreName)
}

func (s *reporteService) ExportarCSV(ctx context.Context, inicio, fin time.Time, w io.Writer) error {
	ventas, err := s.ventaRepo.ListEnRango(ctx, inicio, fin)
	if err != nil {
		return err
	}
	return infra.EscribirVentasCSV(w, ventas)
}

func (s *reporteService) TicketPDF(ctx context.Context, ventaID uuid.UUID) (string, error) {
	v, err := s.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return "", notFound(err, "venta no encontrada")
	}
	return infra.GenerarTicketPDF(v, s.cfg.StoreName, s.cfg.PDFStoragePath)
}

func (s *reporteService) EnviarReporte(ctx context.Context, req dto.EnviarReporteRequest) error {
	if _, _, err := RangoDias(req.Desde, req.Hasta, s.cfg.Location()); err != nil {
		return err
	}
	email := req.Email
	if email == "" {
		email = s.cfg.ReportEmail
	}
	if email == "" {
		return apierror.Validation("indique un email o configure REPORT_EMAIL")
	}
	if s.jobs == nil {
		return apierror.Conflict("la cola de trabajos no está disponible")
	}
	return s.jobs.EncolarReporte(ctx, req.Desde, req.Hasta, email)
}
