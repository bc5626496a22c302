package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CajaService manages register shifts. At most one register is open at a
// time; it is looked up from the repository on every call, never cached.
type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Actual(ctx context.Context) (*dto.CajaResponse, error)
	RegistrarVentaEfectivo(ctx context.Context, referencia string, monto decimal.Decimal) (*dto.CajaResponse, error)
	// RegistrarVentaEfectivoTx is called by VentaService inside the checkout transaction.
	RegistrarVentaEfectivoTx(ctx context.Context, tx *gorm.DB, referencia string, monto decimal.Decimal) (*model.Caja, error)
	RegistrarGasto(ctx context.Context, usuarioID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CajaResponse, error)
	CajasEnRango(ctx context.Context, inicio, fin time.Time) ([]dto.CajaResponse, error)
	GastosPorCaja(ctx context.Context, cajaID uuid.UUID) ([]dto.GastoResponse, error)
	ObtenerReporte(ctx context.Context, cajaID uuid.UUID) (*dto.ReporteCajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
	now  func() time.Time
}

func NewCajaService(repo repository.CajaRepository, now func() time.Time) CajaService {
	if now == nil {
		now = time.Now
	}
	return &cajaService{repo: repo, now: now}
}

var errSinCaja = apierror.Conflict("no hay una caja abierta")

var errCentavos = apierror.Validation("los importes admiten a lo sumo 2 decimales")

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	if req.MontoApertura.IsNegative() {
		return nil, apierror.Validation("el monto de apertura no puede ser negativo")
	}
	if !model.MontoValido(req.MontoApertura) {
		return nil, errCentavos
	}

	escritura.Lock()
	defer escritura.Unlock()

	if _, err := s.repo.FindAbierta(ctx); err == nil {
		return nil, apierror.Conflict("ya hay una caja abierta; ciérrela antes de abrir otra")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	caja := &model.Caja{
		Estado:              model.CajaAbierta,
		UsuarioID:           usuarioID,
		MontoApertura:       req.MontoApertura,
		MontoActual:         req.MontoApertura,
		MontoEsperado:       req.MontoApertura,
		TotalVentasEfectivo: decimal.Zero,
		TotalGastos:         decimal.Zero,
		AbiertaEn:           s.now(),
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, caja); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.Conflict("ya hay una caja abierta; ciérrela antes de abrir otra")
			}
			return err
		}
		return s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			CajaID:      caja.ID,
			Tipo:        model.MovCajaApertura,
			Monto:       caja.MontoApertura,
			Descripcion: "Apertura de caja",
		})
	})
	if err != nil {
		return nil, err
	}
	return cajaToResponse(caja), nil
}

// ── Actual ────────────────────────────────────────────────────────────────────

func (s *cajaService) Actual(ctx context.Context) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindAbierta(ctx)
	if err != nil {
		return nil, notFound(err, "no hay una caja abierta")
	}
	return cajaToResponse(caja), nil
}

// ── Ventas en efectivo ────────────────────────────────────────────────────────
// Only cash tender moves the drawer; card and voucher sales never reach here.

func (s *cajaService) RegistrarVentaEfectivo(ctx context.Context, referencia string, monto decimal.Decimal) (*dto.CajaResponse, error) {
	escritura.Lock()
	defer escritura.Unlock()

	var caja *model.Caja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		caja, err = s.RegistrarVentaEfectivoTx(ctx, tx, referencia, monto)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cajaToResponse(caja), nil
}

func (s *cajaService) RegistrarVentaEfectivoTx(_ context.Context, tx *gorm.DB, referencia string, monto decimal.Decimal) (*model.Caja, error) {
	if monto.IsNegative() {
		return nil, apierror.Validation("el monto de la venta no puede ser negativo")
	}
	if !model.MontoValido(monto) {
		return nil, errCentavos
	}
	caja, err := s.abiertaTx(tx)
	if err != nil {
		return nil, err
	}
	caja.MontoActual = caja.MontoActual.Add(monto)
	caja.MontoEsperado = caja.MontoEsperado.Add(monto)
	caja.TotalVentasEfectivo = caja.TotalVentasEfectivo.Add(monto)
	if err := s.repo.UpdateTx(tx, caja); err != nil {
		return nil, err
	}
	ref := referencia
	if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
		CajaID:      caja.ID,
		Tipo:        model.MovCajaVentaEfectivo,
		Monto:       monto,
		Descripcion: "Venta " + referencia,
		Referencia:  &ref,
	}); err != nil {
		return nil, err
	}
	return caja, nil
}

// ── RegistrarGasto ────────────────────────────────────────────────────────────

func (s *cajaService) RegistrarGasto(ctx context.Context, usuarioID uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error) {
	descripcion := strings.TrimSpace(req.Descripcion)
	if descripcion == "" {
		return nil, apierror.Validation("la descripción del gasto es obligatoria")
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.Validation("el monto del gasto debe ser mayor a cero")
	}
	if !model.MontoValido(req.Monto) {
		return nil, errCentavos
	}

	escritura.Lock()
	defer escritura.Unlock()

	var gasto *model.Gasto
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.abiertaTx(tx)
		if err != nil {
			return err
		}
		gasto = &model.Gasto{
			Descripcion: descripcion,
			Monto:       req.Monto,
			Categoria:   req.Categoria,
			CajaID:      caja.ID,
			UsuarioID:   usuarioID,
			CreatedAt:   s.now(),
		}
		if err := s.repo.CreateGastoTx(tx, gasto); err != nil {
			return err
		}
		caja.MontoActual = caja.MontoActual.Sub(req.Monto)
		caja.MontoEsperado = caja.MontoEsperado.Sub(req.Monto)
		caja.TotalGastos = caja.TotalGastos.Add(req.Monto)
		if err := s.repo.UpdateTx(tx, caja); err != nil {
			return err
		}
		gastoID := gasto.ID.String()
		return s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			CajaID:      caja.ID,
			Tipo:        model.MovCajaGasto,
			Monto:       req.Monto.Neg(),
			Descripcion: fmt.Sprintf("Gasto (%s): %s", req.Categoria, descripcion),
			Referencia:  &gastoID,
		})
	})
	if err != nil {
		return nil, err
	}
	resp := gastoToResponse(gasto)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// diferencia = contado - esperado: positive is sobrante, negative faltante.

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	if req.MontoCierre.IsNegative() {
		return nil, apierror.Validation("el monto de cierre no puede ser negativo")
	}
	if !model.MontoValido(req.MontoCierre) {
		return nil, errCentavos
	}

	escritura.Lock()
	defer escritura.Unlock()

	var caja *model.Caja
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		caja, err = s.abiertaTx(tx)
		if err != nil {
			return err
		}
		diferencia := req.MontoCierre.Sub(caja.MontoEsperado)
		clasificacion := model.ClasificarDiferencia(diferencia)
		montoCierre := req.MontoCierre
		cerradaEn := s.now()

		caja.Estado = model.CajaCerrada
		caja.MontoCierre = &montoCierre
		caja.Diferencia = &diferencia
		caja.Clasificacion = &clasificacion
		caja.CerradaEn = &cerradaEn
		if err := s.repo.UpdateTx(tx, caja); err != nil {
			return err
		}
		return s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			CajaID:      caja.ID,
			Tipo:        model.MovCajaCierre,
			Monto:       montoCierre,
			Descripcion: fmt.Sprintf("Cierre de caja (%s %s)", clasificacion, diferencia.StringFixed(2)),
		})
	})
	if err != nil {
		return nil, err
	}
	return cajaToResponse(caja), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) CajasEnRango(ctx context.Context, inicio, fin time.Time) ([]dto.CajaResponse, error) {
	cajas, err := s.repo.ListEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaResponse, len(cajas))
	for i := range cajas {
		resp[i] = *cajaToResponse(&cajas[i])
	}
	return resp, nil
}

func (s *cajaService) GastosPorCaja(ctx context.Context, cajaID uuid.UUID) ([]dto.GastoResponse, error) {
	gastos, err := s.repo.ListGastos(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GastoResponse, len(gastos))
	for i := range gastos {
		resp[i] = gastoToResponse(&gastos[i])
	}
	return resp, nil
}

func (s *cajaService) ObtenerReporte(ctx context.Context, cajaID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, notFound(err, "caja no encontrada")
	}
	gastos, err := s.GastosPorCaja(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	movs, err := s.repo.ListMovimientos(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	movResp := make([]dto.MovimientoCajaResponse, len(movs))
	for i, m := range movs {
		movResp[i] = dto.MovimientoCajaResponse{
			Tipo:        m.Tipo,
			Monto:       m.Monto,
			Descripcion: m.Descripcion,
			Referencia:  m.Referencia,
			CreatedAt:   formatTime(m.CreatedAt),
		}
	}
	return &dto.ReporteCajaResponse{
		Caja:        *cajaToResponse(caja),
		Gastos:      gastos,
		Movimientos: movResp,
	}, nil
}

// abiertaTx loads and locks the open register, or fails with a conflict.
func (s *cajaService) abiertaTx(tx *gorm.DB) (*model.Caja, error) {
	caja, err := s.repo.FindAbiertaForUpdateTx(tx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errSinCaja
	}
	return caja, err
}

func cajaToResponse(c *model.Caja) *dto.CajaResponse {
	var montoCierre, diferencia *decimal.Decimal
	if c.MontoCierre != nil {
		v := *c.MontoCierre
		montoCierre = &v
	}
	if c.Diferencia != nil {
		v := *c.Diferencia
		diferencia = &v
	}
	return &dto.CajaResponse{
		ID:                  c.ID.String(),
		Estado:              c.Estado,
		UsuarioID:           c.UsuarioID.String(),
		MontoApertura:       c.MontoApertura,
		MontoActual:         c.MontoActual,
		MontoEsperado:       c.MontoEsperado,
		TotalVentasEfectivo: c.TotalVentasEfectivo,
		TotalGastos:         c.TotalGastos,
		MontoCierre:         montoCierre,
		Diferencia:          diferencia,
		Clasificacion:       c.Clasificacion,
		AbiertaEn:           formatTime(c.AbiertaEn),
		CerradaEn:           formatTimePtr(c.CerradaEn),
	}
}

func gastoToResponse(g *model.Gasto) dto.GastoResponse {
	return dto.GastoResponse{
		ID:          g.ID.String(),
		Descripcion: g.Descripcion,
		Monto:       g.Monto,
		Categoria:   g.Categoria,
		CajaID:      g.CajaID.String(),
		UsuarioID:   g.UsuarioID.String(),
		CreatedAt:   formatTime(g.CreatedAt),
	}
}
