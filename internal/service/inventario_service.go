package service

import (
	"context"
	"fmt"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService is the only writer of Producto.Stock. Every change goes
// through AjustarStock / AjustarStockTx and leaves a Kardex entry.
type InventarioService interface {
	AjustarStock(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteStockRequest) (*dto.MovimientoStockResponse, error)
	// AjustarStockTx is called within a sale or catalog transaction — requires
	// the caller's tx and the caller must already hold the write lock.
	AjustarStockTx(ctx context.Context, tx *gorm.DB, a Ajuste) (*model.MovimientoStock, error)
	AlertasStock(ctx context.Context) ([]dto.AlertaStockResponse, error)
	MovimientosPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.MovimientoStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter, loc *time.Location) (*dto.MovimientoStockListResponse, error)
}

// Ajuste is one stock change request as seen by the ledger.
type Ajuste struct {
	ProductoID uuid.UUID
	Cantidad   decimal.Decimal
	Tipo       string
	Motivo     *string
	Referencia *string
	UsuarioID  uuid.UUID
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
}

func NewInventarioService(productoRepo repository.ProductoRepository, movimientoRepo repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
}

// ── AjustarStock ──────────────────────────────────────────────────────────────

func (s *inventarioService) AjustarStock(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteStockRequest) (*dto.MovimientoStockResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apierror.Validation("producto_id inválido")
	}

	escritura.Lock()
	defer escritura.Unlock()

	var mov *model.MovimientoStock
	err = runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.AjustarStockTx(ctx, tx, Ajuste{
			ProductoID: productoID,
			Cantidad:   req.Cantidad,
			Tipo:       req.Tipo,
			Motivo:     req.Motivo,
			Referencia: req.Referencia,
			UsuarioID:  usuarioID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := movimientoToResponse(mov)
	return &resp, nil
}

var errMilesimas = apierror.Validation("las cantidades admiten a lo sumo 3 decimales")

func (s *inventarioService) AjustarStockTx(_ context.Context, tx *gorm.DB, a Ajuste) (*model.MovimientoStock, error) {
	p, err := s.productoRepo.FindByIDForUpdateTx(tx, a.ProductoID)
	if err != nil {
		return nil, notFound(err, "producto no encontrado")
	}
	if !model.CantidadValida(a.Cantidad) {
		return nil, errMilesimas
	}
	if !model.UnidadFraccionable(p.UnidadMedida) && !a.Cantidad.IsInteger() {
		return nil, apierror.Validation(fmt.Sprintf("%s se maneja por %s: la cantidad debe ser entera", p.Nombre, p.UnidadMedida))
	}
	nuevo, err := CalcularStock(p.Stock, a.Tipo, a.Cantidad)
	if err != nil {
		return nil, err
	}

	if err := s.productoRepo.UpdateStockTx(tx, p.ID, nuevo); err != nil {
		return nil, err
	}
	mov := &model.MovimientoStock{
		ProductoID:     p.ID,
		ProductoNombre: p.Nombre,
		Tipo:           a.Tipo,
		Cantidad:       a.Cantidad,
		StockAnterior:  p.Stock,
		StockNuevo:     nuevo,
		Motivo:         a.Motivo,
		Referencia:     a.Referencia,
		UsuarioID:      a.UsuarioID,
	}
	if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CalcularStock applies one movement to the current stock.
//
//	entrada, devolucion: actual + cantidad (cantidad > 0)
//	salida, venta:       actual - cantidad (cantidad > 0, may go negative)
//	ajuste:              cantidad          (cantidad >= 0, physical count)
func CalcularStock(actual decimal.Decimal, tipo string, cantidad decimal.Decimal) (decimal.Decimal, error) {
	switch tipo {
	case model.MovEntrada, model.MovDevolucion:
		if !cantidad.IsPositive() {
			return actual, apierror.Validation("la cantidad debe ser mayor a cero")
		}
		return actual.Add(cantidad), nil
	case model.MovSalida, model.MovVenta:
		if !cantidad.IsPositive() {
			return actual, apierror.Validation("la cantidad debe ser mayor a cero")
		}
		return actual.Sub(cantidad), nil
	case model.MovAjuste:
		if cantidad.IsNegative() {
			return actual, apierror.Validation("el conteo físico no puede ser negativo")
		}
		return cantidad, nil
	default:
		return actual, apierror.Validation(fmt.Sprintf("tipo de movimiento desconocido: %q", tipo))
	}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *inventarioService) AlertasStock(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productoRepo.ListAlertas(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AlertaStockResponse, len(productos))
	for i, p := range productos {
		resp[i] = dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			StockActual: p.Stock,
			StockMinimo: p.StockMinimo,
			Categoria:   p.Categoria,
		}
	}
	return resp, nil
}

func (s *inventarioService) MovimientosPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.MovimientoStockResponse, error) {
	movs, err := s.movimientoRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoStockResponse, len(movs))
	for i := range movs {
		resp[i] = movimientoToResponse(&movs[i])
	}
	return resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter, loc *time.Location) (*dto.MovimientoStockListResponse, error) {
	f := repository.MovimientoStockFilter{Tipo: filter.Tipo, Page: filter.Page, Limit: filter.Limit}
	if filter.ProductoID != "" {
		id, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, apierror.Validation("producto_id inválido")
		}
		f.ProductoID = &id
	}
	if filter.Desde != "" {
		d, err := time.ParseInLocation("2006-01-02", filter.Desde, loc)
		if err != nil {
			return nil, apierror.Validation("desde debe tener formato YYYY-MM-DD")
		}
		f.Desde = &d
	}
	if filter.Hasta != "" {
		h, err := time.ParseInLocation("2006-01-02", filter.Hasta, loc)
		if err != nil {
			return nil, apierror.Validation("hasta debe tener formato YYYY-MM-DD")
		}
		h = finDelDia(h)
		f.Hasta = &h
	}

	movs, total, err := s.movimientoRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, len(movs))
	for i := range movs {
		data[i] = movimientoToResponse(&movs[i])
	}
	return &dto.MovimientoStockListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func movimientoToResponse(m *model.MovimientoStock) dto.MovimientoStockResponse {
	return dto.MovimientoStockResponse{
		ID:             m.ID.String(),
		ProductoID:     m.ProductoID.String(),
		ProductoNombre: m.ProductoNombre,
		Secuencia:      m.Secuencia,
		Tipo:           m.Tipo,
		Cantidad:       m.Cantidad,
		StockAnterior:  m.StockAnterior,
		StockNuevo:     m.StockNuevo,
		Motivo:         m.Motivo,
		Referencia:     m.Referencia,
		UsuarioID:      m.UsuarioID.String(),
		CreatedAt:      formatTime(m.CreatedAt),
	}
}
