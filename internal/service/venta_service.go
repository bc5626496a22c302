package service

import (
	"context"
	"errors"
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

type VentaService interface {
	// Carrito
	Carrito(ctx context.Context, usuarioID uuid.UUID) (*dto.CarritoResponse, error)
	AgregarAlCarrito(ctx context.Context, usuarioID uuid.UUID, req dto.AgregarCarritoRequest) (*dto.CarritoResponse, error)
	ActualizarCantidad(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.ActualizarCantidadRequest) (*dto.CarritoResponse, error)
	// QuitarDelCarrito removes the product's lines; esPaquete narrows it to one line.
	QuitarDelCarrito(ctx context.Context, usuarioID, productoID uuid.UUID, esPaquete *bool) (*dto.CarritoResponse, error)
	VaciarCarrito(ctx context.Context, usuarioID uuid.UUID) error

	// Cobro
	SiguienteTicket(ctx context.Context) (string, error)
	Cobrar(ctx context.Context, usuarioID uuid.UUID, req dto.CobrarRequest) (*dto.VentaResponse, error)

	// Historial
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ObtenerPorTicket(ctx context.Context, numero string) (*dto.VentaResponse, error)
	VentasEnRango(ctx context.Context, inicio, fin time.Time) ([]dto.VentaResponse, error)
	VentasDeHoy(ctx context.Context) ([]dto.VentaResponse, error)
	TotalVentasDelDia(ctx context.Context) (*dto.TotalDiaResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	carritoRepo  repository.CarritoRepository
	productoRepo repository.ProductoRepository
	cajaRepo     repository.CajaRepository
	inventario   InventarioService
	caja         CajaService
	jobs         Encolador
	now          func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	carritoRepo repository.CarritoRepository,
	productoRepo repository.ProductoRepository,
	cajaRepo repository.CajaRepository,
	inventario InventarioService,
	caja CajaService,
	jobs Encolador,
	now func() time.Time,
) VentaService {
	if now == nil {
		now = time.Now
	}
	return &ventaService{
		repo:         repo,
		carritoRepo:  carritoRepo,
		productoRepo: productoRepo,
		cajaRepo:     cajaRepo,
		inventario:   inventario,
		caja:         caja,
		jobs:         jobs,
		now:          now,
	}
}

// FormatTicket renders a ticket number: T{YYYYMMDD}-{seq:0000}.
func FormatTicket(fecha string, seq int) string {
	return fmt.Sprintf("T%s-%04d", fecha, seq)
}

// ── Carrito ───────────────────────────────────────────────────────────────────

func (s *ventaService) Carrito(ctx context.Context, usuarioID uuid.UUID) (*dto.CarritoResponse, error) {
	c, err := s.carritoRepo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return carritoToResponse(c), nil
}

// AgregarAlCarrito resolves the price once and freezes it in the line.
// Repeated scans of the same product (and same package flag) add up.
func (s *ventaService) AgregarAlCarrito(ctx context.Context, usuarioID uuid.UUID, req dto.AgregarCarritoRequest) (*dto.CarritoResponse, error) {
	cantidad := decimal.NewFromInt(1)
	if req.Cantidad != nil {
		cantidad = *req.Cantidad
	}
	if !cantidad.IsPositive() {
		return nil, apierror.Validation("la cantidad debe ser mayor a cero")
	}
	if !model.CantidadValida(cantidad) {
		return nil, errMilesimas
	}

	p, err := s.resolverProducto(ctx, req)
	if err != nil {
		return nil, err
	}
	if !p.Activo {
		return nil, apierror.Validation(p.Nombre + " está inactivo y no puede venderse")
	}
	if !model.UnidadFraccionable(p.UnidadMedida) && !cantidad.IsInteger() {
		return nil, apierror.Validation(fmt.Sprintf("%s se vende por %s: la cantidad debe ser entera", p.Nombre, p.UnidadMedida))
	}

	esPaquete := req.EsPaquete && p.TienePrecioPaquete()
	precio := p.PrecioVenta
	cantidadPaquete := 0
	if esPaquete {
		precio = *p.PrecioPaquete
		cantidadPaquete = *p.CantidadPaquete
	}

	escritura.Lock()
	defer escritura.Unlock()

	c, err := s.carritoRepo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductoID == p.ID && it.EsPaquete == esPaquete {
			it.Cantidad = it.Cantidad.Add(cantidad)
			it.Subtotal = model.Importe(it.Cantidad, it.PrecioUsado)
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, model.CarritoItem{
			ProductoID:      p.ID,
			Nombre:          p.Nombre,
			CodigoBarras:    p.CodigoBarras,
			UnidadMedida:    p.UnidadMedida,
			Cantidad:        cantidad,
			EsPaquete:       esPaquete,
			CantidadPaquete: cantidadPaquete,
			PrecioUsado:     precio,
			Subtotal:        model.Importe(cantidad, precio),
		})
	}
	return s.guardarCarrito(ctx, c)
}

// ActualizarCantidad sets a line's quantity; zero or less removes the line.
func (s *ventaService) ActualizarCantidad(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.ActualizarCantidadRequest) (*dto.CarritoResponse, error) {
	escritura.Lock()
	defer escritura.Unlock()

	c, err := s.carritoRepo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, it := range c.Items {
		if it.ProductoID == productoID && it.EsPaquete == req.EsPaquete {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apierror.NotFound("el producto no está en el carrito")
	}

	if !req.Cantidad.IsPositive() {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return s.guardarCarrito(ctx, c)
	}
	if !model.CantidadValida(req.Cantidad) {
		return nil, errMilesimas
	}
	it := &c.Items[idx]
	if !model.UnidadFraccionable(it.UnidadMedida) && !req.Cantidad.IsInteger() {
		return nil, apierror.Validation(fmt.Sprintf("%s se vende por %s: la cantidad debe ser entera", it.Nombre, it.UnidadMedida))
	}
	it.Cantidad = req.Cantidad
	it.Subtotal = model.Importe(req.Cantidad, it.PrecioUsado)
	return s.guardarCarrito(ctx, c)
}

func (s *ventaService) QuitarDelCarrito(ctx context.Context, usuarioID, productoID uuid.UUID, esPaquete *bool) (*dto.CarritoResponse, error) {
	escritura.Lock()
	defer escritura.Unlock()

	c, err := s.carritoRepo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	items := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductoID == productoID && (esPaquete == nil || *esPaquete == it.EsPaquete) {
			continue
		}
		items = append(items, it)
	}
	c.Items = items
	return s.guardarCarrito(ctx, c)
}

func (s *ventaService) VaciarCarrito(ctx context.Context, usuarioID uuid.UUID) error {
	escritura.Lock()
	defer escritura.Unlock()
	return s.carritoRepo.Delete(ctx, usuarioID)
}

func (s *ventaService) guardarCarrito(ctx context.Context, c *model.Carrito) (*dto.CarritoResponse, error) {
	c.UpdatedAt = s.now()
	if err := s.carritoRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return carritoToResponse(c), nil
}

func (s *ventaService) resolverProducto(ctx context.Context, req dto.AgregarCarritoRequest) (*model.Producto, error) {
	switch {
	case req.ProductoID != nil && *req.ProductoID != "":
		id, err := uuid.Parse(*req.ProductoID)
		if err != nil {
			return nil, apierror.Validation("producto_id inválido")
		}
		p, err := s.productoRepo.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, "producto no encontrado")
		}
		return p, nil
	case req.CodigoBarras != nil && *req.CodigoBarras != "":
		p, err := s.productoRepo.FindActivoByBarcode(ctx, *req.CodigoBarras)
		if err != nil {
			return nil, notFound(err, "no existe un producto activo con código "+*req.CodigoBarras)
		}
		return p, nil
	default:
		return nil, apierror.Validation("indique producto_id o codigo_barras")
	}
}

// ── SiguienteTicket ───────────────────────────────────────────────────────────
// Preview only: the number is consumed inside Cobrar's transaction.

func (s *ventaService) SiguienteTicket(ctx context.Context) (string, error) {
	fecha := s.now().Format("20060102")
	ultimo, err := s.repo.UltimoTicketNumber(ctx, fecha)
	if err != nil {
		return "", err
	}
	return FormatTicket(fecha, ultimo+1), nil
}

// ── Cobrar ────────────────────────────────────────────────────────────────────
// One transaction for every effect of the sale:
//   1. Lock the open register (and check caja_id when given)
//   2. Consume the day's next ticket number
//   3. Insert the Venta with snapshot items
//   4. Per line: AjustarStockTx(venta, referencia = ticket)
//   5. Cash only: RegistrarVentaEfectivoTx(total)
// Then clear the cart and queue the ticket PDF (best effort).

func (s *ventaService) Cobrar(ctx context.Context, usuarioID uuid.UUID, req dto.CobrarRequest) (*dto.VentaResponse, error) {
	switch req.MetodoPago {
	case model.PagoEfectivo, model.PagoTarjeta, model.PagoVale:
	default:
		return nil, apierror.Validation(fmt.Sprintf("método de pago desconocido: %q", req.MetodoPago))
	}
	var cajaSolicitada *uuid.UUID
	if req.CajaID != nil && *req.CajaID != "" {
		id, err := uuid.Parse(*req.CajaID)
		if err != nil {
			return nil, apierror.Validation("caja_id inválido")
		}
		cajaSolicitada = &id
	}

	escritura.Lock()
	defer escritura.Unlock()

	carrito, err := s.carritoRepo.Get(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if carrito.Vacio() {
		return nil, apierror.Conflict("el carrito está vacío")
	}

	if !model.MontoValido(req.Descuento) || !model.MontoValido(req.MontoPagado) {
		return nil, errCentavos
	}
	// Line subtotals are already in cents, so total and change are exact.
	subtotal := carrito.Total()
	if req.Descuento.IsNegative() || req.Descuento.GreaterThan(subtotal) {
		return nil, apierror.Validation("el descuento debe estar entre 0 y el subtotal")
	}
	total := subtotal.Sub(req.Descuento)
	montoPagado := req.MontoPagado
	cambio := decimal.Zero
	if req.MetodoPago == model.PagoEfectivo {
		if montoPagado.LessThan(total) {
			return nil, apierror.Validation(fmt.Sprintf("monto pagado insuficiente: faltan %s", total.Sub(montoPagado).StringFixed(2)))
		}
		cambio = montoPagado.Sub(total)
	} else if montoPagado.IsZero() {
		montoPagado = total
	}

	// Pre-flight: products deactivated after they were scanned cannot be sold.
	for _, it := range carrito.Items {
		p, err := s.productoRepo.FindByID(ctx, it.ProductoID)
		if err != nil {
			return nil, notFound(err, "producto "+it.Nombre+" no encontrado")
		}
		if !p.Activo {
			return nil, apierror.Validation(p.Nombre + " está inactivo y no puede venderse")
		}
	}

	ahora := s.now()
	fecha := ahora.Format("20060102")
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		caja, err := s.cajaRepo.FindAbiertaForUpdateTx(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errSinCaja
		}
		if err != nil {
			return err
		}
		if cajaSolicitada != nil && *cajaSolicitada != caja.ID {
			return apierror.Conflict("la caja indicada no es la caja abierta")
		}

		seq, err := s.repo.NextTicketNumber(ctx, tx, fecha)
		if err != nil {
			return err
		}
		ticket := FormatTicket(fecha, seq)

		venta = model.Venta{
			NumeroTicket:  ticket,
			Subtotal:      subtotal,
			Descuento:     req.Descuento,
			Total:         total,
			MetodoPago:    req.MetodoPago,
			MontoPagado:   montoPagado,
			Cambio:        cambio,
			ClienteID:     req.ClienteID,
			ClienteNombre: req.ClienteNombre,
			ClienteEmail:  req.ClienteEmail,
			CajaID:        caja.ID,
			UsuarioID:     usuarioID,
			CreatedAt:     ahora,
		}
		for i, it := range carrito.Items {
			venta.Items = append(venta.Items, model.VentaItem{
				Posicion:       i + 1,
				ProductoID:     it.ProductoID,
				Nombre:         it.Nombre,
				CodigoBarras:   it.CodigoBarras,
				UnidadMedida:   it.UnidadMedida,
				Cantidad:       it.Cantidad,
				PrecioUnitario: it.PrecioUsado,
				Subtotal:       it.Subtotal,
				EsPaquete:      it.EsPaquete,
			})
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.Concurrency("el ticket " + ticket + " ya fue usado; reintente el cobro")
			}
			return err
		}

		motivo := "Venta " + ticket
		for _, it := range carrito.Items {
			if _, err := s.inventario.AjustarStockTx(ctx, tx, Ajuste{
				ProductoID: it.ProductoID,
				Cantidad:   it.UnidadesStock(),
				Tipo:       model.MovVenta,
				Motivo:     &motivo,
				Referencia: &ticket,
				UsuarioID:  usuarioID,
			}); err != nil {
				return fmt.Errorf("descontando stock de %s: %w", it.Nombre, err)
			}
		}

		if req.MetodoPago == model.PagoEfectivo {
			if _, err := s.caja.RegistrarVentaEfectivoTx(ctx, tx, ticket, total); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// The sale is committed; a failed clear leaves a stale cart the operator can empty.
	_ = s.carritoRepo.Delete(ctx, usuarioID)

	if s.jobs != nil {
		_ = s.jobs.EncolarTicket(ctx, venta.ID)
	}
	return ventaToResponse(&venta), nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "venta no encontrada")
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) ObtenerPorTicket(ctx context.Context, numero string) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByTicket(ctx, numero)
	if err != nil {
		return nil, notFound(err, "ticket "+numero+" no encontrado")
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) VentasEnRango(ctx context.Context, inicio, fin time.Time) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.ListEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		resp[i] = *ventaToResponse(&ventas[i])
	}
	return resp, nil
}

func (s *ventaService) VentasDeHoy(ctx context.Context) ([]dto.VentaResponse, error) {
	hoy := s.now()
	return s.VentasEnRango(ctx, inicioDelDia(hoy), finDelDia(hoy))
}

// TotalVentasDelDia sums today's revenue over every payment method.
func (s *ventaService) TotalVentasDelDia(ctx context.Context) (*dto.TotalDiaResponse, error) {
	hoy := s.now()
	ventas, err := s.repo.ListEnRango(ctx, inicioDelDia(hoy), finDelDia(hoy))
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, v := range ventas {
		total = total.Add(v.Total)
	}
	return &dto.TotalDiaResponse{
		Fecha:        hoy.Format("2006-01-02"),
		NumeroVentas: len(ventas),
		IngresoTotal: total,
	}, nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func carritoToResponse(c *model.Carrito) *dto.CarritoResponse {
	items := make([]dto.CarritoItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = dto.CarritoItemResponse{
			ProductoID:   it.ProductoID.String(),
			Nombre:       it.Nombre,
			CodigoBarras: it.CodigoBarras,
			UnidadMedida: it.UnidadMedida,
			Cantidad:     it.Cantidad,
			EsPaquete:    it.EsPaquete,
			PrecioUsado:  it.PrecioUsado,
			Subtotal:     it.Subtotal,
		}
	}
	return &dto.CarritoResponse{
		Items:             items,
		Total:             c.Total(),
		CantidadArticulos: c.CantidadArticulos(),
	}
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.VentaItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = dto.VentaItemResponse{
			ProductoID:     it.ProductoID.String(),
			Nombre:         it.Nombre,
			CodigoBarras:   it.CodigoBarras,
			UnidadMedida:   it.UnidadMedida,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
			EsPaquete:      it.EsPaquete,
		}
	}
	return &dto.VentaResponse{
		ID:            v.ID.String(),
		NumeroTicket:  v.NumeroTicket,
		Items:         items,
		Subtotal:      v.Subtotal,
		Descuento:     v.Descuento,
		Total:         v.Total,
		MetodoPago:    v.MetodoPago,
		MontoPagado:   v.MontoPagado,
		Cambio:        v.Cambio,
		ClienteID:     v.ClienteID,
		ClienteNombre: v.ClienteNombre,
		CajaID:        v.CajaID.String(),
		UsuarioID:     v.UsuarioID.String(),
		CreatedAt:     formatTime(v.CreatedAt),
	}
}
