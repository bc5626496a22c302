package service

import (
	"context"
	"strings"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Buscar(ctx context.Context, q string) ([]dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	inventario InventarioService
}

func NewProductoService(repo repository.ProductoRepository, inventario InventarioService) ProductoService {
	return &productoService{repo: repo, inventario: inventario}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *productoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = model.UnidadPieza
	}
	p := &model.Producto{
		CodigoBarras:    strings.TrimSpace(req.CodigoBarras),
		Nombre:          strings.TrimSpace(req.Nombre),
		Categoria:       req.Categoria,
		UnidadMedida:    unidad,
		PrecioCompra:    req.PrecioCompra,
		PrecioVenta:     req.PrecioVenta,
		PrecioPaquete:   req.PrecioPaquete,
		CantidadPaquete: req.CantidadPaquete,
		Stock:           decimal.Zero,
		StockMinimo:     req.StockMinimo,
		Activo:          true,
	}
	if err := validarProducto(p); err != nil {
		return nil, err
	}
	if req.StockInicial.IsNegative() {
		return nil, apierror.Validation("el stock inicial no puede ser negativo")
	}

	escritura.Lock()
	defer escritura.Unlock()

	if err := s.verificarBarcodeLibre(ctx, p.CodigoBarras, uuid.Nil); err != nil {
		return nil, err
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		if !req.StockInicial.IsPositive() {
			return nil
		}
		// Initial stock enters through the ledger like any other movement.
		motivo := "stock inicial"
		mov, err := s.inventario.AjustarStockTx(ctx, tx, Ajuste{
			ProductoID: p.ID,
			Cantidad:   req.StockInicial,
			Tipo:       model.MovEntrada,
			Motivo:     &motivo,
			UsuarioID:  usuarioID,
		})
		if err != nil {
			return err
		}
		p.Stock = mov.StockNuevo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindActivoByBarcode(ctx, strings.TrimSpace(codigo))
	if err != nil {
		return nil, notFound(err, "no existe un producto activo con código "+codigo)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Buscar(ctx context.Context, q string) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.Buscar(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = *productoToResponse(&productos[i])
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = *productoToResponse(&productos[i])
	}
	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Merge semantics: only non-nil fields are applied. Stock is not updatable.

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	escritura.Lock()
	defer escritura.Unlock()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto no encontrado")
	}

	barcodeAnterior := p.CodigoBarras
	if req.CodigoBarras != nil {
		p.CodigoBarras = strings.TrimSpace(*req.CodigoBarras)
	}
	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.UnidadMedida != nil {
		p.UnidadMedida = *req.UnidadMedida
	}
	if req.PrecioCompra != nil {
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.PrecioPaquete != nil {
		p.PrecioPaquete = req.PrecioPaquete
	}
	if req.CantidadPaquete != nil {
		p.CantidadPaquete = req.CantidadPaquete
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if err := validarProducto(p); err != nil {
		return nil, err
	}
	if p.Activo && p.CodigoBarras != barcodeAnterior {
		if err := s.verificarBarcodeLibre(ctx, p.CodigoBarras, p.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

// ── Desactivar / Reactivar ────────────────────────────────────────────────────

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	escritura.Lock()
	defer escritura.Unlock()

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "producto no encontrado")
	}
	return s.repo.SetActivo(ctx, id, false)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	escritura.Lock()
	defer escritura.Unlock()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "producto no encontrado")
	}
	if p.Activo {
		return nil
	}
	if err := s.verificarBarcodeLibre(ctx, p.CodigoBarras, p.ID); err != nil {
		return err
	}
	return s.repo.SetActivo(ctx, id, true)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *productoService) verificarBarcodeLibre(ctx context.Context, codigo string, excluir uuid.UUID) error {
	existe, err := s.repo.ExisteBarcodeActivo(ctx, codigo, excluir)
	if err != nil {
		return err
	}
	if existe {
		return apierror.Conflict("ya existe un producto activo con el código " + codigo)
	}
	return nil
}

func validarProducto(p *model.Producto) error {
	if p.CodigoBarras == "" {
		return apierror.Validation("el código de barras es obligatorio")
	}
	if p.Nombre == "" {
		return apierror.Validation("el nombre es obligatorio")
	}
	if !p.PrecioVenta.IsPositive() {
		return apierror.Validation("el precio de venta debe ser mayor a cero")
	}
	if p.PrecioCompra.IsNegative() {
		return apierror.Validation("el precio de compra no puede ser negativo")
	}
	if p.StockMinimo.IsNegative() {
		return apierror.Validation("el stock mínimo no puede ser negativo")
	}
	if !model.MontoValido(p.PrecioVenta) || !model.MontoValido(p.PrecioCompra) ||
		(p.PrecioPaquete != nil && !model.MontoValido(*p.PrecioPaquete)) {
		return errCentavos
	}
	if !model.CantidadValida(p.StockMinimo) {
		return errMilesimas
	}
	if p.PrecioPaquete != nil {
		if !p.PrecioPaquete.IsPositive() {
			return apierror.Validation("el precio de paquete debe ser mayor a cero")
		}
		if p.CantidadPaquete == nil || *p.CantidadPaquete < 2 {
			return apierror.Validation("un precio de paquete requiere cantidad_paquete de al menos 2")
		}
	}
	return nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:              p.ID.String(),
		CodigoBarras:    p.CodigoBarras,
		Nombre:          p.Nombre,
		Categoria:       p.Categoria,
		UnidadMedida:    p.UnidadMedida,
		PrecioCompra:    p.PrecioCompra,
		PrecioVenta:     p.PrecioVenta,
		PrecioPaquete:   p.PrecioPaquete,
		CantidadPaquete: p.CantidadPaquete,
		Stock:           p.Stock,
		StockMinimo:     p.StockMinimo,
		Activo:          p.Activo,
		CreatedAt:       formatTime(p.CreatedAt),
		UpdatedAt:       formatTime(p.UpdatedAt),
	}
}
