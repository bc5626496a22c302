package repository

import (
	"context"
	"strings"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// so they can be tested against in-memory stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	CreateTx(tx *gorm.DB, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindActivoByBarcode(ctx context.Context, codigo string) (*model.Producto, error)
	// ExisteBarcodeActivo reports whether an active product other than excluir
	// already uses the barcode.
	ExisteBarcodeActivo(ctx context.Context, codigo string, excluir uuid.UUID) (bool, error)
	Buscar(ctx context.Context, q string) ([]model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListAlertas(ctx context.Context) ([]model.Producto, error)
	// Update writes catalog fields only. Stock is never touched here.
	Update(ctx context.Context, p *model.Producto) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error

	// Used inside transactions — callers must pass the tx instance
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) FindActivoByBarcode(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("codigo_barras = ? AND activo = ?", codigo, true).
		Order("created_at ASC").
		First(&p).Error
	return &p, err
}

func (r *productoRepo) ExisteBarcodeActivo(ctx context.Context, codigo string, excluir uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("codigo_barras = ? AND activo = ? AND id <> ?", codigo, true, excluir).
		Count(&n).Error
	return n > 0, err
}

// Buscar matches name, barcode or category case-insensitively, active products
// only, in catalog order.
func (r *productoRepo) Buscar(ctx context.Context, q string) ([]model.Producto, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = ?", true).
		Where("LOWER(nombre) LIKE ? OR LOWER(codigo_barras) LIKE ? OR LOWER(categoria) LIKE ?", like, like, like).
		Order("created_at ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = ?", false)
	case "all":
	default:
		q = q.Where("activo = ?", true)
	}

	if filter.Q != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(filter.Q)) + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR LOWER(codigo_barras) LIKE ?", like, like)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	err := q.Order("created_at ASC").Limit(limit).Offset((page - 1) * limit).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListAlertas(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("activo = ? AND stock <= stock_minimo", true).
		Order("created_at ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Model(p).
		Select("codigo_barras", "nombre", "categoria", "unidad_medida", "precio_compra",
			"precio_venta", "precio_paquete", "cantidad_paquete", "stock_minimo", "updated_at").
		Updates(p).Error
}

func (r *productoRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", activo).Error
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock", stock).Error
}
