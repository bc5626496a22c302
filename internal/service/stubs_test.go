package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil so runTx calls the closure
// directly. Every read hands out a copy, like a real database would.

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.Producto
	orden []uuid.UUID
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{items: make(map[uuid.UUID]model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error { return r.CreateTx(nil, p) }

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.items[p.ID] = *p
	r.orden = append(r.orden, p.ID)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProductoRepo) FindActivoByBarcode(_ context.Context, codigo string) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.orden {
		if p := r.items[id]; p.Activo && p.CodigoBarras == codigo {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) ExisteBarcodeActivo(_ context.Context, codigo string, excluir uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.items {
		if id != excluir && p.Activo && p.CodigoBarras == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) Buscar(_ context.Context, q string) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	var out []model.Producto
	for _, id := range r.orden {
		p := r.items[id]
		if !p.Activo {
			continue
		}
		if strings.Contains(strings.ToLower(p.Nombre), q) || strings.Contains(p.CodigoBarras, q) || strings.Contains(p.Categoria, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Producto
	for _, id := range r.orden {
		p := r.items[id]
		if filter.Activo != "all" && p.Activo == (filter.Activo == "false") {
			continue
		}
		all = append(all, p)
	}
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubProductoRepo) ListAlertas(_ context.Context) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, id := range r.orden {
		if p := r.items[id]; p.Activo && p.Stock.LessThanOrEqual(p.StockMinimo) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.items[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Stock = actual.Stock // catalog updates never write stock
	r.items[p.ID] = cp
	return nil
}

func (r *stubProductoRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = activo
	r.items[id] = p
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	r.items[id] = p
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

func (r *stubProductoRepo) stock(id uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Stock
}

// ── Movimientos de stock ─────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	mu    sync.Mutex
	items []model.MovimientoStock // chronological
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Secuencia = 1
	for _, prev := range r.items {
		if prev.ProductoID == m.ProductoID {
			m.Secuencia++
		}
	}
	m.CreatedAt = time.Now()
	r.items = append(r.items, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.MovimientoStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].ProductoID == productoID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) List(_ context.Context, f repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for i := len(r.items) - 1; i >= 0; i-- {
		m := r.items[i]
		if f.ProductoID != nil && m.ProductoID != *f.ProductoID {
			continue
		}
		if f.Tipo != "" && m.Tipo != f.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) all() []model.MovimientoStock {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.MovimientoStock(nil), r.items...)
}

// ── Cajas ────────────────────────────────────────────────────────────────────

type stubCajaRepo struct {
	mu          sync.Mutex
	cajas       map[uuid.UUID]model.Caja
	movimientos []model.MovimientoCaja
	gastos      []model.Gasto
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{cajas: make(map[uuid.UUID]model.Caja)}
}

func (r *stubCajaRepo) CreateTx(_ *gorm.DB, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.cajas {
		if existente.Estado == model.CajaAbierta && c.Estado == model.CajaAbierta {
			return gorm.ErrDuplicatedKey // idx_cajas_una_abierta
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cajas[c.ID] = *c
	return nil
}

func (r *stubCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubCajaRepo) FindAbierta(_ context.Context) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cajas {
		if c.Estado == model.CajaAbierta {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) ListEnRango(_ context.Context, desde, hasta time.Time) ([]model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Caja
	for _, c := range r.cajas {
		if !c.AbiertaEn.Before(desde) && !c.AbiertaEn.After(hasta) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCajaRepo) FindAbiertaForUpdateTx(_ *gorm.DB) (*model.Caja, error) {
	return r.FindAbierta(context.Background())
}

func (r *stubCajaRepo) UpdateTx(_ *gorm.DB, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cajas[c.ID] = *c
	return nil
}

func (r *stubCajaRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubCajaRepo) ListMovimientos(_ context.Context, cajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.CajaID == cajaID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubCajaRepo) CreateGastoTx(_ *gorm.DB, g *model.Gasto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gastos = append(r.gastos, *g)
	return nil
}

func (r *stubCajaRepo) ListGastos(_ context.Context, cajaID uuid.UUID) ([]model.Gasto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.CajaID == cajaID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubCajaRepo) ListGastosEnRango(_ context.Context, desde, hasta time.Time) ([]model.Gasto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Gasto
	for _, g := range r.gastos {
		if !g.CreatedAt.Before(desde) && !g.CreatedAt.After(hasta) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubCajaRepo) DB() *gorm.DB { return nil }

// ── Ventas ───────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	mu         sync.Mutex
	ventas     []model.Venta
	secuencias map[string]int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{secuencias: make(map[string]int)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.ventas {
		if existente.NumeroTicket == v.NumeroTicket {
			return gorm.ErrDuplicatedKey
		}
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.ventas {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) FindByTicket(_ context.Context, numero string) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.ventas {
		if v.NumeroTicket == numero {
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) ListEnRango(_ context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if !v.CreatedAt.Before(desde) && !v.CreatedAt.After(hasta) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB, fecha string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secuencias[fecha]++
	return r.secuencias[fecha], nil
}

func (r *stubVentaRepo) UltimoTicketNumber(_ context.Context, fecha string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.secuencias[fecha], nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

func (r *stubVentaRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ventas)
}

// ── Carrito ──────────────────────────────────────────────────────────────────

// stubCarritoRepo stores carts as JSON, like the Redis repository does.
type stubCarritoRepo struct {
	mu     sync.Mutex
	blobs  map[uuid.UUID][]byte
	delErr error
}

func newStubCarritoRepo() *stubCarritoRepo {
	return &stubCarritoRepo{blobs: make(map[uuid.UUID][]byte)}
}

func (r *stubCarritoRepo) Get(_ context.Context, usuarioID uuid.UUID) (*model.Carrito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok := r.blobs[usuarioID]
	if !ok {
		return &model.Carrito{UsuarioID: usuarioID}, nil
	}
	var c model.Carrito
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *stubCarritoRepo) Save(_ context.Context, c *model.Carrito) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	r.blobs[c.UsuarioID] = raw
	return nil
}

func (r *stubCarritoRepo) Delete(_ context.Context, usuarioID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return r.delErr
	}
	delete(r.blobs, usuarioID)
	return nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uuid.UUID]model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.users {
		if existente.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Activo && (u.Username == username || (u.Email != nil && strings.EqualFold(*u.Email, username))) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = activo
	r.users[id] = u
	return nil
}

// ── Encolador ────────────────────────────────────────────────────────────────

type stubEncolador struct {
	mu       sync.Mutex
	tickets  []uuid.UUID
	reportes []string
}

func (e *stubEncolador) EncolarTicket(_ context.Context, ventaID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickets = append(e.tickets, ventaID)
	return nil
}

func (e *stubEncolador) EncolarReporte(_ context.Context, desde, hasta, email string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reportes = append(e.reportes, desde+"|"+hasta+"|"+email)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// fixedClock returns a clock that starts at t and can be moved forward.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
