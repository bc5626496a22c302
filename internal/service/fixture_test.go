package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var tienda = time.FixedZone("CST", -6*3600)

// pos wires every service over in-memory repositories with a fixed clock.
type pos struct {
	productos *stubProductoRepo
	movs      *stubMovimientoRepo
	cajas     *stubCajaRepo
	ventas    *stubVentaRepo
	carritos  *stubCarritoRepo
	jobs      *stubEncolador
	clock     *fixedClock

	inventario service.InventarioService
	catalogo   service.ProductoService
	caja       service.CajaService
	venta      service.VentaService

	usuario uuid.UUID
}

func newPOS(t *testing.T) *pos {
	t.Helper()
	p := &pos{
		productos: newStubProductoRepo(),
		movs:      &stubMovimientoRepo{},
		cajas:     newStubCajaRepo(),
		ventas:    newStubVentaRepo(),
		carritos:  newStubCarritoRepo(),
		jobs:      &stubEncolador{},
		clock:     &fixedClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, tienda)},
		usuario:   uuid.New(),
	}
	p.inventario = service.NewInventarioService(p.productos, p.movs)
	p.catalogo = service.NewProductoService(p.productos, p.inventario)
	p.caja = service.NewCajaService(p.cajas, p.clock.Now)
	p.venta = service.NewVentaService(p.ventas, p.carritos, p.productos, p.cajas, p.inventario, p.caja, p.jobs, p.clock.Now)
	return p
}

// alta creates an active product with the given price and initial stock.
func (p *pos) alta(t *testing.T, codigo, nombre, precio, stock, unidad string) uuid.UUID {
	t.Helper()
	resp, err := p.catalogo.Crear(context.Background(), p.usuario, dto.CrearProductoRequest{
		CodigoBarras: codigo,
		Nombre:       nombre,
		Categoria:    "abarrotes",
		UnidadMedida: unidad,
		PrecioCompra: decimal.Zero,
		PrecioVenta:  dec(precio),
		StockInicial: dec(stock),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func (p *pos) abrirCaja(t *testing.T, monto string) *dto.CajaResponse {
	t.Helper()
	resp, err := p.caja.Abrir(context.Background(), p.usuario, dto.AbrirCajaRequest{MontoApertura: dec(monto)})
	require.NoError(t, err)
	return resp
}

func (p *pos) agregar(t *testing.T, productoID uuid.UUID, cantidad string) *dto.CarritoResponse {
	t.Helper()
	resp, err := p.venta.AgregarAlCarrito(context.Background(), p.usuario, dto.AgregarCarritoRequest{
		ProductoID: ptr(productoID.String()),
		Cantidad:   ptr(dec(cantidad)),
	})
	require.NoError(t, err)
	return resp
}
