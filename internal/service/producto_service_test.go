package service_test

import (
	"context"
	"testing"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearProducto_StockInicialEntraPorKardex(t *testing.T) {
	p := newPOS(t)
	resp, err := p.catalogo.Crear(context.Background(), p.usuario, dto.CrearProductoRequest{
		CodigoBarras: " 7501000111 ",
		Nombre:       "Refresco 600ml",
		Categoria:    model.CategoriaBebidas,
		PrecioCompra: dec("11"),
		PrecioVenta:  dec("18"),
		StockInicial: dec("24"),
	})
	require.NoError(t, err)

	assert.Equal(t, "7501000111", resp.CodigoBarras)
	assert.Equal(t, model.UnidadPieza, resp.UnidadMedida)
	assert.True(t, resp.Activo)
	assert.True(t, dec("24").Equal(resp.Stock))

	movs := p.movs.all()
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovEntrada, movs[0].Tipo)
	assert.True(t, movs[0].StockAnterior.IsZero())
	assert.True(t, dec("24").Equal(movs[0].StockNuevo))
}

func TestCrearProducto_SinStockNoGeneraMovimiento(t *testing.T) {
	p := newPOS(t)
	p.alta(t, "7501000112", "Chicle", "2", "0", "")
	assert.Empty(t, p.movs.all())
}

func TestCrearProducto_Validaciones(t *testing.T) {
	base := func() dto.CrearProductoRequest {
		return dto.CrearProductoRequest{CodigoBarras: "1", Nombre: "Pan", Categoria: "panaderia", PrecioVenta: dec("5")}
	}
	cases := map[string]func(r *dto.CrearProductoRequest){
		"precio venta cero":       func(r *dto.CrearProductoRequest) { r.PrecioVenta = dec("0") },
		"precio compra negativo":  func(r *dto.CrearProductoRequest) { r.PrecioCompra = dec("-1") },
		"stock minimo negativo":   func(r *dto.CrearProductoRequest) { r.StockMinimo = dec("-1") },
		"stock inicial negativo":  func(r *dto.CrearProductoRequest) { r.StockInicial = dec("-1") },
		"paquete sin cantidad":    func(r *dto.CrearProductoRequest) { r.PrecioPaquete = ptr(dec("50")) },
		"paquete de una unidad":   func(r *dto.CrearProductoRequest) { r.PrecioPaquete = ptr(dec("50")); r.CantidadPaquete = ptr(1) },
		"nombre vacio":            func(r *dto.CrearProductoRequest) { r.Nombre = "  " },
		"codigo de barras vacio":  func(r *dto.CrearProductoRequest) { r.CodigoBarras = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := newPOS(t)
			req := base()
			mutate(&req)
			_, err := p.catalogo.Crear(context.Background(), p.usuario, req)
			assert.ErrorIs(t, err, apierror.ErrValidation)
		})
	}
}

func TestCrearProducto_BarcodeDuplicadoEntreActivos(t *testing.T) {
	p := newPOS(t)
	ctx := context.Background()
	id := p.alta(t, "7501000113", "Leche 1L", "26", "0", "")

	_, err := p.catalogo.Crear(ctx, p.usuario, dto.CrearProductoRequest{
		CodigoBarras: "7501000113", Nombre: "Leche deslactosada", Categoria: "lacteos", PrecioVenta: dec("28"),
	})
	assert.ErrorIs(t, err, apierror.ErrConflict)

	// An inactive product frees its barcode.
	require.NoError(t, p.catalogo.Desactivar(ctx, id))
	_, err = p.catalogo.Crear(ctx, p.usuario, dto.CrearProductoRequest{
		CodigoBarras: "7501000113", Nombre: "Leche deslactosada", Categoria: "lacteos", PrecioVenta: dec("28"),
	})
	require.NoError(t, err)

	// ...and reactivating the old one now collides.
	err = p.catalogo.Reactivar(ctx, id)
	assert.ErrorIs(t, err, apierror.ErrConflict)
}

func TestActualizarProducto_NoTocaStock(t *testing.T) {
	p := newPOS(t)
	ctx := context.Background()
	id := p.alta(t, "7501000114", "Galletas", "15", "8", "")

	resp, err := p.catalogo.Actualizar(ctx, id, dto.ActualizarProductoRequest{
		Nombre:      ptr("Galletas Marias"),
		PrecioVenta: ptr(dec("16.50")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Galletas Marias", resp.Nombre)
	assert.True(t, dec("16.50").Equal(resp.PrecioVenta))
	assert.True(t, dec("8").Equal(p.productos.stock(id)))
	assert.Len(t, p.movs.all(), 1, "only the initial stock entry")
}

func TestDesactivarYReactivar(t *testing.T) {
	p := newPOS(t)
	ctx := context.Background()
	id := p.alta(t, "7501000115", "Atun", "22", "4", "")

	require.NoError(t, p.catalogo.Desactivar(ctx, id))
	got, err := p.catalogo.ObtenerPorID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Activo)
	assert.True(t, dec("4").Equal(got.Stock), "soft delete keeps the row")

	_, err = p.catalogo.ObtenerPorBarcode(ctx, "7501000115")
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	require.NoError(t, p.catalogo.Reactivar(ctx, id))
	got, err = p.catalogo.ObtenerPorBarcode(ctx, "7501000115")
	require.NoError(t, err)
	assert.True(t, got.Activo)
}

func TestBuscarSoloActivos(t *testing.T) {
	p := newPOS(t)
	ctx := context.Background()
	p.alta(t, "7501000116", "Cafe soluble", "60", "1", "")
	id := p.alta(t, "7501000117", "Cafe molido", "90", "1", "")
	require.NoError(t, p.catalogo.Desactivar(ctx, id))

	res, err := p.catalogo.Buscar(ctx, "cafe")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Cafe soluble", res[0].Nombre)
}

func TestListarPaginacion(t *testing.T) {
	p := newPOS(t)
	for _, codigo := range []string{"a1", "a2", "a3"} {
		p.alta(t, codigo, "Producto "+codigo, "10", "0", "")
	}
	resp, err := p.catalogo.Listar(context.Background(), dto.ProductoFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "a3", resp.Data[0].CodigoBarras)
}
