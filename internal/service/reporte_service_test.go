package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/apierror"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/config"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumirVentas(t *testing.T) {
	arroz, frijol, azucar := uuid.New(), uuid.New(), uuid.New()
	ventas := []model.Venta{
		{
			Total: dec("90"), Descuento: dec("10"), MetodoPago: model.PagoEfectivo,
			Items: []model.VentaItem{
				{ProductoID: arroz, Nombre: "Arroz", Cantidad: dec("2"), Subtotal: dec("56")},
				{ProductoID: frijol, Nombre: "Frijol", Cantidad: dec("1"), Subtotal: dec("32")},
			},
		},
		{
			Total: dec("60"), MetodoPago: model.PagoTarjeta,
			Items: []model.VentaItem{
				{ProductoID: frijol, Nombre: "Frijol", Cantidad: dec("1"), Subtotal: dec("32")},
				{ProductoID: azucar, Nombre: "Azucar", Cantidad: dec("1"), Subtotal: dec("28")},
			},
		},
	}

	r := service.ResumirVentas(ventas)
	assert.Equal(t, 2, r.NumeroVentas)
	assert.True(t, dec("150").Equal(r.IngresoTotal))
	assert.True(t, dec("10").Equal(r.Descuentos))
	assert.True(t, dec("90").Equal(r.PorMetodo[model.PagoEfectivo]))
	assert.True(t, dec("60").Equal(r.PorMetodo[model.PagoTarjeta]))
	assert.True(t, r.PorMetodo[model.PagoVale].IsZero())

	// Ties on quantity fall back to the name.
	require.Len(t, r.ProductosTop, 3)
	assert.Equal(t, []string{"Arroz", "Frijol", "Azucar"}, []string{r.ProductosTop[0].Nombre, r.ProductosTop[1].Nombre, r.ProductosTop[2].Nombre})
	assert.True(t, dec("64").Equal(r.ProductosTop[1].Importe))
}

func TestResumirVentas_SinVentas(t *testing.T) {
	r := service.ResumirVentas(nil)
	assert.Zero(t, r.NumeroVentas)
	assert.True(t, r.IngresoTotal.IsZero())
	assert.NotNil(t, r.ProductosTop)
	assert.Len(t, r.PorMetodo, 3)
}

func TestRangoDias(t *testing.T) {
	inicio, fin, err := service.RangoDias("2024-05-01", "", tienda)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, tienda), inicio)
	assert.Equal(t, 1, fin.Day())
	assert.Equal(t, 23, fin.Hour())

	cases := map[string][2]string{
		"sin desde":      {"", "2024-05-01"},
		"formato":        {"01/05/2024", ""},
		"hasta invalido": {"2024-05-01", "mayo"},
		"invertido":      {"2024-05-02", "2024-05-01"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := service.RangoDias(tc[0], tc[1], tienda)
			assert.ErrorIs(t, err, apierror.ErrValidation)
		})
	}
}

func newReportes(p *pos, cfg *config.Config) service.ReporteService {
	return service.NewReporteService(p.ventas, p.cajas, p.caja, p.jobs, cfg)
}

func TestResumenVentas_IncluyeGastosYCajas(t *testing.T) {
	p := newPOS(t)
	ctx := context.Background()
	p.abrirCaja(t, "500")
	id := p.alta(t, "8001", "Aceite", "45", "10", "")
	p.agregar(t, id, "2")
	_, err := p.venta.Cobrar(ctx, p.usuario, dto.CobrarRequest{MetodoPago: model.PagoEfectivo, MontoPagado: dec("90")})
	require.NoError(t, err)
	_, err = p.caja.RegistrarGasto(ctx, p.usuario, dto.GastoRequest{Descripcion: "Garrafón", Monto: dec("30"), Categoria: model.GastoInsumos})
	require.NoError(t, err)

	inicio, fin, err := service.RangoDias("2024-05-01", "", tienda)
	require.NoError(t, err)
	r, err := newReportes(p, &config.Config{StoreName: "Abarrotes"}).ResumenVentas(ctx, inicio, fin)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", r.Desde)
	assert.True(t, dec("90").Equal(r.IngresoTotal))
	assert.True(t, dec("30").Equal(r.TotalGastos))
	assert.True(t, dec("60").Equal(r.Utilidad))
	assert.Len(t, r.Cajas, 1)
}

func TestExportarCSV(t *testing.T) {
	p := newPOS(t)
	ctx := context.Background()
	p.abrirCaja(t, "0")
	id := p.alta(t, "8002", "Sal", "12", "10", "")
	p.agregar(t, id, "1")
	_, err := p.venta.Cobrar(ctx, p.usuario, dto.CobrarRequest{MetodoPago: model.PagoVale})
	require.NoError(t, err)

	inicio, fin, err := service.RangoDias("2024-05-01", "", tienda)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, newReportes(p, &config.Config{}).ExportarCSV(ctx, inicio, fin, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one sale")
	assert.Contains(t, rows[1], "T20240501-0001")
}

func TestEnviarReporte(t *testing.T) {
	p := newPOS(t)
	ctx := context.Background()

	svc := newReportes(p, &config.Config{ReportEmail: "dueno@tienda.mx"})
	require.NoError(t, svc.EnviarReporte(ctx, dto.EnviarReporteRequest{Desde: "2024-05-01", Hasta: "2024-05-07"}))
	require.NoError(t, svc.EnviarReporte(ctx, dto.EnviarReporteRequest{Desde: "2024-05-01", Hasta: "2024-05-01", Email: "contador@tienda.mx"}))
	assert.Equal(t, []string{
		"2024-05-01|2024-05-07|dueno@tienda.mx",
		"2024-05-01|2024-05-01|contador@tienda.mx",
	}, p.jobs.reportes)

	sinDestino := newReportes(p, &config.Config{})
	err := sinDestino.EnviarReporte(ctx, dto.EnviarReporteRequest{Desde: "2024-05-01", Hasta: "2024-05-01"})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	err = svc.EnviarReporte(ctx, dto.EnviarReporteRequest{Desde: "2024-05-07", Hasta: "2024-05-01"})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestTicketPDF_VentaInexistente(t *testing.T) {
	p := newPOS(t)
	_, err := newReportes(p, &config.Config{PDFStoragePath: t.TempDir()}).TicketPDF(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}
