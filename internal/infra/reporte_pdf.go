package infra

import (
	"fmt"
	"strconv"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/dto"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	colorTitulo = &props.Color{Red: 20, Green: 90, Blue: 50}
	colorGris   = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// GenerarReportePDF renders the A4 sales summary for a date range and returns
// the document bytes.
func GenerarReportePDF(resumen *dto.ResumenVentasResponse, tienda string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de ventas", true).
		WithAuthor(tienda, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(encabezadoReporte(resumen, tienda))
	m.AddRows(line.NewRow(1, props.Line{Color: colorTitulo, Thickness: 0.5}))
	m.AddRows(totalesReporte(resumen)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(seccion("Ventas por método de pago"))
	for _, metodo := range []string{"efectivo", "tarjeta", "vale"} {
		m.AddRows(filaMonto(metodo, resumen.PorMetodo[metodo]))
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(seccion("Productos más vendidos"))
	m.AddRows(cabeceraProductos())
	for _, p := range resumen.ProductosTop {
		m.AddRows(row.New(6).Add(
			col.New(7).Add(text.New(p.Nombre, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(p.Cantidad.String(), props.Text{Size: 8, Top: 1, Align: align.Right})),
			col.New(3).Add(text.New("$"+p.Importe.StringFixed(2), props.Text{Size: 8, Top: 1, Align: align.Right})),
		))
	}

	if len(resumen.Cajas) > 0 {
		m.AddRows(line.NewRow(4))
		m.AddRows(seccion("Cortes de caja"))
		for _, c := range resumen.Cajas {
			m.AddRows(filaCaja(c))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func encabezadoReporte(r *dto.ResumenVentasResponse, tienda string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(tienda, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorTitulo, Top: 1}),
			text.New("Reporte de ventas", props.Text{Size: 9, Top: 9, Color: colorGris}),
		),
		col.New(5).Add(
			text.New("Del "+r.Desde, props.Text{Size: 9, Align: align.Right, Top: 2}),
			text.New("Al "+r.Hasta, props.Text{Size: 9, Align: align.Right, Top: 8}),
		),
	)
}

func totalesReporte(r *dto.ResumenVentasResponse) []core.Row {
	return []core.Row{
		filaTexto("Número de ventas", strconv.Itoa(r.NumeroVentas)),
		filaMonto("Ingreso total", r.IngresoTotal),
		filaMonto("Descuentos", r.Descuentos),
		filaMonto("Gastos", r.TotalGastos),
		filaMonto("Utilidad", r.Utilidad),
	}
}

func seccion(titulo string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(titulo, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorTitulo, Top: 2}),
	))
}

func cabeceraProductos() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 1}))
	}
	return row.New(6).Add(
		h("Producto", 7, align.Left),
		h("Cantidad", 2, align.Right),
		h("Importe", 3, align.Right),
	)
}

func filaTexto(label, valor string) core.Row {
	return row.New(6).Add(
		col.New(8).Add(text.New(label, props.Text{Size: 9, Top: 1})),
		col.New(4).Add(text.New(valor, props.Text{Size: 9, Top: 1, Align: align.Right})),
	)
}

func filaMonto(label string, monto decimal.Decimal) core.Row {
	return filaTexto(label, "$"+monto.StringFixed(2))
}

func filaCaja(c dto.CajaResponse) core.Row {
	detalle := fmt.Sprintf("Apertura $%s  |  Ventas efectivo $%s  |  Gastos $%s  |  Esperado $%s",
		c.MontoApertura.StringFixed(2), c.TotalVentasEfectivo.StringFixed(2),
		c.TotalGastos.StringFixed(2), c.MontoEsperado.StringFixed(2))
	cierre := c.Estado
	if c.Diferencia != nil && c.Clasificacion != nil {
		cierre = fmt.Sprintf("%s %s", *c.Clasificacion, c.Diferencia.StringFixed(2))
	}
	return row.New(10).Add(
		col.New(9).Add(
			text.New(c.AbiertaEn, props.Text{Size: 8, Top: 1, Style: fontstyle.Bold}),
			text.New(detalle, props.Text{Size: 7, Top: 5, Color: colorGris}),
		),
		col.New(3).Add(text.New(cierre, props.Text{Size: 8, Top: 3, Align: align.Right})),
	)
}
