package infra

import (
	"encoding/csv"
	"io"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
)

var encabezadoCSV = []string{
	"numero_ticket", "fecha", "metodo_pago", "producto_id", "producto", "codigo_barras",
	"unidad", "cantidad", "precio_unitario", "subtotal_linea", "es_paquete",
	"descuento_venta", "total_venta",
}

// EscribirVentasCSV writes one row per sale line, sales in the given order.
func EscribirVentasCSV(w io.Writer, ventas []model.Venta) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(encabezadoCSV); err != nil {
		return err
	}
	for _, v := range ventas {
		for _, it := range v.Items {
			paquete := "no"
			if it.EsPaquete {
				paquete = "si"
			}
			rec := []string{
				v.NumeroTicket,
				v.CreatedAt.Format("2006-01-02 15:04:05"),
				v.MetodoPago,
				it.ProductoID.String(),
				it.Nombre,
				it.CodigoBarras,
				it.UnidadMedida,
				it.Cantidad.String(),
				it.PrecioUnitario.StringFixed(2),
				it.Subtotal.StringFixed(2),
				paquete,
				v.Descuento.StringFixed(2),
				v.Total.StringFixed(2),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
