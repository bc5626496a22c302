package infra

// pdf.go: thermal-receipt ticket rendered with go-pdf/fpdf.
// Layout (80mm wide, height grows with the number of lines):
//   - Store name header
//   - Ticket number and timestamp
//   - One row per line (name, quantity, subtotal)
//   - Subtotal, discount and bold total
//   - Payment method, amount tendered and change
//
// The file is written to storagePath/ticket_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const ticketAncho = 80.0 // mm, standard thermal roll

// GenerarTicketPDF renders the receipt for a committed Venta and returns the
// path of the generated file. storagePath is created if needed.
func GenerarTicketPDF(venta *model.Venta, tienda, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, "ticket_"+venta.NumeroTicket+".pdf")

	alto := 75.0 + 5.0*float64(len(venta.Items))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: ticketAncho, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := ticketAncho - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(tienda), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Ticket "+venta.NumeroTicket, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "C", false, 0, "")
	if venta.ClienteNombre != nil && *venta.ClienteNombre != "" {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+*venta.ClienteNombre), "", 1, "C", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), ticketAncho-4, pdf.GetY())
	pdf.Ln(1)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.50
	col2 := contentW * 0.20
	col3 := contentW * 0.30

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Importe", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venta.Items {
		nombre := []rune(item.Nombre)
		if len(nombre) > 26 {
			nombre = append(nombre[:25], '.')
		}
		if item.EsPaquete {
			nombre = append([]rune("[PQ] "), nombre...)
		}
		pdf.CellFormat(col1, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, FormatCantidad(item.Cantidad, item.UnidadMedida), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), ticketAncho-4, pdf.GetY())
	pdf.Ln(1)

	// ── Totals ────────────────────────────────────────────────────────────────
	fila := func(label string, monto decimal.Decimal) {
		pdf.CellFormat(col1+col2, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+monto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7)
	if !venta.Descuento.IsZero() {
		fila("Subtotal:", venta.Subtotal)
		fila("Descuento:", venta.Descuento.Neg())
	}
	pdf.SetFont("Helvetica", "B", 9)
	fila("TOTAL:", venta.Total)

	// ── Payment ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	fila("Pago ("+venta.MetodoPago+"):", venta.MontoPagado)
	if venta.MetodoPago == model.PagoEfectivo {
		fila("Cambio:", venta.Cambio)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// FormatCantidad prints whole quantities as "x3" and fractional ones with the
// unit, e.g. "1.250 kg".
func FormatCantidad(cantidad decimal.Decimal, unidad string) string {
	if cantidad.IsInteger() {
		return "x" + cantidad.String()
	}
	return cantidad.StringFixed(3) + " " + unidad
}
