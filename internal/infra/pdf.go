package infra

// pdf.go renders A4 invoices with go-pdf/fpdf:
//   - issuing company block (from ConfiguracionEmpresa, optional)
//   - FACTURA title with number, issue and due dates
//   - "FACTURAR A" client block
//   - line table (descripcion, cantidad, precio, total)
//   - subtotal, IVA and total
//   - notes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"facturas/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateFacturaPDF renders f. empresa may be nil when the owner never
// configured a company profile.
func GenerateFacturaPDF(f *model.Factura, empresa *model.ConfiguracionEmpresa) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Factura "+f.Numero, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Company ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	if empresa != nil {
		pdf.CellFormat(contentW/2, 8, tr(empresa.Nombre), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, linea := range []*string{empresa.Direccion, empresa.Telefono, empresa.Email} {
			if linea != nil && *linea != "" {
				pdf.CellFormat(contentW/2, 5, tr(*linea), "", 1, "L", false, 0, "")
			}
		}
		if empresa.NIF != nil && *empresa.NIF != "" {
			pdf.CellFormat(contentW/2, 5, tr("NIF: "+*empresa.NIF), "", 1, "L", false, 0, "")
		}
	} else {
		pdf.CellFormat(contentW/2, 8, tr("Mi Empresa"), "", 1, "L", false, 0, "")
	}

	// ── Invoice header (right column) ────────────────────────────────────────
	pdf.SetXY(15+contentW/2, 15)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(contentW/2, 10, "FACTURA", "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, tr("Número: "+f.Numero), "", 2, "R", false, 0, "")
	pdf.CellFormat(contentW/2, 6, "Fecha: "+f.Fecha.Format("02/01/2006"), "", 2, "R", false, 0, "")
	if f.FechaVencimiento != nil {
		pdf.CellFormat(contentW/2, 6, "Vencimiento: "+f.FechaVencimiento.Format("02/01/2006"), "", 2, "R", false, 0, "")
	}
	pdf.CellFormat(contentW/2, 6, "Estado: "+strings.ToUpper(f.Estado), "", 2, "R", false, 0, "")

	pdf.SetY(60)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Client ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "FACTURAR A:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if c := f.Cliente; c != nil {
		pdf.CellFormat(contentW, 5, tr(c.Nombre), "", 1, "L", false, 0, "")
		if c.NIF != nil && *c.NIF != "" {
			pdf.CellFormat(contentW, 5, tr("NIF: "+*c.NIF), "", 1, "L", false, 0, "")
		}
		if dir := direccionCliente(c); dir != "" {
			pdf.CellFormat(contentW, 5, tr(dir), "", 1, "L", false, 0, "")
		}
		if c.Email != nil && *c.Email != "" {
			pdf.CellFormat(contentW, 5, tr(*c.Email), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	// ── Lines ────────────────────────────────────────────────────────────────
	colDesc := contentW * 0.52
	colCant := contentW * 0.12
	colPrecio := contentW * 0.18
	colTotal := contentW * 0.18

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(colDesc, 7, tr("DESCRIPCIÓN"), "B", 0, "L", true, 0, "")
	pdf.CellFormat(colCant, 7, "CANT.", "B", 0, "C", true, 0, "")
	pdf.CellFormat(colPrecio, 7, "PRECIO", "B", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, 7, "TOTAL", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range f.Lineas {
		desc := l.Descripcion
		if len([]rune(desc)) > 60 {
			desc = string([]rune(desc)[:59]) + "..."
		}
		pdf.CellFormat(colDesc, 6, tr(desc), "", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 6, fmt.Sprintf("%d", l.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(colPrecio, 6, tr(FormatEuros(l.Precio)), "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, tr(FormatEuros(l.Total)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := colDesc + colCant + colPrecio
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelW, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 6, tr(FormatEuros(f.Subtotal)), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, "IVA (21%):", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 6, tr(FormatEuros(f.IVA)), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelW, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 8, tr(FormatEuros(f.Total)), "", 1, "R", false, 0, "")

	if f.Notas != nil && strings.TrimSpace(*f.Notas) != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "Notas:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, 5, tr(*f.Notas), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// GuardarPDF writes data to dir/nombre, creating dir if needed, and returns the path.
func GuardarPDF(dir, nombre string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(nombre))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}

// FormatEuros renders d in Spanish notation: 1.234,56 €.
func FormatEuros(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	entero, dec, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + dec + " €"
	if neg {
		out = "-" + out
	}
	return out
}

func direccionCliente(c *model.Cliente) string {
	parts := make([]string, 0, 4)
	for _, p := range []*string{c.Direccion, c.CodigoPostal, c.Ciudad, c.Pais} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, ", ")
}
