package service

import (
	"fmt"

	"facturas/internal/dto"
	"facturas/internal/errs"

	"github.com/shopspring/decimal"
)

// TasaIVA is the Spanish general VAT rate applied to every invoice.
var TasaIVA = decimal.RequireFromString("0.21")

// FormatNumeroFactura renders FAC-<year>-<seq>, seq zero-padded to three
// digits. Sequences past 999 simply grow wider.
func FormatNumeroFactura(anio, secuencia int) string {
	return fmt.Sprintf("FAC-%d-%03d", anio, secuencia)
}

// LineTotal is cantidad × precio, exact.
func LineTotal(cantidad int, precio decimal.Decimal) decimal.Decimal {
	return precio.Mul(decimal.NewFromInt(int64(cantidad)))
}

// Subtotal sums the line totals.
func Subtotal(lineas []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l)
	}
	return total
}

// IVA is subtotal × TasaIVA rounded half away from zero to cents.
func IVA(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TasaIVA).Round(2)
}

// Total is subtotal + iva.
func Total(subtotal, iva decimal.Decimal) decimal.Decimal {
	return subtotal.Add(iva)
}

// precioValido accepts non-negative amounts with at most two decimals.
func precioValido(p decimal.Decimal) bool {
	return !p.IsNegative() && p.Equal(p.Round(2))
}

// validarLineas reports every malformed line at once, keyed lineas[i].campo.
func validarLineas(lineas []dto.LineaFacturaRequest) error {
	var c errs.Collector
	if len(lineas) == 0 {
		c.Add("lineas", "required")
		return c.Err()
	}
	for i, l := range lineas {
		campo := func(n string) string { return fmt.Sprintf("lineas[%d].%s", i, n) }
		if l.Cantidad < 1 {
			c.Add(campo("cantidad"), "min")
		}
		if !precioValido(l.Precio) {
			c.Add(campo("precio"), "invalid")
		}
		if l.ProductoID == nil && l.Descripcion == "" {
			c.Add(campo("descripcion"), "required")
		}
	}
	return c.Err()
}
