package service

import (
	"testing"

	"facturas/internal/dto"
	"facturas/internal/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumeroFactura(t *testing.T) {
	assert.Equal(t, "FAC-2024-001", FormatNumeroFactura(2024, 1))
	assert.Equal(t, "FAC-2024-042", FormatNumeroFactura(2024, 42))
	assert.Equal(t, "FAC-2025-999", FormatNumeroFactura(2025, 999))
	assert.Equal(t, "FAC-2025-1000", FormatNumeroFactura(2025, 1000))
}

func TestLineTotal_IsExact(t *testing.T) {
	assert.True(t, LineTotal(3, dec("0.10")).Equal(dec("0.30")))
	assert.True(t, LineTotal(7, dec("19.99")).Equal(dec("139.93")))
}

func TestIVA_RoundsHalfAwayFromZero(t *testing.T) {
	// 0.05 × 0.21 = 0.0105 → 0.01
	assert.True(t, IVA(dec("0.05")).Equal(dec("0.01")))
	// 0.50 × 0.21 = 0.105 → 0.11
	assert.True(t, IVA(dec("0.50")).Equal(dec("0.11")))
	assert.True(t, IVA(dec("100")).Equal(dec("21")))
}

func TestTotals_Composition(t *testing.T) {
	lineas := []decimal.Decimal{LineTotal(2, dec("10.00")), LineTotal(1, dec("5.50"))}
	sub := Subtotal(lineas)
	iva := IVA(sub)

	assert.True(t, sub.Equal(dec("25.50")))
	assert.True(t, iva.Equal(dec("5.36")))
	assert.True(t, Total(sub, iva).Equal(dec("30.86")))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestPrecioValido(t *testing.T) {
	assert.True(t, precioValido(dec("0")))
	assert.True(t, precioValido(dec("12.34")))
	assert.False(t, precioValido(dec("-0.01")))
	assert.False(t, precioValido(dec("1.005")))
}

func TestValidarLineas_ReportsEveryField(t *testing.T) {
	err := validarLineas([]dto.LineaFacturaRequest{
		{Descripcion: "ok", Cantidad: 1, Precio: dec("1")},
		{Descripcion: "", Cantidad: 0, Precio: dec("-1")},
	})
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "min", verr.Fields["lineas[1].cantidad"])
	assert.Equal(t, "invalid", verr.Fields["lineas[1].precio"])
	assert.Equal(t, "required", verr.Fields["lineas[1].descripcion"])
	assert.Len(t, verr.Fields, 3)

	err = validarLineas(nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["lineas"])
}
