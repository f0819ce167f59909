package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"facturas/internal/errs"
	"facturas/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numerar(anio, seq int) string { return fmt.Sprintf("FAC-%d-%03d", anio, seq) }

func nuevaFactura(usuarioID, clienteID uint, fecha time.Time) *model.Factura {
	return &model.Factura{
		UsuarioID: usuarioID,
		ClienteID: clienteID,
		Fecha:     fecha,
		Subtotal:  decimal.NewFromInt(10),
		IVA:       decimal.RequireFromString("2.10"),
		Total:     decimal.RequireFromString("12.10"),
		Lineas: []model.LineaFactura{
			{Descripcion: "Servicio", Cantidad: 1, Precio: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
		},
	}
}

func TestStore_IDsAreGlobalAcrossKinds(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	u := &model.Usuario{Email: "a@b.es", Nombre: "A", Apellido: "B"}
	require.NoError(t, repos.Usuarios.Create(ctx, u))
	c := &model.Cliente{Nombre: "Cliente", UsuarioID: u.ID}
	require.NoError(t, repos.Clientes.Create(ctx, c))
	p := &model.Producto{Nombre: "Prod", UsuarioID: u.ID}
	require.NoError(t, repos.Productos.Create(ctx, p))

	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, uint(2), c.ID)
	assert.Equal(t, uint(3), p.ID)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	email := "x@y.es"
	c := &model.Cliente{Nombre: "Original", Email: &email, UsuarioID: 1}
	require.NoError(t, repos.Clientes.Create(ctx, c))

	got, err := repos.Clientes.FindByID(ctx, c.ID, 1)
	require.NoError(t, err)
	got.Nombre = "Mutado"
	*got.Email = "otro@y.es"

	again, err := repos.Clientes.FindByID(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Nombre)
	assert.Equal(t, "x@y.es", *again.Email)
}

func TestStore_UsuarioEmailUnique(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	require.NoError(t, repos.Usuarios.Create(ctx, &model.Usuario{Email: "Dup@Mail.es"}))
	err := repos.Usuarios.Create(ctx, &model.Usuario{Email: "dup@mail.es"})
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	u, err := repos.Usuarios.FindByEmail(ctx, "DUP@mail.es")
	require.NoError(t, err)
	assert.Equal(t, "dup@mail.es", u.Email)
}

func TestStore_SoftDeletedClienteHiddenButResolvable(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	c := &model.Cliente{Nombre: "Acme", UsuarioID: 1}
	require.NoError(t, repos.Clientes.Create(ctx, c))
	f := nuevaFactura(1, c.ID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repos.Facturas.Create(ctx, f, f.Fecha.Year(), numerar))

	require.NoError(t, repos.Clientes.SoftDelete(ctx, c.ID, 1))
	assert.ErrorIs(t, repos.Clientes.SoftDelete(ctx, c.ID, 1), errs.ErrNotFound)

	list, err := repos.Clientes.ListByUsuario(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
	found, err := repos.Clientes.Buscar(ctx, "acme", 1)
	require.NoError(t, err)
	assert.Empty(t, found)

	got, err := repos.Facturas.FindByID(ctx, f.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got.Cliente)
	assert.Equal(t, "Acme", got.Cliente.Nombre)
	assert.False(t, got.Cliente.Activo)
}

func TestStore_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	c := &model.Cliente{Nombre: "Privado", UsuarioID: 1}
	require.NoError(t, repos.Clientes.Create(ctx, c))

	_, err := repos.Clientes.FindByID(ctx, c.ID, 2)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, repos.Clientes.SoftDelete(ctx, c.ID, 2), errs.ErrNotFound)

	c.UsuarioID = 2
	c.Nombre = "Robado"
	assert.ErrorIs(t, repos.Clientes.Update(ctx, c), errs.ErrNotFound)
}

func TestStore_FacturaDeleteRemovesLines(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	f := nuevaFactura(1, 99, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	f.Lineas = append(f.Lineas, model.LineaFactura{Descripcion: "Extra", Cantidad: 2, Precio: decimal.NewFromInt(1), Total: decimal.NewFromInt(2)})
	require.NoError(t, repos.Facturas.Create(ctx, f, f.Fecha.Year(), numerar))

	lineas, err := repos.Facturas.ListLineas(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, lineas, 2)

	require.NoError(t, repos.Facturas.Delete(ctx, f.ID, 1))

	lineas, err = repos.Facturas.ListLineas(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, lineas)
	_, err = repos.Facturas.FindByID(ctx, f.ID, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_SequenceNeverReusesAfterDelete(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	fecha := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first := nuevaFactura(1, 9, fecha)
	require.NoError(t, repos.Facturas.Create(ctx, first, first.Fecha.Year(), numerar))
	second := nuevaFactura(1, 9, fecha)
	require.NoError(t, repos.Facturas.Create(ctx, second, second.Fecha.Year(), numerar))
	require.NoError(t, repos.Facturas.Delete(ctx, second.ID, 1))

	next, err := repos.Facturas.SiguienteSecuencia(ctx, 1, 2024)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	third := nuevaFactura(1, 9, fecha)
	require.NoError(t, repos.Facturas.Create(ctx, third, third.Fecha.Year(), numerar))
	assert.Equal(t, "FAC-2024-003", third.Numero)
}

func TestStore_SequenceIsPerOwnerAndYear(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	a := nuevaFactura(1, 9, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	b := nuevaFactura(2, 9, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	c := nuevaFactura(1, 9, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repos.Facturas.Create(ctx, a, a.Fecha.Year(), numerar))
	require.NoError(t, repos.Facturas.Create(ctx, b, b.Fecha.Year(), numerar))
	require.NoError(t, repos.Facturas.Create(ctx, c, c.Fecha.Year(), numerar))

	assert.Equal(t, "FAC-2024-001", a.Numero)
	assert.Equal(t, "FAC-2024-001", b.Numero)
	assert.Equal(t, "FAC-2025-001", c.Numero)
}

func TestStore_ConcurrentCreatesYieldDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	fecha := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	const n = 50
	numeros := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := nuevaFactura(1, 9, fecha)
			if err := repos.Facturas.Create(ctx, f, f.Fecha.Year(), numerar); err == nil {
				numeros[i] = f.Numero
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, num := range numeros {
		require.NotEmpty(t, num)
		assert.False(t, seen[num], "numero repetido %s", num)
		seen[num] = true
	}
	assert.True(t, seen["FAC-2024-050"])
}

func TestStore_MarcarVencidas(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	ahora := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	ayer := ahora.AddDate(0, 0, -1)
	manana := ahora.AddDate(0, 0, 1)

	vencida := nuevaFactura(1, 9, ahora.AddDate(0, -1, 0))
	vencida.FechaVencimiento = &ayer
	vigente := nuevaFactura(1, 9, ahora.AddDate(0, -1, 0))
	vigente.FechaVencimiento = &manana
	pagada := nuevaFactura(1, 9, ahora.AddDate(0, -1, 0))
	pagada.FechaVencimiento = &ayer
	pagada.Estado = model.EstadoPagada
	for _, f := range []*model.Factura{vencida, vigente, pagada} {
		require.NoError(t, repos.Facturas.Create(ctx, f, f.Fecha.Year(), numerar))
	}

	n, err := repos.Facturas.MarcarVencidas(ctx, ahora)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repos.Facturas.FindByID(ctx, vencida.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoVencida, got.Estado)
}
