package service

import (
	"context"
	"testing"
	"time"

	"facturas/internal/config"
	"facturas/internal/dto"
	"facturas/internal/model"
	"facturas/internal/repository"
	"facturas/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

// fixedNow is the clock used by every service under test.
var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	repos        repository.Repositories
	audit        AuditoriaService
	clientes     ClienteService
	productos    ProductoService
	facturas     FacturaService
	empresas     EmpresaService
	estadisticas EstadisticasService
	auth         AuthService
	mailer       *fakeEnqueuer
}

type fakeEnqueuer struct {
	jobs []dto.EnvioFacturaPayload
}

func (f *fakeEnqueuer) EnqueueEnvioFactura(_ context.Context, p dto.EnvioFacturaPayload) error {
	f.jobs = append(f.jobs, p)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.New().Repositories()
	audit := NewAuditoriaService(repos.Logs)
	mailer := &fakeEnqueuer{}

	fs := NewFacturaService(repos.Facturas, repos.Clientes, repos.Productos, repos.Empresas, audit, mailer)
	fs.(*facturaService).now = func() time.Time { return fixedNow }
	es := NewEstadisticasService(repos.Facturas, repos.Clientes, repos.Productos)
	es.(*estadisticasService).now = func() time.Time { return fixedNow }

	return &testEnv{
		repos:        repos,
		audit:        audit,
		clientes:     NewClienteService(repos.Clientes, audit),
		productos:    NewProductoService(repos.Productos, audit),
		facturas:     fs,
		empresas:     NewEmpresaService(repos.Empresas, audit),
		estadisticas: es,
		auth:         NewAuthService(repos.Usuarios, audit, &config.Config{JWTSecret: "test", JWTExpirationHours: 1}),
		mailer:       mailer,
	}
}

func (e *testEnv) cliente(t *testing.T, usuarioID uint, nombre string) *dto.ClienteResponse {
	t.Helper()
	c, err := e.clientes.Crear(context.Background(), usuarioID, dto.CrearClienteRequest{Nombre: nombre})
	require.NoError(t, err)
	return c
}

func (e *testEnv) factura(t *testing.T, usuarioID, clienteID uint, fecha *time.Time, lineas ...dto.LineaFacturaRequest) *dto.FacturaResponse {
	t.Helper()
	if len(lineas) == 0 {
		lineas = []dto.LineaFacturaRequest{linea("Servicio", 1, "100.00")}
	}
	f, err := e.facturas.Crear(context.Background(), usuarioID, dto.CrearFacturaRequest{
		ClienteID: clienteID,
		Fecha:     fecha,
		Lineas:    lineas,
	})
	require.NoError(t, err)
	return f
}

func linea(desc string, cantidad int, precio string) dto.LineaFacturaRequest {
	return dto.LineaFacturaRequest{Descripcion: desc, Cantidad: cantidad, Precio: decimal.RequireFromString(precio)}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func logsDe(t *testing.T, e *testEnv, usuarioID uint) []model.Log {
	t.Helper()
	logs, err := e.repos.Logs.ListByUsuario(context.Background(), usuarioID)
	require.NoError(t, err)
	return logs
}
