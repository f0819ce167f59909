//go:build integration

package router

// End-to-end tests over real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"facturas/internal/config"
	"facturas/internal/infra"
	"facturas/internal/service"
	"facturas/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type capturingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *capturingMailer) SendFactura(to, _, _, filename string, pdf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(pdf) == 0 {
		return nil
	}
	m.sent = append(m.sent, to+" "+filename)
	return nil
}

func (m *capturingMailer) enviados() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func setupE2E(t *testing.T) (*api, *capturingMailer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("facturas_test"),
		tcPostgres.WithUsername("facturas"),
		tcPostgres.WithPassword("facturas"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		StorageDriver:      config.StoragePostgres,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	repos, db, err := infra.OpenStorage(ctx, cfg)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	auth := service.NewAuthService(repos.Usuarios, service.NewAuditoriaService(repos.Logs), cfg)
	require.NoError(t, auth.SeedAdmin(ctx, "admin@e2e.test", "admin123"))

	mailer := &capturingMailer{}
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	worker.StartWorkerPool(ctx, rdb, map[string]worker.Handler{
		worker.JobEnvioFactura: worker.NewEmailWorker(repos.Facturas, repos.Empresas, mailer, cb, cfg.PDFStoragePath),
	}, cfg.WorkerPoolSize)

	engine := New(ctx, cfg, Deps{Repos: repos, DB: db, RDB: rdb, Enqueuer: worker.NewDispatcher(rdb)})
	return &api{t: t, engine: engine}, mailer
}

func TestE2E_FacturaOnPostgres(t *testing.T) {
	a, mailer := setupE2E(t)

	w := a.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true,"storage":"postgres","db":"connected","redis":"connected","dlq_email":0}`, w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@e2e.test", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[map[string]any](t, w)["access_token"].(string)

	clienteID := a.crearCliente(token, "Acme")

	var numeros []string
	for i := 0; i < 3; i++ {
		w = a.do(http.MethodPost, "/api/facturas", token, facturaBody(clienteID))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		f := decode[map[string]any](t, w)
		assert.Equal(t, "378.13", f["total"])
		assert.Len(t, f["lineas"], 2)
		numeros = append(numeros, f["numero"].(string))
	}
	anio := time.Now().UTC().Format("2006")
	assert.Equal(t, []string{"FAC-" + anio + "-001", "FAC-" + anio + "-002", "FAC-" + anio + "-003"}, numeros)

	// Deleting the last invoice does not free its number.
	w = a.do(http.MethodGet, "/api/facturas", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lista := decode[[]map[string]any](t, w)
	require.Len(t, lista, 3)
	ultima := "/api/facturas/" + jsonNumber(lista[0]["id"].(float64))
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, ultima, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, ultima, token, nil).Code)

	w = a.do(http.MethodGet, "/api/facturas/proximo-numero", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FAC-"+anio+"-004", decode[map[string]string](t, w)["numero"])

	// Soft-deleted client still resolves on its invoices.
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/clientes/"+jsonNumber(clienteID), token, nil).Code)
	primera := "/api/facturas/" + jsonNumber(lista[2]["id"].(float64))
	w = a.do(http.MethodGet, primera, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cliente := decode[map[string]any](t, w)["cliente"].(map[string]any)
	assert.Equal(t, "Acme", cliente["nombre"])

	// Email goes through Redis and the worker pool.
	w = a.do(http.MethodPost, primera+"/enviar", token, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Eventually(t, func() bool { return len(mailer.enviados()) == 1 }, 10*time.Second, 100*time.Millisecond)
	assert.Equal(t, "cliente@ejemplo.es FAC-"+anio+"-001.pdf", mailer.enviados()[0])
}

func TestE2E_ConcurrentNumbering(t *testing.T) {
	a, _ := setupE2E(t)

	w := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@e2e.test", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]any](t, w)["access_token"].(string)
	clienteID := a.crearCliente(token, "Acme")

	const n = 10
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = a.do(http.MethodPost, "/api/facturas", token, facturaBody(clienteID)).Code
		}(i)
	}
	wg.Wait()
	for _, c := range codes {
		assert.Equal(t, http.StatusCreated, c)
	}

	w = a.do(http.MethodGet, "/api/facturas", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	seen := map[string]bool{}
	for _, f := range decode[[]map[string]any](t, w) {
		seen[f["numero"].(string)] = true
	}
	assert.Len(t, seen, n)
}
