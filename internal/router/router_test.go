package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"facturas/internal/config"
	"facturas/internal/dto"
	"facturas/internal/repository/memory"
	"facturas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	return newAPIWithQueue(t, nil)
}

func newAPIWithQueue(t *testing.T, enq service.EmailEnqueuer) *api {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg := &config.Config{
		Env:                "test",
		StorageDriver:      config.StorageMemory,
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}
	return &api{t: t, engine: New(ctx, cfg, Deps{Repos: memory.New().Repositories(), Enqueuer: enq})}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *api) registrar(email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/registro", "", map[string]string{
		"email":              email,
		"password":           "secreto1",
		"confirmar_password": "secreto1",
		"nombre":             "Ana",
		"apellido":           "Ruiz",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](a.t, w)["access_token"].(string)
}

func (a *api) crearCliente(token, nombre string) float64 {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/clientes", token, map[string]any{"nombre": nombre, "email": "cliente@ejemplo.es"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](a.t, w)["id"].(float64)
}

func facturaBody(clienteID float64) map[string]any {
	return map[string]any{
		"cliente_id": clienteID,
		"lineas": []map[string]any{
			{"descripcion": "Desarrollo web", "cantidad": 2, "precio": "150.00"},
			{"descripcion": "Dominio", "cantidad": 1, "precio": "12.50"},
		},
	}
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"storage":"memory","db":"disabled","redis":"disabled"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	token := a.registrar("ana@ejemplo.es")

	w := a.do(http.MethodPost, "/api/auth/registro", "", map[string]string{
		"email": "ana@ejemplo.es", "password": "secreto1", "confirmar_password": "secreto1", "nombre": "A", "apellido": "B",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@ejemplo.es", "password": "malamala"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@ejemplo.es", "password": "secreto1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bearer", decode[map[string]any](t, w)["token_type"])

	w = a.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@ejemplo.es", decode[map[string]any](t, w)["email"])

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
}

func TestRegistroValidation(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodPost, "/api/auth/registro", "", map[string]string{
		"email": "no-es-email", "password": "123", "confirmar_password": "456",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Equal(t, "email", body.Fields["email"])
	assert.Equal(t, "min", body.Fields["password"])
	assert.Equal(t, "required", body.Fields["nombre"])
}

func TestFacturaLifecycle(t *testing.T) {
	a := newAPI(t)
	token := a.registrar("ana@ejemplo.es")
	clienteID := a.crearCliente(token, "Acme")

	w := a.do(http.MethodGet, "/api/facturas/proximo-numero", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	numero := decode[map[string]string](t, w)["numero"]
	assert.Regexp(t, `^FAC-\d{4}-001$`, numero)

	w = a.do(http.MethodPost, "/api/facturas", token, facturaBody(clienteID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	f := decode[map[string]any](t, w)
	assert.Equal(t, numero, f["numero"])
	assert.Equal(t, "312.5", f["subtotal"])
	assert.Equal(t, "65.63", f["iva"])
	assert.Equal(t, "378.13", f["total"])
	assert.Equal(t, "pendiente", f["estado"])
	id := f["id"].(float64)
	path := "/api/facturas/" + jsonNumber(id)

	w = a.do(http.MethodPut, path, token, map[string]string{"estado": "pagada"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pagada", decode[map[string]any](t, w)["estado"])

	w = a.do(http.MethodGet, "/api/facturas?estado=pagada", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = a.do(http.MethodGet, path+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), numero+".pdf")

	w = a.do(http.MethodGet, "/api/estadisticas", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[map[string]any](t, w)
	assert.Equal(t, "378.13", st["ingresos_totales"])
	assert.Len(t, st["facturas_por_mes"], 12)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, token, nil).Code)

	w = a.do(http.MethodGet, "/api/logs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]map[string]any](t, w)
	require.NotEmpty(t, logs)
	assert.Equal(t, "delete", logs[0]["accion"])
}

func TestFacturaValidationAndOwnership(t *testing.T) {
	a := newAPI(t)
	ana := a.registrar("ana@ejemplo.es")
	luis := a.registrar("luis@ejemplo.es")
	clienteID := a.crearCliente(ana, "Acme")

	w := a.do(http.MethodPost, "/api/facturas", ana, map[string]any{
		"cliente_id": clienteID,
		"lineas":     []map[string]any{{"descripcion": "x", "cantidad": 0, "precio": "1.00"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w).Fields
	assert.Contains(t, fields, "lineas[0].cantidad")

	w = a.do(http.MethodPost, "/api/facturas", ana, map[string]any{
		"cliente_id": clienteID,
		"lineas":     []map[string]any{{"descripcion": "x", "cantidad": 1, "precio": "1.001"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Luis cannot bill Ana's client, nor see Ana's invoice.
	w = a.do(http.MethodPost, "/api/facturas", luis, facturaBody(clienteID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/facturas", ana, facturaBody(clienteID))
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/facturas/" + jsonNumber(decode[map[string]any](t, w)["id"].(float64))

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, luis, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path, luis, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path+"/pdf", luis, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/facturas/abc", ana, nil).Code)
}

func TestEnviarWithoutQueue(t *testing.T) {
	a := newAPI(t)
	token := a.registrar("ana@ejemplo.es")
	clienteID := a.crearCliente(token, "Acme")
	w := a.do(http.MethodPost, "/api/facturas", token, facturaBody(clienteID))
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/facturas/" + jsonNumber(decode[map[string]any](t, w)["id"].(float64))

	assert.Equal(t, http.StatusServiceUnavailable, a.do(http.MethodPost, path+"/enviar", token, nil).Code)
}

type colaEnvios struct {
	mu     sync.Mutex
	envios []dto.EnvioFacturaPayload
}

func (q *colaEnvios) EnqueueEnvioFactura(_ context.Context, p dto.EnvioFacturaPayload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.envios = append(q.envios, p)
	return nil
}

func TestEnviarBodyIsOptional(t *testing.T) {
	cola := &colaEnvios{}
	a := newAPIWithQueue(t, cola)
	token := a.registrar("ana@ejemplo.es")
	clienteID := a.crearCliente(token, "Acme")
	w := a.do(http.MethodPost, "/api/facturas", token, facturaBody(clienteID))
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/facturas/" + jsonNumber(decode[map[string]any](t, w)["id"].(float64)) + "/enviar"

	require.Equal(t, http.StatusAccepted, a.do(http.MethodPost, path, token, nil).Code)

	// Chunked upload: no Content-Length, the body must still be read.
	req := httptest.NewRequest(http.MethodPost, path, io.NopCloser(strings.NewReader(`{"email":"otro@ejemplo.es"}`)))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	w = a.do(http.MethodPost, path, token, map[string]string{"email": "no-es-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Len(t, cola.envios, 2)
	assert.Equal(t, "cliente@ejemplo.es", cola.envios[0].Destinatario)
	assert.Equal(t, "otro@ejemplo.es", cola.envios[1].Destinatario)
}

func TestClientesSearchAndSoftDelete(t *testing.T) {
	a := newAPI(t)
	token := a.registrar("ana@ejemplo.es")
	id := a.crearCliente(token, "Talleres García")
	a.crearCliente(token, "Panadería Luz")

	w := a.do(http.MethodGet, "/api/clientes/buscar?q=TALLERES", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	assert.Equal(t, http.StatusUnprocessableEntity, a.do(http.MethodGet, "/api/clientes/buscar", token, nil).Code)

	path := "/api/clientes/" + jsonNumber(id)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, token, nil).Code)

	w = a.do(http.MethodGet, "/api/clientes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestConfiguracionEmpresa(t *testing.T) {
	a := newAPI(t)
	token := a.registrar("ana@ejemplo.es")

	w := a.do(http.MethodGet, "/api/configuracion-empresa", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = a.do(http.MethodPost, "/api/configuracion-empresa", token, map[string]string{"nombre": "Estudio Norte"})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[map[string]any](t, w)

	w = a.do(http.MethodPost, "/api/configuracion-empresa", token, map[string]string{"nombre": "Estudio Norte S.L."})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[map[string]any](t, w)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, "Estudio Norte S.L.", second["nombre"])
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(int64(f))
	return string(b)
}
