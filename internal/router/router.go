package router

import (
	"context"
	"time"

	"facturas/internal/config"
	"facturas/internal/handler"
	"facturas/internal/middleware"
	"facturas/internal/repository"
	"facturas/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the storage and queue handles the API is built on. DB is nil
// with the in-memory store; RDB and Enqueuer are nil when Redis is off.
type Deps struct {
	Repos    repository.Repositories
	DB       *gorm.DB
	RDB      *redis.Client
	Enqueuer service.EmailEnqueuer
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/memory.
// ctx bounds the background purge of the rate limiters.
func New(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	apiLimiter := middleware.APIRateLimiter(1000, time.Minute) // 1000 req/min per IP
	authLimiter := middleware.LoginRateLimiter()
	apiLimiter.StartPurge(ctx, 5*time.Minute)
	authLimiter.StartPurge(ctx, 5*time.Minute)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Handler())

	// ── Services ─────────────────────────────────────────────────────────────
	repos := deps.Repos
	auditSvc := service.NewAuditoriaService(repos.Logs)
	authSvc := service.NewAuthService(repos.Usuarios, auditSvc, cfg)
	clienteSvc := service.NewClienteService(repos.Clientes, auditSvc)
	productoSvc := service.NewProductoService(repos.Productos, auditSvc)
	empresaSvc := service.NewEmpresaService(repos.Empresas, auditSvc)
	facturaSvc := service.NewFacturaService(repos.Facturas, repos.Clientes, repos.Productos, repos.Empresas, auditSvc, deps.Enqueuer)
	estadisticasSvc := service.NewEstadisticasService(repos.Facturas, repos.Clientes, repos.Productos)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc)
	empresaH := handler.NewEmpresaHandler(empresaSvc)
	logsH := handler.NewLogsHandler(auditSvc)
	estadisticasH := handler.NewEstadisticasHandler(estadisticasSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(cfg.StorageDriver, deps.DB, deps.RDB))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authLimiter.Handler(), authH.Login)
		auth.POST("/registro", authLimiter.Handler(), authH.Registro)
	}

	// Protected routes; every record is scoped to the token's user.
	api := r.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	{
		api.POST("/auth/logout", authH.Logout)
		api.GET("/auth/me", authH.Me)
		api.PUT("/auth/perfil", authH.ActualizarPerfil)

		clientes := api.Group("/clientes")
		{
			clientes.GET("", clientesH.Listar)
			clientes.POST("", clientesH.Crear)
			clientes.GET("/buscar", clientesH.Buscar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		productos := api.Group("/productos")
		{
			productos.GET("", productosH.Listar)
			productos.POST("", productosH.Crear)
			productos.GET("/buscar", productosH.Buscar)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Eliminar)
		}

		facturas := api.Group("/facturas")
		{
			facturas.GET("", facturasH.Listar)
			facturas.POST("", facturasH.Crear)
			facturas.GET("/proximo-numero", facturasH.ProximoNumero)
			facturas.GET("/:id", facturasH.ObtenerPorID)
			facturas.PUT("/:id", facturasH.Actualizar)
			facturas.DELETE("/:id", facturasH.Eliminar)
			facturas.GET("/:id/pdf", facturasH.DescargarPDF)
			facturas.POST("/:id/enviar", facturasH.Enviar)
		}

		api.GET("/configuracion-empresa", empresaH.Obtener)
		api.POST("/configuracion-empresa", empresaH.Guardar)

		api.GET("/logs", logsH.Listar)
		api.GET("/estadisticas", estadisticasH.Obtener)
	}

	// Swagger UI outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
