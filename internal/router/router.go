package router

import (
	"time"

	"condocaja/internal/config"
	"condocaja/internal/handler"
	"condocaja/internal/middleware"
	"condocaja/internal/repository"
	"condocaja/internal/service"
	"condocaja/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaChicaRepository(db)
	transRepo := repository.NewTransaccionRepository(db)
	cierreRepo := repository.NewCierreRepository(db)

	// Worker dispatcher — injected into the service that enqueues async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaChicaService(db, cajaRepo, transRepo, cierreRepo, dispatcher)
	cierreSvc := service.NewCierreService(db, cierreRepo, cajaRepo, transRepo, cfg.PDFStoragePath)
	renovacionSvc := service.NewRenovacionService(db, cajaRepo, transRepo, cierreRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	cajaH := handler.NewCajaChicaHandler(cajaSvc, renovacionSvc)
	cierresH := handler.NewCierresHandler(cierreSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: consulta, tesorero, administrador — declared per-endpoint.
		// consulta reads; tesorero records and reconciles; administrador
		// additionally configures, approves and renews.
		lectura := middleware.RequireRole("consulta", "tesorero", "administrador")
		operacion := middleware.RequireRole("tesorero", "administrador")
		admin := middleware.RequireRole("administrador")

		caja := v1.Group("/caja-chica")
		{
			caja.POST("", admin, cajaH.Configurar)
			caja.GET("", lectura, cajaH.ObtenerActiva)
			caja.PATCH("", admin, cajaH.Actualizar)
			caja.GET("/saldo", lectura, cajaH.Saldo)

			caja.POST("/transacciones", operacion, cajaH.Registrar)
			caja.GET("/transacciones", lectura, cajaH.Listar)

			caja.POST("/cierres", operacion, cierresH.Crear)
			caja.GET("/cierres", lectura, cierresH.Listar)
			caja.GET("/cierres/:id", lectura, cierresH.Obtener)
			caja.POST("/cierres/:id/aprobar", admin, cierresH.Aprobar)
			caja.POST("/cierres/:id/rechazar", admin, cierresH.Rechazar)
			caja.GET("/cierres/:id/acta", lectura, cierresH.Acta)

			caja.POST("/renovar", admin, cajaH.Renovar)
			caja.GET("/incompletas", admin, cajaH.Incompletas)
			caja.GET("/:id/historial", lectura, cajaH.Historial)
			caja.GET("/:id/cadena", lectura, cajaH.Cadena)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
