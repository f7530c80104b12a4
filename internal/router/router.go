package router

import (
	"time"

	"machineshop/internal/config"
	"machineshop/internal/handler"
	"machineshop/internal/infra"
	"machineshop/internal/middleware"
	"machineshop/internal/repository"
	"machineshop/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built by the composition root.
// Rdb, MailCB and Dibujos may be nil; Notifier defaults to a no-op.
type Deps struct {
	DB          *gorm.DB
	Rdb         *redis.Client
	Notifier    service.Notifier
	MailCB      *infra.CircuitBreaker
	Dibujos     infra.DibujoStore
	RateLimiter *middleware.RateLimiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Notifier == nil {
		deps.Notifier = service.NoopNotifier()
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}
	db := deps.DB

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(deps.RateLimiter.Middleware())

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	piezaRepo := repository.NewPiezaRepository(db)
	solicitudRepo := repository.NewSolicitudRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	estadoRepo := repository.NewEstadoTrabajoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	usuarioSvc := service.NewUsuarioService(usuarioRepo)
	areaSvc := service.NewAreaService(areaRepo, piezaRepo, usuarioRepo)
	piezaSvc := service.NewPiezaService(piezaRepo, areaRepo)
	solicitudSvc := service.NewSolicitudService(solicitudRepo, usuarioRepo, piezaRepo, revisionRepo, estadoRepo, deps.Dibujos)
	revisionSvc := service.NewRevisionService(revisionRepo, solicitudRepo, usuarioRepo, estadoRepo, deps.Notifier, cfg.SystemUserID)
	estadoSvc := service.NewEstadoTrabajoService(estadoRepo, solicitudRepo, usuarioRepo, deps.Notifier)

	// ── Handlers ─────────────────────────────────────────────────────────────
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	areasH := handler.NewAreasHandler(areaSvc)
	piezasH := handler.NewPiezasHandler(piezaSvc)
	solicitudesH := handler.NewSolicitudesHandler(solicitudSvc)
	revisionH := handler.NewRevisionHandler(revisionSvc)
	estadoH := handler.NewEstadoTrabajoHandler(estadoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, deps.Rdb, deps.MailCB))

	api := r.Group("/api")
	{
		areas := api.Group("/Areas")
		{
			areas.GET("", areasH.Listar)
			areas.GET("/:id", areasH.ObtenerPorID)
			areas.POST("", areasH.Crear)
			areas.PUT("/:id", areasH.Actualizar)
			areas.DELETE("/:id", areasH.Eliminar)
		}

		piezas := api.Group("/Piezas")
		{
			piezas.GET("", piezasH.Listar)
			piezas.GET("/:id", piezasH.ObtenerPorID)
			piezas.POST("", piezasH.Crear)
			piezas.PUT("/:id", piezasH.Actualizar)
			piezas.DELETE("/:id", piezasH.Eliminar)
		}

		sol := api.Group("/Solicitudes")
		{
			sol.GET("", solicitudesH.Listar)
			sol.GET("/:id", solicitudesH.ObtenerPorID)
			sol.POST("", solicitudesH.Crear)
			sol.DELETE("/:id", solicitudesH.Eliminar)
			sol.GET("/:id/Reporte", solicitudesH.Reporte)
			sol.POST("/:id/Dibujo", solicitudesH.SubirDibujo)
			sol.GET("/:id/Dibujo", solicitudesH.ObtenerDibujo)
		}

		rev := api.Group("/Revision")
		{
			rev.POST("", revisionH.Crear)
			rev.GET("/:id", revisionH.ObtenerPorID)
		}

		est := api.Group("/EstadoTrabajo")
		{
			est.GET("", estadoH.Listar)
			est.GET("/Solicitud/:id", estadoH.HistorialPorSolicitud)
			est.POST("", estadoH.Abrir)
			est.PUT("/:id", estadoH.Cerrar)
		}

		usuarios := api.Group("/Usuarios")
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:id", usuariosH.ObtenerPorID)
			usuarios.POST("", usuariosH.Crear)
			usuarios.PUT("/:id", usuariosH.Actualizar)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
