package router

import (
	"context"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/config"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/handler"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/infra"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/middleware"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles the engine is built on. Jobs may be nil,
// in which case tickets are not rendered in the background and
// /reportes/enviar answers 409.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	SMTPCB *infra.CircuitBreaker
	Jobs   service.Encolador
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// ctx bounds the background goroutines the router owns (rate limiter purge).
func New(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	apiLimiter := middleware.NewRateLimiter(1000, time.Minute, "Demasiadas solicitudes. Intente nuevamente en un momento.")
	loginLimiter := middleware.NewLoginRateLimiter()
	apiLimiter.StartPurge(ctx, 5*time.Minute)
	loginLimiter.StartPurge(ctx, 5*time.Minute)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware()) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(deps.DB)
	productoRepo := repository.NewProductoRepository(deps.DB)
	movimientoStockRepo := repository.NewMovimientoStockRepository(deps.DB)
	cajaRepo := repository.NewCajaRepository(deps.DB)
	ventaRepo := repository.NewVentaRepository(deps.DB)
	carritoRepo := repository.NewCarritoRepository(deps.Redis)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	productoSvc := service.NewProductoService(productoRepo, inventarioSvc)
	cajaSvc := service.NewCajaService(cajaRepo, now)
	ventaSvc := service.NewVentaService(ventaRepo, carritoRepo, productoRepo, cajaRepo, inventarioSvc, cajaSvc, deps.Jobs, now)
	reporteSvc := service.NewReporteService(ventaRepo, cajaRepo, cajaSvc, deps.Jobs, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc, loc)
	cajaH := handler.NewCajaHandler(cajaSvc, loc)
	carritoH := handler.NewCarritoHandler(ventaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, reporteSvc, loc)
	reportesH := handler.NewReportesHandler(reporteSvc, loc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis, deps.SMTPCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	todos := middleware.RequireRole(model.RolCajero, model.RolAdministrador)
	admin := middleware.RequireRole(model.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		// Catalog: everyone reads, administrador writes
		prods := v1.Group("/productos")
		{
			prods.GET("", todos, productosH.Listar)
			prods.GET("/buscar", todos, productosH.Buscar)
			prods.GET("/barcode/:codigo", todos, productosH.ObtenerPorBarcode)
			prods.GET("/:id", todos, productosH.ObtenerPorID)
			prods.POST("", admin, productosH.Crear)
			prods.PUT("/:id", admin, productosH.Actualizar)
			prods.DELETE("/:id", admin, productosH.Desactivar)
			prods.PATCH("/:id/reactivar", admin, productosH.Reactivar)
		}

		inv := v1.Group("/inventario")
		{
			inv.POST("/ajustes", admin, inventarioH.Ajustar)
			inv.GET("/alertas", todos, inventarioH.Alertas)
			inv.GET("/kardex/:producto_id", todos, inventarioH.Kardex)
			inv.GET("/movimientos", admin, inventarioH.Movimientos)
		}

		caja := v1.Group("/caja", todos)
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/actual", cajaH.Actual)
			caja.POST("/gastos", cajaH.RegistrarGasto)
			caja.GET("/:id/gastos", cajaH.Gastos)
			caja.GET("/:id/reporte", cajaH.ObtenerReporte)
			caja.GET("", admin, cajaH.Historial)
		}

		carrito := v1.Group("/carrito", todos)
		{
			carrito.GET("", carritoH.Obtener)
			carrito.POST("/items", carritoH.Agregar)
			carrito.PATCH("/items/:producto_id", carritoH.ActualizarCantidad)
			carrito.DELETE("/items/:producto_id", carritoH.Quitar)
			carrito.DELETE("", carritoH.Vaciar)
		}

		ventas := v1.Group("/ventas", todos)
		{
			ventas.POST("/cobrar", ventasH.Cobrar)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/hoy", ventasH.Hoy)
			ventas.GET("/total-dia", ventasH.TotalDia)
			ventas.GET("/siguiente-ticket", ventasH.SiguienteTicket)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.GET("/:id/ticket.pdf", ventasH.TicketPDF)
		}

		reportes := v1.Group("/reportes", admin)
		{
			reportes.GET("/ventas", reportesH.Ventas)
			reportes.GET("/ventas.pdf", reportesH.VentasPDF)
			reportes.GET("/ventas.csv", reportesH.VentasCSV)
			reportes.POST("/enviar", reportesH.Enviar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
