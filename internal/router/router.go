package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/config"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/engine"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/handler"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/infra"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/middleware"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/service"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Engine/Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
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
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	auditRepo := repository.NewTransferAuditRepository(db)

	// ── Core engine ──────────────────────────────────────────────────────────
	allocEngine := engine.NewAllocationEngine(repository.NewEnginePort(orderRepo, allocationRepo))

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg)
	locationSvc := service.NewLocationService(locationRepo)
	orderSvc := service.NewPurchaseOrderService(orderRepo)
	allocationSvc := service.NewAllocationService(allocEngine, orderRepo, allocationRepo, locationRepo, rdb)
	transferSvc := service.NewTransferService(transferRepo, locationRepo, auditRepo, dispatcher, cfg.OpsEmail)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	locationsH := handler.NewLocationsHandler(locationSvc)
	ordersH := handler.NewPurchaseOrdersHandler(orderSvc)
	allocationsH := handler.NewAllocationsHandler(allocationSvc)
	transfersH := handler.NewTransfersHandler(transferSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))

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
		// Roles: operator, manager, admin — declared per-endpoint

		// User administration — admin only
		users := v1.Group("/auth/users", middleware.RequireRole("admin"))
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.DELETE("/:id", authH.DeactivateUser)
		}

		// Locations — all roles read, manager and admin write
		v1.GET("/locations", middleware.RequireRole("operator", "manager", "admin"), locationsH.List)
		v1.GET("/locations/:id", middleware.RequireRole("operator", "manager", "admin"), locationsH.Get)
		locations := v1.Group("/locations", middleware.RequireRole("manager", "admin"))
		{
			locations.POST("", locationsH.Create)
			locations.PUT("/:id", locationsH.Update)
			locations.DELETE("/:id", locationsH.Deactivate)
		}

		// Purchase orders — all roles read, manager and admin create
		v1.GET("/purchase-orders", middleware.RequireRole("operator", "manager", "admin"), ordersH.List)
		v1.GET("/purchase-orders/:id", middleware.RequireRole("operator", "manager", "admin"), ordersH.Get)
		v1.POST("/purchase-orders", middleware.RequireRole("manager", "admin"), ordersH.Create)

		// Allocations
		allocs := v1.Group("/allocations", middleware.RequireRole("manager", "admin"))
		{
			allocs.POST("/preview", allocationsH.PreviewDistribution)
			allocs.POST("/plan", allocationsH.Plan)
			allocs.POST("/validate", allocationsH.Validate)
			allocs.POST("", allocationsH.Create)
		}
		v1.GET("/line-items/:lineItemId/allocations", middleware.RequireRole("operator", "manager", "admin"), allocationsH.ListByLineItem)
		v1.GET("/line-items/:lineItemId/unallocated", middleware.RequireRole("operator", "manager", "admin"), allocationsH.Unallocated)

		// Transfers — operators can request and receive; approval, rejection,
		// shipping, and cancellation need manager or admin
		v1.POST("/transfers", middleware.RequireRole("operator", "manager", "admin"), transfersH.Create)
		v1.GET("/transfers", middleware.RequireRole("operator", "manager", "admin"), transfersH.List)
		v1.GET("/transfers/:id", middleware.RequireRole("operator", "manager", "admin"), transfersH.Get)
		v1.GET("/transfers/:id/audits", middleware.RequireRole("manager", "admin"), transfersH.Audits)
		v1.POST("/transfers/:id/approve", middleware.RequireRole("manager", "admin"), transfersH.Approve)
		v1.POST("/transfers/:id/reject", middleware.RequireRole("manager", "admin"), transfersH.Reject)
		v1.POST("/transfers/:id/ship", middleware.RequireRole("manager", "admin"), transfersH.Ship)
		v1.POST("/transfers/:id/receive", middleware.RequireRole("operator", "manager", "admin"), transfersH.Receive)
		v1.POST("/transfers/:id/cancel", middleware.RequireRole("manager", "admin"), transfersH.Cancel)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
