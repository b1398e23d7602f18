package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fleetlog/fleetlog-api/docs"
	"github.com/fleetlog/fleetlog-api/internal/api/handler"
	"github.com/fleetlog/fleetlog-api/internal/api/middleware"
	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
	"github.com/fleetlog/fleetlog-api/internal/core/service"
	"github.com/fleetlog/fleetlog-api/internal/infrastructure/http/handlers"
)

// RouterConfig bundles everything the router needs to wire routes.
type RouterConfig struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	Users      ports.UserRepository
	Vehicles   ports.VehicleRepository
	Entries    ports.EntryRepository
	Sessions   ports.SessionStore
	PhotoStore ports.ObjectStore
	JWTSecret  string
	SessionTTL time.Duration
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("fleetlog"))

	// --- Services ---
	authService := service.NewAuthService(cfg.Users, cfg.Sessions, cfg.JWTSecret, cfg.SessionTTL, cfg.Logger)
	entryService := service.NewEntryService(cfg.Entries, cfg.PhotoStore, cfg.Logger)
	userService := service.NewUserService(cfg.Users, cfg.Entries, cfg.Logger)
	vehicleService := service.NewVehicleService(cfg.Vehicles, cfg.Entries, cfg.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	entryHandler := handler.NewEntryHandler(entryService)
	userHandler := handler.NewUserHandler(userService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	photoHandler := handler.NewPhotoHandler(cfg.PhotoStore)

	authMiddleware := middleware.Auth(cfg.JWTSecret, cfg.Sessions)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/v1/auth/login", authHandler.Login)

	// --- Authenticated routes (any role) ---
	v1 := e.Group("/v1", authMiddleware)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.POST("/entries", entryHandler.Submit)
	v1.GET("/entries/recent", entryHandler.Recent)
	v1.GET("/vehicles", vehicleHandler.List)
	v1.GET("/photos/:id/content", photoHandler.Content)

	// --- Admin routes ---
	admin := v1.Group("/admin", adminOnly)
	admin.GET("/entries", entryHandler.List)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.POST("/users/:id/status", userHandler.SetStatus)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.POST("/vehicles", vehicleHandler.Create)
	admin.PUT("/vehicles/:id", vehicleHandler.Update)
	admin.DELETE("/vehicles/:id", vehicleHandler.Delete)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.Mongo, cfg.Redis, cfg.PhotoStore)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
