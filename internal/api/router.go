package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/tripline/travel-booking/docs"
	"github.com/tripline/travel-booking/internal/api/handler"
	"github.com/tripline/travel-booking/internal/api/middleware"
	"github.com/tripline/travel-booking/internal/core/domain"
	"github.com/tripline/travel-booking/internal/core/ports"
)

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	JWTSecret string
	Bookings  ports.BookingService
	Catalog   ports.CatalogService
	Auth      ports.AuthService
	Roles     ports.RoleService
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("travel_booking"))

	requireAuth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(cfg.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog (anonymous browsing allowed) ---
	resourceHandler := handler.NewResourceHandler(cfg.Catalog)
	e.GET("/v1/resources", resourceHandler.List, optionalAuth)
	e.GET("/v1/resources/:id", resourceHandler.Get, optionalAuth)
	e.PUT("/v1/resources/:id/capacity", resourceHandler.SetCapacity, requireAuth)

	// --- Bookings ---
	bookingHandler := handler.NewBookingHandler(cfg.Bookings)
	e.POST("/v1/bookings", bookingHandler.Create, requireAuth)
	e.GET("/v1/bookings", bookingHandler.List, requireAuth)
	e.GET("/v1/bookings/:id", bookingHandler.Get, requireAuth)
	e.PATCH("/v1/bookings/:id", bookingHandler.Amend, requireAuth)
	e.PUT("/v1/bookings/:id/status", bookingHandler.SetStatus, requireAuth)

	// --- Admin ---
	userHandler := handler.NewUserHandler(cfg.Roles)
	e.GET("/v1/admin/bookings", bookingHandler.ListAll, requireAuth, adminOnly)
	e.PUT("/v1/admin/users/:id/role", userHandler.SetRole, requireAuth, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Mongo, cfg.Redis)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
