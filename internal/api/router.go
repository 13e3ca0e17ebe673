package api

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mitraportal/partner-system/internal/api/handler"
	"github.com/mitraportal/partner-system/internal/api/middleware"
	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

// RouterDeps carries everything the HTTP layer needs. Wiring happens in
// cmd/api; the router only registers routes and middleware chains.
type RouterDeps struct {
	AuthService       ports.AuthService
	UserService       ports.UserService
	RestaurantService ports.RestaurantService
	TokenCodec        ports.TokenCodec

	DB    *sql.DB
	Redis *redis.Client

	Log        zerolog.Logger
	Production bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Production)
	userHandler := handler.NewUserHandler(deps.UserService)
	restaurantHandler := handler.NewRestaurantHandler(deps.RestaurantService)

	// Session middleware: resolve transport, then authenticate or renew.
	session := []echo.MiddlewareFunc{
		middleware.Transport(),
		middleware.Auth(deps.TokenCodec, deps.AuthService, deps.Production),
	}

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signin", authHandler.Signin)
	auth.GET("/verify-email", authHandler.VerifyEmail)
	auth.POST("", authHandler.Reauth, session...)
	auth.POST("/logout", authHandler.Logout, session...)
	auth.POST("/pass", authHandler.ChangePassword, session...)

	// --- User routes ---
	user := e.Group("/api/user", session...)
	user.POST("", userHandler.Create, middleware.RequirePermission(domain.PermCreateUser))
	user.GET("", userHandler.Get, middleware.RequirePermission(domain.PermGetUser))
	user.GET("/all", userHandler.List, middleware.RequirePermission(domain.PermViewAllUser))
	user.PATCH("", userHandler.Update, middleware.RequirePermission(domain.PermUpdateUser))
	user.POST("/soft-delete", userHandler.SoftDelete, middleware.RequirePermission(domain.PermDeleteUser))

	// --- Restaurant routes ---
	restaurant := e.Group("/api/restaurant")
	restaurant.GET("/all", restaurantHandler.ListAll) // public listing
	restaurant.POST("", restaurantHandler.Create, session...)
	restaurant.GET("", restaurantHandler.Get, session...)
	restaurant.PUT("", restaurantHandler.UpdateMenu, session...)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
