// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinebox/box-office/internal/config"
	"github.com/cinebox/box-office/internal/handler"
	"github.com/cinebox/box-office/internal/middleware"
	"github.com/cinebox/box-office/internal/model"
)

// Handlers collects every handler the router needs.
type Handlers struct {
	Auth     *handler.AuthHandler
	Sales    *handler.SalesHandler
	Schedule *handler.ScheduleHandler
	Reports  *handler.ReportHandler
	Browse   *handler.BrowseHandler
}

// Register wires the full API surface on the provided Echo instance.
//
//	/healthz                      liveness, unauthenticated
//	/v1/auth/*                    login, refresh, logout
//	/v1/me                        token introspection, any role
//	/v1/movies|shifts|theaters    reference data, any role, cached
//	/v1/showtimes*                counter workflow, sales role, rate limited
//	/v1/schedule*, /v1/reports/*  management role
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	jwtAuth := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleSales, model.RoleManagement)

	v1 := e.Group("/v1", jwtAuth, anyRole)
	v1.GET("/me", h.Auth.Me)

	// Reference data changes rarely; serve it through the Redis
	// response cache.
	cached := v1.Group("", middleware.NewResponseCache(config.LoadCacheConfig(), rdb))
	cached.GET("/movies", h.Browse.Movies)
	cached.GET("/shifts", h.Browse.Shifts)
	cached.GET("/theaters", h.Browse.Theaters)

	// Counter workflow.  The rate limiter shields the store from a
	// misbehaving terminal; seat maps are never cached so the counter
	// always sees live availability.
	sales := e.Group("/v1/showtimes",
		jwtAuth,
		middleware.RequireRole(model.RoleSales),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)
	sales.GET("", h.Sales.SearchShowtimes)
	sales.GET("/:id/seats", h.Sales.SeatMap)
	sales.POST("/:id/tickets", h.Sales.Sell)

	mgmt := e.Group("/v1", jwtAuth, middleware.RequireRole(model.RoleManagement))
	mgmt.GET("/schedule", h.Schedule.List)
	mgmt.POST("/schedule", h.Schedule.Create)
	mgmt.DELETE("/schedule/:id", h.Schedule.Delete)
	mgmt.POST("/reports/monthly", h.Reports.Monthly)
}
