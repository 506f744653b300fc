// Package router registers HTTP routes on an Echo instance.  Every API
// route lives under /v1; health stays at the root for load balancers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/handler"
	"github.com/dileeka1998/Event-Planner-sub000/internal/middleware"
	"github.com/dileeka1998/Event-Planner-sub000/internal/model"
)

// Role sets used by the route groups.
var (
	anyRole     = []string{model.RoleAttendee, model.RoleOrganizer, model.RoleAdmin}
	managerRole = []string{model.RoleOrganizer, model.RoleAdmin}
)

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers /v1/auth/register, /v1/auth/login and the
// protected /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(anyRole...))
	auth.GET("/me", a.Me)
}
