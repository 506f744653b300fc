package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/handler"
	"github.com/dileeka1998/Event-Planner-sub000/internal/middleware"
)

// RegisterVenues registers the organizer-owned venue endpoints.  cache
// wraps the venue reads and invalidate the venue mutations; pass nil for
// either to skip it.  Availability is never cached since it depends on
// event dates.
func RegisterVenues(e *echo.Echo, v *handler.VenueHandler, jwtSecret string, cache, invalidate echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(managerRole...),
	)
	reads := []echo.MiddlewareFunc{}
	if cache != nil {
		reads = append(reads, cache)
	}
	writes := []echo.MiddlewareFunc{}
	if invalidate != nil {
		writes = append(writes, invalidate)
	}

	g.GET("/venues", v.List, reads...)
	g.GET("/venues/:id", v.Get, reads...)
	g.GET("/venues/:id/availability", v.Availability)
	g.POST("/venues", v.Create, writes...)
	g.PATCH("/venues/:id", v.Update, writes...)
	g.PUT("/venues/:id", v.Update, writes...)
	g.DELETE("/venues/:id", v.Delete, writes...)
}
