package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dileeka1998/Event-Planner-sub000/internal/handler"
	"github.com/dileeka1998/Event-Planner-sub000/internal/middleware"
)

// EventHandlers groups the handlers mounted under /v1/events.
type EventHandlers struct {
	Events    *handler.EventHandler
	Attendees *handler.AttendeeHandler
	Budgets   *handler.BudgetHandler
	Schedules *handler.ScheduleHandler
	Program   *handler.ProgramHandler
}

// RegisterEvents registers event, attendee, budget, schedule, room and
// session endpoints.  Reads and registration are open to every
// authenticated role; mutations need ORGANIZER or ADMIN, and the services
// additionally check that the caller organizes the event.
func RegisterEvents(e *echo.Echo, h EventHandlers, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(anyRole...))
	manage := middleware.RequireRole(managerRole...)

	// ---- Events ----
	g.GET("/events", h.Events.List)
	g.GET("/events/:id", h.Events.Get)
	g.GET("/events/:id/capacity", h.Events.CapacitySnapshot)
	g.POST("/events", h.Events.Create, manage)
	g.PATCH("/events/:id", h.Events.Update, manage)
	g.PUT("/events/:id", h.Events.Update, manage)
	g.DELETE("/events/:id", h.Events.Delete, manage)

	// ---- Attendees ----
	g.POST("/events/:id/attendees", h.Attendees.Register)
	g.DELETE("/events/:id/attendees/me", h.Attendees.Leave)
	g.GET("/events/:id/attendees", h.Attendees.List, manage)

	// ---- Budget ----
	g.GET("/events/:id/budget", h.Budgets.Get, manage)
	g.POST("/events/:id/budget/items", h.Budgets.CreateItem, manage)
	g.PATCH("/events/:id/budget/items/:itemId", h.Budgets.UpdateItem, manage)
	g.DELETE("/events/:id/budget/items/:itemId", h.Budgets.DeleteItem, manage)

	// ---- Schedule ----
	g.POST("/events/:id/schedule", h.Schedules.Generate, manage)
	g.POST("/events/:id/schedule/apply", h.Schedules.Apply, manage)

	// ---- Rooms ----
	g.GET("/events/:id/rooms", h.Program.ListRooms)
	g.POST("/events/:id/rooms", h.Program.CreateRoom, manage)
	g.PATCH("/events/:id/rooms/:roomId", h.Program.UpdateRoom, manage)
	g.DELETE("/events/:id/rooms/:roomId", h.Program.DeleteRoom, manage)

	// ---- Sessions ----
	g.GET("/events/:id/sessions", h.Program.ListSessions)
	g.POST("/events/:id/sessions", h.Program.CreateSession, manage)
	g.PATCH("/events/:id/sessions/:sessionId", h.Program.UpdateSession, manage)
	g.DELETE("/events/:id/sessions/:sessionId", h.Program.DeleteSession, manage)
}
