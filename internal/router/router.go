// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hyunsol/choir-seating-map/internal/handler"
	"github.com/hyunsol/choir-seating-map/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// for load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; the protected /v1/me
// endpoint carries the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("DIRECTOR", "SINGER"))
	auth.GET("/me", a.Me)
}

// RegisterSeating registers every endpoint operating on the
// authenticated user's seating map: layout editing, roster management,
// seat assignment and the full map view. All routes require a valid
// access token; both roles may edit since each user owns a private map.
func RegisterSeating(e *echo.Echo, s *handler.SeatingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("DIRECTOR", "SINGER"))

	// Layout editing
	g.GET("/layout", s.GetLayout)
	g.POST("/layout/sections", s.CreateSection)
	g.DELETE("/layout/sections/:name", s.DeleteSection)
	g.POST("/layout/sections/:name/rows", s.CreateRow)
	g.DELETE("/layout/sections/:name/rows/:row", s.DeleteRow)
	g.PUT("/layout/sections/:name/rows/:row", s.UpdateSeatCount)

	// Roster management
	g.GET("/members", s.ListMembers)
	g.POST("/members", s.CreateMember)
	g.PUT("/members/:id", s.UpdateMember)
	g.DELETE("/members/:id", s.DeleteMember)

	// Seat assignment
	g.PUT("/seats", s.AssignSeat)
	g.DELETE("/seats", s.ClearSeat)
	g.GET("/seats/:section", s.ListSectionSeats)
	g.GET("/seats/:section/:row/:seat", s.GetSeat)

	// Whole aggregate
	g.GET("/map", s.GetMap)
}

// RegisterData registers the snapshot persistence and export endpoints.
func RegisterData(e *echo.Echo, d *handler.DataHandler, jwtSecret string) {
	g := e.Group("/v1/data")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("DIRECTOR", "SINGER"))

	g.POST("/local/save", d.SaveLocal)
	g.POST("/local/load", d.LoadLocal)
	g.POST("/remote/save", d.SaveRemote)
	g.POST("/remote/load", d.LoadRemote)
	g.POST("/restore", d.Restore)
	g.GET("/export.json", d.ExportJSON)
	g.GET("/export.csv", d.ExportCSV)
	g.POST("/import", d.ImportJSON)
}
