package router

import (
	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/handler"
	"github.com/evzav/lab-resource-loans/internal/middleware"
	"github.com/evzav/lab-resource-loans/internal/model"
)

// Handlers bundles everything RegisterStaff needs to wire the protected
// API surface.
type Handlers struct {
	Rooms      *handler.RoomHandler
	Equipment  *handler.EquipmentHandler
	Units      *handler.RoomUnitHandler
	Students   *handler.StudentHandler
	Professors *handler.ProfessorHandler
	Campuses   *handler.CampusHandler
	Projects   *handler.ProjectHandler
	Loans      *handler.LoanHandler
	Dashboard  *handler.DashboardHandler
	Export     *handler.ExportHandler
}

// RegisterStaff registers the protected endpoints under /v1. Every
// route requires a valid staff token; destructive registry operations
// additionally require the ADMIN role. The extra middleware (rate
// limiting, response caching) is applied to the whole group.
func RegisterStaff(e *echo.Echo, h Handlers, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleStaff),
	}, extra...)
	g := e.Group("/v1", mws...)
	admin := middleware.RequireRole(model.RoleAdmin)

	// Rooms
	g.POST("/rooms", h.Rooms.Create)
	g.GET("/rooms", h.Rooms.List)
	g.GET("/rooms/:code", h.Rooms.Get)
	g.PUT("/rooms/:code", h.Rooms.Update)
	g.DELETE("/rooms/:code", h.Rooms.Delete, admin)

	// Room-fixed units
	g.POST("/rooms/:code/units", h.Units.Create)
	g.GET("/rooms/:code/units", h.Units.ListByRoom)
	g.GET("/units/:code", h.Units.Get)
	g.PATCH("/units/:code/status", h.Units.SetStatus)
	g.DELETE("/units/:code", h.Units.Delete, admin)

	// Equipment
	g.POST("/equipment", h.Equipment.Create)
	g.GET("/equipment", h.Equipment.List)
	g.GET("/equipment/:code", h.Equipment.Get)
	g.PUT("/equipment/:code", h.Equipment.Update)
	g.DELETE("/equipment/:code", h.Equipment.Delete, admin)
	g.POST("/equipment/:code/damaged", h.Equipment.MarkDamaged)
	g.DELETE("/equipment/:code/damaged", h.Equipment.ClearDamaged)

	// Borrower registries
	g.POST("/students", h.Students.Create)
	g.GET("/students", h.Students.List)
	g.GET("/students/:code", h.Students.Get)
	g.PUT("/students/:code", h.Students.Update)
	g.DELETE("/students/:code", h.Students.Delete, admin)

	g.POST("/professors", h.Professors.Create)
	g.GET("/professors", h.Professors.List)
	g.GET("/professors/:code", h.Professors.Get)
	g.PUT("/professors/:code", h.Professors.Update)
	g.DELETE("/professors/:code", h.Professors.Delete, admin)

	// Supporting registries
	g.POST("/campuses", h.Campuses.Create)
	g.GET("/campuses", h.Campuses.List)
	g.GET("/campuses/:id", h.Campuses.Get)
	g.PUT("/campuses/:id", h.Campuses.Update)
	g.DELETE("/campuses/:id", h.Campuses.Delete, admin)

	g.POST("/projects", h.Projects.Create)
	g.GET("/projects", h.Projects.List)
	g.GET("/projects/:id", h.Projects.Get)
	g.PUT("/projects/:id", h.Projects.Update)
	g.DELETE("/projects/:id", h.Projects.Delete, admin)

	// Availability and loans
	g.GET("/availability/:resource/:code", h.Loans.Availability)
	g.POST("/loans", h.Loans.Checkout)
	g.GET("/loans", h.Loans.List)
	g.GET("/loans/:resource/:borrower/:id", h.Loans.Get)
	g.POST("/loans/:resource/:borrower/:id/return", h.Loans.Return)
	g.DELETE("/loans/:resource/:borrower/:id", h.Loans.Delete, admin)

	// Dashboard and export
	g.GET("/dashboard", h.Dashboard.Get)
	g.GET("/export", h.Export.Get, admin)
}
