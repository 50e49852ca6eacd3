package router

import (
	"github.com/labstack/echo/v4"

	"finetrack/internal/adapter/api/handler"
	"finetrack/internal/adapter/api/middleware"
)

// SetupFineRouter initializes fine lifecycle routes
func SetupFineRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	fineHandler := handler.GetFineHandler()

	fines := e.Group("/v1/fines")
	fines.Use(authMiddleware.Authenticate)

	// Visibility is role-scoped inside the use case: drivers see their own
	// fines, officers the ones they issued, admins everything.
	fines.GET("", fineHandler.ListFines)
	fines.GET("/stats", fineHandler.Stats, roleMiddleware.StaffOnly)
	fines.GET("/:id", fineHandler.GetFine)
	fines.GET("/:id/notes", fineHandler.ListNotes)

	fines.POST("", fineHandler.CreateFine, roleMiddleware.StaffOnly)
	fines.PATCH("/:id/status", fineHandler.UpdateStatus)
	fines.POST("/:id/notes", fineHandler.AddNote, roleMiddleware.StaffOnly)

	// Dispute resolution is a staff action
	admin := e.Group("/v1/admin/fines")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(roleMiddleware.StaffOnly)

	admin.POST("/:id/resolve-dispute", fineHandler.ResolveDispute)
}
