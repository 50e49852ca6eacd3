package router

import (
	"github.com/labstack/echo/v4"

	"finetrack/internal/adapter/api/handler"
	"finetrack/internal/adapter/api/middleware"
)

// SetupViolationRouter initializes violation catalog routes
func SetupViolationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	violationHandler := handler.GetViolationHandler()

	// Catalog is readable by any authenticated user
	violations := e.Group("/v1/violations")
	violations.Use(authMiddleware.Authenticate)

	violations.GET("", violationHandler.ListViolations)
	violations.GET("/:id", violationHandler.GetViolation)

	// Admin management endpoints
	admin := e.Group("/v1/admin/violations")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(roleMiddleware.AdminOnly)

	admin.POST("", violationHandler.CreateViolation)
	admin.PATCH("/:id", violationHandler.UpdateViolation)
	admin.DELETE("/:id", violationHandler.DeactivateViolation)
}
