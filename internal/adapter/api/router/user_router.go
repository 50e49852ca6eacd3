package router

import (
	"github.com/labstack/echo/v4"

	"finetrack/internal/adapter/api/handler"
	"finetrack/internal/adapter/api/middleware"
)

// SetupUserRouter initializes user profile and admin user-management routes
func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.PUT("/me/password", userHandler.UpdatePassword)

	// Admin endpoints
	admin := e.Group("/v1/admin/users")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(roleMiddleware.AdminOnly)

	admin.GET("", userHandler.ListUsers)
	admin.POST("", userHandler.CreateStaffUser)
	admin.PATCH("/:id/status", userHandler.SetUserStatus)
}
