package router

import (
	"github.com/labstack/echo/v4"

	"finetrack/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware, roleMiddleware)
	SetupViolationRouter(e, authMiddleware, roleMiddleware)
	SetupFineRouter(e, authMiddleware, roleMiddleware)
	SetupPaymentRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
