package router

import (
	"github.com/labstack/echo/v4"

	"finetrack/internal/adapter/api/handler"
	"finetrack/internal/adapter/api/middleware"
)

// SetupPaymentRouter initializes payment and receipt routes
func SetupPaymentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	paymentHandler := handler.GetPaymentHandler()

	fines := e.Group("/v1/fines")
	fines.Use(authMiddleware.Authenticate)

	fines.POST("/:id/pay", paymentHandler.CreatePaymentIntent)
	fines.POST("/:id/confirm", paymentHandler.ConfirmPayment)
	fines.GET("/:id/receipt", paymentHandler.GetReceipt)

	// Webhook is unauthenticated; authenticity comes from the signature
	// check inside the handler.
	e.POST("/v1/payments/webhook", paymentHandler.GatewayWebhook)
}
