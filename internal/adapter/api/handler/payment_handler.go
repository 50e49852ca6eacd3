package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"finetrack/internal/usecase"
	"finetrack/pkg/errors"
	"finetrack/pkg/logger"
	"finetrack/pkg/response"
)

// SignatureHeader carries the gateway's webhook signature.
const SignatureHeader = "Gateway-Signature"

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	actorID := c.Get("uid").(string)

	result, err := h.paymentUseCase.CreatePaymentIntent(c.Request().Context(), actorID, fineID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

type confirmPaymentRequest struct {
	IntentID string `json:"intent_id" validate:"required"`
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actorID := c.Get("uid").(string)

	fine, err := h.paymentUseCase.ConfirmPayment(c.Request().Context(), actorID, fineID, req.IntentID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, fine)
}

// GatewayWebhook receives asynchronous payment notifications. Signature
// verification happens inside the use case before any fine lookup; a
// signature failure is the only case answered with 401. Processing errors
// still return 200 so the gateway does not retry events we cannot use.
func (h *PaymentHandler) GatewayWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read webhook payload", err))
	}

	signature := c.Request().Header.Get(SignatureHeader)

	err = h.paymentUseCase.HandleGatewayEvent(c.Request().Context(), payload, signature)
	if err != nil {
		if errors.Is(err, "SIGNATURE_INVALID") {
			logger.Warn("Webhook signature verification failed from %s", c.RealIP())
			return c.JSON(http.StatusUnauthorized, map[string]string{"status": "UNAUTHORIZED"})
		}

		logger.Error("Failed to process gateway webhook: %v", err)
		return c.JSON(http.StatusOK, map[string]string{"status": "ERROR_PROCESSED"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

func (h *PaymentHandler) GetReceipt(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	actorID := c.Get("uid").(string)

	receipt, err := h.paymentUseCase.GetReceipt(c.Request().Context(), actorID, fineID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, receipt)
}
