package handler

import (
	"github.com/labstack/echo/v4"

	"finetrack/internal/usecase"
	"finetrack/pkg/errors"
	"finetrack/pkg/response"
	"finetrack/pkg/utils"
)

type ViolationHandler struct {
	violationUseCase *usecase.ViolationUseCase
}

func NewViolationHandler(violationUseCase *usecase.ViolationUseCase) *ViolationHandler {
	return &ViolationHandler{
		violationUseCase: violationUseCase,
	}
}

type createViolationRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Code          string  `json:"code" validate:"required,max=20"`
	Description   string  `json:"description,omitempty" validate:"max=1000"`
	DefaultAmount float64 `json:"default_amount" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"required,oneof=LKR USD EUR GBP INR AUD"`
	Severity      string  `json:"severity" validate:"required,oneof=minor low severe death_severe"`
	Category      string  `json:"category" validate:"required,oneof=speed parking signal documentation safety alcohol other"`
	Points        int     `json:"points" validate:"gte=0"`
}

func (h *ViolationHandler) CreateViolation(c echo.Context) error {
	var req createViolationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID := c.Get("uid").(string)

	violation, err := h.violationUseCase.CreateViolation(c.Request().Context(), adminID, usecase.CreateViolationInput{
		Name:          req.Name,
		Code:          req.Code,
		Description:   req.Description,
		DefaultAmount: req.DefaultAmount,
		Currency:      req.Currency,
		Severity:      req.Severity,
		Category:      req.Category,
		Points:        req.Points,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, violation)
}

type updateViolationRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	DefaultAmount *float64 `json:"default_amount,omitempty" validate:"omitempty,gte=0"`
	Severity      *string  `json:"severity,omitempty" validate:"omitempty,oneof=minor low severe death_severe"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,oneof=speed parking signal documentation safety alcohol other"`
	Points        *int     `json:"points,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

func (h *ViolationHandler) UpdateViolation(c echo.Context) error {
	violationID := c.Param("id")
	if violationID == "" {
		return response.Error(c, errors.BadRequest("Violation ID is required", nil))
	}

	var req updateViolationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	violation, err := h.violationUseCase.UpdateViolation(c.Request().Context(), violationID, usecase.UpdateViolationInput{
		Name:          req.Name,
		Description:   req.Description,
		DefaultAmount: req.DefaultAmount,
		Severity:      req.Severity,
		Category:      req.Category,
		Points:        req.Points,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, violation)
}

func (h *ViolationHandler) DeactivateViolation(c echo.Context) error {
	violationID := c.Param("id")
	if violationID == "" {
		return response.Error(c, errors.BadRequest("Violation ID is required", nil))
	}

	violation, err := h.violationUseCase.DeactivateViolation(c.Request().Context(), violationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, violation)
}

func (h *ViolationHandler) GetViolation(c echo.Context) error {
	violationID := c.Param("id")
	if violationID == "" {
		return response.Error(c, errors.BadRequest("Violation ID is required", nil))
	}

	violation, err := h.violationUseCase.GetViolation(c.Request().Context(), violationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, violation)
}

func (h *ViolationHandler) ListViolations(c echo.Context) error {
	category := c.QueryParam("category")
	activeOnly := c.QueryParam("active") == "true"
	pagination := utils.GetPaginationParams(c)

	violations, total, err := h.violationUseCase.ListViolations(
		c.Request().Context(),
		category,
		activeOnly,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, violations, total, pagination.Page, pagination.PageSize)
}
