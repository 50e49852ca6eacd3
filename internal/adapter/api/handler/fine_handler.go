package handler

import (
	"github.com/labstack/echo/v4"

	"finetrack/internal/domain/entity"
	"finetrack/internal/usecase"
	"finetrack/pkg/errors"
	"finetrack/pkg/response"
	"finetrack/pkg/utils"
)

type FineHandler struct {
	fineUseCase *usecase.FineUseCase
}

func NewFineHandler(fineUseCase *usecase.FineUseCase) *FineHandler {
	return &FineHandler{
		fineUseCase: fineUseCase,
	}
}

type createFineRequest struct {
	DriverID     string   `json:"driver_id" validate:"required"`
	ViolationID  string   `json:"violation_id" validate:"required"`
	Message      string   `json:"message" validate:"required,max=1000"`
	Latitude     float64  `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    float64  `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address      string   `json:"address,omitempty"`
	City         string   `json:"city,omitempty"`
	Province     string   `json:"province,omitempty"`
	PlateNumber  string   `json:"plate_number" validate:"required"`
	VehicleType  string   `json:"vehicle_type" validate:"required,oneof=car motorcycle three_wheeler van bus lorry other"`
	VehicleMake  string   `json:"vehicle_make,omitempty"`
	VehicleModel string   `json:"vehicle_model,omitempty"`
	VehicleColor string   `json:"vehicle_color,omitempty"`
	CustomAmount *float64 `json:"custom_amount,omitempty"`
	Tags         []string `json:"tags,omitempty" validate:"dive,max=50"`
}

func (h *FineHandler) CreateFine(c echo.Context) error {
	var req createFineRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actorID := c.Get("uid").(string)

	fine, err := h.fineUseCase.CreateFine(c.Request().Context(), actorID, usecase.CreateFineInput{
		DriverID:    req.DriverID,
		ViolationID: req.ViolationID,
		Message:     req.Message,
		Location: entity.Location{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Address:   req.Address,
			City:      req.City,
			Province:  req.Province,
		},
		Vehicle: entity.Vehicle{
			PlateNumber: req.PlateNumber,
			Type:        entity.VehicleType(req.VehicleType),
			Make:        req.VehicleMake,
			Model:       req.VehicleModel,
			Color:       req.VehicleColor,
		},
		CustomAmount: req.CustomAmount,
		Tags:         req.Tags,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, fine)
}

func (h *FineHandler) GetFine(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	actorID := c.Get("uid").(string)

	fine, err := h.fineUseCase.GetFine(c.Request().Context(), actorID, fineID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, fine)
}

func (h *FineHandler) ListFines(c echo.Context) error {
	status := c.QueryParam("status")
	driverID := c.QueryParam("driver_id")
	pagination := utils.GetPaginationParams(c)

	actorID := c.Get("uid").(string)

	fines, total, err := h.fineUseCase.ListFines(
		c.Request().Context(),
		actorID,
		driverID,
		status,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, fines, total, pagination.Page, pagination.PageSize)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid disputed cancelled overdue"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

func (h *FineHandler) UpdateStatus(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actorID := c.Get("uid").(string)

	fine, err := h.fineUseCase.UpdateStatus(
		c.Request().Context(),
		actorID,
		fineID,
		entity.FineStatus(req.Status),
		req.Reason,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, fine)
}

type resolveDisputeRequest struct {
	Accept bool   `json:"accept"`
	Note   string `json:"note,omitempty" validate:"max=500"`
}

func (h *FineHandler) ResolveDispute(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	var req resolveDisputeRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actorID := c.Get("uid").(string)

	fine, err := h.fineUseCase.ResolveDispute(c.Request().Context(), actorID, fineID, req.Accept, req.Note)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, fine)
}

type addNoteRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

func (h *FineHandler) AddNote(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actorID := c.Get("uid").(string)

	note, err := h.fineUseCase.AddNote(c.Request().Context(), actorID, fineID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, note)
}

func (h *FineHandler) ListNotes(c echo.Context) error {
	fineID := c.Param("id")
	if fineID == "" {
		return response.Error(c, errors.BadRequest("Fine ID is required", nil))
	}

	actorID := c.Get("uid").(string)

	notes, err := h.fineUseCase.ListNotes(c.Request().Context(), actorID, fineID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, notes)
}

func (h *FineHandler) Stats(c echo.Context) error {
	actorID := c.Get("uid").(string)

	stats, err := h.fineUseCase.Stats(c.Request().Context(), actorID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
