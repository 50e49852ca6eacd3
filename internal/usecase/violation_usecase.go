package usecase

import (
	"context"

	"finetrack/internal/domain/entity"
	"finetrack/internal/domain/repository"
	"finetrack/pkg/errors"
	"finetrack/pkg/utils"
)

type ViolationUseCase struct {
	violationRepo repository.ViolationRepository
}

func NewViolationUseCase(violationRepo repository.ViolationRepository) *ViolationUseCase {
	return &ViolationUseCase{
		violationRepo: violationRepo,
	}
}

type CreateViolationInput struct {
	Name          string
	Code          string
	Description   string
	DefaultAmount float64
	Currency      string
	Severity      string
	Category      string
	Points        int
}

func (uc *ViolationUseCase) CreateViolation(ctx context.Context, adminID string, input CreateViolationInput) (*entity.TrafficViolation, error) {
	if !entity.IsValidViolationCode(input.Code) {
		return nil, errors.ValidationFailed("Violation code must be alphanumeric with optional hyphens", nil)
	}
	if input.DefaultAmount < 0 {
		return nil, errors.ValidationFailed("Default amount must be non-negative", nil)
	}
	currency := entity.Currency(input.Currency)
	if !currency.IsValid() {
		return nil, errors.ValidationFailed("Unsupported currency code", nil)
	}
	severity := entity.ViolationSeverity(input.Severity)
	if !severity.IsValid() {
		return nil, errors.ValidationFailed("Invalid severity level", nil)
	}
	category := entity.ViolationCategory(input.Category)
	if !category.IsValid() {
		return nil, errors.ValidationFailed("Invalid violation category", nil)
	}

	if existing, err := uc.violationRepo.GetByCode(ctx, input.Code); err == nil && existing != nil {
		return nil, errors.Conflict("A violation with this code already exists")
	}

	violation := &entity.TrafficViolation{
		Name:          input.Name,
		Code:          input.Code,
		Description:   input.Description,
		DefaultAmount: input.DefaultAmount,
		Currency:      currency,
		Severity:      severity,
		Category:      category,
		Points:        input.Points,
		IsActive:      true,
		CreatedBy:     adminID,
	}

	if err := uc.violationRepo.Create(ctx, violation); err != nil {
		return nil, err
	}

	return violation, nil
}

type UpdateViolationInput struct {
	Name          *string
	Description   *string
	DefaultAmount *float64
	Severity      *string
	Category      *string
	Points        *int
	IsActive      *bool
}

func (uc *ViolationUseCase) UpdateViolation(ctx context.Context, id string, input UpdateViolationInput) (*entity.TrafficViolation, error) {
	violation, err := uc.violationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		violation.Name = *input.Name
	}
	if input.Description != nil {
		violation.Description = *input.Description
	}
	if input.DefaultAmount != nil {
		if *input.DefaultAmount < 0 {
			return nil, errors.ValidationFailed("Default amount must be non-negative", nil)
		}
		violation.DefaultAmount = *input.DefaultAmount
	}
	if input.Severity != nil {
		severity := entity.ViolationSeverity(*input.Severity)
		if !severity.IsValid() {
			return nil, errors.ValidationFailed("Invalid severity level", nil)
		}
		violation.Severity = severity
	}
	if input.Category != nil {
		category := entity.ViolationCategory(*input.Category)
		if !category.IsValid() {
			return nil, errors.ValidationFailed("Invalid violation category", nil)
		}
		violation.Category = category
	}
	if input.Points != nil {
		violation.Points = *input.Points
	}
	if input.IsActive != nil {
		violation.IsActive = *input.IsActive
	}

	if err := uc.violationRepo.Update(ctx, violation); err != nil {
		return nil, err
	}

	return violation, nil
}

// DeactivateViolation retires a catalog entry. Existing fines keep their
// reference; no new fines can be issued against it.
func (uc *ViolationUseCase) DeactivateViolation(ctx context.Context, id string) (*entity.TrafficViolation, error) {
	violation, err := uc.violationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	violation.IsActive = false
	if err := uc.violationRepo.Update(ctx, violation); err != nil {
		return nil, err
	}

	return violation, nil
}

func (uc *ViolationUseCase) GetViolation(ctx context.Context, id string) (*entity.TrafficViolation, error) {
	return uc.violationRepo.GetByID(ctx, id)
}

func (uc *ViolationUseCase) ListViolations(ctx context.Context, category string, activeOnly bool, page, limit int) ([]*entity.TrafficViolation, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	filter := repository.ViolationFilter{
		Category:   category,
		ActiveOnly: activeOnly,
	}
	return uc.violationRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
}
