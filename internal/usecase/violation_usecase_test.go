package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"finetrack/internal/domain/entity"
	"finetrack/pkg/errors"
)

func validViolationInput() CreateViolationInput {
	return CreateViolationInput{
		Name:          "Illegal parking",
		Code:          "PKG-001",
		Description:   "Parking in a no-parking zone",
		DefaultAmount: 1000,
		Currency:      "LKR",
		Severity:      "minor",
		Category:      "parking",
		Points:        1,
	}
}

func TestCreateViolation(t *testing.T) {
	uc := NewViolationUseCase(newMemViolationRepo())

	violation, err := uc.CreateViolation(context.Background(), "admin-1", validViolationInput())
	assert.NoError(t, err)
	assert.True(t, violation.IsActive, "new catalog entries start active")
	assert.Equal(t, "admin-1", violation.CreatedBy)
	assert.Equal(t, entity.CurrencyLKR, violation.Currency)
}

func TestCreateViolationRejectsDuplicateCode(t *testing.T) {
	uc := NewViolationUseCase(newMemViolationRepo())
	ctx := context.Background()

	_, err := uc.CreateViolation(ctx, "admin-1", validViolationInput())
	assert.NoError(t, err)

	_, err = uc.CreateViolation(ctx, "admin-1", validViolationInput())
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestCreateViolationValidation(t *testing.T) {
	uc := NewViolationUseCase(newMemViolationRepo())
	ctx := context.Background()

	badCode := validViolationInput()
	badCode.Code = "PKG 001"
	_, err := uc.CreateViolation(ctx, "admin-1", badCode)
	assert.True(t, errors.Is(err, "VALIDATION_FAILED"))

	badCurrency := validViolationInput()
	badCurrency.Currency = "JPY"
	_, err = uc.CreateViolation(ctx, "admin-1", badCurrency)
	assert.True(t, errors.Is(err, "VALIDATION_FAILED"))

	badSeverity := validViolationInput()
	badSeverity.Severity = "extreme"
	_, err = uc.CreateViolation(ctx, "admin-1", badSeverity)
	assert.True(t, errors.Is(err, "VALIDATION_FAILED"))

	negativeAmount := validViolationInput()
	negativeAmount.DefaultAmount = -50
	_, err = uc.CreateViolation(ctx, "admin-1", negativeAmount)
	assert.True(t, errors.Is(err, "VALIDATION_FAILED"))
}

func TestUpdateViolationPatchesFields(t *testing.T) {
	uc := NewViolationUseCase(newMemViolationRepo())
	ctx := context.Background()

	violation, err := uc.CreateViolation(ctx, "admin-1", validViolationInput())
	assert.NoError(t, err)

	amount := 1500.0
	name := "Illegal parking (revised)"
	updated, err := uc.UpdateViolation(ctx, violation.ID, UpdateViolationInput{
		Name:          &name,
		DefaultAmount: &amount,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, updated.DefaultAmount)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "PKG-001", updated.Code, "untouched fields are preserved")

	negative := -10.0
	_, err = uc.UpdateViolation(ctx, violation.ID, UpdateViolationInput{DefaultAmount: &negative})
	assert.True(t, errors.Is(err, "VALIDATION_FAILED"))
}

func TestDeactivateViolation(t *testing.T) {
	repo := newMemViolationRepo()
	uc := NewViolationUseCase(repo)
	ctx := context.Background()

	violation, err := uc.CreateViolation(ctx, "admin-1", validViolationInput())
	assert.NoError(t, err)

	deactivated, err := uc.DeactivateViolation(ctx, violation.ID)
	assert.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	active, _, err := uc.ListViolations(ctx, "", true, 1, 20)
	assert.NoError(t, err)
	assert.Empty(t, active)

	all, _, err := uc.ListViolations(ctx, "", false, 1, 20)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}
