package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		status   FineStatus
		dueDate  time.Time
		expected FineStatus
	}{
		{"pending before due date", FineStatusPending, now.Add(24 * time.Hour), FineStatusPending},
		{"pending past due date", FineStatusPending, now.Add(-24 * time.Hour), FineStatusOverdue},
		{"paid past due date stays paid", FineStatusPaid, now.Add(-24 * time.Hour), FineStatusPaid},
		{"disputed past due date stays disputed", FineStatusDisputed, now.Add(-24 * time.Hour), FineStatusDisputed},
		{"cancelled past due date stays cancelled", FineStatusCancelled, now.Add(-24 * time.Hour), FineStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fine := &Fine{Status: tt.status, DueDate: tt.dueDate}
			assert.Equal(t, tt.expected, fine.EffectiveStatus(now))
		})
	}
}

func TestEffectiveStatusDoesNotTouchDueDate(t *testing.T) {
	now := time.Now()
	due := now.Add(-time.Hour)
	fine := &Fine{Status: FineStatusPending, DueDate: due}

	assert.Equal(t, FineStatusOverdue, fine.EffectiveStatus(now))
	assert.Equal(t, due, fine.DueDate)
	assert.Equal(t, FineStatusPending, fine.Status)
}

func TestIsPayable(t *testing.T) {
	now := time.Now()

	payable := &Fine{Status: FineStatusPending, DueDate: now.Add(time.Hour)}
	assert.True(t, payable.IsPayable(now))

	overdue := &Fine{Status: FineStatusPending, DueDate: now.Add(-time.Hour)}
	assert.True(t, overdue.IsPayable(now))

	for _, status := range []FineStatus{FineStatusPaid, FineStatusDisputed, FineStatusCancelled} {
		fine := &Fine{Status: status, DueDate: now.Add(time.Hour)}
		assert.False(t, fine.IsPayable(now), "status %s should not be payable", status)
	}
}

func TestCanDispute(t *testing.T) {
	now := time.Now()

	overdue := &Fine{Status: FineStatusPending, DueDate: now.Add(-time.Hour)}
	assert.True(t, overdue.CanDispute(now))

	paid := &Fine{Status: FineStatusPaid}
	assert.False(t, paid.CanDispute(now))

	disputed := &Fine{Status: FineStatusDisputed}
	assert.False(t, disputed.CanDispute(now))
}

func TestAmountMinorUnits(t *testing.T) {
	tests := []struct {
		amount   float64
		expected int64
	}{
		{2500, 250000},
		{10.50, 1050},
		{0.1, 10},
		{19.99, 1999},
		{0, 0},
	}

	for _, tt := range tests {
		fine := &Fine{Amount: tt.amount}
		assert.Equal(t, tt.expected, fine.AmountMinorUnits())
	}
}

func TestFineStatusIsValid(t *testing.T) {
	for _, s := range []FineStatus{FineStatusPending, FineStatusPaid, FineStatusDisputed, FineStatusCancelled, FineStatusOverdue} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, FineStatus("refunded").IsValid())
	assert.False(t, FineStatus("").IsValid())
}

func TestCurrencyIsValid(t *testing.T) {
	for _, c := range []Currency{CurrencyLKR, CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR, CurrencyAUD} {
		assert.True(t, c.IsValid())
	}
	assert.False(t, Currency("JPY").IsValid())
}

func TestVehicleTypeIsValid(t *testing.T) {
	for _, v := range []VehicleType{VehicleCar, VehicleMotorcycle, VehicleThreeWheeler, VehicleVan, VehicleBus, VehicleLorry, VehicleOther} {
		assert.True(t, v.IsValid())
	}
	assert.False(t, VehicleType("bicycle").IsValid())
}
