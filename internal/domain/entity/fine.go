package entity

import (
	"math"
	"time"
)

type FineStatus string

const (
	FineStatusPending   FineStatus = "pending"
	FineStatusPaid      FineStatus = "paid"
	FineStatusDisputed  FineStatus = "disputed"
	FineStatusCancelled FineStatus = "cancelled"
	FineStatusOverdue   FineStatus = "overdue"
)

func (s FineStatus) String() string {
	return string(s)
}

func (s FineStatus) IsValid() bool {
	switch s {
	case FineStatusPending, FineStatusPaid, FineStatusDisputed,
		FineStatusCancelled, FineStatusOverdue:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyLKR Currency = "LKR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyAUD Currency = "AUD"
)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyLKR, CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR, CurrencyAUD:
		return true
	}
	return false
}

type VehicleType string

const (
	VehicleCar          VehicleType = "car"
	VehicleMotorcycle   VehicleType = "motorcycle"
	VehicleThreeWheeler VehicleType = "three_wheeler"
	VehicleVan          VehicleType = "van"
	VehicleBus          VehicleType = "bus"
	VehicleLorry        VehicleType = "lorry"
	VehicleOther        VehicleType = "other"
)

func (v VehicleType) String() string {
	return string(v)
}

func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleCar, VehicleMotorcycle, VehicleThreeWheeler, VehicleVan,
		VehicleBus, VehicleLorry, VehicleOther:
		return true
	}
	return false
}

type DisputeResolution string

const (
	DisputePending  DisputeResolution = "pending"
	DisputeAccepted DisputeResolution = "accepted"
	DisputeRejected DisputeResolution = "rejected"
)

type Location struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
	Address   string  `json:"address,omitempty" firestore:"address,omitempty"`
	City      string  `json:"city,omitempty" firestore:"city,omitempty"`
	Province  string  `json:"province,omitempty" firestore:"province,omitempty"`
}

type Vehicle struct {
	PlateNumber string      `json:"plate_number" firestore:"plateNumber"`
	Type        VehicleType `json:"type" firestore:"type"`
	Make        string      `json:"make,omitempty" firestore:"make,omitempty"`
	Model       string      `json:"model,omitempty" firestore:"model,omitempty"`
	Color       string      `json:"color,omitempty" firestore:"color,omitempty"`
}

// PaymentInfo is populated exactly once, when the fine transitions to paid,
// and is immutable afterwards.
type PaymentInfo struct {
	IntentID      string     `json:"intent_id,omitempty" firestore:"intentId,omitempty"`
	Method        string     `json:"method,omitempty" firestore:"method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty" firestore:"transactionId,omitempty"`
	ReceiptNumber string     `json:"receipt_number,omitempty" firestore:"receiptNumber,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty" firestore:"paidAt,omitempty"`
}

type DisputeInfo struct {
	IsDisputed bool              `json:"is_disputed" firestore:"isDisputed"`
	Reason     string            `json:"reason,omitempty" firestore:"reason,omitempty"`
	DisputedAt *time.Time        `json:"disputed_at,omitempty" firestore:"disputedAt,omitempty"`
	Resolution DisputeResolution `json:"resolution,omitempty" firestore:"resolution,omitempty"`
	ResolvedBy string            `json:"resolved_by,omitempty" firestore:"resolvedBy,omitempty"`
	ResolvedAt *time.Time        `json:"resolved_at,omitempty" firestore:"resolvedAt,omitempty"`
}

// Fine is a single issued traffic-violation record tied to one driver, one
// officer and one violation type. Fines are never physically deleted;
// cancellation is a status.
type Fine struct {
	ID          string `json:"id" firestore:"id"`
	DriverID    string `json:"driver_id" firestore:"driverId"`
	OfficerID   string `json:"officer_id" firestore:"officerId"`
	ViolationID string `json:"violation_id" firestore:"violationId"`

	Amount   float64  `json:"amount" firestore:"amount"`
	Currency Currency `json:"currency" firestore:"currency"`

	Message  string   `json:"message" firestore:"message"`
	Location Location `json:"location" firestore:"location"`
	Vehicle  Vehicle  `json:"vehicle" firestore:"vehicle"`
	Tags     []string `json:"tags,omitempty" firestore:"tags,omitempty"`

	Status  FineStatus  `json:"status" firestore:"status"`
	DueDate time.Time   `json:"due_date" firestore:"dueDate"`
	Payment PaymentInfo `json:"payment" firestore:"payment"`
	Dispute DisputeInfo `json:"dispute" firestore:"dispute"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// FineNote is a single append-only audit entry on a fine. Notes record both
// explicit staff annotations and derived status-change messages.
type FineNote struct {
	ID        string    `json:"id" firestore:"id"`
	FineID    string    `json:"fine_id" firestore:"fineId"`
	Content   string    `json:"content" firestore:"content"`
	AuthorID  string    `json:"author_id" firestore:"authorId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// EffectiveStatus derives the status a fine must present at any read or
// write boundary: a pending fine past its due date presents as overdue.
// The due date itself is never altered by this derivation.
func (f *Fine) EffectiveStatus(now time.Time) FineStatus {
	if f.Status == FineStatusPending && now.After(f.DueDate) {
		return FineStatusOverdue
	}
	return f.Status
}

// IsPayable reports whether a payment intent may be opened for the fine.
func (f *Fine) IsPayable(now time.Time) bool {
	s := f.EffectiveStatus(now)
	return s == FineStatusPending || s == FineStatusOverdue
}

// CanDispute reports whether the fine can still enter the disputed state.
// A fine that has been paid can no longer be disputed.
func (f *Fine) CanDispute(now time.Time) bool {
	s := f.EffectiveStatus(now)
	return s == FineStatusPending || s == FineStatusOverdue
}

// AmountMinorUnits returns the fine amount in integer minor units (cents),
// the form required by the payment gateway.
func (f *Fine) AmountMinorUnits() int64 {
	return int64(math.Round(f.Amount * 100))
}
