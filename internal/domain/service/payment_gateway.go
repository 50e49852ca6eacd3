package service

import (
	"context"
)

// IntentStatus is the gateway-side state of a payment intent.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
)

// CreateIntentRequest opens a payment intent for an exact amount. Amount is
// in integer minor units (cents); Metadata is opaque correlation data the
// gateway echoes back on retrieval and in webhook events.
type CreateIntentRequest struct {
	AmountMinorUnits int64
	Currency         string
	Description      string
	Metadata         map[string]string
}

type PaymentIntent struct {
	ID            string
	ClientSecret  string
	Status        IntentStatus
	PaymentMethod string
	TransactionID string
	Metadata      map[string]string
}

// WebhookEvent is a verified gateway notification.
type WebhookEvent struct {
	ID     string
	Type   string
	Intent PaymentIntent
}

// PaymentGateway is the boundary to the external payment processor. Timeouts
// are the adapter's responsibility; unavailability surfaces as
// GATEWAY_UNAVAILABLE and is never retried locally.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error)

	// VerifyNotification authenticates a raw webhook payload against its
	// signature header before any parsing of business fields.
	VerifyNotification(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
