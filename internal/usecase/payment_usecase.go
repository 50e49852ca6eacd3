package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finetrack/internal/domain/entity"
	"finetrack/internal/domain/repository"
	"finetrack/internal/domain/service"
	"finetrack/pkg/errors"
	"finetrack/pkg/logger"
)

const succeededEventType = "payment_intent.succeeded"

type PaymentUseCase struct {
	fineRepo      repository.FineRepository
	violationRepo repository.ViolationRepository
	userRepo      repository.UserRepository
	gateway       service.PaymentGateway
}

func NewPaymentUseCase(
	fineRepo repository.FineRepository,
	violationRepo repository.ViolationRepository,
	userRepo repository.UserRepository,
	gateway service.PaymentGateway,
) *PaymentUseCase {
	return &PaymentUseCase{
		fineRepo:      fineRepo,
		violationRepo: violationRepo,
		userRepo:      userRepo,
		gateway:       gateway,
	}
}

// ReceiptNumber derives the deterministic receipt reference for a fine.
func ReceiptNumber(fineID string) string {
	id := strings.ReplaceAll(fineID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "RCPT-" + strings.ToUpper(id)
}

type PaymentIntentResult struct {
	IntentID      string    `json:"intent_id"`
	ClientSecret  string    `json:"client_secret"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	ViolationName string    `json:"violation_name"`
	DueDate       time.Time `json:"due_date"`
}

// loadAuthorizedFine resolves the fine and enforces the ownership rule shared
// by intent creation and confirmation: the fine's own driver or any staff.
func (uc *PaymentUseCase) loadAuthorizedFine(ctx context.Context, actorID, fineID string) (*entity.Fine, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	fine, err := uc.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}

	if actor.Role == entity.RoleDriver && fine.DriverID != actorID {
		return nil, errors.Forbidden("You can only pay your own fines", nil)
	}

	return fine, nil
}

// CreatePaymentIntent opens a gateway intent for the fine's exact amount.
// The fine itself is not mutated here.
func (uc *PaymentUseCase) CreatePaymentIntent(ctx context.Context, actorID, fineID string) (*PaymentIntentResult, error) {
	fine, err := uc.loadAuthorizedFine(ctx, actorID, fineID)
	if err != nil {
		return nil, err
	}

	if !fine.IsPayable(time.Now()) {
		return nil, errors.InvalidState("Fine is not payable in its current status", nil)
	}

	violation, err := uc.violationRepo.GetByID(ctx, fine.ViolationID)
	if err != nil {
		return nil, err
	}

	intent, err := uc.gateway.CreateIntent(ctx, service.CreateIntentRequest{
		AmountMinorUnits: fine.AmountMinorUnits(),
		Currency:         fine.Currency.String(),
		Description:      fmt.Sprintf("Traffic fine %s (%s)", fine.ID, violation.Code),
		Metadata: map[string]string{
			"fine_id":        fine.ID,
			"driver_id":      fine.DriverID,
			"violation_code": violation.Code,
			"plate_number":   fine.Vehicle.PlateNumber,
		},
	})
	if err != nil {
		return nil, err
	}

	return &PaymentIntentResult{
		IntentID:      intent.ID,
		ClientSecret:  intent.ClientSecret,
		Amount:        fine.Amount,
		Currency:      fine.Currency.String(),
		ViolationName: violation.Name,
		DueDate:       fine.DueDate,
	}, nil
}

// ConfirmPayment is the driver-initiated reconciliation path. It races with
// the gateway webhook on the same fine; both converge through the repo's
// conditional paid-transition, so a second confirmation with the same intent
// is a successful no-op.
func (uc *PaymentUseCase) ConfirmPayment(ctx context.Context, actorID, fineID, intentID string) (*entity.Fine, error) {
	fine, err := uc.loadAuthorizedFine(ctx, actorID, fineID)
	if err != nil {
		return nil, err
	}

	if fine.Status == entity.FineStatusPaid {
		return fine, nil
	}

	intent, err := uc.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	if intent.Status != service.IntentStatusSucceeded {
		return nil, errors.PaymentNotComplete("Payment has not completed at the gateway", nil)
	}
	if intent.Metadata["fine_id"] != fine.ID {
		return nil, errors.Mismatch("Payment intent does not belong to this fine", nil)
	}

	return uc.applyPaidTransition(ctx, fine.ID, actorID, intent)
}

func (uc *PaymentUseCase) applyPaidTransition(ctx context.Context, fineID, actorID string, intent *service.PaymentIntent) (*entity.Fine, error) {
	now := time.Now()
	payment := entity.PaymentInfo{
		IntentID:      intent.ID,
		Method:        intent.PaymentMethod,
		TransactionID: intent.TransactionID,
		ReceiptNumber: ReceiptNumber(fineID),
		PaidAt:        &now,
	}

	fine, applied, err := uc.fineRepo.MarkPaid(ctx, fineID, payment)
	if err != nil {
		return nil, err
	}

	if applied {
		note := &entity.FineNote{
			FineID:   fineID,
			Content:  fmt.Sprintf("Fine paid via %s (intent %s)", payment.Method, intent.ID),
			AuthorID: actorID,
		}
		if err := uc.fineRepo.CreateNote(ctx, note); err != nil {
			logger.LogNoteError(fineID, "payment", err)
		}
	}

	return fine, nil
}

// HandleGatewayEvent processes an inbound webhook. The signature check runs
// before any fine lookup and fails closed. Redelivered events and already
// paid fines are no-ops; unrecognized event types are acknowledged and
// ignored so the gateway does not retry them.
func (uc *PaymentUseCase) HandleGatewayEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := uc.gateway.VerifyNotification(payload, signatureHeader)
	if err != nil {
		return err
	}

	if event.Type != succeededEventType {
		logger.Debug("Ignoring gateway event type %s", event.Type)
		return nil
	}

	fineID := event.Intent.Metadata["fine_id"]
	if fineID == "" {
		logger.Warn("Gateway event %s carries no fine correlation id", event.ID)
		return nil
	}

	_, err = uc.applyPaidTransition(ctx, fineID, "gateway", &event.Intent)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			logger.Warn("Gateway event %s references unknown fine %s", event.ID, fineID)
			return nil
		}
		return err
	}

	return nil
}

type Receipt struct {
	ReceiptNumber string     `json:"receipt_number"`
	FineID        string     `json:"fine_id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	TransactionID string     `json:"transaction_id"`
	PaidAt        *time.Time `json:"paid_at"`
	ViolationName string     `json:"violation_name"`
}

// GetReceipt composes the receipt view for a paid fine. Pure read.
func (uc *PaymentUseCase) GetReceipt(ctx context.Context, actorID, fineID string) (*Receipt, error) {
	fine, err := uc.loadAuthorizedFine(ctx, actorID, fineID)
	if err != nil {
		return nil, err
	}

	if fine.Status != entity.FineStatusPaid {
		return nil, errors.InvalidState("Receipt is only available for paid fines", nil)
	}

	violation, err := uc.violationRepo.GetByID(ctx, fine.ViolationID)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		ReceiptNumber: ReceiptNumber(fine.ID),
		FineID:        fine.ID,
		Amount:        fine.Amount,
		Currency:      fine.Currency.String(),
		Method:        fine.Payment.Method,
		TransactionID: fine.Payment.TransactionID,
		PaidAt:        fine.Payment.PaidAt,
		ViolationName: violation.Name,
	}, nil
}
