package usecase

import (
	"context"
	"fmt"
	"time"

	"finetrack/internal/domain/entity"
	"finetrack/internal/domain/repository"
	"finetrack/pkg/errors"
	"finetrack/pkg/logger"
	"finetrack/pkg/utils"
)

const (
	maxMessageLength = 1000
	maxNoteLength    = 500
	maxTagLength     = 50

	defaultDueDays = 30
)

type FineUseCase struct {
	fineRepo      repository.FineRepository
	violationRepo repository.ViolationRepository
	userRepo      repository.UserRepository
	dueDays       int
}

func NewFineUseCase(
	fineRepo repository.FineRepository,
	violationRepo repository.ViolationRepository,
	userRepo repository.UserRepository,
	dueDays int,
) *FineUseCase {
	if dueDays <= 0 {
		dueDays = defaultDueDays
	}
	return &FineUseCase{
		fineRepo:      fineRepo,
		violationRepo: violationRepo,
		userRepo:      userRepo,
		dueDays:       dueDays,
	}
}

type CreateFineInput struct {
	DriverID     string
	ViolationID  string
	Message      string
	Location     entity.Location
	Vehicle      entity.Vehicle
	CustomAmount *float64
	Tags         []string
}

func (uc *FineUseCase) CreateFine(ctx context.Context, actorID string, input CreateFineInput) (*entity.Fine, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() {
		return nil, errors.Forbidden("Only police officers and admins can issue fines", nil)
	}

	if err := validateFineInput(input); err != nil {
		return nil, err
	}

	driver, err := uc.userRepo.GetByID(ctx, input.DriverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != entity.RoleDriver {
		return nil, errors.InvalidState("Referenced account is not a driver", nil)
	}
	if !driver.IsActive() {
		return nil, errors.InvalidState("Driver account is not active", nil)
	}

	violation, err := uc.violationRepo.GetByID(ctx, input.ViolationID)
	if err != nil {
		return nil, err
	}
	if !violation.IsActive {
		return nil, errors.InvalidState("Violation type is inactive", nil)
	}

	// Custom amount overrides the catalog default; the currency always
	// comes from the violation, never from the caller.
	amount := violation.DefaultAmount
	if input.CustomAmount != nil {
		amount = *input.CustomAmount
	}

	now := time.Now()
	fine := &entity.Fine{
		DriverID:    input.DriverID,
		OfficerID:   actorID,
		ViolationID: input.ViolationID,
		Amount:      amount,
		Currency:    violation.Currency,
		Message:     input.Message,
		Location:    input.Location,
		Vehicle:     input.Vehicle,
		Tags:        input.Tags,
		Status:      entity.FineStatusPending,
		DueDate:     now.Add(time.Duration(uc.dueDays) * 24 * time.Hour),
	}

	if err := uc.fineRepo.Create(ctx, fine); err != nil {
		return nil, err
	}

	uc.appendAuditNote(ctx, fine.ID, actorID,
		fmt.Sprintf("Fine issued for violation %s (%.2f %s)", violation.Code, fine.Amount, fine.Currency))

	return fine, nil
}

func validateFineInput(input CreateFineInput) error {
	if len(input.Message) > maxMessageLength {
		return errors.ValidationFailed("Message exceeds maximum length", nil)
	}
	if input.Location.Latitude < -90 || input.Location.Latitude > 90 {
		return errors.ValidationFailed("Latitude must be between -90 and 90", nil)
	}
	if input.Location.Longitude < -180 || input.Location.Longitude > 180 {
		return errors.ValidationFailed("Longitude must be between -180 and 180", nil)
	}
	if input.Vehicle.PlateNumber == "" {
		return errors.ValidationFailed("Vehicle plate number is required", nil)
	}
	if !input.Vehicle.Type.IsValid() {
		return errors.ValidationFailed("Invalid vehicle type", nil)
	}
	if input.CustomAmount != nil && *input.CustomAmount < 0 {
		return errors.ValidationFailed("Custom amount must be non-negative", nil)
	}
	for _, tag := range input.Tags {
		if tag == "" || len(tag) > maxTagLength {
			return errors.ValidationFailed("Tags must be non-empty and at most 50 characters", nil)
		}
	}
	return nil
}

func (uc *FineUseCase) GetFine(ctx context.Context, actorID, fineID string) (*entity.Fine, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	fine, err := uc.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}

	if actor.Role == entity.RoleDriver && fine.DriverID != actorID {
		return nil, errors.Forbidden("You don't have permission to view this fine", nil)
	}

	return fine, nil
}

// ListFines scopes results by the actor's role: drivers see their own fines,
// officers the fines they issued, admins everything (optionally narrowed to
// one driver).
func (uc *FineUseCase) ListFines(ctx context.Context, actorID, driverID, status string, page, limit int) ([]*entity.Fine, int64, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.FineFilter{Status: status}
	switch actor.Role {
	case entity.RoleDriver:
		filter.DriverID = actorID
	case entity.RolePoliceOfficer:
		filter.OfficerID = actorID
		if driverID != "" {
			filter.DriverID = driverID
		}
	case entity.RoleAdmin:
		filter.DriverID = driverID
	default:
		return nil, 0, errors.Forbidden("Unknown role", nil)
	}

	pagination := utils.NewPaginationParams(page, limit)
	return uc.fineRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
}

// UpdateStatus is the actor-scoped state machine. Drivers may only move
// their own pending or overdue fine to disputed; admins and the issuing
// officer may set any reachable target.
func (uc *FineUseCase) UpdateStatus(ctx context.Context, actorID, fineID string, target entity.FineStatus, reason string) (*entity.Fine, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	fine, err := uc.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}

	if !target.IsValid() {
		return nil, errors.ValidationFailed("Invalid target status", nil)
	}

	switch {
	case actor.Role == entity.RoleDriver:
		if fine.DriverID != actorID {
			return nil, errors.Forbidden("You don't have permission to modify this fine", nil)
		}
		if target != entity.FineStatusDisputed {
			return nil, errors.Forbidden("Drivers may only dispute their fines", nil)
		}
	case actor.Role == entity.RoleAdmin, actor.Role == entity.RolePoliceOfficer && fine.OfficerID == actorID:
		// staff transition, checked against the state machine below
	default:
		return nil, errors.Forbidden("Only the issuing officer or an admin can change this fine", nil)
	}

	if target == entity.FineStatusDisputed && reason == "" {
		return nil, errors.ValidationFailed("A dispute reason is required", nil)
	}

	// Setting paid by hand still goes through the conditional update so the
	// payment-metadata invariant holds.
	if target == entity.FineStatusPaid {
		now := time.Now()
		current := fine.EffectiveStatus(now)
		if !staffTransitionAllowed(current, target) {
			return nil, errors.InvalidState(
				fmt.Sprintf("Cannot transition fine from %s to %s", current, target), nil)
		}
		payment := entity.PaymentInfo{
			Method:        "manual",
			TransactionID: fmt.Sprintf("manual-%s", actorID),
			ReceiptNumber: ReceiptNumber(fine.ID),
			PaidAt:        &now,
		}
		updated, applied, err := uc.fineRepo.MarkPaid(ctx, fineID, payment)
		if err != nil {
			return nil, err
		}
		if applied {
			uc.appendAuditNote(ctx, fineID, actorID, synthesizeTransitionNote(current, target, reason))
		}
		return updated, nil
	}

	// The state-machine check runs inside the transaction, against the fine
	// as currently stored. A fine paid between our read above and this write
	// fails the check instead of being overwritten.
	var current entity.FineStatus
	updated, err := uc.fineRepo.Transition(ctx, fineID, func(fine *entity.Fine) error {
		now := time.Now()
		current = fine.EffectiveStatus(now)

		if target == entity.FineStatusDisputed {
			if !fine.CanDispute(now) {
				return errors.InvalidState("Fine can no longer be disputed", nil)
			}
			fine.Dispute = entity.DisputeInfo{
				IsDisputed: true,
				Reason:     reason,
				DisputedAt: &now,
				Resolution: entity.DisputePending,
			}
		} else if !staffTransitionAllowed(current, target) {
			return errors.InvalidState(
				fmt.Sprintf("Cannot transition fine from %s to %s", current, target), nil)
		}

		fine.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.appendAuditNote(ctx, fineID, actorID, synthesizeTransitionNote(current, target, reason))

	return updated, nil
}

// staffTransitionAllowed encodes the one-directional lifecycle for staff
// transitions: paid and cancelled are terminal, disputed resolves through
// ResolveDispute or a direct staff override.
func staffTransitionAllowed(current, target entity.FineStatus) bool {
	if current == target {
		return false
	}
	switch current {
	case entity.FineStatusPaid, entity.FineStatusCancelled:
		return false
	case entity.FineStatusPending, entity.FineStatusOverdue:
		return target == entity.FineStatusPaid || target == entity.FineStatusCancelled ||
			target == entity.FineStatusDisputed || target == entity.FineStatusPending ||
			target == entity.FineStatusOverdue
	case entity.FineStatusDisputed:
		return target == entity.FineStatusPending || target == entity.FineStatusCancelled ||
			target == entity.FineStatusPaid
	}
	return false
}

func synthesizeTransitionNote(current, target entity.FineStatus, reason string) string {
	msg := fmt.Sprintf("Status changed from %s to %s", current, target)
	if reason != "" {
		msg += ": " + reason
	}
	return msg
}

// ResolveDispute closes a disputed fine: accepting cancels it, rejecting
// returns it to pending (which presents as overdue when past due).
func (uc *FineUseCase) ResolveDispute(ctx context.Context, actorID, fineID string, accept bool, note string) (*entity.Fine, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	fine, err := uc.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}

	if actor.Role != entity.RoleAdmin && fine.OfficerID != actorID {
		return nil, errors.Forbidden("Only the issuing officer or an admin can resolve a dispute", nil)
	}

	// Disputed-state check and resolution run in the same transaction so a
	// concurrent payment or staff override cannot be clobbered.
	updated, err := uc.fineRepo.Transition(ctx, fineID, func(fine *entity.Fine) error {
		if fine.Status != entity.FineStatusDisputed {
			return errors.InvalidState("Fine is not disputed", nil)
		}

		now := time.Now()
		if accept {
			fine.Status = entity.FineStatusCancelled
			fine.Dispute.Resolution = entity.DisputeAccepted
		} else {
			fine.Status = entity.FineStatusPending
			fine.Dispute.Resolution = entity.DisputeRejected
		}
		fine.Dispute.ResolvedBy = actorID
		fine.Dispute.ResolvedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Dispute %s", updated.Dispute.Resolution)
	if note != "" {
		msg += ": " + note
	}
	uc.appendAuditNote(ctx, fineID, actorID, msg)

	return updated, nil
}

func (uc *FineUseCase) AddNote(ctx context.Context, actorID, fineID, content string) (*entity.FineNote, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() {
		return nil, errors.Forbidden("Only staff can add notes", nil)
	}

	if content == "" || len(content) > maxNoteLength {
		return nil, errors.ValidationFailed("Note content must be between 1 and 500 characters", nil)
	}

	if _, err := uc.fineRepo.GetByID(ctx, fineID); err != nil {
		return nil, err
	}

	note := &entity.FineNote{
		FineID:   fineID,
		Content:  content,
		AuthorID: actorID,
	}
	if err := uc.fineRepo.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (uc *FineUseCase) ListNotes(ctx context.Context, actorID, fineID string) ([]*entity.FineNote, error) {
	// GetFine enforces role-scoped visibility of the parent record.
	if _, err := uc.GetFine(ctx, actorID, fineID); err != nil {
		return nil, err
	}

	return uc.fineRepo.ListNotesByFineID(ctx, fineID)
}

// Stats returns per-status counts, scoped to the officer's issued fines or
// global for admins.
func (uc *FineUseCase) Stats(ctx context.Context, actorID string) (map[string]int64, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() {
		return nil, errors.Forbidden("Only staff can view fine statistics", nil)
	}

	filter := repository.FineFilter{}
	if actor.Role == entity.RolePoliceOfficer {
		filter.OfficerID = actorID
	}

	return uc.fineRepo.CountByStatus(ctx, filter)
}

// appendAuditNote records a derived audit entry; failures are logged, not
// surfaced, the primary mutation has already been persisted.
func (uc *FineUseCase) appendAuditNote(ctx context.Context, fineID, authorID, content string) {
	note := &entity.FineNote{
		FineID:   fineID,
		Content:  content,
		AuthorID: authorID,
	}
	if err := uc.fineRepo.CreateNote(ctx, note); err != nil {
		logger.LogNoteError(fineID, "audit", err)
	}
}
