package repository

import (
	"context"

	"finetrack/internal/domain/entity"
)

// FineFilter scopes fine queries to the requesting actor at the data-access
// boundary, so pagination totals never leak records the actor cannot see.
type FineFilter struct {
	DriverID  string
	OfficerID string
	Status    string
}

type FineRepository interface {
	Create(ctx context.Context, fine *entity.Fine) error
	GetByID(ctx context.Context, id string) (*entity.Fine, error)
	Update(ctx context.Context, fine *entity.Fine) error
	List(ctx context.Context, filter FineFilter, limit, offset int) ([]*entity.Fine, int64, error)
	CountByStatus(ctx context.Context, filter FineFilter) (map[string]int64, error)

	// MarkPaid applies the paid transition atomically: the fine moves to
	// paid only if its effective status is still pending or overdue.
	// When the fine is already paid the call is a no-op and applied is
	// false with a nil error, so concurrent confirmations converge.
	MarkPaid(ctx context.Context, fineID string, payment entity.PaymentInfo) (fine *entity.Fine, applied bool, err error)

	// Transition applies a lifecycle mutation atomically: apply receives
	// the freshly read fine inside the transaction, so state checks run
	// against the current document, not a copy read earlier. An error
	// returned by apply aborts the write and surfaces unchanged.
	Transition(ctx context.Context, fineID string, apply func(fine *entity.Fine) error) (*entity.Fine, error)

	CreateNote(ctx context.Context, note *entity.FineNote) error
	ListNotesByFineID(ctx context.Context, fineID string) ([]*entity.FineNote, error)
}
