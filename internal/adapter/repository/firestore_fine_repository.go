package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finetrack/internal/domain/entity"
	"finetrack/internal/domain/repository"
	"finetrack/pkg/errors"
)

type firestoreFineRepository struct {
	client *firestore.Client
}

func NewFirestoreFineRepository(client *firestore.Client) repository.FineRepository {
	return &firestoreFineRepository{
		client: client,
	}
}

// presentEffectiveStatus maps a stored pending fine past its due date to
// overdue on every read path. The stored document is not rewritten here;
// the next Update persists the derived status.
func presentEffectiveStatus(fine *entity.Fine) {
	fine.Status = fine.EffectiveStatus(time.Now())
}

func (r *firestoreFineRepository) Create(ctx context.Context, fine *entity.Fine) error {
	if fine.ID == "" {
		fine.ID = uuid.New().String()
	}

	now := time.Now()
	fine.CreatedAt = now
	fine.UpdatedAt = now

	_, err := r.client.Collection("fines").Doc(fine.ID).Set(ctx, fine)
	if err != nil {
		return errors.Internal("Failed to create fine", err)
	}

	return nil
}

func (r *firestoreFineRepository) GetByID(ctx context.Context, id string) (*entity.Fine, error) {
	doc, err := r.client.Collection("fines").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Fine", err)
		}
		return nil, errors.Internal("Failed to get fine", err)
	}

	var fine entity.Fine
	if err := doc.DataTo(&fine); err != nil {
		return nil, errors.Internal("Failed to parse fine data", err)
	}

	presentEffectiveStatus(&fine)
	return &fine, nil
}

func (r *firestoreFineRepository) Update(ctx context.Context, fine *entity.Fine) error {
	// Saves persist the effective status so the stored document self-heals.
	fine.Status = fine.EffectiveStatus(time.Now())
	fine.UpdatedAt = time.Now()

	_, err := r.client.Collection("fines").Doc(fine.ID).Set(ctx, fine)
	if err != nil {
		return errors.Internal("Failed to update fine", err)
	}

	return nil
}

func (r *firestoreFineRepository) List(ctx context.Context, filter repository.FineFilter, limit, offset int) ([]*entity.Fine, int64, error) {
	query := r.client.Collection("fines").Query

	// Actor scoping is part of the query, not post-hoc filtering, so
	// totals never count records the actor cannot see.
	if filter.DriverID != "" {
		query = query.Where("driverId", "==", filter.DriverID)
	}
	if filter.OfficerID != "" {
		query = query.Where("officerId", "==", filter.OfficerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count fines", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var fines []*entity.Fine

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate fines", err)
		}

		var fine entity.Fine
		if err := doc.DataTo(&fine); err != nil {
			return nil, 0, errors.Internal("Failed to parse fine data", err)
		}
		presentEffectiveStatus(&fine)
		fines = append(fines, &fine)
	}

	return fines, total, nil
}

func (r *firestoreFineRepository) CountByStatus(ctx context.Context, filter repository.FineFilter) (map[string]int64, error) {
	query := r.client.Collection("fines").Query
	if filter.DriverID != "" {
		query = query.Where("driverId", "==", filter.DriverID)
	}
	if filter.OfficerID != "" {
		query = query.Where("officerId", "==", filter.OfficerID)
	}

	iter := query.Documents(ctx)
	counts := make(map[string]int64)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate fines", err)
		}

		var fine entity.Fine
		if err := doc.DataTo(&fine); err != nil {
			return nil, errors.Internal("Failed to parse fine data", err)
		}
		presentEffectiveStatus(&fine)
		counts[fine.Status.String()]++
	}

	return counts, nil
}

// MarkPaid transitions a fine to paid inside a Firestore transaction. The
// driver-confirmation and webhook paths race on the same record; the
// conditional write here makes exactly one of them apply while the others
// observe applied=false and treat it as a successful no-op.
func (r *firestoreFineRepository) MarkPaid(ctx context.Context, fineID string, payment entity.PaymentInfo) (*entity.Fine, bool, error) {
	applied := false
	var result entity.Fine

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		applied = false

		docRef := r.client.Collection("fines").Doc(fineID)
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var fine entity.Fine
		if err := doc.DataTo(&fine); err != nil {
			return err
		}

		now := time.Now()
		switch fine.EffectiveStatus(now) {
		case entity.FineStatusPending, entity.FineStatusOverdue:
			// payable, apply below
		case entity.FineStatusPaid:
			result = fine
			return nil
		default:
			return errors.InvalidState("Fine is not payable in its current status", nil)
		}

		fine.Status = entity.FineStatusPaid
		fine.Payment = payment
		if fine.Payment.PaidAt == nil {
			fine.Payment.PaidAt = &now
		}
		fine.UpdatedAt = now

		if err := tx.Set(docRef, &fine); err != nil {
			return err
		}

		applied = true
		result = fine
		return nil
	})

	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, false, appErr
		}
		if status.Code(err) == codes.NotFound {
			return nil, false, errors.NotFound("Fine", err)
		}
		return nil, false, errors.Internal("Failed to mark fine as paid", err)
	}

	return &result, applied, nil
}

// Transition applies a lifecycle mutation inside a Firestore transaction.
// apply sees the document as read within the transaction, so a fine that was
// paid between the caller's earlier read and this write is re-checked against
// its current state instead of being overwritten.
func (r *firestoreFineRepository) Transition(ctx context.Context, fineID string, apply func(fine *entity.Fine) error) (*entity.Fine, error) {
	var result entity.Fine

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("fines").Doc(fineID)
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var fine entity.Fine
		if err := doc.DataTo(&fine); err != nil {
			return err
		}

		presentEffectiveStatus(&fine)
		if err := apply(&fine); err != nil {
			return err
		}

		fine.UpdatedAt = time.Now()
		if err := tx.Set(docRef, &fine); err != nil {
			return err
		}

		result = fine
		return nil
	})

	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Fine", err)
		}
		return nil, errors.Internal("Failed to update fine", err)
	}

	return &result, nil
}

func (r *firestoreFineRepository) CreateNote(ctx context.Context, note *entity.FineNote) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	note.CreatedAt = time.Now()

	_, err := r.client.Collection("fine_notes").Doc(note.ID).Set(ctx, note)
	if err != nil {
		return errors.Internal("Failed to create fine note", err)
	}

	return nil
}

func (r *firestoreFineRepository) ListNotesByFineID(ctx context.Context, fineID string) ([]*entity.FineNote, error) {
	query := r.client.Collection("fine_notes").
		Where("fineId", "==", fineID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var notes []*entity.FineNote

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate fine notes", err)
		}

		var note entity.FineNote
		if err := doc.DataTo(&note); err != nil {
			return nil, errors.Internal("Failed to parse fine note data", err)
		}
		notes = append(notes, &note)
	}

	return notes, nil
}
