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

type firestoreViolationRepository struct {
	client *firestore.Client
}

func NewFirestoreViolationRepository(client *firestore.Client) repository.ViolationRepository {
	return &firestoreViolationRepository{
		client: client,
	}
}

func (r *firestoreViolationRepository) Create(ctx context.Context, violation *entity.TrafficViolation) error {
	if violation.ID == "" {
		violation.ID = uuid.New().String()
	}

	now := time.Now()
	violation.CreatedAt = now
	violation.UpdatedAt = now

	_, err := r.client.Collection("violations").Doc(violation.ID).Set(ctx, violation)
	if err != nil {
		return errors.Internal("Failed to create violation", err)
	}

	return nil
}

func (r *firestoreViolationRepository) GetByID(ctx context.Context, id string) (*entity.TrafficViolation, error) {
	doc, err := r.client.Collection("violations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Violation", err)
		}
		return nil, errors.Internal("Failed to get violation", err)
	}

	var violation entity.TrafficViolation
	if err := doc.DataTo(&violation); err != nil {
		return nil, errors.Internal("Failed to parse violation data", err)
	}

	return &violation, nil
}

func (r *firestoreViolationRepository) GetByCode(ctx context.Context, code string) (*entity.TrafficViolation, error) {
	query := r.client.Collection("violations").Where("code", "==", code).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Violation", err)
		}
		return nil, errors.Internal("Failed to query violation by code", err)
	}

	var violation entity.TrafficViolation
	if err := doc.DataTo(&violation); err != nil {
		return nil, errors.Internal("Failed to parse violation data", err)
	}

	return &violation, nil
}

func (r *firestoreViolationRepository) Update(ctx context.Context, violation *entity.TrafficViolation) error {
	violation.UpdatedAt = time.Now()

	_, err := r.client.Collection("violations").Doc(violation.ID).Set(ctx, violation)
	if err != nil {
		return errors.Internal("Failed to update violation", err)
	}

	return nil
}

func (r *firestoreViolationRepository) List(ctx context.Context, filter repository.ViolationFilter, limit, offset int) ([]*entity.TrafficViolation, int64, error) {
	query := r.client.Collection("violations").Query
	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.ActiveOnly {
		query = query.Where("isActive", "==", true)
	}
	query = query.OrderBy("code", firestore.Asc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count violations", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var violations []*entity.TrafficViolation

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate violations", err)
		}

		var violation entity.TrafficViolation
		if err := doc.DataTo(&violation); err != nil {
			return nil, 0, errors.Internal("Failed to parse violation data", err)
		}
		violations = append(violations, &violation)
	}

	return violations, total, nil
}
