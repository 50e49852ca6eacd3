package repository

import (
	"context"

	"finetrack/internal/domain/entity"
)

type ViolationRepository interface {
	Create(ctx context.Context, violation *entity.TrafficViolation) error
	GetByID(ctx context.Context, id string) (*entity.TrafficViolation, error)
	GetByCode(ctx context.Context, code string) (*entity.TrafficViolation, error)
	Update(ctx context.Context, violation *entity.TrafficViolation) error
	List(ctx context.Context, filter ViolationFilter, limit, offset int) ([]*entity.TrafficViolation, int64, error)
}

type ViolationFilter struct {
	Category   string
	ActiveOnly bool
}
