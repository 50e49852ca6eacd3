package usecase

import (
	"context"
	"time"

	"finetrack/internal/domain/entity"
	"finetrack/internal/domain/repository"
	"finetrack/pkg/errors"
	"finetrack/pkg/utils"
)

type UserUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name    string
	Phone   string
	Address string
	City    string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Address != "" {
		user.Address = input.Address
	}
	if input.City != "" {
		user.City = input.City
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdatePassword re-authenticates with the current password before changing
// it in the identity provider.
func (uc *UserUseCase) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errors.NotFound("User", err)
	}

	if _, err := uc.firebaseAuth.SignInWithEmailPassword(user.Email, currentPassword); err != nil {
		return errors.Unauthorized("Current password is incorrect", err)
	}

	if err := uc.firebaseAuth.UpdateUserPassword(ctx, userID, newPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}

	return nil
}

type CreateStaffUserInput struct {
	Email       string
	Password    string
	Name        string
	Role        string
	BadgeNumber string
	Station     string
}

// CreateStaffUser provisions an officer or admin account. Admin only.
func (uc *UserUseCase) CreateStaffUser(ctx context.Context, input CreateStaffUserInput) (*entity.User, error) {
	role := entity.UserRole(input.Role)
	if !role.IsStaff() {
		return nil, errors.ValidationFailed("Role must be police_officer or admin", nil)
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, errors.BadRequest("Email already in use", nil)
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:          uid,
		Email:       input.Email,
		Name:        input.Name,
		Role:        role,
		Status:      "active",
		BadgeNumber: input.BadgeNumber,
		Station:     input.Station,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}

	return user, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context, role string, page, limit int) ([]*entity.User, int64, error) {
	if role != "" && !entity.UserRole(role).IsValid() {
		return nil, 0, errors.ValidationFailed("Unknown role filter", nil)
	}

	pagination := utils.NewPaginationParams(page, limit)
	return uc.userRepo.List(ctx, role, pagination.PageSize, pagination.Offset)
}

// SetUserStatus activates or suspends an account. Suspended drivers cannot
// log in; suspended officers cannot issue fines.
func (uc *UserUseCase) SetUserStatus(ctx context.Context, userID, status string) (*entity.User, error) {
	if status != "active" && status != "suspended" {
		return nil, errors.ValidationFailed("Status must be active or suspended", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Status = status
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
