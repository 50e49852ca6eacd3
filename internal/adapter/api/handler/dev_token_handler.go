package handler

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"finetrack/internal/domain/repository"
	"finetrack/pkg/errors"
	"finetrack/pkg/response"
)

// DevTokenHandler mints locally signed HS256 tokens for manual testing when
// no Firebase project is wired up. Registered only in development.
type DevTokenHandler struct {
	userRepo repository.UserRepository
	secret   string
}

var devTokenHandler *DevTokenHandler

func SetupDevTokenHandler(userRepo repository.UserRepository, secret string) {
	devTokenHandler = &DevTokenHandler{
		userRepo: userRepo,
		secret:   secret,
	}
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

type devTokenRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
	if err != nil {
		return response.Error(c, errors.Internal("Failed to sign dev token", err))
	}

	return response.Success(c, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
