package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"finetrack/internal/domain/entity"
	"finetrack/internal/domain/repository"
)

type RoleMiddleware struct {
	userRepo repository.UserRepository
}

func NewRoleMiddleware(userRepo repository.UserRepository) *RoleMiddleware {
	return &RoleMiddleware{
		userRepo: userRepo,
	}
}

// Require allows only authenticated users whose account holds one of the
// given roles and is active.
func (m *RoleMiddleware) Require(roles ...entity.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("uid").(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user, err := m.userRepo.GetByID(c.Request().Context(), uid)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify role")
			}

			if !user.IsActive() {
				return echo.NewHTTPError(http.StatusForbidden, "Account is suspended")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient privileges")
		}
	}
}

func (m *RoleMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.RoleAdmin)(next)
}

// StaffOnly admits police officers and admins.
func (m *RoleMiddleware) StaffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(entity.RolePoliceOfficer, entity.RoleAdmin)(next)
}
