package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	authClient *auth.Client

	// devTokenSecret enables locally signed HS256 tokens as a fallback
	// in development; empty outside development.
	devTokenSecret string
}

func NewAuthMiddleware(authClient *auth.Client, devTokenSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:     authClient,
		devTokenSecret: devTokenSecret,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		idToken := parts[1]

		token, err := m.authClient.VerifyIDToken(context.Background(), idToken)
		if err == nil {
			c.Set("uid", token.UID)
			return next(c)
		}

		if uid, devErr := m.verifyDevToken(idToken); devErr == nil {
			c.Set("uid", uid)
			return next(c)
		}

		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
}

func (m *AuthMiddleware) verifyDevToken(tokenString string) (string, error) {
	if m.devTokenSecret == "" {
		return "", jwt.ErrTokenUnverifiable
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(m.devTokenSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return claims.Subject, nil
}
