package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/socialhub/backend/internal/auth"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key holding the authenticated subject
const UserIDKey = "userID"

// Authenticate verifies the bearer token with the identity provider and
// stores the subject in the context under UserIDKey.
func Authenticate(provider auth.Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			identity, err := provider.Verify(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(UserIDKey, identity.Subject)
			return next(c)
		}
	}
}
