package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TokenIssuer signs tokens for a subject
type TokenIssuer interface {
	Issue(subject, email string) (string, error)
}

// AuthHandler exposes local token issuance for development. Production
// tokens come from the hosted identity provider.
type AuthHandler struct {
	issuer TokenIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/dev-token", h.DevToken)
}

// DevTokenRequest defines the request body for a development token
type DevTokenRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=128"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// DevToken issues a signed token for an arbitrary subject
func (h *AuthHandler) DevToken(c echo.Context) error {
	var req DevTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.issuer.Issue(req.Subject, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token").SetInternal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
