package handlers

import (
	"net/http"

	"github.com/anonto42/socialhub/backend/internal/middleware"
	"github.com/anonto42/socialhub/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the subject set by the auth middleware, or ""
func getUserIDFromContext(c echo.Context) string {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	return userID
}

// bindAndValidate decodes the request body into req and runs struct validation
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// toHTTPError maps application error kinds to HTTP errors
func toHTTPError(err error) error {
	switch {
	case models.IsKind(err, models.KindValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case models.IsKind(err, models.KindNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case models.IsKind(err, models.KindNotAuthorizedOrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}
