package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/socialhub/backend/internal/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerStub struct {
	verifyFn func(context.Context, string) (auth.Identity, error)
}

func (p providerStub) Verify(ctx context.Context, token string) (auth.Identity, error) {
	return p.verifyFn(ctx, token)
}

func runAuthenticate(t *testing.T, header string, p auth.Provider) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Authenticate(p)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return c, err
}

func TestAuthenticate(t *testing.T) {
	valid := providerStub{verifyFn: func(_ context.Context, token string) (auth.Identity, error) {
		if token == "good" {
			return auth.Identity{Subject: "u1"}, nil
		}
		return auth.Identity{}, auth.ErrInvalidToken
	}}

	t.Run("missing header", func(t *testing.T) {
		_, err := runAuthenticate(t, "", valid)
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, err := runAuthenticate(t, "Basic abc", valid)
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := runAuthenticate(t, "Bearer bad", valid)
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("valid token sets subject", func(t *testing.T) {
		c, err := runAuthenticate(t, "Bearer good", valid)
		require.NoError(t, err)
		assert.Equal(t, "u1", c.Get(UserIDKey))
	})
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	assert.Equal(t, status, he.Code)
}
