package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenRoundTrip проверяет выпуск и разбор access-токена.
func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", "financial-health", time.Minute)

	token, expiresAt, err := manager.NewAccessToken("user-42")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "financial-health", claims.Issuer)
}

// TestParseAccessTokenRejects проверяет отказ для чужого секрета, издателя и истекшего токена.
func TestParseAccessTokenRejects(t *testing.T) {
	manager := NewTokenManager("secret", "financial-health", time.Minute)
	token, _, err := manager.NewAccessToken("user-42")
	require.NoError(t, err)

	_, err = NewTokenManager("other", "financial-health", time.Minute).ParseAccessToken(token)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", "someone-else", time.Minute).ParseAccessToken(token)
	assert.Error(t, err)

	expired := NewTokenManager("secret", "financial-health", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _, err := expired.NewAccessToken("user-42")
	require.NoError(t, err)
	_, err = manager.ParseAccessToken(old)
	assert.Error(t, err)

	_, _, err = manager.NewAccessToken(" ")
	assert.Error(t, err)
}

// TestJWTMiddleware проверяет анонимный, валидный и невалидный запросы.
func TestJWTMiddleware(t *testing.T) {
	manager := NewTokenManager("secret", "financial-health", time.Minute)
	token, _, err := manager.NewAccessToken("user-42")
	require.NoError(t, err)

	e := echo.New()
	handler := JWTMiddleware(manager)(func(c echo.Context) error {
		userID, _ := UserIDFromContext(c)
		return c.String(http.StatusOK, userID)
	})

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "anonymous", status: http.StatusOK, body: ""},
		{name: "valid", header: "Bearer " + token, status: http.StatusOK, body: "user-42"},
		{name: "bad scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()

			err := handler(e.NewContext(req, rec))
			if tc.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, tc.body, rec.Body.String())
				return
			}

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tc.status, httpErr.Code)
		})
	}
}

// TestRequireUser проверяет отказ без пользователя.
func TestRequireUser(t *testing.T) {
	e := echo.New()
	handler := RequireUser(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	err := handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ctx.Set(ContextUserIDKey, "user-42")
	assert.NoError(t, handler(ctx))
}
