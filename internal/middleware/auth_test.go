package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crescieperdi/portal-interno/internal/auth"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return rec, handler(c)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, 42, models.RoleColaborador, time.Hour)
	require.NoError(t, err)

	rec, err := doRequest(t, RequireAuth(testSecret), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer", "token-solto"} {
		_, err := doRequest(t, RequireAuth(testSecret), header)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr, header)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code, header)
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	token, err := auth.GenerateToken("outro-segredo", 42, models.RoleColaborador, time.Hour)
	require.NoError(t, err)

	_, err = doRequest(t, RequireAuth(testSecret), "Bearer "+token)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := RequireRole(models.RoleAdmin, models.RoleGestorSetor)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	run := func(role string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set(ContextRole, role)
		return handler(c)
	}

	assert.NoError(t, run(models.RoleAdmin))
	assert.NoError(t, run(models.RoleGestorSetor))

	err := run(models.RoleColaborador)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestContextAccessors(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Zero(t, UserID(c))
	assert.Empty(t, Role(c))

	c.Set(ContextUserID, int64(42))
	c.Set(ContextRole, models.RoleAdmin)
	assert.Equal(t, int64(42), UserID(c))
	assert.Equal(t, models.RoleAdmin, Role(c))
}
