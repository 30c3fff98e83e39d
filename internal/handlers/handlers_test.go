package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crescieperdi/portal-interno/internal/ai"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/crescieperdi/portal-interno/internal/service"
	"github.com/crescieperdi/portal-interno/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRespondErrorMapping(t *testing.T) {
	h := &Handler{logger: zap.NewNop()}

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"already exists", repository.ErrAlreadyExists, http.StatusConflict, ErrCodeConflict},
		{"invalid transition", repository.ErrInvalidTransition, http.StatusConflict, ErrCodeTransition},
		{"invalid input", repository.ErrInvalidInput, http.StatusBadRequest, ErrCodeValidation},
		{"feedback required", service.ErrFeedbackRequired, http.StatusBadRequest, ErrCodeValidation},
		{"voting closed", service.ErrVotingClosed, http.StatusBadRequest, ErrCodeValidation},
		{"ai unavailable", ai.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeAIUnavailable},
		{"girabot disabled", service.ErrGirabotDisabled, http.StatusServiceUnavailable, ErrCodeAIUnavailable},
		{"file too large", storage.ErrTooLarge, http.StatusRequestEntityTooLarge, ErrCodeValidation},
		{"unsupported type", storage.ErrUnsupportedType, http.StatusBadRequest, ErrCodeValidation},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext()
			require.NoError(t, h.respondError(c, "Test", tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()

	parse := func(raw string) (int64, error) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		return pathID(c)
	}

	id, err := parse("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := parse(raw)
		assert.ErrorIs(t, err, repository.ErrInvalidInput, raw)
	}
}

// As rotas protegidas respondem 401 antes de chegar aos serviços
func TestProtectedRoutesRequireToken(t *testing.T) {
	h := &Handler{logger: zap.NewNop()}
	h.auth.JWTSecret = "segredo"

	e := echo.New()
	h.RegisterRoutes(e)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/ideas"},
		{http.MethodPost, "/mural/posts"},
		{http.MethodGet, "/feed"},
		{http.MethodPost, "/admin/users"},
		{http.MethodPost, "/girabot/chat"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}
