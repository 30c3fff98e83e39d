package handlers

import (
	"errors"
	"net/http"

	"github.com/crescieperdi/portal-interno/internal/auth"
	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Login autentica por email e senha e emite o token JWT
func (h *Handler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "email and password are required"))
	}

	profile, err := h.repo.GetProfileByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, newErrorResponse(ErrCodeUnauthorized, "invalid credentials"))
		}
		return h.respondError(c, "Login", err)
	}
	if !profile.IsActive || !auth.CheckPassword(profile.PasswordHash, req.Password) {
		h.logger.Warn("Login: credenciais inválidas", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, newErrorResponse(ErrCodeUnauthorized, "invalid credentials"))
	}

	token, err := auth.GenerateToken(h.auth.JWTSecret, profile.ID, profile.Role, h.auth.TokenExpiry)
	if err != nil {
		return h.respondError(c, "Login", err)
	}

	h.logger.Info("Login: usuário autenticado", zap.Int64("user_id", profile.ID))
	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  profile,
	})
}

// Me retorna o perfil do usuário autenticado
func (h *Handler) Me(c echo.Context) error {
	profile, err := h.repo.GetProfile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, "Me", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": profile})
}
