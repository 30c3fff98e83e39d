package handlers

import (
	"net/http"

	"github.com/crescieperdi/portal-interno/internal/auth"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateUser cadastra um usuário do portal
func (h *Handler) CreateUser(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		UnitID   *int64 `json:"unit_id"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "name, email and password are required"))
	}
	if !models.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid role"))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return h.respondError(c, "CreateUser", err)
	}

	profile, err := h.repo.CreateProfile(c.Request().Context(), models.Profile{
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		UnitID:       req.UnitID,
		IsActive:     true,
		PasswordHash: hash,
	})
	if err != nil {
		return h.respondError(c, "CreateUser", err)
	}

	h.logger.Info("CreateUser: usuário cadastrado",
		zap.Int64("user_id", profile.ID), zap.String("role", profile.Role))
	return c.JSON(http.StatusCreated, map[string]any{"user": profile})
}

// ListUsers lista os usuários do portal
func (h *Handler) ListUsers(c echo.Context) error {
	var (
		profiles []models.Profile
		err      error
	)
	if role := c.QueryParam("role"); role != "" {
		profiles, err = h.repo.ListProfilesByRole(c.Request().Context(), role)
	} else {
		profiles, err = h.repo.ListProfiles(c.Request().Context())
	}
	if err != nil {
		return h.respondError(c, "ListUsers", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": profiles})
}

// UpdateUser atualiza os dados cadastrais de um usuário
func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "UpdateUser", err)
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		UnitID   *int64 `json:"unit_id"`
		IsActive bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}
	if !models.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid role"))
	}

	profile, err := h.repo.UpdateProfile(c.Request().Context(), models.Profile{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		UnitID:   req.UnitID,
		IsActive: req.IsActive,
	})
	if err != nil {
		return h.respondError(c, "UpdateUser", err)
	}

	h.logger.Info("UpdateUser: usuário atualizado", zap.Int64("user_id", id))
	return c.JSON(http.StatusOK, map[string]any{"user": profile})
}

// DeleteUser desativa um usuário (remoção lógica)
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "DeleteUser", err)
	}

	if err := h.repo.DeleteProfile(c.Request().Context(), id); err != nil {
		return h.respondError(c, "DeleteUser", err)
	}

	h.logger.Info("DeleteUser: usuário desativado", zap.Int64("user_id", id))
	return c.NoContent(http.StatusNoContent)
}

// ResetUserPassword grava uma nova senha para o usuário
func (h *Handler) ResetUserPassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "ResetUserPassword", err)
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "password must have at least 8 characters"))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return h.respondError(c, "ResetUserPassword", err)
	}

	if err := h.repo.SetPasswordHash(c.Request().Context(), id, hash); err != nil {
		return h.respondError(c, "ResetUserPassword", err)
	}

	h.logger.Info("ResetUserPassword: senha redefinida", zap.Int64("user_id", id))
	return c.NoContent(http.StatusNoContent)
}

// ListUnits lista as unidades da rede
func (h *Handler) ListUnits(c echo.Context) error {
	units, err := h.repo.ListUnits(c.Request().Context())
	if err != nil {
		return h.respondError(c, "ListUnits", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"units": units})
}
