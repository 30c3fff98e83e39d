package handlers

import (
	"net/http"
	"strconv"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListChecklists lista checklists, opcionalmente por unidade
func (h *Handler) ListChecklists(c echo.Context) error {
	var unitID int64
	if raw := c.QueryParam("unit_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "unit_id must be a positive integer"))
		}
		unitID = parsed
	}

	checklists, err := h.repo.ListChecklists(c.Request().Context(), unitID)
	if err != nil {
		return h.respondError(c, "ListChecklists", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"checklists": checklists})
}

// CreateChecklist registra um checklist operacional
func (h *Handler) CreateChecklist(c echo.Context) error {
	var req struct {
		Title      string   `json:"title"`
		Items      []string `json:"items"`
		UnitID     *int64   `json:"unit_id"`
		AssignedTo *int64   `json:"assigned_to"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}
	if req.Title == "" || len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "title and items are required"))
	}

	items := make([]models.ChecklistItem, len(req.Items))
	for i, text := range req.Items {
		items[i] = models.ChecklistItem{Text: text}
	}

	checklist, err := h.repo.CreateChecklist(c.Request().Context(), models.Checklist{
		Title:      req.Title,
		Items:      items,
		UnitID:     req.UnitID,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return h.respondError(c, "CreateChecklist", err)
	}

	h.logger.Info("CreateChecklist: checklist criado", zap.Int64("checklist_id", checklist.ID))
	return c.JSON(http.StatusCreated, map[string]any{"checklist": checklist})
}

// ToggleChecklistItem inverte o estado de um item pelo índice
func (h *Handler) ToggleChecklistItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "ToggleChecklistItem", err)
	}

	var req struct {
		ItemIndex int `json:"item_index"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	checklist, err := h.repo.ToggleChecklistItem(c.Request().Context(), id, req.ItemIndex)
	if err != nil {
		return h.respondError(c, "ToggleChecklistItem", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"checklist": checklist})
}

// DeleteChecklist remove um checklist
func (h *Handler) DeleteChecklist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "DeleteChecklist", err)
	}

	if err := h.repo.DeleteChecklist(c.Request().Context(), id); err != nil {
		return h.respondError(c, "DeleteChecklist", err)
	}

	h.logger.Info("DeleteChecklist: checklist removido", zap.Int64("checklist_id", id))
	return c.NoContent(http.StatusNoContent)
}
