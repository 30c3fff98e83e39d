package handlers

import (
	"net/http"

	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/labstack/echo/v4"
)

// ListNotifications lista as notificações do usuário autenticado
func (h *Handler) ListNotifications(c echo.Context) error {
	onlyUnread := c.QueryParam("unread") == "true"

	notifs, err := h.repo.ListNotifications(c.Request().Context(), middleware.UserID(c), onlyUnread)
	if err != nil {
		return h.respondError(c, "ListNotifications", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"notifications": notifs})
}

// UnreadNotificationCount retorna o contador de não lidas
func (h *Handler) UnreadNotificationCount(c echo.Context) error {
	count, err := h.repo.CountUnreadNotifications(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.respondError(c, "UnreadNotificationCount", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"count": count})
}

// MarkNotificationRead marca uma notificação do usuário como lida
func (h *Handler) MarkNotificationRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "MarkNotificationRead", err)
	}

	if err := h.repo.MarkNotificationRead(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return h.respondError(c, "MarkNotificationRead", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsRead marca todas as notificações do usuário como lidas
func (h *Handler) MarkAllNotificationsRead(c echo.Context) error {
	if err := h.repo.MarkAllNotificationsRead(c.Request().Context(), middleware.UserID(c)); err != nil {
		return h.respondError(c, "MarkAllNotificationsRead", err)
	}
	return c.NoContent(http.StatusNoContent)
}
