package handlers

import (
	"net/http"

	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GirabotChat responde uma mensagem do usuário ao assistente
func (h *Handler) GirabotChat(c echo.Context) error {
	var req struct {
		SessionID string `json:"session_id"`
		Module    string `json:"module"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	result, err := h.girabot.Chat(c.Request().Context(), middleware.UserID(c),
		req.SessionID, req.Module, req.Message)
	if err != nil {
		return h.respondError(c, "GirabotChat", err)
	}

	h.logger.Info("GirabotChat: resposta gerada",
		zap.String("session_id", result.SessionID), zap.Bool("from_faq", result.FromFAQ))
	return c.JSON(http.StatusOK, result)
}

// ListGirabotFAQs lista as perguntas frequentes do assistente
func (h *Handler) ListGirabotFAQs(c echo.Context) error {
	faqs, err := h.girabot.FAQs(c.Request().Context())
	if err != nil {
		return h.respondError(c, "ListGirabotFAQs", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"faqs": faqs})
}

// GenerateGirabotReport gera e persiste um relatório do assistente
func (h *Handler) GenerateGirabotReport(c echo.Context) error {
	var req struct {
		Kind string `json:"kind"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	report, err := h.girabot.GenerateReport(c.Request().Context(), req.Kind)
	if err != nil {
		return h.respondError(c, "GenerateGirabotReport", err)
	}

	h.logger.Info("GenerateGirabotReport: relatório gerado",
		zap.Int64("report_id", report.ID), zap.String("kind", report.Kind))
	return c.JSON(http.StatusCreated, map[string]any{"report": report})
}

// ListGirabotReports lista os relatórios persistidos
func (h *Handler) ListGirabotReports(c echo.Context) error {
	reports, err := h.girabot.Reports(c.Request().Context())
	if err != nil {
		return h.respondError(c, "ListGirabotReports", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"reports": reports})
}
