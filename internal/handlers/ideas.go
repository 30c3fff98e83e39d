package handlers

import (
	"net/http"
	"time"

	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SubmitIdea registra uma nova ideia em triagem
func (h *Handler) SubmitIdea(c echo.Context) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Quorum      int      `json:"quorum"`
		MediaURLs   []string `json:"media_urls"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	idea, err := h.ideas.Submit(c.Request().Context(), middleware.UserID(c),
		req.Title, req.Description, req.Category, req.Quorum, req.MediaURLs)
	if err != nil {
		return h.respondError(c, "SubmitIdea", err)
	}

	h.logger.Info("SubmitIdea: ideia registrada",
		zap.Int64("idea_id", idea.ID), zap.String("code", idea.Code))
	return c.JSON(http.StatusCreated, map[string]any{"idea": idea})
}

// ListIdeas lista ideias com filtros opcionais de status e categoria
func (h *Handler) ListIdeas(c echo.Context) error {
	ideas, err := h.ideas.List(c.Request().Context(),
		c.QueryParam("status"), c.QueryParam("category"))
	if err != nil {
		return h.respondError(c, "ListIdeas", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"ideas": ideas})
}

// GetIdea busca uma ideia pelo id
func (h *Handler) GetIdea(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "GetIdea", err)
	}

	idea, err := h.ideas.Get(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "GetIdea", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"idea": idea})
}

// IdeaStats retorna as contagens por status para o painel
func (h *Handler) IdeaStats(c echo.Context) error {
	stats, err := h.ideas.Stats(c.Request().Context())
	if err != nil {
		return h.respondError(c, "IdeaStats", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"stats": stats})
}

// VoteIdea registra o voto do usuário na janela de votação
func (h *Handler) VoteIdea(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "VoteIdea", err)
	}

	var req struct {
		Positive bool `json:"positive"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	idea, err := h.ideas.Vote(c.Request().Context(), id, middleware.UserID(c), req.Positive)
	if err != nil {
		return h.respondError(c, "VoteIdea", err)
	}

	h.logger.Info("VoteIdea: voto registrado",
		zap.Int64("idea_id", id), zap.Bool("positive", req.Positive))
	return c.JSON(http.StatusOK, map[string]any{"idea": idea})
}

// IdeaDuplicates retorna o parecer consultivo de ideias semelhantes
func (h *Handler) IdeaDuplicates(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "IdeaDuplicates", err)
	}

	advisory, err := h.ideas.DuplicateAdvisory(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "IdeaDuplicates", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"advisory": advisory})
}

// ApproveIdeaForVoting abre a votação de uma ideia em triagem
func (h *Handler) ApproveIdeaForVoting(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "ApproveIdeaForVoting", err)
	}

	var req struct {
		DurationDays int `json:"duration_days"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	idea, err := h.ideas.ApproveForVoting(c.Request().Context(), id, req.DurationDays)
	if err != nil {
		return h.respondError(c, "ApproveIdeaForVoting", err)
	}

	h.logger.Info("ApproveIdeaForVoting: votação aberta",
		zap.Int64("idea_id", id), zap.Int("duration_days", req.DurationDays))
	return c.JSON(http.StatusOK, map[string]any{"idea": idea})
}

// CurateIdea aplica o parecer da curadoria após a votação
func (h *Handler) CurateIdea(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "CurateIdea", err)
	}

	var req struct {
		Decision       string `json:"decision"`
		Feedback       string `json:"feedback"`
		ViabilityLevel string `json:"viability_level"`
		ImpactLevel    string `json:"impact_level"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	idea, err := h.ideas.Curate(c.Request().Context(), id, middleware.UserID(c),
		req.Decision, req.Feedback, req.ViabilityLevel, req.ImpactLevel)
	if err != nil {
		return h.respondError(c, "CurateIdea", err)
	}

	h.logger.Info("CurateIdea: parecer registrado",
		zap.Int64("idea_id", id), zap.String("decision", req.Decision))
	return c.JSON(http.StatusOK, map[string]any{"idea": idea})
}

// StartIdeaImplementation atribui responsável e prazo à ideia aprovada
func (h *Handler) StartIdeaImplementation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "StartIdeaImplementation", err)
	}

	var req struct {
		ResponsibleID int64  `json:"responsible_id"`
		Deadline      string `json:"deadline"`
		Notes         string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "deadline must be YYYY-MM-DD"))
	}

	idea, err := h.ideas.StartImplementation(c.Request().Context(), id, req.ResponsibleID, deadline, req.Notes)
	if err != nil {
		return h.respondError(c, "StartIdeaImplementation", err)
	}

	h.logger.Info("StartIdeaImplementation: implementação iniciada",
		zap.Int64("idea_id", id), zap.Int64("responsible_id", req.ResponsibleID))
	return c.JSON(http.StatusOK, map[string]any{"idea": idea})
}

// MarkIdeaImplemented finaliza a ideia, com anúncio opcional no feed
func (h *Handler) MarkIdeaImplemented(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "MarkIdeaImplemented", err)
	}

	var req struct {
		Feedback      string `json:"feedback"`
		PublishToFeed bool   `json:"publish_to_feed"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	idea, err := h.ideas.MarkImplemented(c.Request().Context(), id, req.Feedback, req.PublishToFeed)
	if err != nil {
		return h.respondError(c, "MarkIdeaImplemented", err)
	}

	h.logger.Info("MarkIdeaImplemented: ideia implementada", zap.Int64("idea_id", id))
	return c.JSON(http.StatusOK, map[string]any{"idea": idea})
}
