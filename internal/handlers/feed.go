package handlers

import (
	"net/http"
	"strconv"

	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListFeed lista o feed com fixados primeiro
func (h *Handler) ListFeed(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "limit must be a positive integer"))
		}
		limit = parsed
	}

	posts, err := h.feed.List(c.Request().Context(), limit)
	if err != nil {
		return h.respondError(c, "ListFeed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"posts": posts})
}

// PublishFeedPost cria uma publicação comum no feed
func (h *Handler) PublishFeedPost(c echo.Context) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Pinned      bool   `json:"pinned"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	post, err := h.feed.Publish(c.Request().Context(), middleware.UserID(c), req.Title, req.Description, req.Pinned)
	if err != nil {
		return h.respondError(c, "PublishFeedPost", err)
	}

	h.logger.Info("PublishFeedPost: publicação criada", zap.Int64("post_id", post.ID))
	return c.JSON(http.StatusCreated, map[string]any{"post": post})
}

// DeleteFeedPost remove uma publicação do feed
func (h *Handler) DeleteFeedPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "DeleteFeedPost", err)
	}

	if err := h.feed.Delete(c.Request().Context(), id); err != nil {
		return h.respondError(c, "DeleteFeedPost", err)
	}

	h.logger.Info("DeleteFeedPost: publicação removida", zap.Int64("post_id", id))
	return c.NoContent(http.StatusNoContent)
}

// CommentFeedPost adiciona um comentário a uma publicação
func (h *Handler) CommentFeedPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "CommentFeedPost", err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	comment, err := h.feed.Comment(c.Request().Context(), id, middleware.UserID(c), req.Content)
	if err != nil {
		return h.respondError(c, "CommentFeedPost", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"comment": comment})
}

// ListFeedComments lista os comentários de uma publicação
func (h *Handler) ListFeedComments(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "ListFeedComments", err)
	}

	comments, err := h.feed.ListComments(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "ListFeedComments", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"comments": comments})
}

// RelatedFeedPosts sugere publicações relacionadas
func (h *Handler) RelatedFeedPosts(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "RelatedFeedPosts", err)
	}

	related, err := h.feed.Related(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "RelatedFeedPosts", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"related_ids": related})
}

// FeedEngagement retorna a análise de engajamento dos últimos 30 dias
func (h *Handler) FeedEngagement(c echo.Context) error {
	analysis, err := h.feed.Engagement(c.Request().Context())
	if err != nil {
		return h.respondError(c, "FeedEngagement", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"analysis": analysis})
}
