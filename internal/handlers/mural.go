package handlers

import (
	"net/http"

	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SubmitMuralPost envia uma publicação anônima pelo pipeline de moderação.
// A identidade do autor nunca é gravada junto da publicação.
func (h *Handler) SubmitMuralPost(c echo.Context) error {
	var req struct {
		Content    string   `json:"content"`
		CategoryID *int64   `json:"category_id"`
		MediaURLs  []string `json:"media_urls"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	post, err := h.mural.Submit(c.Request().Context(), req.Content, req.CategoryID, req.MediaURLs)
	if err != nil {
		return h.respondError(c, "SubmitMuralPost", err)
	}

	h.logger.Info("SubmitMuralPost: publicação processada",
		zap.Int64("post_id", post.ID), zap.String("status", post.Status))
	return c.JSON(http.StatusCreated, map[string]any{"post": post})
}

// ListMuralPosts lista publicações; sem filtro retorna só as aprovadas
func (h *Handler) ListMuralPosts(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = models.MuralStatusAprovado
	}
	if status != models.MuralStatusAprovado && middleware.Role(c) != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, newErrorResponse(ErrCodeUnauthorized, "insufficient role"))
	}

	posts, err := h.mural.List(c.Request().Context(), status)
	if err != nil {
		return h.respondError(c, "ListMuralPosts", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"posts": posts})
}

// RespondMuralPost adiciona uma resposta a uma publicação aprovada
func (h *Handler) RespondMuralPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "RespondMuralPost", err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	response, err := h.mural.Respond(c.Request().Context(), id, req.Content)
	if err != nil {
		return h.respondError(c, "RespondMuralPost", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"response": response})
}

// ListMuralResponses lista as respostas de uma publicação
func (h *Handler) ListMuralResponses(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "ListMuralResponses", err)
	}

	responses, err := h.mural.ListResponses(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "ListMuralResponses", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"responses": responses})
}

// ListMuralCategories lista as categorias do Mural
func (h *Handler) ListMuralCategories(c echo.Context) error {
	categories, err := h.mural.Categories(c.Request().Context())
	if err != nil {
		return h.respondError(c, "ListMuralCategories", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

// UploadMuralImage recebe uma imagem multipart e devolve a URL pública
func (h *Handler) UploadMuralImage(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "file field is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.respondError(c, "UploadMuralImage", err)
	}
	defer file.Close()

	url, err := h.uploads.Save("mural-images", fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return h.respondError(c, "UploadMuralImage", err)
	}

	h.logger.Info("UploadMuralImage: imagem salva", zap.String("url", url))
	return c.JSON(http.StatusCreated, map[string]any{"url": url})
}

// ModerateMuralPost aplica a decisão manual do moderador
func (h *Handler) ModerateMuralPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "ModerateMuralPost", err)
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	post, err := h.mural.Moderate(c.Request().Context(), id, middleware.UserID(c), req.Approve)
	if err != nil {
		return h.respondError(c, "ModerateMuralPost", err)
	}

	h.logger.Info("ModerateMuralPost: decisão aplicada",
		zap.Int64("post_id", id), zap.Bool("approve", req.Approve))
	return c.JSON(http.StatusOK, map[string]any{"post": post})
}

// GetMuralSettings lê as configurações de moderação
func (h *Handler) GetMuralSettings(c echo.Context) error {
	settings, err := h.mural.Settings(c.Request().Context())
	if err != nil {
		return h.respondError(c, "GetMuralSettings", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"settings": settings})
}

// UpdateMuralSettings grava as configurações de moderação
func (h *Handler) UpdateMuralSettings(c echo.Context) error {
	var settings models.MuralSettings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}
	if settings.ConfidenceThreshold < 0 || settings.ConfidenceThreshold > 100 {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "confidence_threshold must be between 0 and 100"))
	}

	if err := h.mural.UpdateSettings(c.Request().Context(), settings); err != nil {
		return h.respondError(c, "UpdateMuralSettings", err)
	}

	h.logger.Info("UpdateMuralSettings: configurações atualizadas",
		zap.Bool("auto_approve", settings.AutoApprove),
		zap.Int("confidence_threshold", settings.ConfidenceThreshold))
	return c.JSON(http.StatusOK, map[string]any{"settings": settings})
}
