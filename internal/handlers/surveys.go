package handlers

import (
	"net/http"
	"time"

	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListSurveys lista pesquisas; ?active=true restringe à janela corrente
func (h *Handler) ListSurveys(c echo.Context) error {
	surveys, err := h.surveys.List(c.Request().Context(), c.QueryParam("active") == "true")
	if err != nil {
		return h.respondError(c, "ListSurveys", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"surveys": surveys})
}

// CreateSurvey registra uma pesquisa com a janela de resposta
func (h *Handler) CreateSurvey(c echo.Context) error {
	var req struct {
		Title     string                  `json:"title"`
		Questions []models.SurveyQuestion `json:"questions"`
		StartsAt  time.Time               `json:"starts_at"`
		EndsAt    time.Time               `json:"ends_at"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	survey, err := h.surveys.Create(c.Request().Context(), models.Survey{
		Title:     req.Title,
		Questions: req.Questions,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	})
	if err != nil {
		return h.respondError(c, "CreateSurvey", err)
	}

	h.logger.Info("CreateSurvey: pesquisa criada", zap.Int64("survey_id", survey.ID))
	return c.JSON(http.StatusCreated, map[string]any{"survey": survey})
}

// RespondSurvey registra a resposta única do usuário dentro da janela
func (h *Handler) RespondSurvey(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "RespondSurvey", err)
	}

	var req struct {
		Answers []int `json:"answers"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	response, err := h.surveys.Respond(c.Request().Context(), id, middleware.UserID(c), req.Answers)
	if err != nil {
		return h.respondError(c, "RespondSurvey", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"response": response})
}

// SurveyResults agrega as contagens por opção de cada pergunta
func (h *Handler) SurveyResults(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "SurveyResults", err)
	}

	results, err := h.surveys.Results(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "SurveyResults", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}
