package handlers

import (
	"net/http"
	"strconv"

	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListTrainings lista treinamentos, opcionalmente por categoria
func (h *Handler) ListTrainings(c echo.Context) error {
	var categoryID int64
	if raw := c.QueryParam("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "category_id must be a positive integer"))
		}
		categoryID = parsed
	}

	trainings, err := h.trainings.List(c.Request().Context(), categoryID)
	if err != nil {
		return h.respondError(c, "ListTrainings", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"trainings": trainings})
}

// ListTrainingCategories lista as categorias de treinamento
func (h *Handler) ListTrainingCategories(c echo.Context) error {
	categories, err := h.trainings.Categories(c.Request().Context())
	if err != nil {
		return h.respondError(c, "ListTrainingCategories", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

// GetTraining busca um treinamento pelo id
func (h *Handler) GetTraining(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "GetTraining", err)
	}

	training, err := h.trainings.Get(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, "GetTraining", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"training": training})
}

// CreateTraining registra um treinamento; pode gerar o quiz por IA
func (h *Handler) CreateTraining(c echo.Context) error {
	var req struct {
		Title        string                `json:"title"`
		CategoryID   *int64                `json:"category_id"`
		ContentURL   string                `json:"content_url"`
		Questions    []models.QuizQuestion `json:"questions"`
		GenerateQuiz bool                  `json:"generate_quiz"`
		QuizSize     int                   `json:"quiz_size"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	training, err := h.trainings.Create(c.Request().Context(), models.Training{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		ContentURL: req.ContentURL,
		Questions:  req.Questions,
	}, req.GenerateQuiz, req.QuizSize)
	if err != nil {
		return h.respondError(c, "CreateTraining", err)
	}

	h.logger.Info("CreateTraining: treinamento criado",
		zap.Int64("training_id", training.ID), zap.Int("questions", len(training.Questions)))
	return c.JSON(http.StatusCreated, map[string]any{"training": training})
}

// SubmitQuizAttempt corrige a tentativa e devolve nota e feedback
func (h *Handler) SubmitQuizAttempt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "SubmitQuizAttempt", err)
	}

	var req struct {
		Answers []int `json:"answers"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "invalid request body"))
	}

	attempt, err := h.trainings.SubmitAttempt(c.Request().Context(), id, middleware.UserID(c), req.Answers)
	if err != nil {
		return h.respondError(c, "SubmitQuizAttempt", err)
	}

	h.logger.Info("SubmitQuizAttempt: tentativa corrigida",
		zap.Int64("training_id", id), zap.Int("score", attempt.Score))
	return c.JSON(http.StatusCreated, map[string]any{"attempt": attempt})
}

// ListQuizAttempts lista as tentativas do usuário em um treinamento
func (h *Handler) ListQuizAttempts(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return h.respondError(c, "ListQuizAttempts", err)
	}

	attempts, err := h.trainings.Attempts(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return h.respondError(c, "ListQuizAttempts", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"attempts": attempts})
}
