package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/crescieperdi/portal-interno/internal/ai"
	"github.com/crescieperdi/portal-interno/internal/config"
	"github.com/crescieperdi/portal-interno/internal/middleware"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/crescieperdi/portal-interno/internal/service"
	"github.com/crescieperdi/portal-interno/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Códigos de erro da API
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeTransition    = "INVALID_TRANSITION"
	ErrCodeAIUnavailable = "AI_UNAVAILABLE"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL"
)

type Handler struct {
	repo      *repository.Repository
	ideas     *service.IdeaService
	mural     *service.MuralService
	feed      *service.FeedService
	girabot   *service.GirabotService
	trainings *service.TrainingService
	surveys   *service.SurveyService
	uploads   *storage.Store
	auth      config.AuthConfig
	logger    *zap.Logger
}

// New cria o conjunto de handlers da API
func New(
	repo *repository.Repository,
	ideas *service.IdeaService,
	mural *service.MuralService,
	feed *service.FeedService,
	girabot *service.GirabotService,
	trainings *service.TrainingService,
	surveys *service.SurveyService,
	uploads *storage.Store,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		repo:      repo,
		ideas:     ideas,
		mural:     mural,
		feed:      feed,
		girabot:   girabot,
		trainings: trainings,
		surveys:   surveys,
		uploads:   uploads,
		auth:      authCfg,
		logger:    logger,
	}
}

// ErrorResponse é a estrutura de erro padrão da API
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newErrorResponse cria a resposta de erro padrão
func newErrorResponse(code, message string) ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return resp
}

// respondError mapeia os erros sentinela para o status HTTP e o código da API
func (h *Handler) respondError(c echo.Context, operation string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, newErrorResponse(ErrCodeNotFound, "resource not found"))
	case errors.Is(err, repository.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, newErrorResponse(ErrCodeConflict, "resource already exists"))
	case errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, newErrorResponse(ErrCodeTransition, "operation not allowed in current status"))
	case errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrFeedbackRequired),
		errors.Is(err, service.ErrResponsibleRequired),
		errors.Is(err, service.ErrDeadlineInPast),
		errors.Is(err, service.ErrResponsibleRole),
		errors.Is(err, service.ErrVotingClosed),
		errors.Is(err, service.ErrSurveyClosed):
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, err.Error()))
	case errors.Is(err, ai.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, newErrorResponse(ErrCodeAIUnavailable, "ai function unavailable"))
	case errors.Is(err, service.ErrGirabotDisabled):
		return c.JSON(http.StatusServiceUnavailable, newErrorResponse(ErrCodeAIUnavailable, "girabot is disabled"))
	case errors.Is(err, storage.ErrTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, newErrorResponse(ErrCodeValidation, "file exceeds size limit"))
	case errors.Is(err, storage.ErrUnsupportedType):
		return c.JSON(http.StatusBadRequest, newErrorResponse(ErrCodeValidation, "unsupported content type"))
	}

	h.logger.Error(operation+": erro interno", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, newErrorResponse(ErrCodeInternal, "internal error"))
}

// pathID lê o parâmetro :id da rota
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, repository.ErrInvalidInput
	}
	return id, nil
}

// RegisterRoutes registra todas as rotas da API
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Público
	e.POST("/auth/login", h.Login)

	authed := e.Group("", middleware.RequireAuth(h.auth.JWTSecret))
	admin := e.Group("", middleware.RequireAuth(h.auth.JWTSecret),
		middleware.RequireRole(models.RoleAdmin))
	managers := e.Group("", middleware.RequireAuth(h.auth.JWTSecret),
		middleware.RequireRole(models.RoleAdmin, models.RoleGestorSetor))

	authed.GET("/me", h.Me)

	// Ideias
	authed.POST("/ideas", h.SubmitIdea)
	authed.GET("/ideas", h.ListIdeas)
	authed.GET("/ideas/:id", h.GetIdea)
	authed.POST("/ideas/:id/vote", h.VoteIdea)
	admin.GET("/ideas/stats", h.IdeaStats)
	admin.GET("/ideas/:id/duplicates", h.IdeaDuplicates)
	admin.POST("/ideas/:id/approve-voting", h.ApproveIdeaForVoting)
	admin.POST("/ideas/:id/curate", h.CurateIdea)
	admin.POST("/ideas/:id/start-implementation", h.StartIdeaImplementation)
	admin.POST("/ideas/:id/implement", h.MarkIdeaImplemented)

	// Mural
	authed.POST("/mural/posts", h.SubmitMuralPost)
	authed.GET("/mural/posts", h.ListMuralPosts)
	authed.POST("/mural/posts/:id/responses", h.RespondMuralPost)
	authed.GET("/mural/posts/:id/responses", h.ListMuralResponses)
	authed.GET("/mural/categories", h.ListMuralCategories)
	authed.POST("/mural/images", h.UploadMuralImage)
	admin.POST("/mural/posts/:id/moderate", h.ModerateMuralPost)
	admin.GET("/mural/settings", h.GetMuralSettings)
	admin.PUT("/mural/settings", h.UpdateMuralSettings)

	// Feed
	authed.GET("/feed", h.ListFeed)
	authed.POST("/feed/:id/comments", h.CommentFeedPost)
	authed.GET("/feed/:id/comments", h.ListFeedComments)
	authed.GET("/feed/:id/related", h.RelatedFeedPosts)
	managers.POST("/feed", h.PublishFeedPost)
	admin.DELETE("/feed/:id", h.DeleteFeedPost)
	admin.GET("/feed/engagement", h.FeedEngagement)

	// Notificações
	authed.GET("/notifications", h.ListNotifications)
	authed.GET("/notifications/unread-count", h.UnreadNotificationCount)
	authed.POST("/notifications/:id/read", h.MarkNotificationRead)
	authed.POST("/notifications/read-all", h.MarkAllNotificationsRead)

	// Usuários (admin-users)
	admin.POST("/admin/users", h.CreateUser)
	admin.GET("/admin/users", h.ListUsers)
	admin.PUT("/admin/users/:id", h.UpdateUser)
	admin.DELETE("/admin/users/:id", h.DeleteUser)
	admin.POST("/admin/users/:id/reset-password", h.ResetUserPassword)
	authed.GET("/units", h.ListUnits)

	// Treinamentos
	authed.GET("/trainings", h.ListTrainings)
	authed.GET("/trainings/categories", h.ListTrainingCategories)
	authed.GET("/trainings/:id", h.GetTraining)
	authed.POST("/trainings/:id/attempts", h.SubmitQuizAttempt)
	authed.GET("/trainings/:id/attempts", h.ListQuizAttempts)
	managers.POST("/trainings", h.CreateTraining)

	// Pesquisas
	authed.GET("/surveys", h.ListSurveys)
	authed.POST("/surveys/:id/responses", h.RespondSurvey)
	admin.POST("/surveys", h.CreateSurvey)
	admin.GET("/surveys/:id/results", h.SurveyResults)

	// Checklists
	authed.GET("/checklists", h.ListChecklists)
	authed.POST("/checklists/:id/toggle", h.ToggleChecklistItem)
	managers.POST("/checklists", h.CreateChecklist)
	managers.DELETE("/checklists/:id", h.DeleteChecklist)

	// GiraBot
	authed.POST("/girabot/chat", h.GirabotChat)
	authed.GET("/girabot/faqs", h.ListGirabotFAQs)
	admin.POST("/girabot/reports", h.GenerateGirabotReport)
	admin.GET("/girabot/reports", h.ListGirabotReports)
}
