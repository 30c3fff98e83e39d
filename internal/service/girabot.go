package service

import (
	"context"
	"errors"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resposta substituta quando o LLM está indisponível
const girabotFallbackReply = "O GiraBot está indisponível no momento. Tente novamente em alguns minutos."

var ErrGirabotDisabled = errors.New("girabot is disabled")

// GirabotStore é o acesso a dados do assistente
type GirabotStore interface {
	CreateAISession(ctx context.Context, session models.AISession) (*models.AISession, error)
	GetAISession(ctx context.Context, sessionID string, userID int64) (*models.AISession, error)
	UpdateAISessionMessages(ctx context.Context, sessionID string, msgs []models.ChatMessage) error
	FindFAQAnswer(ctx context.Context, question string) (string, error)
	ListFAQs(ctx context.Context) ([]models.GirabotFAQ, error)
	GetGirabotSettings(ctx context.Context) (*models.GirabotSettings, error)
	CreateGirabotReport(ctx context.Context, report models.GirabotReport) (*models.GirabotReport, error)
	ListGirabotReports(ctx context.Context) ([]models.GirabotReport, error)
}

// GirabotAI são as funções de IA consumidas pelo assistente
type GirabotAI interface {
	Chat(ctx context.Context, module, systemPrompt string, messages []models.ChatMessage) (string, error)
	GenerateReport(ctx context.Context, kind string) (string, error)
}

// GirabotService conduz as conversas e os relatórios do assistente
type GirabotService struct {
	store  GirabotStore
	ai     GirabotAI
	logger *zap.Logger
}

func NewGirabotService(store GirabotStore, aiClient GirabotAI, logger *zap.Logger) *GirabotService {
	return &GirabotService{store: store, ai: aiClient, logger: logger}
}

// ChatResult é o retorno de uma rodada de conversa
type ChatResult struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	FromFAQ   bool   `json:"from_faq"`
}

// Chat responde uma mensagem do usuário. Perguntas com resposta pré-autorada
// (FAQ) são respondidas sem chamada ao LLM; falha do LLM devolve o texto
// substituto em vez de erro.
func (s *GirabotService) Chat(ctx context.Context, userID int64, sessionID, module, message string) (*ChatResult, error) {
	if message == "" {
		return nil, repository.ErrInvalidInput
	}

	settings, err := s.store.GetGirabotSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		return nil, ErrGirabotDisabled
	}

	// Curto-circuito pela FAQ: mesma pergunta, resposta local
	if answer, err := s.store.FindFAQAnswer(ctx, message); err == nil {
		return &ChatResult{SessionID: sessionID, Reply: answer, FromFAQ: true}, nil
	}

	var session *models.AISession
	if sessionID == "" {
		session, err = s.store.CreateAISession(ctx, models.AISession{
			ID:     uuid.NewString(),
			UserID: userID,
			Module: module,
		})
	} else {
		session, err = s.store.GetAISession(ctx, sessionID, userID)
	}
	if err != nil {
		return nil, err
	}

	session.Messages = append(session.Messages, models.ChatMessage{Role: "user", Content: message})

	reply, err := s.ai.Chat(ctx, module, settings.SystemPrompt, session.Messages)
	if err != nil {
		reply = girabotFallbackReply
	}

	session.Messages = append(session.Messages, models.ChatMessage{Role: "assistant", Content: reply})
	if err := s.store.UpdateAISessionMessages(ctx, session.ID, session.Messages); err != nil {
		s.logger.Warn("falha ao persistir transcript da sessão",
			zap.String("session_id", session.ID), zap.Error(err))
	}

	return &ChatResult{SessionID: session.ID, Reply: reply}, nil
}

// FAQs lista as perguntas frequentes
func (s *GirabotService) FAQs(ctx context.Context) ([]models.GirabotFAQ, error) {
	return s.store.ListFAQs(ctx)
}

// GenerateReport gera e persiste um relatório do assistente
func (s *GirabotService) GenerateReport(ctx context.Context, kind string) (*models.GirabotReport, error) {
	if kind == "" {
		return nil, repository.ErrInvalidInput
	}

	content, err := s.ai.GenerateReport(ctx, kind)
	if err != nil {
		return nil, err
	}

	return s.store.CreateGirabotReport(ctx, models.GirabotReport{Kind: kind, Content: content})
}

// Reports lista os relatórios persistidos
func (s *GirabotService) Reports(ctx context.Context) ([]models.GirabotReport, error) {
	return s.store.ListGirabotReports(ctx)
}
