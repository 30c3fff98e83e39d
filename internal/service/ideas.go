package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"go.uber.org/zap"
)

// Erros de validação das operações de ideia
var (
	ErrInvalidCategory     = errors.New("invalid idea category")
	ErrInvalidDuration     = errors.New("voting duration must be 7, 10, 14 or 21 days")
	ErrInvalidDecision     = errors.New("decision must be aprovada or recusada")
	ErrFeedbackRequired    = errors.New("feedback text is required")
	ErrResponsibleRequired = errors.New("responsible user and deadline are required")
	ErrDeadlineInPast      = errors.New("deadline must not be before today")
	ErrResponsibleRole     = errors.New("responsible user must be admin or gestor_setor")
	ErrVotingClosed        = errors.New("voting window is closed")
)

// votingDurations são as durações de votação aceitas, em dias
var votingDurations = map[int]bool{7: true, 10: true, 14: true, 21: true}

// IdeaStore é o acesso a dados exigido pelo ciclo de vida de ideias
type IdeaStore interface {
	CreateIdea(ctx context.Context, idea models.Idea) (*models.Idea, error)
	GetIdea(ctx context.Context, id int64) (*models.Idea, error)
	ListIdeas(ctx context.Context, status, category string) ([]models.Idea, error)
	MarkVoting(ctx context.Context, ideaID int64, voteStart, voteEnd time.Time, notif models.Notification) (*models.Idea, error)
	AddVote(ctx context.Context, vote models.IdeaVote) (*models.Idea, error)
	Curate(ctx context.Context, ideaID int64, decision string, fb models.IdeaFeedback, notif models.Notification) (*models.Idea, error)
	StartImplementation(ctx context.Context, ideaID, responsibleID int64, deadline time.Time, notifs []models.Notification) (*models.Idea, error)
	MarkImplemented(ctx context.Context, ideaID int64, feedback string, notif models.Notification) (*models.Idea, error)
	CountIdeasByStatus(ctx context.Context) (*models.IdeaStats, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	GetSetting(ctx context.Context, key, def string) (string, error)
}

// Mirrorer espelha um registro de outro módulo no feed principal
type Mirrorer interface {
	Mirror(ctx context.Context, sourceType string, sourceID int64, title, description string, pinned bool) (int64, error)
}

// DuplicateDetector é a consulta consultiva de ideias semelhantes
type DuplicateDetector interface {
	DetectDuplicateIdeas(ctx context.Context, title, description string) (string, error)
}

// IdeaService conduz uma ideia pelo pipeline
// triagem → em_votacao → {aprovada → em_implementacao → implementada | recusada}.
type IdeaService struct {
	store      IdeaStore
	feed       Mirrorer
	ai         DuplicateDetector
	dispatcher Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func NewIdeaService(store IdeaStore, feed Mirrorer, aiClient DuplicateDetector, dispatcher Dispatcher, logger *zap.Logger) *IdeaService {
	return &IdeaService{
		store:      store,
		feed:       feed,
		ai:         aiClient,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit registra uma nova ideia em triagem
func (s *IdeaService) Submit(ctx context.Context, userID int64, title, description, category string, quorum int, mediaURLs []string) (*models.Idea, error) {
	if title == "" || description == "" {
		return nil, repository.ErrInvalidInput
	}
	if !models.ValidIdeaCategory(category) {
		return nil, ErrInvalidCategory
	}

	idea := models.Idea{
		Title:       title,
		Description: description,
		Category:    category,
		Quorum:      quorum,
		SubmittedBy: userID,
		MediaURLs:   mediaURLs,
	}
	return s.store.CreateIdea(ctx, idea)
}

// Get busca uma ideia pelo id
func (s *IdeaService) Get(ctx context.Context, id int64) (*models.Idea, error) {
	return s.store.GetIdea(ctx, id)
}

// List lista ideias com filtros opcionais
func (s *IdeaService) List(ctx context.Context, status, category string) ([]models.Idea, error) {
	return s.store.ListIdeas(ctx, status, category)
}

// Stats agrega contagens por status para o painel
func (s *IdeaService) Stats(ctx context.Context) (*models.IdeaStats, error) {
	return s.store.CountIdeasByStatus(ctx)
}

// ApproveForVoting abre a votação: vote_end = vote_start + durationDays.
// Notifica o autor na mesma transação da mudança de status.
func (s *IdeaService) ApproveForVoting(ctx context.Context, ideaID int64, durationDays int) (*models.Idea, error) {
	if !votingDurations[durationDays] {
		return nil, ErrInvalidDuration
	}

	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionIdea(idea.Status, models.IdeaStatusEmVotacao) {
		return nil, repository.ErrInvalidTransition
	}

	voteStart := s.now()
	voteEnd := voteStart.Add(time.Duration(durationDays) * 24 * time.Hour)

	notif := models.Notification{
		UserID:      idea.SubmittedBy,
		ReferenceID: &idea.ID,
		Type:        models.NotificationIdeaVotacao,
		Message: fmt.Sprintf("Sua ideia %s entrou em votação até %s.",
			idea.Code, voteEnd.Format("02/01/2006")),
	}

	updated, err := s.store.MarkVoting(ctx, ideaID, voteStart, voteEnd, notif)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, notif)
	s.logger.Info("votação aberta",
		zap.Int64("idea_id", ideaID),
		zap.Int("duration_days", durationDays))
	return updated, nil
}

// DuplicateAdvisory consulta a função de detecção de ideias semelhantes.
// O parecer é exibido ao curador e nunca bloqueia a transição.
func (s *IdeaService) DuplicateAdvisory(ctx context.Context, ideaID int64) (string, error) {
	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return "", err
	}
	return s.ai.DetectDuplicateIdeas(ctx, idea.Title, idea.Description)
}

// Vote registra um voto único durante a janela de votação
func (s *IdeaService) Vote(ctx context.Context, ideaID, userID int64, positive bool) (*models.Idea, error) {
	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.Status != models.IdeaStatusEmVotacao {
		return nil, repository.ErrInvalidTransition
	}
	if idea.VoteEnd != nil && s.now().After(*idea.VoteEnd) {
		return nil, ErrVotingClosed
	}

	return s.store.AddVote(ctx, models.IdeaVote{IdeaID: ideaID, UserID: userID, Positive: positive})
}

// Curate aplica o parecer da curadoria ao fim da votação. O quorum exibido
// é informativo; a decisão é do curador, que registra feedback obrigatório.
func (s *IdeaService) Curate(ctx context.Context, ideaID, curatorID int64, decision, feedbackText, viabilityLevel, impactLevel string) (*models.Idea, error) {
	if decision != models.IdeaStatusAprovada && decision != models.IdeaStatusRecusada {
		return nil, ErrInvalidDecision
	}
	if feedbackText == "" {
		return nil, ErrFeedbackRequired
	}

	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionIdea(idea.Status, decision) {
		return nil, repository.ErrInvalidTransition
	}

	fb := models.IdeaFeedback{
		IdeaID:         ideaID,
		CuratorID:      curatorID,
		Decision:       decision,
		Text:           feedbackText,
		ViabilityLevel: viabilityLevel,
		ImpactLevel:    impactLevel,
	}

	var message string
	if decision == models.IdeaStatusAprovada {
		message = fmt.Sprintf("Sua ideia %s foi aprovada na curadoria.", idea.Code)
	} else {
		message = fmt.Sprintf("Sua ideia %s foi recusada na curadoria.", idea.Code)
	}
	notif := models.Notification{
		UserID:      idea.SubmittedBy,
		ReferenceID: &idea.ID,
		Type:        models.NotificationIdeaCuradoria,
		Message:     message,
	}

	updated, err := s.store.Curate(ctx, ideaID, decision, fb, notif)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, notif)

	// Publicação automática no feed quando habilitada nas configurações globais
	if decision == models.IdeaStatusAprovada {
		autoPublish, err := s.store.GetSetting(ctx, repository.SettingAutoPublishIdeas, "false")
		if err != nil {
			s.logger.Warn("falha ao ler configuração de publicação automática", zap.Error(err))
		} else if autoPublish == "true" {
			s.mirrorIdea(ctx, updated, fmt.Sprintf("Ideia aprovada: %s", updated.Title), false)
		}
	}

	return updated, nil
}

// StartImplementation atribui responsável e prazo; notifica autor e responsável
func (s *IdeaService) StartImplementation(ctx context.Context, ideaID, responsibleID int64, deadline time.Time, notes string) (*models.Idea, error) {
	if responsibleID == 0 || deadline.IsZero() {
		return nil, ErrResponsibleRequired
	}
	today := s.now().Truncate(24 * time.Hour)
	if deadline.Before(today) {
		return nil, ErrDeadlineInPast
	}

	responsible, err := s.store.GetProfile(ctx, responsibleID)
	if err != nil {
		return nil, err
	}
	if !models.CanImplement(responsible.Role) {
		return nil, ErrResponsibleRole
	}

	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionIdea(idea.Status, models.IdeaStatusEmImplementacao) {
		return nil, repository.ErrInvalidTransition
	}

	notifs := []models.Notification{
		{
			UserID:      idea.SubmittedBy,
			ReferenceID: &idea.ID,
			Type:        models.NotificationIdeaImplementacao,
			Message: fmt.Sprintf("Sua ideia %s entrou em implementação, com prazo até %s.",
				idea.Code, deadline.Format("02/01/2006")),
		},
		{
			UserID:      responsibleID,
			ReferenceID: &idea.ID,
			Type:        models.NotificationIdeaImplementacao,
			Message: fmt.Sprintf("Você é o responsável pela implementação da ideia %s. %s",
				idea.Code, notes),
		},
	}

	updated, err := s.store.StartImplementation(ctx, ideaID, responsibleID, deadline, notifs)
	if err != nil {
		return nil, err
	}

	for _, notif := range notifs {
		s.dispatch(ctx, notif)
	}
	return updated, nil
}

// MarkImplemented finaliza a ideia; opcionalmente publica um anúncio fixado no feed
func (s *IdeaService) MarkImplemented(ctx context.Context, ideaID int64, feedbackText string, publishToFeed bool) (*models.Idea, error) {
	idea, err := s.store.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionIdea(idea.Status, models.IdeaStatusImplementada) {
		return nil, repository.ErrInvalidTransition
	}

	notif := models.Notification{
		UserID:      idea.SubmittedBy,
		ReferenceID: &idea.ID,
		Type:        models.NotificationIdeaImplementada,
		Message:     fmt.Sprintf("Sua ideia %s foi implementada. Obrigado por contribuir!", idea.Code),
	}

	updated, err := s.store.MarkImplemented(ctx, ideaID, feedbackText, notif)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, notif)

	if publishToFeed {
		s.mirrorIdea(ctx, updated, fmt.Sprintf("Ideia implementada: %s", updated.Title), true)
	}

	return updated, nil
}

// mirrorIdea espelha a ideia no feed; falha apenas gera warning (fire-and-forget)
func (s *IdeaService) mirrorIdea(ctx context.Context, idea *models.Idea, title string, pinned bool) {
	if _, err := s.feed.Mirror(ctx, models.FeedSourceIdeia, idea.ID, title, idea.Description, pinned); err != nil {
		s.logger.Warn("falha ao espelhar ideia no feed",
			zap.Int64("idea_id", idea.ID), zap.Error(err))
	}
}

// dispatch envia a notificação ao canal externo (push/WhatsApp); nunca falha a operação
func (s *IdeaService) dispatch(ctx context.Context, notif models.Notification) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Send(ctx, notif.UserID, notif.Message); err != nil {
		s.logger.Warn("falha ao despachar notificação externa",
			zap.Int64("user_id", notif.UserID), zap.Error(err))
	}
}
