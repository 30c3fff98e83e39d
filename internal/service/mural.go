package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/crescieperdi/portal-interno/internal/ai"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"go.uber.org/zap"
)

// MuralStore é o acesso a dados do Mural
type MuralStore interface {
	CreateMuralPost(ctx context.Context, post models.MuralPost) (*models.MuralPost, error)
	GetMuralPost(ctx context.Context, id int64) (*models.MuralPost, error)
	ListMuralPosts(ctx context.Context, status string) ([]models.MuralPost, error)
	ModerateMuralPost(ctx context.Context, postID, moderatorID int64, status string) (*models.MuralPost, error)
	CreateMuralResponse(ctx context.Context, response models.MuralResponse) (*models.MuralResponse, error)
	ListMuralResponses(ctx context.Context, postID int64) ([]models.MuralResponse, error)
	ListMuralCategories(ctx context.Context) ([]models.MuralCategory, error)
	GetMuralSettings(ctx context.Context) (*models.MuralSettings, error)
	UpdateMuralSettings(ctx context.Context, settings models.MuralSettings) error
	ListProfilesByRole(ctx context.Context, role string) ([]models.Profile, error)
	CreateNotification(ctx context.Context, notif models.Notification) error
}

// MuralAI agrupa as funções de IA do pipeline de submissão
type MuralAI interface {
	Anonymize(ctx context.Context, text string) (string, error)
	ValidateMural(ctx context.Context, text string, confidenceThreshold int) (*ai.MuralVerdict, error)
}

// MuralService executa o pipeline de submissão e a moderação do Mural
type MuralService struct {
	store  MuralStore
	ai     MuralAI
	feed   Mirrorer
	logger *zap.Logger
	now    func() time.Time
}

func NewMuralService(store MuralStore, aiClient MuralAI, feed Mirrorer, logger *zap.Logger) *MuralService {
	return &MuralService{
		store:  store,
		ai:     aiClient,
		feed:   feed,
		logger: logger,
		now:    time.Now,
	}
}

// Submit executa o pipeline de publicação em passo único:
// anonimizar → classificar → inserir → espelhar/avisar.
// Qualquer falha de IA degrada para inserir o texto disponível como pendente;
// nesse caso o texto pode não estar anonimizado, o que fica registrado em log.
func (s *MuralService) Submit(ctx context.Context, content string, categoryID *int64, mediaURLs []string) (*models.MuralPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, repository.ErrInvalidInput
	}

	settings, err := s.store.GetMuralSettings(ctx)
	if err != nil {
		return nil, err
	}

	anonymized, err := s.ai.Anonymize(ctx, content)
	if err != nil {
		s.logger.Warn("anonimização indisponível; publicação inserida com texto bruto e status pendente")
		return s.insertPending(ctx, content, categoryID, mediaURLs)
	}

	// Com a moderação automática desligada tudo vai para a fila manual
	if !settings.AutoApprove {
		return s.insertPending(ctx, anonymized, categoryID, mediaURLs)
	}

	verdict, err := s.ai.ValidateMural(ctx, anonymized, settings.ConfidenceThreshold)
	if err != nil {
		s.logger.Warn("classificação de qualidade indisponível; publicação inserida como pendente")
		return s.insertPending(ctx, anonymized, categoryID, mediaURLs)
	}

	post := models.MuralPost{
		Content:    anonymized,
		CategoryID: categoryID,
		AIReason:   verdict.Reason,
		MediaURLs:  mediaURLs,
	}

	switch verdict.Verdict {
	case models.AIVerdictApproved:
		now := s.now()
		post.Status = models.MuralStatusAprovado
		post.ApprovalSource = models.ApprovalSourceAI
		post.ApprovedAt = &now
	case models.AIVerdictRejected:
		// Rejeição automática não registra approval_source
		post.Status = models.MuralStatusRejeitado
	default:
		post.Status = models.MuralStatusPendente
	}

	created, err := s.store.CreateMuralPost(ctx, post)
	if err != nil {
		return nil, err
	}

	switch created.Status {
	case models.MuralStatusAprovado:
		s.mirror(ctx, created)
	case models.MuralStatusPendente:
		s.notifyModerators(ctx, created)
	}

	return created, nil
}

// insertPending é o caminho degradado do pipeline: texto disponível, status pendente
func (s *MuralService) insertPending(ctx context.Context, content string, categoryID *int64, mediaURLs []string) (*models.MuralPost, error) {
	created, err := s.store.CreateMuralPost(ctx, models.MuralPost{
		Content:    content,
		CategoryID: categoryID,
		Status:     models.MuralStatusPendente,
		MediaURLs:  mediaURLs,
	})
	if err != nil {
		return nil, err
	}
	s.notifyModerators(ctx, created)
	return created, nil
}

// Moderate aplica a decisão manual de um moderador a uma publicação pendente
func (s *MuralService) Moderate(ctx context.Context, postID, moderatorID int64, approve bool) (*models.MuralPost, error) {
	status := models.MuralStatusRejeitado
	if approve {
		status = models.MuralStatusAprovado
	}

	post, err := s.store.ModerateMuralPost(ctx, postID, moderatorID, status)
	if err != nil {
		return nil, err
	}

	if approve {
		s.mirror(ctx, post)
	}
	return post, nil
}

// Respond adiciona uma resposta a uma publicação aprovada
func (s *MuralService) Respond(ctx context.Context, postID int64, content string) (*models.MuralResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, repository.ErrInvalidInput
	}

	post, err := s.store.GetMuralPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.MuralStatusAprovado {
		return nil, repository.ErrInvalidTransition
	}

	return s.store.CreateMuralResponse(ctx, models.MuralResponse{PostID: postID, Content: content})
}

// List lista publicações por status
func (s *MuralService) List(ctx context.Context, status string) ([]models.MuralPost, error) {
	return s.store.ListMuralPosts(ctx, status)
}

// ListResponses lista as respostas de uma publicação
func (s *MuralService) ListResponses(ctx context.Context, postID int64) ([]models.MuralResponse, error) {
	return s.store.ListMuralResponses(ctx, postID)
}

// Categories lista as categorias do Mural
func (s *MuralService) Categories(ctx context.Context) ([]models.MuralCategory, error) {
	return s.store.ListMuralCategories(ctx)
}

// Settings lê as configurações de moderação
func (s *MuralService) Settings(ctx context.Context) (*models.MuralSettings, error) {
	return s.store.GetMuralSettings(ctx)
}

// UpdateSettings grava as configurações de moderação
func (s *MuralService) UpdateSettings(ctx context.Context, settings models.MuralSettings) error {
	return s.store.UpdateMuralSettings(ctx, settings)
}

// mirror espelha a publicação aprovada no feed; falha apenas gera warning
func (s *MuralService) mirror(ctx context.Context, post *models.MuralPost) {
	description := post.Content
	// Corte em runas para não partir caractere acentuado no meio
	if utf8.RuneCountInString(description) > 280 {
		description = string([]rune(description)[:280]) + "..."
	}
	if _, err := s.feed.Mirror(ctx, models.FeedSourceMural, post.ID, "Nova publicação no Mural", description, false); err != nil {
		s.logger.Warn("falha ao espelhar publicação do mural no feed",
			zap.Int64("post_id", post.ID), zap.Error(err))
	}
}

// notifyModerators avisa os administradores sobre uma publicação aguardando revisão
func (s *MuralService) notifyModerators(ctx context.Context, post *models.MuralPost) {
	moderators, err := s.store.ListProfilesByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Warn("falha ao listar moderadores", zap.Error(err))
		return
	}
	for _, moderator := range moderators {
		notif := models.Notification{
			UserID:      moderator.ID,
			ReferenceID: &post.ID,
			Type:        models.NotificationMuralRevisao,
			Message:     fmt.Sprintf("Publicação #%d do Mural aguardando revisão.", post.ID),
		}
		if err := s.store.CreateNotification(ctx, notif); err != nil {
			s.logger.Warn("falha ao notificar moderador",
				zap.Int64("moderator_id", moderator.ID), zap.Error(err))
		}
	}
}
