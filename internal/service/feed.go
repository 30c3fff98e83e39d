package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"go.uber.org/zap"
)

// FeedStore é o acesso a dados do feed principal
type FeedStore interface {
	CreateFeedPost(ctx context.Context, post models.FeedPost) (*models.FeedPost, error)
	GetFeedPostByModuleLink(ctx context.Context, moduleLink string) (*models.FeedPost, error)
	ListFeedPosts(ctx context.Context, limit int) ([]models.FeedPost, error)
	ListRecentFeedPosts(ctx context.Context, days int) ([]models.FeedPost, error)
	DeleteFeedPost(ctx context.Context, id int64) error
	CreateFeedComment(ctx context.Context, comment models.FeedPostComment) (*models.FeedPostComment, error)
	ListFeedComments(ctx context.Context, postID int64) ([]models.FeedPostComment, error)
}

// FeedAI agrupa as funções de IA que operam sobre o feed
type FeedAI interface {
	AnalyzeFeedEngagement(ctx context.Context, posts []models.FeedPost) (string, error)
	WeeklyFeedSummary(ctx context.Context, posts []models.FeedPost) (string, error)
	RecommendRelated(ctx context.Context, postID int64) ([]int64, error)
}

// FeedService publica e espelha conteúdo no feed principal
type FeedService struct {
	store  FeedStore
	ai     FeedAI
	logger *zap.Logger
}

func NewFeedService(store FeedStore, aiClient FeedAI, logger *zap.Logger) *FeedService {
	return &FeedService{store: store, ai: aiClient, logger: logger}
}

// Mirror espelha um registro de outro módulo no feed. Idempotente por
// module_link: a segunda chamada com a mesma origem devolve o post existente.
// A janela entre a checagem e o INSERT é coberta pela constraint única.
func (s *FeedService) Mirror(ctx context.Context, sourceType string, sourceID int64, title, description string, pinned bool) (int64, error) {
	link := fmt.Sprintf("%s:%d", sourceType, sourceID)

	existing, err := s.store.GetFeedPostByModuleLink(ctx, link)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	created, err := s.store.CreateFeedPost(ctx, models.FeedPost{
		Title:       title,
		Description: description,
		ModuleLink:  link,
		Pinned:      pinned,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		// Outro espelhamento venceu a corrida; devolve o existente
		existing, getErr := s.store.GetFeedPostByModuleLink(ctx, link)
		if getErr != nil {
			return 0, getErr
		}
		return existing.ID, nil
	}
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Publish cria uma publicação comum no feed
func (s *FeedService) Publish(ctx context.Context, authorID int64, title, description string, pinned bool) (*models.FeedPost, error) {
	if title == "" {
		return nil, repository.ErrInvalidInput
	}
	return s.store.CreateFeedPost(ctx, models.FeedPost{
		Title:       title,
		Description: description,
		Pinned:      pinned,
		AuthorID:    &authorID,
	})
}

// List lista o feed com fixados primeiro
func (s *FeedService) List(ctx context.Context, limit int) ([]models.FeedPost, error) {
	return s.store.ListFeedPosts(ctx, limit)
}

// Delete remove uma publicação
func (s *FeedService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteFeedPost(ctx, id)
}

// Comment adiciona um comentário a uma publicação
func (s *FeedService) Comment(ctx context.Context, postID, authorID int64, content string) (*models.FeedPostComment, error) {
	if content == "" {
		return nil, repository.ErrInvalidInput
	}
	return s.store.CreateFeedComment(ctx, models.FeedPostComment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	})
}

// ListComments lista os comentários de uma publicação
func (s *FeedService) ListComments(ctx context.Context, postID int64) ([]models.FeedPostComment, error) {
	return s.store.ListFeedComments(ctx, postID)
}

// Engagement pede à IA a análise de engajamento dos posts recentes
func (s *FeedService) Engagement(ctx context.Context) (string, error) {
	posts, err := s.store.ListRecentFeedPosts(ctx, 30)
	if err != nil {
		return "", err
	}
	return s.ai.AnalyzeFeedEngagement(ctx, posts)
}

// WeeklySummary gera e publica o resumo semanal do feed
func (s *FeedService) WeeklySummary(ctx context.Context) (*models.FeedPost, error) {
	posts, err := s.store.ListRecentFeedPosts(ctx, 7)
	if err != nil {
		return nil, err
	}

	summary, err := s.ai.WeeklyFeedSummary(ctx, posts)
	if err != nil {
		return nil, err
	}

	return s.store.CreateFeedPost(ctx, models.FeedPost{
		Title:       "Resumo da semana",
		Description: summary,
	})
}

// Related sugere publicações relacionadas a um post
func (s *FeedService) Related(ctx context.Context, postID int64) ([]int64, error) {
	return s.ai.RecommendRelated(ctx, postID)
}
