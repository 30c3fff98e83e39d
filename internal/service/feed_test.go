package service

import (
	"context"
	"testing"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFeedStore indexa posts por module_link e simula a constraint única
type fakeFeedStore struct {
	posts   map[string]*models.FeedPost
	all     []*models.FeedPost
	nextID  int64
	creates int
}

func newFakeFeedStore() *fakeFeedStore {
	return &fakeFeedStore{posts: map[string]*models.FeedPost{}}
}

func (f *fakeFeedStore) CreateFeedPost(_ context.Context, post models.FeedPost) (*models.FeedPost, error) {
	f.creates++
	if post.ModuleLink != "" {
		if _, exists := f.posts[post.ModuleLink]; exists {
			return nil, repository.ErrAlreadyExists
		}
	}
	f.nextID++
	post.ID = f.nextID
	stored := post
	if post.ModuleLink != "" {
		f.posts[post.ModuleLink] = &stored
	}
	f.all = append(f.all, &stored)
	return &stored, nil
}

func (f *fakeFeedStore) GetFeedPostByModuleLink(_ context.Context, moduleLink string) (*models.FeedPost, error) {
	post, ok := f.posts[moduleLink]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakeFeedStore) ListFeedPosts(_ context.Context, limit int) ([]models.FeedPost, error) {
	var out []models.FeedPost
	for _, post := range f.all {
		if len(out) == limit {
			break
		}
		out = append(out, *post)
	}
	return out, nil
}

func (f *fakeFeedStore) ListRecentFeedPosts(_ context.Context, _ int) ([]models.FeedPost, error) {
	var out []models.FeedPost
	for _, post := range f.all {
		out = append(out, *post)
	}
	return out, nil
}

func (f *fakeFeedStore) DeleteFeedPost(_ context.Context, id int64) error {
	for i, post := range f.all {
		if post.ID == id {
			f.all = append(f.all[:i], f.all[i+1:]...)
			delete(f.posts, post.ModuleLink)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeFeedStore) CreateFeedComment(_ context.Context, comment models.FeedPostComment) (*models.FeedPostComment, error) {
	comment.ID = 1
	return &comment, nil
}

func (f *fakeFeedStore) ListFeedComments(_ context.Context, _ int64) ([]models.FeedPostComment, error) {
	return nil, nil
}

type fakeFeedAI struct {
	engagement string
	summary    string
	related    []int64
	err        error
}

func (f *fakeFeedAI) AnalyzeFeedEngagement(_ context.Context, _ []models.FeedPost) (string, error) {
	return f.engagement, f.err
}

func (f *fakeFeedAI) WeeklyFeedSummary(_ context.Context, _ []models.FeedPost) (string, error) {
	return f.summary, f.err
}

func (f *fakeFeedAI) RecommendRelated(_ context.Context, _ int64) ([]int64, error) {
	return f.related, f.err
}

func TestMirrorIsIdempotentByModuleLink(t *testing.T) {
	store := newFakeFeedStore()
	svc := NewFeedService(store, &fakeFeedAI{}, zap.NewNop())

	first, err := svc.Mirror(context.Background(), models.FeedSourceMural, 42, "Nova publicação no Mural", "conteúdo", false)
	require.NoError(t, err)

	// Segunda chamada com a mesma origem devolve o mesmo post
	second, err := svc.Mirror(context.Background(), models.FeedSourceMural, 42, "Nova publicação no Mural", "conteúdo", false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, store.all, 1)

	// Origem diferente cria outro post
	third, err := svc.Mirror(context.Background(), models.FeedSourceIdeia, 42, "Ideia aprovada", "conteúdo", false)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
	assert.Len(t, store.all, 2)
}

func TestMirrorRaceLosesToExistingPost(t *testing.T) {
	store := newFakeFeedStore()
	svc := NewFeedService(store, &fakeFeedAI{}, zap.NewNop())

	// Simula a corrida: outro espelhamento insere entre a checagem e o INSERT
	existing, err := store.CreateFeedPost(context.Background(), models.FeedPost{
		Title: "Nova publicação no Mural", ModuleLink: "mural:7",
	})
	require.NoError(t, err)

	id, err := svc.Mirror(context.Background(), models.FeedSourceMural, 7, "Nova publicação no Mural", "conteúdo", false)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, id)
	assert.Len(t, store.all, 1)
}

func TestPublishRequiresTitle(t *testing.T) {
	svc := NewFeedService(newFakeFeedStore(), &fakeFeedAI{}, zap.NewNop())

	_, err := svc.Publish(context.Background(), 1, "", "descrição", false)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	post, err := svc.Publish(context.Background(), 1, "Comunicado", "descrição", true)
	require.NoError(t, err)
	assert.True(t, post.Pinned)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, int64(1), *post.AuthorID)
}

func TestWeeklySummaryPublishesPost(t *testing.T) {
	store := newFakeFeedStore()
	svc := NewFeedService(store, &fakeFeedAI{summary: "Semana movimentada no Mural."}, zap.NewNop())

	post, err := svc.WeeklySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Resumo da semana", post.Title)
	assert.Equal(t, "Semana movimentada no Mural.", post.Description)
}
