package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/crescieperdi/portal-interno/internal/ai"
	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMuralStore struct {
	posts      []*models.MuralPost
	settings   models.MuralSettings
	moderators []models.Profile
	notifs     []models.Notification
	nextID     int64
}

func newFakeMuralStore() *fakeMuralStore {
	return &fakeMuralStore{
		settings: models.MuralSettings{AutoApprove: true, ConfidenceThreshold: 80},
	}
}

func (f *fakeMuralStore) CreateMuralPost(_ context.Context, post models.MuralPost) (*models.MuralPost, error) {
	f.nextID++
	post.ID = f.nextID
	stored := post
	f.posts = append(f.posts, &stored)
	copied := stored
	return &copied, nil
}

func (f *fakeMuralStore) GetMuralPost(_ context.Context, id int64) (*models.MuralPost, error) {
	for _, post := range f.posts {
		if post.ID == id {
			copied := *post
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMuralStore) ListMuralPosts(_ context.Context, status string) ([]models.MuralPost, error) {
	var out []models.MuralPost
	for _, post := range f.posts {
		if status == "" || post.Status == status {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (f *fakeMuralStore) ModerateMuralPost(_ context.Context, postID, moderatorID int64, status string) (*models.MuralPost, error) {
	for _, post := range f.posts {
		if post.ID != postID {
			continue
		}
		if post.Status != models.MuralStatusPendente {
			return nil, repository.ErrInvalidTransition
		}
		post.Status = status
		post.ApprovalSource = models.ApprovalSourceManual
		post.ModeratorID = &moderatorID
		if status == models.MuralStatusAprovado {
			now := time.Now()
			post.ApprovedAt = &now
		}
		copied := *post
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMuralStore) CreateMuralResponse(_ context.Context, response models.MuralResponse) (*models.MuralResponse, error) {
	response.ID = 1
	return &response, nil
}

func (f *fakeMuralStore) ListMuralResponses(_ context.Context, _ int64) ([]models.MuralResponse, error) {
	return nil, nil
}

func (f *fakeMuralStore) ListMuralCategories(_ context.Context) ([]models.MuralCategory, error) {
	return nil, nil
}

func (f *fakeMuralStore) GetMuralSettings(_ context.Context) (*models.MuralSettings, error) {
	copied := f.settings
	return &copied, nil
}

func (f *fakeMuralStore) UpdateMuralSettings(_ context.Context, settings models.MuralSettings) error {
	f.settings = settings
	return nil
}

func (f *fakeMuralStore) ListProfilesByRole(_ context.Context, _ string) ([]models.Profile, error) {
	return f.moderators, nil
}

func (f *fakeMuralStore) CreateNotification(_ context.Context, notif models.Notification) error {
	f.notifs = append(f.notifs, notif)
	return nil
}

// fakeMuralAI permite forçar falhas de cada etapa do pipeline
type fakeMuralAI struct {
	anonymized     string
	anonymizeErr   error
	verdict        *ai.MuralVerdict
	validateErr    error
	validateCalled bool
}

func (f *fakeMuralAI) Anonymize(_ context.Context, text string) (string, error) {
	if f.anonymizeErr != nil {
		return "", f.anonymizeErr
	}
	if f.anonymized != "" {
		return f.anonymized, nil
	}
	return text, nil
}

func (f *fakeMuralAI) ValidateMural(_ context.Context, _ string, _ int) (*ai.MuralVerdict, error) {
	f.validateCalled = true
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.verdict, nil
}

func newMuralServiceForTest(store *fakeMuralStore, aiClient *fakeMuralAI, mirror *fakeMirror, now time.Time) *MuralService {
	svc := NewMuralService(store, aiClient, mirror, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestMuralSubmitApprovedByAI(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeMuralStore()
	mirror := &fakeMirror{}
	aiClient := &fakeMuralAI{
		anonymized: "Texto anonimizado",
		verdict:    &ai.MuralVerdict{Verdict: models.AIVerdictApproved, Confidence: 95},
	}
	svc := newMuralServiceForTest(store, aiClient, mirror, now)

	post, err := svc.Submit(context.Background(), "Meu gerente João fez X", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MuralStatusAprovado, post.Status)
	assert.Equal(t, models.ApprovalSourceAI, post.ApprovalSource)
	require.NotNil(t, post.ApprovedAt)
	assert.Equal(t, now, *post.ApprovedAt)
	assert.Equal(t, "Texto anonimizado", post.Content)

	// Aprovada → espelhada no feed, sem aviso aos moderadores
	assert.Len(t, mirror.calls, 1)
	assert.Empty(t, store.notifs)
}

// Conteúdo longo multibyte é cortado em runas: a descrição espelhada
// permanece UTF-8 válido e nenhum caractere acentuado é partido.
func TestMuralMirrorTruncatesOnRuneBoundary(t *testing.T) {
	store := newFakeMuralStore()
	mirror := &fakeMirror{}
	aiClient := &fakeMuralAI{
		verdict: &ai.MuralVerdict{Verdict: models.AIVerdictApproved, Confidence: 90},
	}
	svc := newMuralServiceForTest(store, aiClient, mirror, time.Now())

	content := strings.Repeat("ção", 100) // 300 runas, 500 bytes

	_, err := svc.Submit(context.Background(), content, nil, nil)
	require.NoError(t, err)
	require.Len(t, mirror.descs, 1)

	description := mirror.descs[0]
	assert.True(t, utf8.ValidString(description))
	assert.True(t, strings.HasSuffix(description, "..."))
	assert.Equal(t, 283, utf8.RuneCountInString(description))

	// Conteúdo dentro do limite passa inteiro
	_, err = svc.Submit(context.Background(), "publicação curta", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "publicação curta", mirror.descs[1])
}

func TestMuralSubmitRejectedByAI(t *testing.T) {
	store := newFakeMuralStore()
	mirror := &fakeMirror{}
	aiClient := &fakeMuralAI{
		verdict: &ai.MuralVerdict{Verdict: models.AIVerdictRejected, Reason: "conteúdo ofensivo"},
	}
	svc := newMuralServiceForTest(store, aiClient, mirror, time.Now())

	post, err := svc.Submit(context.Background(), "texto qualquer", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MuralStatusRejeitado, post.Status)
	assert.Equal(t, "conteúdo ofensivo", post.AIReason)

	// Rejeição automática não registra origem de aprovação nem espelha
	assert.Empty(t, post.ApprovalSource)
	assert.Nil(t, post.ApprovedAt)
	assert.Empty(t, mirror.calls)
}

func TestMuralSubmitReviewGoesToQueue(t *testing.T) {
	store := newFakeMuralStore()
	store.moderators = []models.Profile{{ID: 1}, {ID: 2}}
	aiClient := &fakeMuralAI{
		verdict: &ai.MuralVerdict{Verdict: models.AIVerdictReview, Reason: "tom ambíguo"},
	}
	svc := newMuralServiceForTest(store, aiClient, &fakeMirror{}, time.Now())

	post, err := svc.Submit(context.Background(), "texto ambíguo", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MuralStatusPendente, post.Status)

	// Cada moderador recebe o aviso de fila
	require.Len(t, store.notifs, 2)
	assert.Equal(t, models.NotificationMuralRevisao, store.notifs[0].Type)
}

func TestMuralSubmitDegradesWhenAnonymizeFails(t *testing.T) {
	store := newFakeMuralStore()
	store.moderators = []models.Profile{{ID: 1}}
	aiClient := &fakeMuralAI{anonymizeErr: ai.ErrUnavailable}
	svc := newMuralServiceForTest(store, aiClient, &fakeMirror{}, time.Now())

	post, err := svc.Submit(context.Background(), "texto bruto", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MuralStatusPendente, post.Status)
	assert.Equal(t, "texto bruto", post.Content)
	assert.False(t, aiClient.validateCalled)
	require.Len(t, store.notifs, 1)
}

func TestMuralSubmitDegradesWhenValidateFails(t *testing.T) {
	store := newFakeMuralStore()
	aiClient := &fakeMuralAI{anonymized: "anonimizado", validateErr: ai.ErrUnavailable}
	svc := newMuralServiceForTest(store, aiClient, &fakeMirror{}, time.Now())

	post, err := svc.Submit(context.Background(), "texto", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MuralStatusPendente, post.Status)
	assert.Equal(t, "anonimizado", post.Content)
}

func TestMuralSubmitManualQueueWhenAutoApproveOff(t *testing.T) {
	store := newFakeMuralStore()
	store.settings.AutoApprove = false
	aiClient := &fakeMuralAI{anonymized: "anonimizado"}
	svc := newMuralServiceForTest(store, aiClient, &fakeMirror{}, time.Now())

	post, err := svc.Submit(context.Background(), "texto", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MuralStatusPendente, post.Status)

	// Moderação automática desligada não chama a classificação
	assert.False(t, aiClient.validateCalled)
}

func TestMuralSubmitRejectsEmptyContent(t *testing.T) {
	svc := newMuralServiceForTest(newFakeMuralStore(), &fakeMuralAI{}, &fakeMirror{}, time.Now())

	_, err := svc.Submit(context.Background(), "   ", nil, nil)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestMuralModerateApproveMirrors(t *testing.T) {
	store := newFakeMuralStore()
	mirror := &fakeMirror{}
	svc := newMuralServiceForTest(store, &fakeMuralAI{}, mirror, time.Now())

	created, err := store.CreateMuralPost(context.Background(), models.MuralPost{
		Content: "pendente", Status: models.MuralStatusPendente,
	})
	require.NoError(t, err)

	post, err := svc.Moderate(context.Background(), created.ID, 9, true)
	require.NoError(t, err)
	assert.Equal(t, models.MuralStatusAprovado, post.Status)
	assert.Equal(t, models.ApprovalSourceManual, post.ApprovalSource)
	require.Len(t, mirror.calls, 1)
	assert.Contains(t, mirror.calls[0], fmt.Sprintf("mural:%d", created.ID))

	// Já moderada não volta para a fila
	_, err = svc.Moderate(context.Background(), created.ID, 9, false)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestMuralRespondOnlyApprovedPosts(t *testing.T) {
	store := newFakeMuralStore()
	svc := newMuralServiceForTest(store, &fakeMuralAI{}, &fakeMirror{}, time.Now())

	pending, err := store.CreateMuralPost(context.Background(), models.MuralPost{
		Content: "pendente", Status: models.MuralStatusPendente,
	})
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), pending.ID, "resposta")
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)

	approved, err := store.CreateMuralPost(context.Background(), models.MuralPost{
		Content: "aprovada", Status: models.MuralStatusAprovado,
	})
	require.NoError(t, err)

	response, err := svc.Respond(context.Background(), approved.ID, "resposta")
	require.NoError(t, err)
	assert.Equal(t, approved.ID, response.PostID)
}
