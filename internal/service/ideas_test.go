package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIdeaStore guarda uma única ideia em memória e registra as
// notificações que seriam inseridas nas transações de transição.
type fakeIdeaStore struct {
	idea     *models.Idea
	profiles map[int64]models.Profile
	settings map[string]string
	notifs   []models.Notification
	feedback []models.IdeaFeedback
}

func newFakeIdeaStore() *fakeIdeaStore {
	return &fakeIdeaStore{
		profiles: map[int64]models.Profile{},
		settings: map[string]string{},
	}
}

func (f *fakeIdeaStore) CreateIdea(_ context.Context, idea models.Idea) (*models.Idea, error) {
	idea.ID = 1
	idea.Code = "CP-0001"
	idea.Status = models.IdeaStatusTriagem
	f.idea = &idea
	copied := idea
	return &copied, nil
}

func (f *fakeIdeaStore) GetIdea(_ context.Context, id int64) (*models.Idea, error) {
	if f.idea == nil || f.idea.ID != id {
		return nil, repository.ErrNotFound
	}
	copied := *f.idea
	return &copied, nil
}

func (f *fakeIdeaStore) ListIdeas(_ context.Context, _, _ string) ([]models.Idea, error) {
	if f.idea == nil {
		return nil, nil
	}
	return []models.Idea{*f.idea}, nil
}

func (f *fakeIdeaStore) MarkVoting(_ context.Context, ideaID int64, voteStart, voteEnd time.Time, notif models.Notification) (*models.Idea, error) {
	if f.idea == nil || f.idea.ID != ideaID {
		return nil, repository.ErrNotFound
	}
	f.idea.Status = models.IdeaStatusEmVotacao
	f.idea.VoteStart = &voteStart
	f.idea.VoteEnd = &voteEnd
	f.notifs = append(f.notifs, notif)
	copied := *f.idea
	return &copied, nil
}

func (f *fakeIdeaStore) AddVote(_ context.Context, vote models.IdeaVote) (*models.Idea, error) {
	if f.idea == nil || f.idea.ID != vote.IdeaID {
		return nil, repository.ErrNotFound
	}
	if vote.Positive {
		f.idea.PositiveVotes++
	} else {
		f.idea.NegativeVotes++
	}
	f.idea.TotalVotes++
	copied := *f.idea
	return &copied, nil
}

func (f *fakeIdeaStore) Curate(_ context.Context, ideaID int64, decision string, fb models.IdeaFeedback, notif models.Notification) (*models.Idea, error) {
	if f.idea == nil || f.idea.ID != ideaID {
		return nil, repository.ErrNotFound
	}
	f.idea.Status = decision
	f.idea.Feedback = fb.Text
	f.idea.CuratorID = &fb.CuratorID
	f.feedback = append(f.feedback, fb)
	f.notifs = append(f.notifs, notif)
	copied := *f.idea
	return &copied, nil
}

func (f *fakeIdeaStore) StartImplementation(_ context.Context, ideaID, responsibleID int64, deadline time.Time, notifs []models.Notification) (*models.Idea, error) {
	if f.idea == nil || f.idea.ID != ideaID {
		return nil, repository.ErrNotFound
	}
	f.idea.Status = models.IdeaStatusEmImplementacao
	f.idea.ImplementedBy = &responsibleID
	f.idea.ImplementationDeadline = &deadline
	f.notifs = append(f.notifs, notifs...)
	copied := *f.idea
	return &copied, nil
}

func (f *fakeIdeaStore) MarkImplemented(_ context.Context, ideaID int64, feedback string, notif models.Notification) (*models.Idea, error) {
	if f.idea == nil || f.idea.ID != ideaID {
		return nil, repository.ErrNotFound
	}
	f.idea.Status = models.IdeaStatusImplementada
	f.idea.Feedback = feedback
	f.notifs = append(f.notifs, notif)
	copied := *f.idea
	return &copied, nil
}

func (f *fakeIdeaStore) CountIdeasByStatus(_ context.Context) (*models.IdeaStats, error) {
	return &models.IdeaStats{}, nil
}

func (f *fakeIdeaStore) GetProfile(_ context.Context, id int64) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

func (f *fakeIdeaStore) GetSetting(_ context.Context, key, def string) (string, error) {
	if value, ok := f.settings[key]; ok {
		return value, nil
	}
	return def, nil
}

// notificationsFor filtra as notificações registradas para um usuário
func (f *fakeIdeaStore) notificationsFor(userID int64) []models.Notification {
	var out []models.Notification
	for _, n := range f.notifs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeMirror struct {
	calls []string
	descs []string
	err   error
}

func (f *fakeMirror) Mirror(_ context.Context, sourceType string, sourceID int64, title, description string, pinned bool) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, fmt.Sprintf("%s:%d pinned=%t %s", sourceType, sourceID, pinned, title))
	f.descs = append(f.descs, description)
	return int64(len(f.calls)), nil
}

type fakeDuplicateDetector struct {
	advisory string
	err      error
}

func (f *fakeDuplicateDetector) DetectDuplicateIdeas(_ context.Context, _, _ string) (string, error) {
	return f.advisory, f.err
}

type fakeDispatcher struct {
	sent []string
}

func (f *fakeDispatcher) Send(_ context.Context, userID int64, message string) error {
	f.sent = append(f.sent, fmt.Sprintf("%d:%s", userID, message))
	return nil
}

func newIdeaServiceForTest(store *fakeIdeaStore, mirror *fakeMirror, now time.Time) *IdeaService {
	svc := NewIdeaService(store, mirror, &fakeDuplicateDetector{}, &fakeDispatcher{}, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestSubmitValidatesCategory(t *testing.T) {
	store := newFakeIdeaStore()
	svc := newIdeaServiceForTest(store, &fakeMirror{}, time.Now())

	_, err := svc.Submit(context.Background(), 10, "Título", "Descrição", "categoria_invalida", 0, nil)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Submit(context.Background(), 10, "", "Descrição", models.IdeaCategoryProcesso, 0, nil)
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	idea, err := svc.Submit(context.Background(), 10, "Título", "Descrição", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusTriagem, idea.Status)
	assert.Equal(t, "CP-0001", idea.Code)
}

func TestApproveForVotingComputesWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeIdeaStore()
	svc := newIdeaServiceForTest(store, &fakeMirror{}, now)

	_, err := svc.Submit(context.Background(), 10, "Título", "Descrição", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)

	_, err = svc.ApproveForVoting(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	idea, err := svc.ApproveForVoting(context.Background(), 1, 10)
	require.NoError(t, err)
	require.NotNil(t, idea.VoteStart)
	require.NotNil(t, idea.VoteEnd)
	assert.Equal(t, now, *idea.VoteStart)
	assert.Equal(t, now.Add(10*24*time.Hour), *idea.VoteEnd)

	// Ideia já em votação não abre de novo
	_, err = svc.ApproveForVoting(context.Background(), 1, 10)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestVoteOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeIdeaStore()
	svc := newIdeaServiceForTest(store, &fakeMirror{}, now)

	_, err := svc.Submit(context.Background(), 10, "Título", "Descrição", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)
	_, err = svc.ApproveForVoting(context.Background(), 1, 7)
	require.NoError(t, err)

	_, err = svc.Vote(context.Background(), 1, 33, true)
	require.NoError(t, err)

	// Depois do fim da janela o voto é recusado
	svc.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	_, err = svc.Vote(context.Background(), 1, 34, true)
	assert.ErrorIs(t, err, ErrVotingClosed)
}

func TestCurateValidation(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeIdeaStore()
	svc := newIdeaServiceForTest(store, &fakeMirror{}, now)

	_, err := svc.Submit(context.Background(), 10, "Título", "Descrição", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)
	_, err = svc.ApproveForVoting(context.Background(), 1, 7)
	require.NoError(t, err)

	_, err = svc.Curate(context.Background(), 1, 2, "talvez", "parecer", "", "")
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = svc.Curate(context.Background(), 1, 2, models.IdeaStatusAprovada, "", "", "")
	assert.ErrorIs(t, err, ErrFeedbackRequired)

	idea, err := svc.Curate(context.Background(), 1, 2, models.IdeaStatusAprovada, "Boa ideia, aprovada.", "alta", "media")
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusAprovada, idea.Status)
	require.Len(t, store.feedback, 1)
	assert.Equal(t, int64(2), store.feedback[0].CuratorID)
}

func TestCurateAutoPublishSetting(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeIdeaStore()
	store.settings[repository.SettingAutoPublishIdeas] = "true"
	mirror := &fakeMirror{}
	svc := newIdeaServiceForTest(store, mirror, now)

	_, err := svc.Submit(context.Background(), 10, "Título", "Descrição", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)
	_, err = svc.ApproveForVoting(context.Background(), 1, 7)
	require.NoError(t, err)

	_, err = svc.Curate(context.Background(), 1, 2, models.IdeaStatusAprovada, "Aprovada.", "", "")
	require.NoError(t, err)
	require.Len(t, mirror.calls, 1)
	assert.Contains(t, mirror.calls[0], "ideias:1")
}

func TestStartImplementationValidation(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeIdeaStore()
	store.profiles[5] = models.Profile{ID: 5, Role: models.RoleGestorSetor}
	store.profiles[6] = models.Profile{ID: 6, Role: models.RoleColaborador}
	svc := newIdeaServiceForTest(store, &fakeMirror{}, now)

	_, err := svc.Submit(context.Background(), 10, "Título", "Descrição", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)
	_, err = svc.ApproveForVoting(context.Background(), 1, 7)
	require.NoError(t, err)
	_, err = svc.Curate(context.Background(), 1, 2, models.IdeaStatusAprovada, "Aprovada.", "", "")
	require.NoError(t, err)

	deadline := now.Add(30 * 24 * time.Hour)

	_, err = svc.StartImplementation(context.Background(), 1, 0, deadline, "")
	assert.ErrorIs(t, err, ErrResponsibleRequired)

	_, err = svc.StartImplementation(context.Background(), 1, 5, now.Add(-48*time.Hour), "")
	assert.ErrorIs(t, err, ErrDeadlineInPast)

	// Colaborador não pode ser responsável
	_, err = svc.StartImplementation(context.Background(), 1, 6, deadline, "")
	assert.ErrorIs(t, err, ErrResponsibleRole)

	idea, err := svc.StartImplementation(context.Background(), 1, 5, deadline, "Começar pelo piloto.")
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusEmImplementacao, idea.Status)
	require.NotNil(t, idea.ImplementedBy)
	assert.Equal(t, int64(5), *idea.ImplementedBy)
}

// O autor recebe uma notificação em cada transição do ciclo completo:
// votação aberta, curadoria, implementação iniciada e ideia implementada.
func TestIdeaLifecycleNotifiesAuthor(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeIdeaStore()
	store.profiles[5] = models.Profile{ID: 5, Role: models.RoleAdmin}
	mirror := &fakeMirror{}
	svc := newIdeaServiceForTest(store, mirror, now)

	const authorID = 10

	_, err := svc.Submit(context.Background(), authorID, "Caixa expresso", "Fila única no sábado", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)

	_, err = svc.ApproveForVoting(context.Background(), 1, 14)
	require.NoError(t, err)

	_, err = svc.Vote(context.Background(), 1, 33, true)
	require.NoError(t, err)

	_, err = svc.Curate(context.Background(), 1, 2, models.IdeaStatusAprovada, "Aprovada pela curadoria.", "alta", "alta")
	require.NoError(t, err)

	_, err = svc.StartImplementation(context.Background(), 1, 5, now.Add(30*24*time.Hour), "")
	require.NoError(t, err)

	idea, err := svc.MarkImplemented(context.Background(), 1, "Implantada em todas as unidades.", true)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusImplementada, idea.Status)

	authorNotifs := store.notificationsFor(authorID)
	require.Len(t, authorNotifs, 4)
	assert.Equal(t, models.NotificationIdeaVotacao, authorNotifs[0].Type)
	assert.Equal(t, models.NotificationIdeaCuradoria, authorNotifs[1].Type)
	assert.Equal(t, models.NotificationIdeaImplementacao, authorNotifs[2].Type)
	assert.Equal(t, models.NotificationIdeaImplementada, authorNotifs[3].Type)

	// O responsável também foi avisado da atribuição
	require.Len(t, store.notificationsFor(5), 1)

	// Publicação final fixada no feed
	require.Len(t, mirror.calls, 1)
	assert.Contains(t, mirror.calls[0], "pinned=true")
}

func TestMirrorFailureDoesNotFailOperation(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeIdeaStore()
	mirror := &fakeMirror{err: fmt.Errorf("feed offline")}
	svc := newIdeaServiceForTest(store, mirror, now)

	_, err := svc.Submit(context.Background(), 10, "Título", "Descrição", models.IdeaCategoryProcesso, 20, nil)
	require.NoError(t, err)
	_, err = svc.ApproveForVoting(context.Background(), 1, 7)
	require.NoError(t, err)
	_, err = svc.Curate(context.Background(), 1, 2, models.IdeaStatusAprovada, "Aprovada.", "", "")
	require.NoError(t, err)

	store.profiles[5] = models.Profile{ID: 5, Role: models.RoleAdmin}
	_, err = svc.StartImplementation(context.Background(), 1, 5, now.Add(time.Hour*24), "")
	require.NoError(t, err)

	// Espelhamento é fire-and-forget: a ideia fecha mesmo com o feed fora
	idea, err := svc.MarkImplemented(context.Background(), 1, "", true)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusImplementada, idea.Status)
}
