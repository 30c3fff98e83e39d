package service

import (
	"context"
	"testing"
	"time"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurveyStore struct {
	surveys   map[int64]*models.Survey
	responses []models.SurveyResponse
	nextID    int64
}

func newFakeSurveyStore() *fakeSurveyStore {
	return &fakeSurveyStore{surveys: map[int64]*models.Survey{}}
}

func (f *fakeSurveyStore) CreateSurvey(_ context.Context, survey models.Survey) (*models.Survey, error) {
	f.nextID++
	survey.ID = f.nextID
	stored := survey
	f.surveys[survey.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeSurveyStore) GetSurvey(_ context.Context, id int64) (*models.Survey, error) {
	survey, ok := f.surveys[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *survey
	return &copied, nil
}

func (f *fakeSurveyStore) ListSurveys(_ context.Context, _ bool) ([]models.Survey, error) {
	return nil, nil
}

func (f *fakeSurveyStore) CreateSurveyResponse(_ context.Context, response models.SurveyResponse) (*models.SurveyResponse, error) {
	for _, existing := range f.responses {
		if existing.SurveyID == response.SurveyID && existing.UserID == response.UserID {
			return nil, repository.ErrAlreadyExists
		}
	}
	response.ID = int64(len(f.responses) + 1)
	f.responses = append(f.responses, response)
	return &response, nil
}

func (f *fakeSurveyStore) ListSurveyResponses(_ context.Context, surveyID int64) ([]models.SurveyResponse, error) {
	var out []models.SurveyResponse
	for _, response := range f.responses {
		if response.SurveyID == surveyID {
			out = append(out, response)
		}
	}
	return out, nil
}

func sampleSurvey(start, end time.Time) models.Survey {
	return models.Survey{
		Title: "Clima organizacional",
		Questions: []models.SurveyQuestion{
			{Text: "Como está o clima na sua unidade?", Options: []string{"Ótimo", "Regular", "Ruim"}},
			{Text: "Você recomendaria trabalhar aqui?", Options: []string{"Sim", "Não"}},
		},
		StartsAt: start,
		EndsAt:   end,
	}
}

func newSurveyServiceForTest(store *fakeSurveyStore, now time.Time) *SurveyService {
	svc := NewSurveyService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateSurveyValidatesWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newSurveyServiceForTest(newFakeSurveyStore(), now)

	_, err := svc.Create(context.Background(), sampleSurvey(now, now))
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Create(context.Background(), models.Survey{Title: "Sem perguntas", StartsAt: now, EndsAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	survey, err := svc.Create(context.Background(), sampleSurvey(now, now.Add(7*24*time.Hour)))
	require.NoError(t, err)
	assert.NotZero(t, survey.ID)
}

func TestRespondSurveyWindowAndBounds(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeSurveyStore()
	svc := newSurveyServiceForTest(store, now)

	survey, err := svc.Create(context.Background(), sampleSurvey(now.Add(-time.Hour), now.Add(time.Hour)))
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), survey.ID, 10, []int{0})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Respond(context.Background(), survey.ID, 10, []int{0, 5})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = svc.Respond(context.Background(), survey.ID, 10, []int{0, 1})
	require.NoError(t, err)

	// Resposta é única por usuário
	_, err = svc.Respond(context.Background(), survey.ID, 10, []int{1, 0})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	// Fora da janela a resposta é recusada
	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = svc.Respond(context.Background(), survey.ID, 11, []int{0, 0})
	assert.ErrorIs(t, err, ErrSurveyClosed)
}

func TestSurveyResultsAggregation(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newFakeSurveyStore()
	svc := newSurveyServiceForTest(store, now)

	survey, err := svc.Create(context.Background(), sampleSurvey(now.Add(-time.Hour), now.Add(time.Hour)))
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), survey.ID, 10, []int{0, 0})
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), survey.ID, 11, []int{0, 1})
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), survey.ID, 12, []int{2, 0})
	require.NoError(t, err)

	results, err := svc.Results(context.Background(), survey.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, results.Total)
	assert.Equal(t, []int{2, 0, 1}, results.PerOption[0])
	assert.Equal(t, []int{2, 1}, results.PerOption[1])
}
