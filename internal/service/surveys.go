package service

import (
	"context"
	"errors"
	"time"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/crescieperdi/portal-interno/internal/repository"
)

var ErrSurveyClosed = errors.New("survey window is closed")

// SurveyStore é o acesso a dados de pesquisas
type SurveyStore interface {
	CreateSurvey(ctx context.Context, survey models.Survey) (*models.Survey, error)
	GetSurvey(ctx context.Context, id int64) (*models.Survey, error)
	ListSurveys(ctx context.Context, activeOnly bool) ([]models.Survey, error)
	CreateSurveyResponse(ctx context.Context, response models.SurveyResponse) (*models.SurveyResponse, error)
	ListSurveyResponses(ctx context.Context, surveyID int64) ([]models.SurveyResponse, error)
}

// SurveyService cria pesquisas e agrega respostas
type SurveyService struct {
	store SurveyStore
	now   func() time.Time
}

func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{store: store, now: time.Now}
}

// Create registra uma pesquisa com a janela de resposta
func (s *SurveyService) Create(ctx context.Context, survey models.Survey) (*models.Survey, error) {
	if survey.Title == "" || len(survey.Questions) == 0 {
		return nil, repository.ErrInvalidInput
	}
	if !survey.EndsAt.After(survey.StartsAt) {
		return nil, repository.ErrInvalidInput
	}
	return s.store.CreateSurvey(ctx, survey)
}

// List lista pesquisas; activeOnly restringe à janela corrente
func (s *SurveyService) List(ctx context.Context, activeOnly bool) ([]models.Survey, error) {
	return s.store.ListSurveys(ctx, activeOnly)
}

// Respond registra a resposta única de um usuário dentro da janela
func (s *SurveyService) Respond(ctx context.Context, surveyID, userID int64, answers []int) (*models.SurveyResponse, error) {
	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(survey.StartsAt) || now.After(survey.EndsAt) {
		return nil, ErrSurveyClosed
	}
	if len(answers) != len(survey.Questions) {
		return nil, repository.ErrInvalidInput
	}
	for i, answer := range answers {
		if answer < 0 || answer >= len(survey.Questions[i].Options) {
			return nil, repository.ErrInvalidInput
		}
	}

	return s.store.CreateSurveyResponse(ctx, models.SurveyResponse{
		SurveyID: surveyID,
		UserID:   userID,
		Answers:  answers,
	})
}

// Results agrega as contagens por opção de cada pergunta
func (s *SurveyService) Results(ctx context.Context, surveyID int64) (*models.SurveyResults, error) {
	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	responses, err := s.store.ListSurveyResponses(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	results := &models.SurveyResults{
		SurveyID:  surveyID,
		Total:     len(responses),
		PerOption: make([][]int, len(survey.Questions)),
	}
	for i, question := range survey.Questions {
		results.PerOption[i] = make([]int, len(question.Options))
	}
	for _, response := range responses {
		for i, answer := range response.Answers {
			if i < len(results.PerOption) && answer >= 0 && answer < len(results.PerOption[i]) {
				results.PerOption[i][answer]++
			}
		}
	}
	return results, nil
}
