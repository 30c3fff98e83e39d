package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateSurvey insere uma pesquisa com a janela de resposta
func (r *Repository) CreateSurvey(ctx context.Context, survey models.Survey) (*models.Survey, error) {
	questions, err := json.Marshal(survey.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal survey questions: %w", err)
	}

	query := `
		INSERT INTO surveys (title, questions, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query, survey.Title, questions, survey.StartsAt, survey.EndsAt).
		Scan(&survey.ID, &survey.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}
	return &survey, nil
}

// GetSurvey busca uma pesquisa pelo id
func (r *Repository) GetSurvey(ctx context.Context, id int64) (*models.Survey, error) {
	var survey models.Survey
	var questions []byte
	query := `SELECT id, title, questions, starts_at, ends_at, created_at FROM surveys WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&survey.ID, &survey.Title, &questions, &survey.StartsAt, &survey.EndsAt, &survey.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if err := json.Unmarshal(questions, &survey.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal survey questions: %w", err)
	}
	return &survey, nil
}

// ListSurveys lista pesquisas; activeOnly restringe à janela corrente
func (r *Repository) ListSurveys(ctx context.Context, activeOnly bool) ([]models.Survey, error) {
	query := `
		SELECT id, title, questions, starts_at, ends_at, created_at
		FROM surveys
		WHERE ($1 = false OR (starts_at <= NOW() AND ends_at >= NOW()))
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}
	defer rows.Close()

	var surveys []models.Survey
	for rows.Next() {
		var survey models.Survey
		var questions []byte
		if err := rows.Scan(&survey.ID, &survey.Title, &questions,
			&survey.StartsAt, &survey.EndsAt, &survey.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		if err := json.Unmarshal(questions, &survey.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal survey questions: %w", err)
		}
		surveys = append(surveys, survey)
	}
	return surveys, rows.Err()
}

// CreateSurveyResponse registra a resposta única de um usuário
func (r *Repository) CreateSurveyResponse(ctx context.Context, response models.SurveyResponse) (*models.SurveyResponse, error) {
	query := `
		INSERT INTO survey_responses (survey_id, user_id, answers)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, response.SurveyID, response.UserID, response.Answers).
		Scan(&response.ID, &response.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create survey response: %w", err)
	}
	return &response, nil
}

// ListSurveyResponses lista as respostas de uma pesquisa para agregação
func (r *Repository) ListSurveyResponses(ctx context.Context, surveyID int64) ([]models.SurveyResponse, error) {
	query := `
		SELECT id, survey_id, user_id, answers, created_at
		FROM survey_responses
		WHERE survey_id = $1
	`
	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list survey responses: %w", err)
	}
	defer rows.Close()

	var responses []models.SurveyResponse
	for rows.Next() {
		var resp models.SurveyResponse
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.UserID, &resp.Answers, &resp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan survey response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
