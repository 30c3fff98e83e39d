package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateTraining insere um treinamento; as questões do quiz vão como jsonb
func (r *Repository) CreateTraining(ctx context.Context, training models.Training) (*models.Training, error) {
	questions, err := json.Marshal(training.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quiz questions: %w", err)
	}

	query := `
		INSERT INTO trainings (title, category_id, content_url, questions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query, training.Title, training.CategoryID, training.ContentURL, questions).
		Scan(&training.ID, &training.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create training: %w", err)
	}
	return &training, nil
}

// GetTraining busca um treinamento pelo id
func (r *Repository) GetTraining(ctx context.Context, id int64) (*models.Training, error) {
	var training models.Training
	var questions []byte
	query := `SELECT id, title, category_id, content_url, questions, created_at FROM trainings WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&training.ID, &training.Title, &training.CategoryID, &training.ContentURL, &questions, &training.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training: %w", err)
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &training.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quiz questions: %w", err)
		}
	}
	return &training, nil
}

// ListTrainings lista treinamentos, opcionalmente por categoria
func (r *Repository) ListTrainings(ctx context.Context, categoryID int64) ([]models.Training, error) {
	query := `
		SELECT id, title, category_id, content_url, questions, created_at
		FROM trainings
		WHERE ($1 = 0 OR category_id = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainings: %w", err)
	}
	defer rows.Close()

	var trainings []models.Training
	for rows.Next() {
		var training models.Training
		var questions []byte
		if err := rows.Scan(&training.ID, &training.Title, &training.CategoryID,
			&training.ContentURL, &questions, &training.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan training: %w", err)
		}
		if len(questions) > 0 {
			if err := json.Unmarshal(questions, &training.Questions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal quiz questions: %w", err)
			}
		}
		trainings = append(trainings, training)
	}
	return trainings, rows.Err()
}

// ListTrainingCategories lista as categorias de treinamento
func (r *Repository) ListTrainingCategories(ctx context.Context) ([]models.TrainingCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM training_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list training categories: %w", err)
	}
	defer rows.Close()

	var categories []models.TrainingCategory
	for rows.Next() {
		var cat models.TrainingCategory
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan training category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// CreateQuizAttempt registra uma tentativa de quiz já corrigida
func (r *Repository) CreateQuizAttempt(ctx context.Context, attempt models.QuizAttempt) (*models.QuizAttempt, error) {
	query := `
		INSERT INTO training_quiz_attempts (training_id, user_id, answers, score, feedback)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		attempt.TrainingID, attempt.UserID, attempt.Answers, attempt.Score, attempt.Feedback).
		Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return &attempt, nil
}

// ListQuizAttempts lista as tentativas de um usuário em um treinamento
func (r *Repository) ListQuizAttempts(ctx context.Context, trainingID, userID int64) ([]models.QuizAttempt, error) {
	query := `
		SELECT id, training_id, user_id, answers, score, feedback, created_at
		FROM training_quiz_attempts
		WHERE training_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, trainingID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var attempt models.QuizAttempt
		if err := rows.Scan(&attempt.ID, &attempt.TrainingID, &attempt.UserID,
			&attempt.Answers, &attempt.Score, &attempt.Feedback, &attempt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}
