package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateAISession insere uma sessão de conversa do GiraBot
func (r *Repository) CreateAISession(ctx context.Context, session models.AISession) (*models.AISession, error) {
	messages, err := json.Marshal(session.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session messages: %w", err)
	}

	query := `
		INSERT INTO ai_sessions (id, user_id, module, messages)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query, session.ID, session.UserID, session.Module, messages).
		Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai session: %w", err)
	}
	return &session, nil
}

// GetAISession busca uma sessão do usuário pelo id
func (r *Repository) GetAISession(ctx context.Context, sessionID string, userID int64) (*models.AISession, error) {
	var session models.AISession
	var messages []byte
	query := `SELECT id, user_id, module, messages, created_at, updated_at FROM ai_sessions WHERE id = $1 AND user_id = $2`
	err := r.pool.QueryRow(ctx, query, sessionID, userID).Scan(
		&session.ID, &session.UserID, &session.Module, &messages, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ai session: %w", err)
	}
	if err := json.Unmarshal(messages, &session.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session messages: %w", err)
	}
	return &session, nil
}

// UpdateAISessionMessages sobrescreve o transcript da sessão
func (r *Repository) UpdateAISessionMessages(ctx context.Context, sessionID string, msgs []models.ChatMessage) error {
	messages, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("failed to marshal session messages: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE ai_sessions SET messages = $1, updated_at = NOW() WHERE id = $2`, messages, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update ai session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindFAQAnswer procura uma resposta pré-autorada para a pergunta exata
func (r *Repository) FindFAQAnswer(ctx context.Context, question string) (string, error) {
	var answer string
	query := `SELECT answer FROM girabot_faqs WHERE LOWER(question) = LOWER($1) LIMIT 1`
	err := r.pool.QueryRow(ctx, query, question).Scan(&answer)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find faq answer: %w", err)
	}
	return answer, nil
}

// ListFAQs lista as perguntas frequentes do GiraBot
func (r *Repository) ListFAQs(ctx context.Context) ([]models.GirabotFAQ, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, question, answer FROM girabot_faqs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []models.GirabotFAQ
	for rows.Next() {
		var faq models.GirabotFAQ
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, faq)
	}
	return faqs, rows.Err()
}

// GetGirabotSettings lê as configurações do assistente (linha única)
func (r *Repository) GetGirabotSettings(ctx context.Context) (*models.GirabotSettings, error) {
	var settings models.GirabotSettings
	err := r.pool.QueryRow(ctx,
		`SELECT enabled, system_prompt FROM girabot_settings LIMIT 1`).
		Scan(&settings.Enabled, &settings.SystemPrompt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.GirabotSettings{Enabled: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get girabot settings: %w", err)
	}
	return &settings, nil
}

// CreateGirabotReport persiste um relatório gerado
func (r *Repository) CreateGirabotReport(ctx context.Context, report models.GirabotReport) (*models.GirabotReport, error) {
	query := `
		INSERT INTO girabot_reports (kind, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, report.Kind, report.Content).
		Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create girabot report: %w", err)
	}
	return &report, nil
}

// ListGirabotReports lista os relatórios persistidos
func (r *Repository) ListGirabotReports(ctx context.Context) ([]models.GirabotReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, content, created_at FROM girabot_reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list girabot reports: %w", err)
	}
	defer rows.Close()

	var reports []models.GirabotReport
	for rows.Next() {
		var report models.GirabotReport
		if err := rows.Scan(&report.ID, &report.Kind, &report.Content, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan girabot report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
