package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

const ideaColumns = `
	id, code, title, description, category, status,
	positive_votes, negative_votes, total_votes, quorum,
	vote_start, vote_end, submitted_by, implemented_by,
	implementation_deadline, feedback, curator_id, resolved_at,
	media_urls, created_at
`

func scanIdea(row pgx.Row) (*models.Idea, error) {
	var idea models.Idea
	err := row.Scan(
		&idea.ID, &idea.Code, &idea.Title, &idea.Description, &idea.Category, &idea.Status,
		&idea.PositiveVotes, &idea.NegativeVotes, &idea.TotalVotes, &idea.Quorum,
		&idea.VoteStart, &idea.VoteEnd, &idea.SubmittedBy, &idea.ImplementedBy,
		&idea.ImplementationDeadline, &idea.Feedback, &idea.CuratorID, &idea.ResolvedAt,
		&idea.MediaURLs, &idea.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan idea: %w", err)
	}
	return &idea, nil
}

// CreateIdea insere uma ideia em triagem e gera o código legível (CP-<id>)
func (r *Repository) CreateIdea(ctx context.Context, idea models.Idea) (*models.Idea, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO ideas (title, description, category, status, quorum, submitted_by, media_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insertQuery,
		idea.Title, idea.Description, idea.Category, models.IdeaStatusTriagem,
		idea.Quorum, idea.SubmittedBy, idea.MediaURLs,
	).Scan(&idea.ID, &idea.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	// Código legível derivado do id interno
	idea.Code = fmt.Sprintf("CP-%04d", idea.ID)
	_, err = tx.Exec(ctx, `UPDATE ideas SET code = $1 WHERE id = $2`, idea.Code, idea.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to set idea code: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	idea.Status = models.IdeaStatusTriagem
	return &idea, nil
}

// GetIdea busca uma ideia pelo id interno
func (r *Repository) GetIdea(ctx context.Context, id int64) (*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`
	return scanIdea(r.pool.QueryRow(ctx, query, id))
}

// ListIdeas lista ideias com filtros opcionais de status e categoria
func (r *Repository) ListIdeas(ctx context.Context, status, category string) ([]models.Idea, error) {
	query := `
		SELECT ` + ideaColumns + `
		FROM ideas
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, status, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, *idea)
	}
	return ideas, rows.Err()
}

// MarkVoting abre a votação de uma ideia em triagem.
// O UPDATE condicionado ao status anterior garante que nenhuma transição
// ilegal seja gravada mesmo sob chamadas concorrentes.
func (r *Repository) MarkVoting(ctx context.Context, ideaID int64, voteStart, voteEnd time.Time, notif models.Notification) (*models.Idea, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE ideas
		SET status = $1, vote_start = $2, vote_end = $3
		WHERE id = $4 AND status IN ($5, 'pending')
		RETURNING ` + ideaColumns
	idea, err := scanIdea(tx.QueryRow(ctx, query,
		models.IdeaStatusEmVotacao, voteStart, voteEnd, ideaID, models.IdeaStatusTriagem))
	if errors.Is(err, ErrNotFound) {
		return nil, r.transitionError(ctx, ideaID)
	}
	if err != nil {
		return nil, err
	}

	if err := insertNotification(ctx, tx, notif); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return idea, nil
}

// AddVote registra um voto único e atualiza os contadores na mesma transação
func (r *Repository) AddVote(ctx context.Context, vote models.IdeaVote) (*models.Idea, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `INSERT INTO ideas_votes (idea_id, user_id, positive) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insertQuery, vote.IdeaID, vote.UserID, vote.Positive); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}

	updateQuery := `
		UPDATE ideas
		SET positive_votes = positive_votes + $1,
		    negative_votes = negative_votes + $2,
		    total_votes = total_votes + 1
		WHERE id = $3 AND status = $4
		RETURNING ` + ideaColumns
	positive, negative := 0, 0
	if vote.Positive {
		positive = 1
	} else {
		negative = 1
	}
	idea, err := scanIdea(tx.QueryRow(ctx, updateQuery, positive, negative, vote.IdeaID, models.IdeaStatusEmVotacao))
	if errors.Is(err, ErrNotFound) {
		return nil, r.transitionError(ctx, vote.IdeaID)
	}
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return idea, nil
}

// Curate encerra a votação com o parecer da curadoria: grava o novo status,
// o registro de feedback e a notificação ao autor na mesma transação
func (r *Repository) Curate(ctx context.Context, ideaID int64, decision string, fb models.IdeaFeedback, notif models.Notification) (*models.Idea, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE ideas
		SET status = $1, feedback = $2, curator_id = $3,
		    resolved_at = CASE WHEN $1 = 'recusada' THEN NOW() ELSE resolved_at END
		WHERE id = $4 AND status = $5
		RETURNING ` + ideaColumns
	idea, err := scanIdea(tx.QueryRow(ctx, query, decision, fb.Text, fb.CuratorID, ideaID, models.IdeaStatusEmVotacao))
	if errors.Is(err, ErrNotFound) {
		return nil, r.transitionError(ctx, ideaID)
	}
	if err != nil {
		return nil, err
	}

	fbQuery := `
		INSERT INTO ideas_feedback (idea_id, curator_id, decision, text, viability_level, impact_level)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, fbQuery, ideaID, fb.CuratorID, decision, fb.Text, fb.ViabilityLevel, fb.ImpactLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to insert idea feedback: %w", err)
	}

	if err := insertNotification(ctx, tx, notif); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return idea, nil
}

// StartImplementation atribui o responsável e o prazo; notifica autor e responsável
func (r *Repository) StartImplementation(ctx context.Context, ideaID, responsibleID int64, deadline time.Time, notifs []models.Notification) (*models.Idea, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE ideas
		SET status = $1, implemented_by = $2, implementation_deadline = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + ideaColumns
	idea, err := scanIdea(tx.QueryRow(ctx, query,
		models.IdeaStatusEmImplementacao, responsibleID, deadline, ideaID, models.IdeaStatusAprovada))
	if errors.Is(err, ErrNotFound) {
		return nil, r.transitionError(ctx, ideaID)
	}
	if err != nil {
		return nil, err
	}

	for _, notif := range notifs {
		if err := insertNotification(ctx, tx, notif); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return idea, nil
}

// MarkImplemented finaliza a ideia e notifica o autor
func (r *Repository) MarkImplemented(ctx context.Context, ideaID int64, feedback string, notif models.Notification) (*models.Idea, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE ideas
		SET status = $1,
		    feedback = CASE WHEN $2 <> '' THEN $2 ELSE feedback END,
		    resolved_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING ` + ideaColumns
	idea, err := scanIdea(tx.QueryRow(ctx, query,
		models.IdeaStatusImplementada, feedback, ideaID, models.IdeaStatusEmImplementacao))
	if errors.Is(err, ErrNotFound) {
		return nil, r.transitionError(ctx, ideaID)
	}
	if err != nil {
		return nil, err
	}

	if err := insertNotification(ctx, tx, notif); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return idea, nil
}

// CountIdeasByStatus agrega contagens por status para o painel
func (r *Repository) CountIdeasByStatus(ctx context.Context) (*models.IdeaStats, error) {
	query := `SELECT status, COUNT(*) FROM ideas GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count ideas: %w", err)
	}
	defer rows.Close()

	var stats models.IdeaStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan idea count: %w", err)
		}
		switch status {
		case models.IdeaStatusTriagem, "pending":
			stats.Triagem += count
		case models.IdeaStatusEmVotacao:
			stats.EmVotacao = count
		case models.IdeaStatusAprovada:
			stats.Aprovadas = count
		case models.IdeaStatusRecusada:
			stats.Recusadas = count
		case models.IdeaStatusEmImplementacao:
			stats.EmImplementacao = count
		case models.IdeaStatusImplementada:
			stats.Implementadas = count
		}
	}
	return &stats, rows.Err()
}

// ListExpiredVotings retorna votações vencidas ainda não sinalizadas e as
// marca como sinalizadas, para o sweep do scheduler não repetir notificações
func (r *Repository) ListExpiredVotings(ctx context.Context) ([]models.Idea, error) {
	query := `
		UPDATE ideas
		SET vote_expiry_notified = true
		WHERE status = $1 AND vote_end < NOW() AND vote_expiry_notified = false
		RETURNING ` + ideaColumns
	rows, err := r.pool.Query(ctx, query, models.IdeaStatusEmVotacao)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired votings: %w", err)
	}
	defer rows.Close()

	var ideas []models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, *idea)
	}
	return ideas, rows.Err()
}

// transitionError distingue ideia inexistente de transição ilegal
func (r *Repository) transitionError(ctx context.Context, ideaID int64) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ideas WHERE id = $1)`, ideaID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check idea existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidTransition
}
