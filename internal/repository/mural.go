package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

const muralColumns = `
	id, content, category_id, status, approval_source, ai_reason,
	response_count, approved_at, moderator_id, media_urls, created_at
`

func scanMuralPost(row pgx.Row) (*models.MuralPost, error) {
	var post models.MuralPost
	err := row.Scan(
		&post.ID, &post.Content, &post.CategoryID, &post.Status, &post.ApprovalSource,
		&post.AIReason, &post.ResponseCount, &post.ApprovedAt, &post.ModeratorID,
		&post.MediaURLs, &post.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mural post: %w", err)
	}
	return &post, nil
}

// CreateMuralPost insere uma publicação já com o status decidido pelo pipeline
func (r *Repository) CreateMuralPost(ctx context.Context, post models.MuralPost) (*models.MuralPost, error) {
	query := `
		INSERT INTO mural_posts (content, category_id, status, approval_source, ai_reason, approved_at, media_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + muralColumns
	return scanMuralPost(r.pool.QueryRow(ctx, query,
		post.Content, post.CategoryID, post.Status, post.ApprovalSource,
		post.AIReason, post.ApprovedAt, post.MediaURLs))
}

// GetMuralPost busca uma publicação pelo id
func (r *Repository) GetMuralPost(ctx context.Context, id int64) (*models.MuralPost, error) {
	query := `SELECT ` + muralColumns + ` FROM mural_posts WHERE id = $1`
	return scanMuralPost(r.pool.QueryRow(ctx, query, id))
}

// ListMuralPosts lista publicações filtrando por status quando informado
func (r *Repository) ListMuralPosts(ctx context.Context, status string) ([]models.MuralPost, error) {
	query := `
		SELECT ` + muralColumns + `
		FROM mural_posts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list mural posts: %w", err)
	}
	defer rows.Close()

	var posts []models.MuralPost
	for rows.Next() {
		post, err := scanMuralPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// ModerateMuralPost aplica a decisão manual de um moderador a uma publicação pendente
func (r *Repository) ModerateMuralPost(ctx context.Context, postID, moderatorID int64, status string) (*models.MuralPost, error) {
	query := `
		UPDATE mural_posts
		SET status = $1, approval_source = $2, moderator_id = $3,
		    approved_at = CASE WHEN $1 = 'approved' THEN NOW() ELSE approved_at END
		WHERE id = $4 AND status = $5
		RETURNING ` + muralColumns
	post, err := scanMuralPost(r.pool.QueryRow(ctx, query,
		status, models.ApprovalSourceManual, moderatorID, postID, models.MuralStatusPendente))
	if errors.Is(err, ErrNotFound) {
		var exists bool
		if checkErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM mural_posts WHERE id = $1)`, postID).Scan(&exists); checkErr != nil {
			return nil, fmt.Errorf("failed to check mural post existence: %w", checkErr)
		}
		if exists {
			return nil, ErrInvalidTransition
		}
		return nil, ErrNotFound
	}
	return post, err
}

// CreateMuralResponse insere uma resposta e atualiza o contador na mesma transação
func (r *Repository) CreateMuralResponse(ctx context.Context, response models.MuralResponse) (*models.MuralResponse, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO mural_responses (post_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insertQuery, response.PostID, response.Content).
		Scan(&response.ID, &response.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert mural response: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE mural_posts SET response_count = response_count + 1 WHERE id = $1`, response.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to update response count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &response, nil
}

// ListMuralResponses lista as respostas de uma publicação
func (r *Repository) ListMuralResponses(ctx context.Context, postID int64) ([]models.MuralResponse, error) {
	query := `
		SELECT id, post_id, content, created_at
		FROM mural_responses
		WHERE post_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mural responses: %w", err)
	}
	defer rows.Close()

	var responses []models.MuralResponse
	for rows.Next() {
		var resp models.MuralResponse
		if err := rows.Scan(&resp.ID, &resp.PostID, &resp.Content, &resp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mural response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// ListMuralCategories lista as categorias do Mural
func (r *Repository) ListMuralCategories(ctx context.Context) ([]models.MuralCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color FROM mural_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mural categories: %w", err)
	}
	defer rows.Close()

	var categories []models.MuralCategory
	for rows.Next() {
		var cat models.MuralCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color); err != nil {
			return nil, fmt.Errorf("failed to scan mural category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// GetMuralSettings lê as configurações de moderação (linha única)
func (r *Repository) GetMuralSettings(ctx context.Context) (*models.MuralSettings, error) {
	var settings models.MuralSettings
	err := r.pool.QueryRow(ctx,
		`SELECT auto_approve, confidence_threshold FROM mural_settings LIMIT 1`).
		Scan(&settings.AutoApprove, &settings.ConfidenceThreshold)
	if errors.Is(err, pgx.ErrNoRows) {
		// Padrão conservador quando a linha ainda não existe
		return &models.MuralSettings{AutoApprove: false, ConfidenceThreshold: 80}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mural settings: %w", err)
	}
	return &settings, nil
}

// UpdateMuralSettings grava as configurações de moderação
func (r *Repository) UpdateMuralSettings(ctx context.Context, settings models.MuralSettings) error {
	query := `
		INSERT INTO mural_settings (id, auto_approve, confidence_threshold)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE
		SET auto_approve = excluded.auto_approve,
		    confidence_threshold = excluded.confidence_threshold
	`
	if _, err := r.pool.Exec(ctx, query, settings.AutoApprove, settings.ConfidenceThreshold); err != nil {
		return fmt.Errorf("failed to update mural settings: %w", err)
	}
	return nil
}
