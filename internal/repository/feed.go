package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

const feedColumns = `id, title, description, module_link, pinned, author_id, comment_count, created_at`

func scanFeedPost(row pgx.Row) (*models.FeedPost, error) {
	var post models.FeedPost
	// module_link é NULL em posts não espelhados
	var moduleLink *string
	err := row.Scan(
		&post.ID, &post.Title, &post.Description, &moduleLink,
		&post.Pinned, &post.AuthorID, &post.CommentCount, &post.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan feed post: %w", err)
	}
	if moduleLink != nil {
		post.ModuleLink = *moduleLink
	}
	return &post, nil
}

// CreateFeedPost insere uma publicação no feed.
// Quando module_link está preenchido, a constraint única devolve
// ErrAlreadyExists em caso de espelhamento duplicado.
func (r *Repository) CreateFeedPost(ctx context.Context, post models.FeedPost) (*models.FeedPost, error) {
	query := `
		INSERT INTO feed_posts (title, description, module_link, pinned, author_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING ` + feedColumns
	created, err := scanFeedPost(r.pool.QueryRow(ctx, query,
		post.Title, post.Description, post.ModuleLink, post.Pinned, post.AuthorID))
	if err != nil && isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	return created, err
}

// GetFeedPostByModuleLink busca o post espelhado de uma origem
func (r *Repository) GetFeedPostByModuleLink(ctx context.Context, moduleLink string) (*models.FeedPost, error) {
	query := `SELECT ` + feedColumns + ` FROM feed_posts WHERE module_link = $1`
	return scanFeedPost(r.pool.QueryRow(ctx, query, moduleLink))
}

// ListFeedPosts lista o feed com fixados primeiro
func (r *Repository) ListFeedPosts(ctx context.Context, limit int) ([]models.FeedPost, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + feedColumns + `
		FROM feed_posts
		ORDER BY pinned DESC, created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed posts: %w", err)
	}
	defer rows.Close()

	var posts []models.FeedPost
	for rows.Next() {
		post, err := scanFeedPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// DeleteFeedPost remove uma publicação do feed
func (r *Repository) DeleteFeedPost(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feed_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feed post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateFeedComment insere um comentário e atualiza o contador na mesma transação
func (r *Repository) CreateFeedComment(ctx context.Context, comment models.FeedPostComment) (*models.FeedPostComment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO feed_post_comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insertQuery, comment.PostID, comment.AuthorID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feed comment: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE feed_posts SET comment_count = comment_count + 1 WHERE id = $1`, comment.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &comment, nil
}

// ListFeedComments lista os comentários de uma publicação
func (r *Repository) ListFeedComments(ctx context.Context, postID int64) ([]models.FeedPostComment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at
		FROM feed_post_comments
		WHERE post_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed comments: %w", err)
	}
	defer rows.Close()

	var comments []models.FeedPostComment
	for rows.Next() {
		var comment models.FeedPostComment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID,
			&comment.Content, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feed comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// ListRecentFeedPosts retorna os posts dos últimos N dias (resumo semanal)
func (r *Repository) ListRecentFeedPosts(ctx context.Context, days int) ([]models.FeedPost, error) {
	query := `
		SELECT ` + feedColumns + `
		FROM feed_posts
		WHERE created_at > NOW() - make_interval(days => $1)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent feed posts: %w", err)
	}
	defer rows.Close()

	var posts []models.FeedPost
	for rows.Next() {
		post, err := scanFeedPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}
