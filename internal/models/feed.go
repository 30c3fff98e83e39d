package models

import "time"

// Módulos de origem para espelhamento no Feed
const (
	FeedSourceMural = "mural"
	FeedSourceIdeia = "ideias"
)

// FeedPost representa uma publicação no feed principal.
// ModuleLink identifica a origem quando o post é um espelhamento
// de outro módulo (formato "modulo:id"); é único por origem.
type FeedPost struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	ModuleLink   string    `json:"module_link,omitempty" db:"module_link"`
	Pinned       bool      `json:"pinned" db:"pinned"`
	AuthorID     *int64    `json:"author_id,omitempty" db:"author_id"`
	CommentCount int       `json:"comment_count" db:"comment_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// FeedPostComment representa um comentário em uma publicação do feed
type FeedPostComment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
