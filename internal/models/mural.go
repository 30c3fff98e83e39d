package models

import "time"

// Status de publicação do Mural
const (
	MuralStatusPendente  = "pending"
	MuralStatusAprovado  = "approved"
	MuralStatusRejeitado = "rejected"
)

// Origem da decisão de moderação
const (
	ApprovalSourceManual = "manual"
	ApprovalSourceAI     = "ai"
)

// Veredito da validação de qualidade por IA
const (
	AIVerdictApproved = "approved"
	AIVerdictRejected = "rejected"
	AIVerdictReview   = "review"
)

// MuralPost representa uma publicação anônima no Mural
type MuralPost struct {
	ID             int64      `json:"id" db:"id"`
	Content        string     `json:"content" db:"content"`
	CategoryID     *int64     `json:"category_id,omitempty" db:"category_id"`
	Status         string     `json:"status" db:"status"`
	ApprovalSource string     `json:"approval_source,omitempty" db:"approval_source"`
	AIReason       string     `json:"ai_reason,omitempty" db:"ai_reason"`
	ResponseCount  int        `json:"response_count" db:"response_count"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	ModeratorID    *int64     `json:"moderator_id,omitempty" db:"moderator_id"`
	MediaURLs      []string   `json:"media_urls,omitempty" db:"media_urls"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// MuralResponse representa uma resposta a uma publicação do Mural
type MuralResponse struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MuralCategory é uma categoria de publicação do Mural
type MuralCategory struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
}

// MuralSettings guarda as configurações de moderação do Mural
type MuralSettings struct {
	AutoApprove         bool `json:"auto_approve" db:"auto_approve"`
	ConfidenceThreshold int  `json:"confidence_threshold" db:"confidence_threshold"`
}
