package models

import "time"

// Tipos de notificação gerados pelas transições do portal
const (
	NotificationIdeaVotacao       = "ideia_em_votacao"
	NotificationIdeaCuradoria     = "ideia_curadoria"
	NotificationIdeaImplementacao = "ideia_implementacao"
	NotificationIdeaImplementada  = "ideia_implementada"
	NotificationMuralRevisao      = "mural_revisao"
	NotificationMuralModeracao    = "mural_moderacao"
	NotificationVotacaoEncerrada  = "votacao_encerrada"
)

// Notification é uma linha de notificação endereçada a um usuário.
// Depois de criada, apenas is_read é alterado.
type Notification struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	ReferenceID *int64    `json:"reference_id,omitempty" db:"reference_id"`
	Type        string    `json:"type" db:"type"`
	Message     string    `json:"message" db:"message"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
