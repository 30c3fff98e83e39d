package models

import "time"

// ChatMessage é uma mensagem do transcript de uma sessão do GiraBot
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AISession representa uma conversa com o GiraBot em um módulo do portal
type AISession struct {
	ID        string        `json:"id" db:"id"`
	UserID    int64         `json:"user_id" db:"user_id"`
	Module    string        `json:"module" db:"module"`
	Messages  []ChatMessage `json:"messages" db:"messages"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// GirabotFAQ é uma resposta pré-autorada que curto-circuita a chamada ao LLM
type GirabotFAQ struct {
	ID       int64  `json:"id" db:"id"`
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`
}

// GirabotSettings guarda as configurações do assistente
type GirabotSettings struct {
	Enabled      bool   `json:"enabled" db:"enabled"`
	SystemPrompt string `json:"system_prompt" db:"system_prompt"`
}

// GirabotReport é um relatório gerado pelo assistente e persistido
type GirabotReport struct {
	ID        int64     `json:"id" db:"id"`
	Kind      string    `json:"kind" db:"kind"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
