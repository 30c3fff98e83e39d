package models

import "time"

// Training representa um treinamento com quiz opcional
type Training struct {
	ID         int64          `json:"id" db:"id"`
	Title      string         `json:"title" db:"title"`
	CategoryID *int64         `json:"category_id,omitempty" db:"category_id"`
	ContentURL string         `json:"content_url" db:"content_url"`
	Questions  []QuizQuestion `json:"questions,omitempty" db:"questions"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// TrainingCategory é uma categoria de treinamento
type TrainingCategory struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// QuizQuestion é uma questão de múltipla escolha de um quiz
type QuizQuestion struct {
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectOption  int      `json:"correct_option"`
	StaticFeedback string   `json:"static_feedback,omitempty"`
}

// QuizAttempt registra uma tentativa de quiz com a nota e o feedback recebido
type QuizAttempt struct {
	ID         int64     `json:"id" db:"id"`
	TrainingID int64     `json:"training_id" db:"training_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Answers    []int     `json:"answers" db:"answers"`
	Score      int       `json:"score" db:"score"`
	Feedback   string    `json:"feedback,omitempty" db:"feedback"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
