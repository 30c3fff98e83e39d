package models

import "time"

// Survey representa uma pesquisa interna com janela de resposta
type Survey struct {
	ID        int64            `json:"id" db:"id"`
	Title     string           `json:"title" db:"title"`
	Questions []SurveyQuestion `json:"questions" db:"questions"`
	StartsAt  time.Time        `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time        `json:"ends_at" db:"ends_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// SurveyQuestion é uma pergunta de pesquisa com opções fechadas
type SurveyQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// SurveyResponse registra a resposta única de um usuário a uma pesquisa
type SurveyResponse struct {
	ID        int64     `json:"id" db:"id"`
	SurveyID  int64     `json:"survey_id" db:"survey_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Answers   []int     `json:"answers" db:"answers"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SurveyResults agrega contagens de resposta por opção de cada pergunta
type SurveyResults struct {
	SurveyID  int64   `json:"survey_id"`
	Total     int     `json:"total"`
	PerOption [][]int `json:"per_option"`
}
