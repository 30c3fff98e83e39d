package models

import "time"

// Status do ciclo de vida de uma ideia
const (
	IdeaStatusTriagem         = "triagem"
	IdeaStatusEmVotacao       = "em_votacao"
	IdeaStatusAprovada        = "aprovada"
	IdeaStatusRecusada        = "recusada"
	IdeaStatusEmImplementacao = "em_implementacao"
	IdeaStatusImplementada    = "implementada"
)

// Categorias de ideia
const (
	IdeaCategoryProcesso   = "processo"
	IdeaCategoryTecnologia = "tecnologia"
	IdeaCategoryProduto    = "produto"
	IdeaCategoryAmbiente   = "ambiente"
	IdeaCategoryOutro      = "outro"
)

// ideaTransitions define as transições permitidas do pipeline de ideias.
// O avanço é sempre para frente; a única saída lateral é a recusa
// na triagem ou após a votação.
var ideaTransitions = map[string][]string{
	IdeaStatusTriagem:         {IdeaStatusEmVotacao, IdeaStatusRecusada},
	IdeaStatusEmVotacao:       {IdeaStatusAprovada, IdeaStatusRecusada},
	IdeaStatusAprovada:        {IdeaStatusEmImplementacao},
	IdeaStatusEmImplementacao: {IdeaStatusImplementada},
}

// CanTransitionIdea indica se a mudança de status é válida no pipeline.
// "pending" é aceito como sinônimo legado de "triagem".
func CanTransitionIdea(from, to string) bool {
	if from == "pending" {
		from = IdeaStatusTriagem
	}
	for _, allowed := range ideaTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidIdeaCategory valida a categoria informada na submissão
func ValidIdeaCategory(category string) bool {
	switch category {
	case IdeaCategoryProcesso, IdeaCategoryTecnologia, IdeaCategoryProduto,
		IdeaCategoryAmbiente, IdeaCategoryOutro:
		return true
	}
	return false
}

// Idea representa uma ideia submetida por um colaborador
type Idea struct {
	ID                     int64      `json:"id" db:"id"`
	Code                   string     `json:"code" db:"code"`
	Title                  string     `json:"title" db:"title"`
	Description            string     `json:"description" db:"description"`
	Category               string     `json:"category" db:"category"`
	Status                 string     `json:"status" db:"status"`
	PositiveVotes          int        `json:"positive_votes" db:"positive_votes"`
	NegativeVotes          int        `json:"negative_votes" db:"negative_votes"`
	TotalVotes             int        `json:"total_votes" db:"total_votes"`
	Quorum                 int        `json:"quorum" db:"quorum"`
	VoteStart              *time.Time `json:"vote_start,omitempty" db:"vote_start"`
	VoteEnd                *time.Time `json:"vote_end,omitempty" db:"vote_end"`
	SubmittedBy            int64      `json:"submitted_by" db:"submitted_by"`
	ImplementedBy          *int64     `json:"implemented_by,omitempty" db:"implemented_by"`
	ImplementationDeadline *time.Time `json:"implementation_deadline,omitempty" db:"implementation_deadline"`
	Feedback               string     `json:"feedback,omitempty" db:"feedback"`
	CuratorID              *int64     `json:"curator_id,omitempty" db:"curator_id"`
	ResolvedAt             *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	MediaURLs              []string   `json:"media_urls,omitempty" db:"media_urls"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
}

// IdeaFeedback registra o parecer da curadoria sobre uma ideia
type IdeaFeedback struct {
	ID             int64     `json:"id" db:"id"`
	IdeaID         int64     `json:"idea_id" db:"idea_id"`
	CuratorID      int64     `json:"curator_id" db:"curator_id"`
	Decision       string    `json:"decision" db:"decision"`
	Text           string    `json:"text" db:"text"`
	ViabilityLevel string    `json:"viability_level" db:"viability_level"`
	ImpactLevel    string    `json:"impact_level" db:"impact_level"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// IdeaVote registra um voto único de um usuário em uma ideia
type IdeaVote struct {
	ID        int64     `json:"id" db:"id"`
	IdeaID    int64     `json:"idea_id" db:"idea_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Positive  bool      `json:"positive" db:"positive"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IdeaStats agrega contagens por status para o painel administrativo
type IdeaStats struct {
	Triagem         int `json:"triagem"`
	EmVotacao       int `json:"em_votacao"`
	Aprovadas       int `json:"aprovadas"`
	Recusadas       int `json:"recusadas"`
	EmImplementacao int `json:"em_implementacao"`
	Implementadas   int `json:"implementadas"`
}
