package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionIdea(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"triagem abre votação", IdeaStatusTriagem, IdeaStatusEmVotacao, true},
		{"triagem pode ser recusada", IdeaStatusTriagem, IdeaStatusRecusada, true},
		{"votação aprova", IdeaStatusEmVotacao, IdeaStatusAprovada, true},
		{"votação recusa", IdeaStatusEmVotacao, IdeaStatusRecusada, true},
		{"aprovada inicia implementação", IdeaStatusAprovada, IdeaStatusEmImplementacao, true},
		{"implementação conclui", IdeaStatusEmImplementacao, IdeaStatusImplementada, true},
		{"pending é sinônimo legado de triagem", "pending", IdeaStatusEmVotacao, true},

		{"triagem não pula para aprovada", IdeaStatusTriagem, IdeaStatusAprovada, false},
		{"votação não pula para implementada", IdeaStatusEmVotacao, IdeaStatusImplementada, false},
		{"aprovada não volta para votação", IdeaStatusAprovada, IdeaStatusEmVotacao, false},
		{"recusada é terminal", IdeaStatusRecusada, IdeaStatusEmVotacao, false},
		{"implementada é terminal", IdeaStatusImplementada, IdeaStatusEmImplementacao, false},
		{"implementação não recusa", IdeaStatusEmImplementacao, IdeaStatusRecusada, false},
		{"status desconhecido não transiciona", "qualquer", IdeaStatusEmVotacao, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionIdea(tc.from, tc.to))
		})
	}
}

func TestValidIdeaCategory(t *testing.T) {
	for _, category := range []string{
		IdeaCategoryProcesso, IdeaCategoryTecnologia, IdeaCategoryProduto,
		IdeaCategoryAmbiente, IdeaCategoryOutro,
	} {
		assert.True(t, ValidIdeaCategory(category), category)
	}
	assert.False(t, ValidIdeaCategory(""))
	assert.False(t, ValidIdeaCategory("financeiro"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleGestorSetor))
	assert.True(t, ValidRole(RoleColaborador))
	assert.False(t, ValidRole("supervisor"))
}

func TestCanImplement(t *testing.T) {
	assert.True(t, CanImplement(RoleAdmin))
	assert.True(t, CanImplement(RoleGestorSetor))
	assert.False(t, CanImplement(RoleColaborador))
}
