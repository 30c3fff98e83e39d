package models

import "time"

// Papéis de acesso do portal
const (
	RoleAdmin       = "admin"
	RoleGestorSetor = "gestor_setor"
	RoleColaborador = "colaborador"
)

// ValidRole confere se o papel é um dos conhecidos
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleGestorSetor || role == RoleColaborador
}

// CanImplement indica se o papel pode ser responsável por implementar uma ideia
func CanImplement(role string) bool {
	return role == RoleAdmin || role == RoleGestorSetor
}

// Profile representa um usuário do portal
type Profile struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	UnitID       *int64    `json:"unit_id,omitempty" db:"unit_id"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Unit representa uma unidade da rede de franquias
type Unit struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	City string `json:"city" db:"city"`
	UF   string `json:"uf" db:"uf"`
}
