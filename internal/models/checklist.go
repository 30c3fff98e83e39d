package models

import "time"

// ChecklistItem é um item marcável de um checklist
type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Checklist representa um checklist operacional de uma unidade
type Checklist struct {
	ID         int64           `json:"id" db:"id"`
	Title      string          `json:"title" db:"title"`
	Items      []ChecklistItem `json:"items" db:"items"`
	UnitID     *int64          `json:"unit_id,omitempty" db:"unit_id"`
	AssignedTo *int64          `json:"assigned_to,omitempty" db:"assigned_to"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
