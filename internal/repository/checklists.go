package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateChecklist insere um checklist com os itens como jsonb
func (r *Repository) CreateChecklist(ctx context.Context, checklist models.Checklist) (*models.Checklist, error) {
	items, err := json.Marshal(checklist.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checklist items: %w", err)
	}

	query := `
		INSERT INTO checklists (title, items, unit_id, assigned_to)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query, checklist.Title, items, checklist.UnitID, checklist.AssignedTo).
		Scan(&checklist.ID, &checklist.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create checklist: %w", err)
	}
	return &checklist, nil
}

// GetChecklist busca um checklist pelo id
func (r *Repository) GetChecklist(ctx context.Context, id int64) (*models.Checklist, error) {
	var checklist models.Checklist
	var items []byte
	query := `SELECT id, title, items, unit_id, assigned_to, created_at FROM checklists WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&checklist.ID, &checklist.Title, &items, &checklist.UnitID, &checklist.AssignedTo, &checklist.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}
	if err := json.Unmarshal(items, &checklist.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checklist items: %w", err)
	}
	return &checklist, nil
}

// ListChecklists lista checklists, opcionalmente por unidade
func (r *Repository) ListChecklists(ctx context.Context, unitID int64) ([]models.Checklist, error) {
	query := `
		SELECT id, title, items, unit_id, assigned_to, created_at
		FROM checklists
		WHERE ($1 = 0 OR unit_id = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	defer rows.Close()

	var checklists []models.Checklist
	for rows.Next() {
		var checklist models.Checklist
		var items []byte
		if err := rows.Scan(&checklist.ID, &checklist.Title, &items,
			&checklist.UnitID, &checklist.AssignedTo, &checklist.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan checklist: %w", err)
		}
		if err := json.Unmarshal(items, &checklist.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checklist items: %w", err)
		}
		checklists = append(checklists, checklist)
	}
	return checklists, rows.Err()
}

// ToggleChecklistItem inverte o done de um item pelo índice
func (r *Repository) ToggleChecklistItem(ctx context.Context, checklistID int64, itemIndex int) (*models.Checklist, error) {
	checklist, err := r.GetChecklist(ctx, checklistID)
	if err != nil {
		return nil, err
	}
	if itemIndex < 0 || itemIndex >= len(checklist.Items) {
		return nil, ErrInvalidInput
	}

	checklist.Items[itemIndex].Done = !checklist.Items[itemIndex].Done
	items, err := json.Marshal(checklist.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checklist items: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `UPDATE checklists SET items = $1 WHERE id = $2`, items, checklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle checklist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return checklist, nil
}

// DeleteChecklist remove um checklist
func (r *Repository) DeleteChecklist(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM checklists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete checklist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
