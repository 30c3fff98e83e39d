package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, name, email, role, unit_id, is_active, password_hash, created_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.UnitID, &p.IsActive, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

// CreateProfile insere um usuário; email duplicado retorna ErrAlreadyExists
func (r *Repository) CreateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (name, email, role, unit_id, is_active, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + profileColumns
	created, err := scanProfile(r.pool.QueryRow(ctx, query,
		profile.Name, profile.Email, profile.Role, profile.UnitID, profile.IsActive, profile.PasswordHash))
	if err != nil && isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	return created, err
}

// GetProfile busca um usuário pelo id
func (r *Repository) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

// GetProfileByEmail busca um usuário pelo email (login)
func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, email))
}

// ListProfiles lista os usuários do portal
func (r *Repository) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// ListProfilesByRole lista usuários de um papel (moderadores, curadores)
func (r *Repository) ListProfilesByRole(ctx context.Context, role string) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 AND is_active = true ORDER BY name`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles by role: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// UpdateProfile atualiza os dados cadastrais de um usuário
func (r *Repository) UpdateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET name = $1, email = $2, role = $3, unit_id = $4, is_active = $5
		WHERE id = $6
		RETURNING ` + profileColumns
	updated, err := scanProfile(r.pool.QueryRow(ctx, query,
		profile.Name, profile.Email, profile.Role, profile.UnitID, profile.IsActive, profile.ID))
	if err != nil && isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	return updated, err
}

// SetPasswordHash grava o novo hash de senha de um usuário
func (r *Repository) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET password_hash = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProfile desativa um usuário (remoção lógica)
func (r *Repository) DeleteProfile(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET is_active = false WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUnits lista as unidades da rede
func (r *Repository) ListUnits(ctx context.Context) ([]models.Unit, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, city, uf FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.City, &u.UF); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
