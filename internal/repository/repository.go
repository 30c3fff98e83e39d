package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// uniqueViolation é o código SQLSTATE de violação de constraint única
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// insertNotification insere uma linha de notificação dentro da transação corrente.
// Usado pelas transições de status para que notificação e mudança de estado
// sejam gravadas juntas.
func insertNotification(ctx context.Context, tx pgx.Tx, notif models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, reference_id, type, message)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.Exec(ctx, query, notif.UserID, notif.ReferenceID, notif.Type, notif.Message)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
