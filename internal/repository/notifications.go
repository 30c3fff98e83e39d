package repository

import (
	"context"
	"fmt"

	"github.com/crescieperdi/portal-interno/internal/models"
)

// CreateNotification insere uma notificação fora de transação de transição
// (moderação do Mural, avisos do scheduler)
func (r *Repository) CreateNotification(ctx context.Context, notif models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, reference_id, type, message)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, notif.UserID, notif.ReferenceID, notif.Type, notif.Message); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications lista as notificações de um usuário, mais recentes primeiro
func (r *Repository) ListNotifications(ctx context.Context, userID int64, onlyUnread bool) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, reference_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, onlyUnread)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifs []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ReferenceID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationRead marca uma notificação do usuário como lida
func (r *Repository) MarkNotificationRead(ctx context.Context, notificationID, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marca todas as notificações do usuário como lidas
func (r *Repository) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// CountUnreadNotifications conta as notificações não lidas de um usuário
func (r *Repository) CountUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
