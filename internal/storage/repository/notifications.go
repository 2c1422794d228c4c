package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// EnsureNotification возвращает ID уведомления с ключом (UserID, Type, EventID),
// создавая его, если такого ещё нет. Существующая запись не изменяется.
// created сообщает, была ли запись вставлена этим вызовом.
func (s *Storage) EnsureNotification(ctx context.Context, n models.NewNotification) (id int64, created bool, err error) {
	const op = "storage.EnsureNotification"
	if err := checkContext(ctx, op); err != nil {
		return 0, false, err
	}

	insert := `INSERT INTO notifications (user_id, message, type, event_id, is_read, created_at)
			   VALUES ($1, $2, $3, $4, false, now())
			   ON CONFLICT ON CONSTRAINT notifications_dedup_key DO NOTHING
			   RETURNING id`
	err = s.DB.QueryRowContext(ctx, insert, n.UserID, n.Message, n.Type, n.EventID).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%s: %w", op, mapError(err))
	}

	lookup := `SELECT id FROM notifications
			   WHERE user_id = $1 AND type = $2 AND event_id IS NOT DISTINCT FROM $3::bigint`
	err = s.DB.QueryRowContext(ctx, lookup, n.UserID, n.Type, n.EventID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%s: %w", op, models.ErrNotFoundAfterInsert)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return id, false, nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	const op = "storage.ListNotifications"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, message, type, event_id, is_read, created_at
			  FROM notifications
			  WHERE user_id = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Notification, 0)
	for rows.Next() {
		var (
			n       models.Notification
			eventID sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &eventID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if eventID.Valid {
			n.EventID = &eventID.Int64
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkNotificationRead помечает уведомление прочитанным. Менять можно только свои.
func (s *Storage) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	const op = "storage.MarkNotificationRead"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.checkOwnedRowAffected(ctx, op, result, id)
}

// DeleteNotification удаляет уведомление получателя userID.
func (s *Storage) DeleteNotification(ctx context.Context, id, userID int64) error {
	const op = "storage.DeleteNotification"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.checkOwnedRowAffected(ctx, op, result, id)
}

func (s *Storage) checkOwnedRowAffected(ctx context.Context, op string, result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, s.ownershipError(ctx, "notifications", id))
	}
	return nil
}
