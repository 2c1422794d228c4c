// Package services содержит логику уведомлений: идемпотентное создание,
// ленту пользователя и публикацию новых уведомлений в брокер.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/metrics"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// NotificationRepository описывает хранилище уведомлений.
type NotificationRepository interface {
	EnsureNotification(ctx context.Context, n models.NewNotification) (int64, bool, error)
	ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int64) error
	DeleteNotification(ctx context.Context, id, userID int64) error
}

// Publisher отправляет сообщение о новом уведомлении.
type Publisher interface {
	Publish(ctx context.Context, message any) error
}

// NotificationService управляет уведомлениями.
type NotificationService struct {
	repo      NotificationRepository
	publisher Publisher
	log       *slog.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
// publisher может быть nil, тогда уведомления в брокер не публикуются.
func NewNotificationService(repo NotificationRepository, publisher Publisher, log *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Ensure возвращает ID уведомления по ключу (получатель, тип, мероприятие),
// создавая его ровно один раз. Пустой тип считается "reminder".
func (s *NotificationService) Ensure(ctx context.Context, n models.NewNotification) (int64, error) {
	const op = "services.notification.Ensure"
	if n.Type == "" {
		n.Type = models.NotificationReminder
	}

	id, created, err := s.repo.EnsureNotification(ctx, n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if !created {
		metrics.NotificationsEnsured.WithLabelValues(n.Type, "existing").Inc()
		return id, nil
	}
	metrics.NotificationsEnsured.WithLabelValues(n.Type, "created").Inc()
	s.publish(ctx, id, n)
	return id, nil
}

func (s *NotificationService) publish(ctx context.Context, id int64, n models.NewNotification) {
	if s.publisher == nil {
		return
	}
	msg := models.NotificationMessage{
		NotificationID: id,
		UserID:         n.UserID,
		Message:        n.Message,
		Type:           n.Type,
		EventID:        n.EventID,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		metrics.NotificationPublishFailures.Inc()
		s.log.Warn("failed to publish notification",
			slog.String("op", "services.notification.publish"),
			slog.Int64("notification_id", id),
			sl.Err(err))
	}
}

// List возвращает уведомления пользователя, новые первыми.
func (s *NotificationService) List(ctx context.Context, userID int64) ([]models.Notification, error) {
	const op = "services.notification.List"
	list, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// MarkRead помечает уведомление прочитанным от имени его получателя.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	const op = "services.notification.MarkRead"
	if err := s.repo.MarkNotificationRead(ctx, id, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет уведомление от имени его получателя.
func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	const op = "services.notification.Delete"
	if err := s.repo.DeleteNotification(ctx, id, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
