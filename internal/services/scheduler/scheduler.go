// Package services содержит планировщик напоминаний о завтрашних мероприятиях.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const dateLayout = "2006-01-02"

// EventRepository выбирает мероприятия на дату.
type EventRepository interface {
	ListEventsOnDate(ctx context.Context, date string) ([]models.EventDigest, error)
}

// UserResolver находит пользователя по логину.
type UserResolver interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// Notifier создаёт уведомление не более одного раза на ключ дедупликации.
type Notifier interface {
	Ensure(ctx context.Context, n models.NewNotification) (int64, error)
}

// SchedulerService раз в интервал создаёт напоминания участникам и владельцам
// мероприятий, которые пройдут завтра. Повторные прогоны не создают дублей.
type SchedulerService struct {
	events   EventRepository
	users    UserResolver
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(events EventRepository, users UserResolver, notifier Notifier, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		events:   events,
		users:    users,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Run выполняет прогон сразу и затем каждые interval до отмены ctx.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) {
	s.runOnceLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.runOnceLogged(ctx)
		}
	}
}

func (s *SchedulerService) runOnceLogged(ctx context.Context) {
	s.log.Info("starting reminder run")
	n, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error("reminder run failed", sl.Err(err))
		return
	}
	s.log.Info("reminder run finished", slog.Int("ensured", n))
}

// RunOnce обрабатывает мероприятия на завтра и возвращает число
// успешно обеспеченных напоминаний.
func (s *SchedulerService) RunOnce(ctx context.Context) (int, error) {
	const op = "services.scheduler.RunOnce"
	tomorrow := s.now().AddDate(0, 0, 1).Format(dateLayout)

	events, err := s.events.ListEventsOnDate(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(events) == 0 {
		s.log.Info("no events tomorrow", slog.String("date", tomorrow))
		return 0, nil
	}

	ensured := 0
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return ensured, fmt.Errorf("%s: %w", op, err)
		}
		ensured += s.remind(ctx, e)
	}
	return ensured, nil
}

func (s *SchedulerService) remind(ctx context.Context, e models.EventDigest) int {
	log := s.log.With(slog.Int64("event_id", e.ID))
	message := ReminderMessage(e.Title, e.Date, e.Time)

	recipients := []int64{e.OwnerID}
	for _, login := range e.Participants {
		u, err := s.users.GetUserByLogin(ctx, login)
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("participant not found, reminder skipped", slog.String("login", login))
			continue
		}
		if err != nil {
			log.Error("failed to resolve participant", slog.String("login", login), sl.Err(err))
			continue
		}
		recipients = append(recipients, u.ID)
	}

	ensured := 0
	eventID := e.ID
	for _, userID := range recipients {
		_, err := s.notifier.Ensure(ctx, models.NewNotification{
			UserID:  userID,
			Message: message,
			Type:    models.NotificationReminder,
			EventID: &eventID,
		})
		if err != nil {
			log.Error("failed to ensure reminder", slog.Int64("user_id", userID), sl.Err(err))
			continue
		}
		ensured++
	}
	return ensured
}

// ReminderMessage текст напоминания о мероприятии.
func ReminderMessage(title, date string, t *string) string {
	when := date
	if t != nil && *t != "" {
		when += " в " + *t
	}
	return fmt.Sprintf("Напоминаем: завтра, %s, состоится мероприятие «%s».", when, title)
}
