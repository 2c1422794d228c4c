// Package services содержит логику мероприятий: создание с рассылкой
// приглашений, участие и удаление.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/metrics"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const defaultFanoutConcurrency = 8

// EventRepository описывает хранилище мероприятий.
type EventRepository interface {
	CreateEvent(ctx context.Context, e models.NewEvent) (int64, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsByUser(ctx context.Context, userID int64) ([]models.Event, error)
	ChangeParticipation(ctx context.Context, eventID int64, action, login string) (*models.ParticipationResult, error)
	DeleteEvent(ctx context.Context, eventID, userID int64) error
}

// UserResolver находит пользователя по логину.
type UserResolver interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// Notifier создаёт уведомление не более одного раза на ключ дедупликации.
type Notifier interface {
	Ensure(ctx context.Context, n models.NewNotification) (int64, error)
}

// EventService управляет мероприятиями.
type EventService struct {
	events      EventRepository
	users       UserResolver
	notifier    Notifier
	concurrency int
	log         *slog.Logger
}

// NewEventService создает новый экземпляр EventService.
// concurrency ограничивает число одновременных задач рассылки приглашений.
func NewEventService(events EventRepository, users UserResolver, notifier Notifier, concurrency int, log *slog.Logger) *EventService {
	if concurrency <= 0 {
		concurrency = defaultFanoutConcurrency
	}
	return &EventService{
		events:      events,
		users:       users,
		notifier:    notifier,
		concurrency: concurrency,
		log:         log,
	}
}

// Create сохраняет мероприятие владельца owner и рассылает приглашения участникам.
// Ошибки рассылки не влияют на результат: они попадают в отчёт, лог и метрики.
func (s *EventService) Create(ctx context.Context, owner models.Identity, req models.CreateEventRequest) (int64, *FanoutReport, error) {
	const op = "services.event.Create"

	participants := normalizeParticipants(req.Participants, req.Creator, owner.Login)
	eventID, err := s.events.CreateEvent(ctx, models.NewEvent{
		UserID:       owner.ID,
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Creator:      req.Creator,
		Participants: participants,
		RouteData:    req.RouteData,
		Distance:     req.Distance,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w", op, err)
	}

	report := s.fanOutInvitations(context.WithoutCancel(ctx), eventID, participants,
		InvitationMessage(req.Title, req.Date, req.Time))

	log := s.log.With(slog.String("op", op), slog.Int64("event_id", eventID))
	for _, r := range report.Results {
		metrics.FanoutTasks.WithLabelValues(r.Status()).Inc()
		switch r.Status() {
		case metrics.FanoutSkipped:
			log.Warn("invitee not found, invitation skipped", slog.String("login", r.Login))
		case metrics.FanoutFailed:
			log.Error("failed to invite participant", slog.String("login", r.Login), sl.Err(r.Err))
		}
	}
	log.Info("event created",
		slog.Int("invited", report.Count(metrics.FanoutDelivered)),
		slog.Int("skipped", report.Count(metrics.FanoutSkipped)),
		slog.Int("failed", report.Count(metrics.FanoutFailed)))

	return eventID, report, nil
}

// fanOutInvitations запускает по задаче на участника и дожидается всех.
func (s *EventService) fanOutInvitations(ctx context.Context, eventID int64, logins []string, message string) *FanoutReport {
	report := &FanoutReport{EventID: eventID, Results: make([]FanoutResult, len(logins))}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, login := range logins {
		g.Go(func() error {
			report.Results[i] = s.invite(ctx, eventID, login, message)
			return nil
		})
	}
	_ = g.Wait()
	return report
}

func (s *EventService) invite(ctx context.Context, eventID int64, login, message string) FanoutResult {
	res := FanoutResult{Login: login}
	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		res.Err = err
		return res
	}
	res.UserID = user.ID

	id, err := s.notifier.Ensure(ctx, models.NewNotification{
		UserID:  user.ID,
		Message: message,
		Type:    models.NotificationInvitation,
		EventID: &eventID,
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.NotificationID = id
	return res
}

// ListAll возвращает все мероприятия.
func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	const op = "services.event.ListAll"
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// ListByUser возвращает мероприятия пользователя userID.
func (s *EventService) ListByUser(ctx context.Context, userID int64) ([]models.Event, error) {
	const op = "services.event.ListByUser"
	events, err := s.events.ListEventsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// ChangeParticipation выполняет вступление или выход login и уведомляет владельца.
// Сбой уведомления только логируется.
func (s *EventService) ChangeParticipation(ctx context.Context, eventID int64, action, login string) ([]string, error) {
	const op = "services.event.ChangeParticipation"
	if action != models.ActionJoin && action != models.ActionLeave {
		return nil, fmt.Errorf("%s: %w: unknown action %q", op, models.ErrValidation, action)
	}

	res, err := s.events.ChangeParticipation(ctx, eventID, action, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.ParticipationChanges.WithLabelValues(action).Inc()

	_, err = s.notifier.Ensure(context.WithoutCancel(ctx), models.NewNotification{
		UserID:  res.OwnerID,
		Message: ResponseMessage(login, action, res.Title),
		Type:    models.NotificationResponse,
		EventID: &eventID,
	})
	if err != nil {
		s.log.Error("failed to notify event owner",
			slog.String("op", op),
			slog.Int64("event_id", eventID),
			slog.Int64("owner_id", res.OwnerID),
			sl.Err(err))
	}
	return res.Participants, nil
}

// Delete удаляет мероприятие от имени владельца userID.
func (s *EventService) Delete(ctx context.Context, eventID, userID int64) error {
	const op = "services.event.Delete"
	if err := s.events.DeleteEvent(ctx, eventID, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// normalizeParticipants убирает пустые логины, повторы и логины создателя,
// сохраняя исходный порядок.
func normalizeParticipants(logins []string, excluded ...string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, e := range excluded {
		if e = strings.TrimSpace(e); e != "" {
			seen.Add(e)
		}
	}

	result := make([]string, 0, len(logins))
	for _, login := range logins {
		login = strings.TrimSpace(login)
		if login == "" || seen.Contains(login) {
			continue
		}
		seen.Add(login)
		result = append(result, login)
	}
	return result
}

// InvitationMessage текст приглашения на мероприятие.
func InvitationMessage(title, date string, t *string) string {
	when := date
	if t != nil && *t != "" {
		when += " в " + *t
	}
	return fmt.Sprintf("Вы были приглашены на мероприятие «%s», запланированное на %s.", title, when)
}

// ResponseMessage текст уведомления владельцу о вступлении или выходе участника.
func ResponseMessage(login, action, title string) string {
	if action == models.ActionJoin {
		return fmt.Sprintf("%s присоединился к вашему мероприятию «%s»", login, title)
	}
	return fmt.Sprintf("%s отказался от участия в вашем мероприятии «%s»", login, title)
}

// FanoutResult итог задачи приглашения одного участника.
type FanoutResult struct {
	Login          string
	UserID         int64
	NotificationID int64
	Err            error
}

// Status возвращает исход задачи: delivered, skipped (логин не найден) или failed.
func (r FanoutResult) Status() string {
	switch {
	case r.Err == nil:
		return metrics.FanoutDelivered
	case errors.Is(r.Err, models.ErrNotFound) && r.UserID == 0:
		return metrics.FanoutSkipped
	default:
		return metrics.FanoutFailed
	}
}

// FanoutReport результаты рассылки приглашений в порядке участников.
type FanoutReport struct {
	EventID int64
	Results []FanoutResult
}

// Count возвращает число задач с исходом status.
func (r *FanoutReport) Count(status string) int {
	n := 0
	for _, res := range r.Results {
		if res.Status() == status {
			n++
		}
	}
	return n
}
