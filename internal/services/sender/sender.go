// Package services содержит рассылку уведомлений по электронной почте.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/lib/smtp"
	"github.com/magabrotheeeer/eventmaster/internal/metrics"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// Transport открывает аутентифицированное соединение с SMTP сервером.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// UserRepository находит получателя уведомления.
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// SenderService отправляет письма о новых уведомлениях.
type SenderService struct {
	transport Transport
	users     UserRepository
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, users UserRepository, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		users:     users,
		log:       log,
	}
}

// HandleNotificationCreated обрабатывает сообщение из очереди notification.created.
// Битое сообщение и неизвестный получатель подтверждаются без отправки,
// ошибка SMTP возвращается, чтобы сообщение вернулось в очередь.
func (s *SenderService) HandleNotificationCreated(ctx context.Context, body []byte) error {
	const op = "services.sender.HandleNotificationCreated"
	log := s.log.With(slog.String("op", op))

	var message models.NotificationMessage
	if err := json.Unmarshal(body, &message); err != nil {
		log.Error("failed to unmarshal message body", sl.Err(err))
		metrics.EmailsSent.WithLabelValues("dropped").Inc()
		return nil
	}
	log = log.With(slog.Int64("notification_id", message.NotificationID))

	user, err := s.users.GetUserByID(ctx, message.UserID)
	if errors.Is(err, models.ErrNotFound) {
		log.Warn("recipient not found", slog.Int64("user_id", message.UserID))
		metrics.EmailsSent.WithLabelValues("dropped").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Email == "" {
		log.Warn("recipient has no email", slog.Int64("user_id", user.ID))
		metrics.EmailsSent.WithLabelValues("dropped").Inc()
		return nil
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\n%s\n\nВаш Eventmaster", name, message.Message)
	if err := s.sendEmail([]string{user.Email}, subjectFor(message.Type), bodyText); err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.EmailsSent.WithLabelValues("sent").Inc()
	return nil
}

func subjectFor(notificationType string) string {
	switch notificationType {
	case models.NotificationInvitation:
		return "Приглашение на мероприятие"
	case models.NotificationResponse:
		return "Ответ на ваше мероприятие"
	case models.NotificationReminder:
		return "Напоминание о мероприятии"
	default:
		return "Новое уведомление"
	}
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("rcpt to %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	if err = client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}

	s.log.Info("email sent", slog.Any("to", to))
	return nil
}
