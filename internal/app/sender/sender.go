// Package sender собирает процесс рассылки уведомлений по почте.
package sender

import (
	"context"
	"errors"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/eventmaster/internal/services/sender"
	"github.com/magabrotheeeer/eventmaster/internal/storage/repository"
)

type App struct {
	db            *repository.Storage
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("rabbitmq url is required for notification sender")
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(transport, db, logger)

	return &App{
		db:            db,
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.CreatedQueue, a.logger, a.senderService.HandleNotificationCreated)
	if err != nil {
		a.logger.Error("failed to start notification consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	return nil
}
