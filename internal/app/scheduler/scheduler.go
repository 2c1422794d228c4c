// Package scheduler собирает процесс планировщика напоминаний о мероприятиях.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	notificationservice "github.com/magabrotheeeer/eventmaster/internal/services/notification"
	schedulerservice "github.com/magabrotheeeer/eventmaster/internal/services/scheduler"
	"github.com/magabrotheeeer/eventmaster/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	interval         time.Duration
	db               *repository.Storage
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	var err error
	for range 10 {
		if err = db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

// New создает новый экземпляр приложения планировщика.
// Схему создает HTTP API, планировщик только дожидается нужных таблиц.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	app := &App{db: db, interval: cfg.Interval, logger: logger}

	if err := waitForDB(ctx, db); err != nil {
		app.closeResources()
		return nil, err
	}

	var publisher notificationservice.Publisher
	if cfg.RabbitMQURL != "" {
		app.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		app.ch, err = rabbitmq.SetupChannel(app.conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		publisher = rabbitmq.NewPublisher(app.ch, rabbitmq.NotificationsExchange, rabbitmq.CreatedRoutingKey)
	}

	notifications := notificationservice.NewNotificationService(db, publisher, logger)
	app.schedulerService = schedulerservice.NewSchedulerService(db, db, notifications, logger)
	return app, nil
}

func (a *App) closeResources() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("reminder scheduler started", slog.Duration("interval", a.interval))
	a.schedulerService.Run(ctx, a.interval)

	a.logger.Info("shutting down scheduler service")
	a.closeResources()
	return nil
}
