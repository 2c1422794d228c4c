package eventmaster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/eventmaster/internal/cache"
	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/lib/jwt"
	"github.com/magabrotheeeer/eventmaster/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/migrations"
	authservice "github.com/magabrotheeeer/eventmaster/internal/services/auth"
	eventservice "github.com/magabrotheeeer/eventmaster/internal/services/event"
	notificationservice "github.com/magabrotheeeer/eventmaster/internal/services/notification"
	userservice "github.com/magabrotheeeer/eventmaster/internal/services/user"
	"github.com/magabrotheeeer/eventmaster/internal/session"
	"github.com/magabrotheeeer/eventmaster/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP API со всеми открытыми ресурсами.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New открывает соединения с базой, redis и (если задан адрес) RabbitMQ,
// применяет миграции и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.closeResources()
		return nil, err
	}

	app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
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
	} else {
		logger.Warn("rabbitmq url is empty, notifications will not be delivered by email")
	}

	sessions := session.NewManager(app.cache, jwt.NewJWTMaker(cfg.Secret, cfg.TTL), cfg.Session)
	notifications := notificationservice.NewNotificationService(db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Dependencies{
		Sessions:      sessions,
		Auth:          authservice.NewAuthService(db),
		Users:         userservice.NewUserService(db, app.cache, logger),
		Events:        eventservice.NewEventService(db, db, notifications, cfg.Concurrency, logger),
		Notifications: notifications,
		DB:            db,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeResources()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeResources()
		return err
	}
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
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}
}
