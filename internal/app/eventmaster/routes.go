// Package eventmaster собирает HTTP API: маршруты, middleware и зависимости.
package eventmaster

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/auth/checksession"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/auth/register"
	eventcreate "github.com/magabrotheeeer/eventmaster/internal/http/handlers/event/create"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/event/legacyupdate"
	eventlist "github.com/magabrotheeeer/eventmaster/internal/http/handlers/event/list"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/event/listall"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/event/participation"
	eventremove "github.com/magabrotheeeer/eventmaster/internal/http/handlers/event/remove"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/health"
	notificationcreate "github.com/magabrotheeeer/eventmaster/internal/http/handlers/notification/create"
	notificationlist "github.com/magabrotheeeer/eventmaster/internal/http/handlers/notification/list"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/notification/read"
	notificationremove "github.com/magabrotheeeer/eventmaster/internal/http/handlers/notification/remove"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/user/checklogin"
	userlist "github.com/magabrotheeeer/eventmaster/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/eventmaster/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/models"
	eventsvc "github.com/magabrotheeeer/eventmaster/internal/services/event"
)

// AuthService регистрация и проверка учетных данных.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (int64, error)
	Authenticate(ctx context.Context, loginOrEmail, password string) (*models.Identity, error)
}

// UserService профили и поиск пользователей.
type UserService interface {
	GetProfile(ctx context.Context, id int64) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id int64, req models.UpdateUserRequest) error
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	FindByLogin(ctx context.Context, login string) (*models.UserSummary, error)
}

// EventService мероприятия и участие в них.
type EventService interface {
	Create(ctx context.Context, owner models.Identity, req models.CreateEventRequest) (int64, *eventsvc.FanoutReport, error)
	ListAll(ctx context.Context) ([]models.Event, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Event, error)
	ChangeParticipation(ctx context.Context, eventID int64, action, login string) ([]string, error)
	Delete(ctx context.Context, eventID, userID int64) error
}

// NotificationService лента уведомлений.
type NotificationService interface {
	Ensure(ctx context.Context, n models.NewNotification) (int64, error)
	List(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	Delete(ctx context.Context, id, userID int64) error
}

// SessionManager серверные сессии на cookie.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, userID int64, login string) (*models.Session, error)
	Load(r *http.Request) (*models.Session, error)
	Destroy(w http.ResponseWriter, r *http.Request) error
}

// Dependencies всё, что нужно обработчикам.
type Dependencies struct {
	Sessions      SessionManager
	Auth          AuthService
	Users         UserService
	Events        EventService
	Notifications NotificationService
	DB            health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps Dependencies) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS(cfg.AllowedOrigins),
		middlewarectx.LoadSession(logger, deps.Sessions),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
	})

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	limiter := middlewarectx.NewIPRateLimiter(cfg.RPS, cfg.Burst)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Post("/register", register.New(logger, deps.Auth, deps.Sessions).ServeHTTP)
			r.Post("/login", login.New(logger, deps.Auth, deps.Sessions).ServeHTTP)
		})
		r.Get("/check-session", checksession.New().ServeHTTP)
		r.Get("/all-events", listall.New(logger, deps.Events).ServeHTTP)

		// Группа с обязательной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession)

			r.Post("/logout", logout.New(logger, deps.Sessions).ServeHTTP)

			r.With(middlewarectx.SelfOnly("id")).Get("/user/{id}", profile.New(logger, deps.Users).ServeHTTP)
			r.With(middlewarectx.SelfOnly("id")).Put("/user/{id}", update.New(logger, deps.Users).ServeHTTP)
			r.Get("/all-users", userlist.New(logger, deps.Users).ServeHTTP)
			r.Get("/check-user-login/{login}", checklogin.New(logger, deps.Users).ServeHTTP)

			r.Post("/events", eventcreate.New(logger, deps.Events).ServeHTTP)
			// {id} здесь ID пользователя, маршрут отдает его мероприятия
			r.With(middlewarectx.SelfOnly("id")).Get("/events/{id}", eventlist.New(logger, deps.Events).ServeHTTP)
			r.Post("/events/{id}/{action}", participation.New(logger, deps.Events).ServeHTTP)
			r.Put("/events/{id}", legacyupdate.New(logger).ServeHTTP)
			r.Delete("/events/{id}", eventremove.New(logger, deps.Events).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, deps.Notifications).ServeHTTP)
			r.Post("/notifications", notificationcreate.New(logger, deps.Notifications).ServeHTTP)
			r.Delete("/notifications/{id}", notificationremove.New(logger, deps.Notifications).ServeHTTP)
			r.Put("/notifications/{id}/read", read.New(logger, deps.Notifications).ServeHTTP)
		})
	})
}
