// Package login реализует HTTP-обработчик входа по логину или почте.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const msgFailed = "Ошибка при проверке пользователя"

// Service проверяет учетные данные.
type Service interface {
	Authenticate(ctx context.Context, loginOrEmail, password string) (*models.Identity, error)
}

// Sessions заводит сессию для пользователя.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, userID int64, login string) (*models.Session, error)
}

// Handler обрабатывает POST /api/login.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет логин (или почту) и пароль, выставляет cookie сессии.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Учетные данные"
// @Success 200 {object} map[string]any "success, userId, login"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Неверный логин или пароль"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgBadRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusBadRequest)
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error(response.MsgBadRequest))
		return
	}

	identity, err := h.service.Authenticate(r.Context(), req.LoginOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Info("invalid credentials")
		} else {
			log.Error("authentication failed", sl.Err(err))
		}
		response.Fail(w, r, err, msgFailed)
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, identity.ID, identity.Login); err != nil {
		log.Error("failed to create session", slog.Int64("user_id", identity.ID), sl.Err(err))
		response.Fail(w, r, err, msgFailed)
		return
	}

	log.Info("login success", slog.Int64("user_id", identity.ID))
	render.JSON(w, r, response.OK(response.Fields{
		"userId": identity.ID,
		"login":  identity.Login,
	}))
}
