// Package register реализует HTTP-обработчик регистрации пользователя.
//
// После успешной регистрации пользователь сразу получает сессию,
// поэтому повторный вход не требуется.
package register

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

// Service регистрирует пользователя.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (int64, error)
}

// Sessions заводит сессию для пользователя.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, userID int64, login string) (*models.Session, error)
}

// Handler обрабатывает POST /api/register.
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
// @Summary Регистрация пользователя
// @Description Создает пользователя и открывает для него сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.RegisterRequest true "Данные нового пользователя"
// @Success 200 {object} map[string]any "success, userId"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 409 {object} response.ErrorResponse "Логин или почта заняты"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
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

	userID, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Error("registration failed", slog.String("login", req.Login), sl.Err(err))
		response.Fail(w, r, err, msgFailed)
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, userID, req.Login); err != nil {
		log.Error("failed to create session", slog.Int64("user_id", userID), sl.Err(err))
		response.Fail(w, r, err, msgFailed)
		return
	}

	log.Info("user registered", slog.Int64("user_id", userID))
	render.JSON(w, r, response.OK(response.Fields{"userId": userID}))
}
