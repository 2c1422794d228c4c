// Package update реализует частичное обновление профиля.
//
// Меняются только переданные поля. Почта должна оставаться уникальной,
// собственная неизменённая почта конфликтом не считается.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const msgFailed = "Ошибка при обновлении профиля"

type Service interface {
	UpdateProfile(ctx context.Context, id int64, req models.UpdateUserRequest) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Обновление профиля
// @Tags Users
// @Accept  json
// @Produce  json
// @Param id path int true "ID пользователя"
// @Param request body models.UpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещен"
// @Failure 409 {object} response.ErrorResponse "Почта занята"
// @Failure 500 {object} response.ErrorResponse "Ошибка при обновлении профиля"
// @Router /user/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	var req models.UpdateUserRequest
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

	if err := h.service.UpdateProfile(r.Context(), s.UserID, req); err != nil {
		log.Error("failed to update profile", slog.Int64("user_id", s.UserID), sl.Err(err))
		if errors.Is(err, models.ErrConflict) {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("Пользователь с такой почтой уже существует"))
			return
		}
		response.Fail(w, r, err, msgFailed)
		return
	}

	log.Info("profile updated", slog.Int64("user_id", s.UserID))
	render.JSON(w, r, response.OK(nil))
}
