// Package profile реализует получение профиля текущего пользователя.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type Service interface {
	GetProfile(ctx context.Context, id int64) (*models.UserProfile, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Доступен только самому пользователю.
// @Tags Users
// @Produce  json
// @Param id path int true "ID пользователя"
// @Success 200 {object} map[string]any "success, user"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /user/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

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

	user, err := h.service.GetProfile(r.Context(), s.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("session user not found", slog.Int64("user_id", s.UserID))
		} else {
			log.Error("failed to get profile", slog.Int64("user_id", s.UserID), sl.Err(err))
		}
		response.Fail(w, r, err, "Ошибка при получении данных пользователя")
		return
	}

	render.JSON(w, r, response.OK(response.Fields{"user": user}))
}
