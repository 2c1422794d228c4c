// Package list отдает мероприятия, созданные текущим пользователем.
package list

import (
	"context"
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
	ListByUser(ctx context.Context, userID int64) ([]models.Event, error)
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
// @Summary Мероприятия пользователя
// @Tags Events
// @Produce  json
// @Param user_id path int true "ID пользователя"
// @Success 200 {object} map[string]any "success, events"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещен"
// @Failure 500 {object} response.ErrorResponse "Ошибка при получении мероприятий"
// @Router /events/{user_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list"

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

	events, err := h.service.ListByUser(r.Context(), s.UserID)
	if err != nil {
		log.Error("failed to list events", slog.Int64("user_id", s.UserID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Ошибка при получении мероприятий"))
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	render.JSON(w, r, response.OK(response.Fields{"events": events}))
}
