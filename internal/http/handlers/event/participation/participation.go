// Package participation реализует вступление в мероприятие и выход из него.
//
// Логин участника берется из сессии. Владелец мероприятия получает
// уведомление типа response, его сбой на ответ не влияет.
package participation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type Service interface {
	ChangeParticipation(ctx context.Context, eventID int64, action, login string) ([]string, error)
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
// @Summary Вступить в мероприятие или выйти из него
// @Tags Events
// @Produce  json
// @Param id path int true "ID мероприятия"
// @Param action path string true "join или leave"
// @Success 200 {object} map[string]any "success, participants"
// @Failure 400 {object} response.ErrorResponse "Недопустимое действие"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Мероприятие не найдено"
// @Failure 409 {object} response.ErrorResponse "Уже участвует или не участвует"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /events/{id}/{action} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.participation"

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

	action := chi.URLParam(r, "action")
	if action != models.ActionJoin && action != models.ActionLeave {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Недопустимое действие"))
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("invalid event id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgBadRequest))
		return
	}

	log = log.With(slog.Int64("event_id", eventID), slog.String("action", action), slog.String("login", s.Login))

	participants, err := h.service.ChangeParticipation(r.Context(), eventID, action, s.Login)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Info("event not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Мероприятие не найдено"))
		case errors.Is(err, models.ErrAlreadyMember), errors.Is(err, models.ErrNotMember):
			log.Info("participation rejected", sl.Err(err))
			response.Fail(w, r, err, "Ошибка сервера")
		default:
			log.Error("failed to change participation", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Ошибка сервера"))
		}
		return
	}

	log.Info("participation changed")
	render.JSON(w, r, response.OK(response.Fields{"participants": participants}))
}
