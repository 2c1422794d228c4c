package remove

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
	Delete(ctx context.Context, eventID, userID int64) error
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
// @Summary Удалить мероприятие
// @Description Удалять может только создатель. Уведомления мероприятия удаляются вместе с ним.
// @Tags Events
// @Produce  json
// @Param id path int true "ID мероприятия"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse "Только создатель мероприятия может его удалить"
// @Failure 404 {object} response.ErrorResponse "Мероприятие не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка при удалении мероприятия"
// @Router /events/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.remove"

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

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("invalid event id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgBadRequest))
		return
	}

	if err := h.service.Delete(r.Context(), eventID, s.UserID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Мероприятие не найдено"))
		case errors.Is(err, models.ErrForbidden):
			log.Warn("delete by non-owner", slog.Int64("event_id", eventID), slog.Int64("user_id", s.UserID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Только создатель мероприятия может его удалить"))
		default:
			log.Error("failed to delete event", slog.Int64("event_id", eventID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Ошибка при удалении мероприятия"))
		}
		return
	}

	log.Info("event deleted", slog.Int64("event_id", eventID))
	render.JSON(w, r, response.OK(nil))
}
