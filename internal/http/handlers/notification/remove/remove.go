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
	Delete(ctx context.Context, id, userID int64) error
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
// @Summary Удалить уведомление
// @Tags Notifications
// @Produce  json
// @Param id path int true "ID уведомления"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse "Доступ запрещен"
// @Failure 404 {object} response.ErrorResponse "Уведомление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка при удалении уведомления"
// @Router /notifications/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.remove"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgBadRequest))
		return
	}

	if err := h.service.Delete(r.Context(), id, s.UserID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Уведомление не найдено"))
		case errors.Is(err, models.ErrForbidden):
			log.Warn("delete of foreign notification", slog.Int64("notification_id", id), slog.Int64("user_id", s.UserID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error(response.MsgForbidden))
		default:
			log.Error("failed to delete notification", slog.Int64("notification_id", id), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Ошибка при удалении уведомления"))
		}
		return
	}

	render.JSON(w, r, response.OK(nil))
}
