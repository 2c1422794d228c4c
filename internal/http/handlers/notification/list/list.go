// Package list отдает ленту уведомлений текущего пользователя,
// новые уведомления идут первыми.
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
	List(ctx context.Context, userID int64) ([]models.Notification, error)
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
// @Summary Уведомления пользователя
// @Tags Notifications
// @Produce  json
// @Success 200 {object} map[string]any "success, notifications"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка при получении уведомлений"
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.list"

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

	notifications, err := h.service.List(r.Context(), s.UserID)
	if err != nil {
		log.Error("failed to list notifications", slog.Int64("user_id", s.UserID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Ошибка при получении уведомлений"))
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	render.JSON(w, r, response.OK(response.Fields{"notifications": notifications}))
}
