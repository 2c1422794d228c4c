// Package legacyupdate оставляет устаревший маршрут PUT /api/events/{id}.
// Редактирование мероприятий не поддерживается, маршрут всегда отвечает ошибкой.
package legacyupdate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/response"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Обновить мероприятие (устарело)
// @Tags Events
// @Produce  json
// @Param id path int true "ID мероприятия"
// @Failure 500 {object} response.ErrorResponse "Ошибка при обновлении мероприятия"
// @Router /events/{id} [put]
// @Deprecated
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Warn("deprecated event update called",
		slog.String("op", "handlers.event.legacyupdate"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("event_id", chi.URLParam(r, "id")))

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error("Ошибка при обновлении мероприятия"))
}
