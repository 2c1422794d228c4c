package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type Service interface {
	ListAll(ctx context.Context) ([]models.Event, error)
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
// @Summary Все мероприятия
// @Description Публичный список, сортировка по дате от новых к старым.
// @Tags Events
// @Produce  json
// @Success 200 {object} map[string]any "success, events"
// @Failure 500 {object} response.ErrorResponse "Ошибка при получении мероприятий"
// @Router /all-events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.listall"

	events, err := h.service.ListAll(r.Context())
	if err != nil {
		h.log.Error("failed to list events",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Ошибка при получении мероприятий"))
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	render.JSON(w, r, response.OK(response.Fields{"events": events}))
}
