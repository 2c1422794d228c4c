// Package logout реализует HTTP-обработчик выхода.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
)

// Sessions удаляет сессию запроса.
type Sessions interface {
	Destroy(w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	log      *slog.Logger
	sessions Sessions
}

func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка при выходе"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.sessions.Destroy(w, r); err != nil {
		log.Error("failed to destroy session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Ошибка при выходе"))
		return
	}

	render.JSON(w, r, response.OK(nil))
}
