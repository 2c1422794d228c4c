// Package checklogin реализует поиск пользователя по логину,
// используется клиентом при выборе участников мероприятия.
package checklogin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type Service interface {
	FindByLogin(ctx context.Context, login string) (*models.UserSummary, error)
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
// @Summary Проверка логина
// @Tags Users
// @Produce  json
// @Param login path string true "Логин"
// @Success 200 {object} map[string]any "success, user"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка при проверке логина"
// @Router /check-user-login/{login} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.checklogin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	login := chi.URLParam(r, "login")
	user, err := h.service.FindByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Пользователь не найден"))
			return
		}
		log.Error("failed to find user", slog.String("login", login), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Ошибка при проверке логина"))
		return
	}

	render.JSON(w, r, response.OK(response.Fields{"user": user}))
}
