// Package checksession реализует проверку текущей сессии.
package checksession

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/http/response"
)

type Handler struct{}

func New() *Handler {
	return &Handler{}
}

// ServeHTTP godoc
// @Summary Проверка сессии
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "success, userId, login"
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Router /check-session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Сессия не найдена"))
		return
	}

	render.JSON(w, r, response.OK(response.Fields{
		"userId": s.UserID,
		"login":  s.Login,
	}))
}
