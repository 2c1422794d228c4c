// Package middlewarectx содержит HTTP middleware: загрузку серверной сессии
// в контекст запроса, проверку авторизации, ограничение частоты запросов и CORS.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/eventmaster/internal/http/response"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey ключ сессии пользователя в контексте.
const SessionKey Key = "session"

// SessionLoader загружает сессию запроса.
type SessionLoader interface {
	Load(r *http.Request) (*models.Session, error)
}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFrom достаёт сессию из контекста.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*models.Session)
	return s, ok && s != nil
}

// LoadSession добавляет сессию в контекст, если cookie запроса валидна.
// Запросы без сессии проходят дальше без изменений.
func LoadSession(log *slog.Logger, loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := loader.Load(r)
			if err != nil {
				if !errors.Is(err, models.ErrUnauthorized) {
					log.Error("failed to load session",
						slog.String("request_id", middleware.GetReqID(r.Context())),
						sl.Err(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireSession отвечает 401, если в контексте нет сессии.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r.Context()); !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error(response.MsgUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SelfOnly пропускает запрос, только если параметр маршрута param
// совпадает с ID пользователя сессии. Иначе ответ 403.
func SelfOnly(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFrom(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.MsgUnauthorized))
				return
			}
			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil || id != s.UserID {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(response.MsgForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
