// Package session управляет серверными сессиями.
//
// Данные сессии (ID и логин пользователя) лежат в redis под ключом session:<sid>.
// Клиенту отдаётся HttpOnly cookie с подписанным токеном, содержащим только sid.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/lib/jwt"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const keyPrefix = "session:"

// Store хранилище данных сессии.
type Store interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Manager создаёт, загружает и удаляет сессии.
type Manager struct {
	store      Store
	tokens     jwt.Maker
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager создаёт Manager.
func NewManager(store Store, tokens jwt.Maker, cfg config.Session) *Manager {
	return &Manager{
		store:      store,
		tokens:     tokens,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
	}
}

// Create заводит сессию для пользователя и выставляет cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID int64, login string) (*models.Session, error) {
	const op = "session.Create"
	s := &models.Session{ID: uuid.NewString(), UserID: userID, Login: login}

	token, err := m.tokens.GenerateToken(s.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := m.store.Set(ctx, keyPrefix+s.ID, s, m.ttl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Load возвращает сессию запроса. Отсутствующая, поддельная или
// истёкшая сессия даёт models.ErrUnauthorized.
func (m *Manager) Load(r *http.Request) (*models.Session, error) {
	const op = "session.Load"
	sid, err := m.sessionID(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var s models.Session
	found, err := m.store.Get(r.Context(), keyPrefix+sid, &s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	s.ID = sid
	return &s, nil
}

// Destroy удаляет сессию из хранилища и стирает cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	const op = "session.Destroy"
	sid, err := m.sessionID(r)
	if err == nil {
		if err := m.store.Invalidate(r.Context(), keyPrefix+sid); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return "", models.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	claims, err := m.tokens.ParseToken(cookie.Value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrUnauthorized, err)
	}
	return claims.SessionID, nil
}
