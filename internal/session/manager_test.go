package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/eventmaster/internal/cache"
	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/lib/jwt"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

func setupManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	store, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Session{Secret: "secret", TTL: time.Hour, CookieName: "sid"}
	return NewManager(store, jwt.NewJWTMaker(cfg.Secret, cfg.TTL), cfg), mr
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestManager_CreateAndLoad(t *testing.T) {
	m, mr := setupManager(t)

	w := httptest.NewRecorder()
	created, err := m.Create(context.Background(), w, 7, "alice")
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.NotContains(t, cookies[0].Value, "alice")
	assert.True(t, mr.Exists(keyPrefix+created.ID))

	loaded, err := m.Load(requestWithCookies(cookies))
	require.NoError(t, err)
	assert.Equal(t, int64(7), loaded.UserID)
	assert.Equal(t, "alice", loaded.Login)
	assert.Equal(t, created.ID, loaded.ID)
}

func TestManager_LoadUnauthorized(t *testing.T) {
	m, mr := setupManager(t)

	w := httptest.NewRecorder()
	created, err := m.Create(context.Background(), w, 7, "alice")
	require.NoError(t, err)
	valid := w.Result().Cookies()

	forged, err := jwt.NewJWTMaker("other", time.Hour).GenerateToken(created.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		cookies []*http.Cookie
		before  func()
	}{
		{name: "no cookie"},
		{name: "empty cookie", cookies: []*http.Cookie{{Name: "sid", Value: ""}}},
		{name: "garbage token", cookies: []*http.Cookie{{Name: "sid", Value: "garbage"}}},
		{name: "forged signature", cookies: []*http.Cookie{{Name: "sid", Value: forged}}},
		{
			name:    "expired in store",
			cookies: valid,
			before:  func() { mr.FastForward(2 * time.Hour) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.before != nil {
				tt.before()
			}
			_, err := m.Load(requestWithCookies(tt.cookies))
			require.ErrorIs(t, err, models.ErrUnauthorized)
		})
	}
}

func TestManager_Destroy(t *testing.T) {
	m, mr := setupManager(t)

	w := httptest.NewRecorder()
	created, err := m.Create(context.Background(), w, 1, "bob")
	require.NoError(t, err)
	cookies := w.Result().Cookies()

	out := httptest.NewRecorder()
	require.NoError(t, m.Destroy(out, requestWithCookies(cookies)))
	assert.False(t, mr.Exists(keyPrefix+created.ID))

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	_, err = m.Load(requestWithCookies(cookies))
	require.ErrorIs(t, err, models.ErrUnauthorized)

	require.NoError(t, m.Destroy(httptest.NewRecorder(), requestWithCookies(nil)))
}
