package middlewarectx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type stubLoader struct {
	session *models.Session
	err     error
}

func (s stubLoader) Load(*http.Request) (*models.Session, error) {
	return s.session, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name      string
		loader    stubLoader
		wantFound bool
	}{
		{
			name:      "valid session",
			loader:    stubLoader{session: &models.Session{ID: "sid", UserID: 7, Login: "alice"}},
			wantFound: true,
		},
		{
			name:   "no session",
			loader: stubLoader{err: models.ErrUnauthorized},
		},
		{
			name:   "store failure",
			loader: stubLoader{err: errors.New("redis down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got   *models.Session
				found bool
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, found = SessionFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			LoadSession(discardLogger(), tt.loader)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, int64(7), got.UserID)
				assert.Equal(t, "alice", got.Login)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("rejects anonymous request", func(t *testing.T) {
		rr := httptest.NewRecorder()
		RequireSession(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Не авторизован", body["error"])
	})

	t.Run("passes request with session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithSession(req.Context(), &models.Session{UserID: 1, Login: "bob"}))

		rr := httptest.NewRecorder()
		RequireSession(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusTeapot, rr.Code)
	})
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 2)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, limiter.Allow("10.0.0.2"), "other clients are independent")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"), "token refilled")

	now = now.Add(limiterIdleTTL + time.Minute)
	limiter.Allow("10.0.0.3")
	limiter.mu.Lock()
	assert.Len(t, limiter.visitors, 1, "idle visitors pruned")
	limiter.mu.Unlock()
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	handler := RateLimitMiddleware(discardLogger(), limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "192.168.1.5:4242"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"http://localhost:5173"})(next)

	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   bool
		wantCode    int
		wantAllowed bool
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "http://localhost:5173", wantCode: http.StatusOK, wantAllowed: true},
		{name: "foreign origin", method: http.MethodGet, origin: "http://evil.example", wantCode: http.StatusOK},
		{name: "no origin", method: http.MethodGet, wantCode: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:5173", preflight: true, wantCode: http.StatusNoContent, wantAllowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/events", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestSelfOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		param    string
		session  *models.Session
		wantCode int
	}{
		{name: "own id", param: "5", session: &models.Session{UserID: 5}, wantCode: http.StatusOK},
		{name: "other id", param: "6", session: &models.Session{UserID: 5}, wantCode: http.StatusForbidden},
		{name: "not a number", param: "abc", session: &models.Session{UserID: 5}, wantCode: http.StatusForbidden},
		{name: "no session", param: "5", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/"+tt.param, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.param)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.session != nil {
				ctx = WithSession(ctx, tt.session)
			}

			rr := httptest.NewRecorder()
			SelfOnly("id")(next).ServeHTTP(rr, req.WithContext(ctx))

			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}
