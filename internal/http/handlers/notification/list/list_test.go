package list

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userID int64) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).([]models.Notification)
	return n, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eventID := int64(5)
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
		return req.WithContext(middlewarectx.WithSession(req.Context(), &models.Session{UserID: 2, Login: "bob"}))
	}

	t.Run("feed", func(t *testing.T) {
		service := new(MockService)
		service.On("List", mock.Anything, int64(2)).Return([]models.Notification{
			{ID: 1, UserID: 2, Message: "invite", Type: models.NotificationInvitation, EventID: &eventID, CreatedAt: created},
		}, nil)

		rr := httptest.NewRecorder()
		New(logger, service).ServeHTTP(rr, newRequest())

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Success       bool                  `json:"success"`
			Notifications []models.Notification `json:"notifications"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Notifications, 1)
		assert.Equal(t, models.NotificationInvitation, resp.Notifications[0].Type)
		assert.Equal(t, &eventID, resp.Notifications[0].EventID)
		assert.False(t, resp.Notifications[0].IsRead)
	})

	t.Run("empty feed", func(t *testing.T) {
		service := new(MockService)
		service.On("List", mock.Anything, int64(2)).Return(nil, nil)

		rr := httptest.NewRecorder()
		New(logger, service).ServeHTTP(rr, newRequest())

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true,"notifications":[]}`, rr.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		service := new(MockService)
		service.On("List", mock.Anything, int64(2)).Return(nil, errors.New("db down"))

		rr := httptest.NewRecorder()
		New(logger, service).ServeHTTP(rr, newRequest())

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Ошибка при получении уведомлений"}`, rr.Body.String())
	})
}
