package read

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) MarkRead(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name         string
		id           string
		serviceErr   error
		callService  bool
		expectedCode int
		expectedBody string
	}{
		{name: "own notification", id: "10", callService: true, expectedCode: http.StatusOK, expectedBody: `{"success":true}`},
		{name: "foreign notification", id: "10", callService: true, serviceErr: fmt.Errorf("op: %w", models.ErrForbidden),
			expectedCode: http.StatusForbidden, expectedBody: `{"error":"Доступ запрещен"}`},
		{name: "missing notification", id: "10", callService: true, serviceErr: fmt.Errorf("op: %w", models.ErrNotFound),
			expectedCode: http.StatusNotFound, expectedBody: `{"error":"Уведомление не найдено"}`},
		{name: "storage failure", id: "10", callService: true, serviceErr: errors.New("db down"),
			expectedCode: http.StatusInternalServerError, expectedBody: `{"error":"Ошибка при проверке уведомления"}`},
		{name: "bad id", id: "x", expectedCode: http.StatusBadRequest, expectedBody: `{"error":"Некорректный запрос"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			if tt.callService {
				service.On("MarkRead", mock.Anything, int64(10), int64(2)).Return(tt.serviceErr)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/notifications/"+tt.id+"/read", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = middlewarectx.WithSession(ctx, &models.Session{UserID: 2, Login: "bob"})

			rr := httptest.NewRecorder()
			New(logger, service).ServeHTTP(rr, req.WithContext(ctx))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
