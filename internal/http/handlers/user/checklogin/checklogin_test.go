package checklogin

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

	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) FindByLogin(ctx context.Context, login string) (*models.UserSummary, error) {
	args := m.Called(ctx, login)
	if u := args.Get(0); u != nil {
		return u.(*models.UserSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCheckLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name         string
		login        string
		setupMock    func(*MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name:  "existing login",
			login: "bob",
			setupMock: func(m *MockService) {
				m.On("FindByLogin", mock.Anything, "bob").Return(&models.UserSummary{ID: 2, Login: "bob", Name: "Bob"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"user":{"id":2,"login":"bob","name":"Bob","secondname":""}}`,
		},
		{
			name:  "unknown login",
			login: "ghost",
			setupMock: func(m *MockService) {
				m.On("FindByLogin", mock.Anything, "ghost").Return(nil, fmt.Errorf("op: %w", models.ErrNotFound))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Пользователь не найден"}`,
		},
		{
			name:  "storage failure",
			login: "bob",
			setupMock: func(m *MockService) {
				m.On("FindByLogin", mock.Anything, "bob").Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Ошибка при проверке логина"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)

			req := httptest.NewRequest(http.MethodGet, "/api/check-user-login/"+tt.login, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("login", tt.login)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			New(logger, service).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
