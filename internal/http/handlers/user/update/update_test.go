package update

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/eventmaster/internal/http/middlewarectx"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateProfile(ctx context.Context, id int64, req models.UpdateUserRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func strPtr(s string) *string { return &s }

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := &models.Session{UserID: 9, Login: "bob"}

	tests := []struct {
		name         string
		body         string
		setupMock    func(*MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "partial update",
			body: `{"name":"Robert"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, int64(9), models.UpdateUserRequest{Name: strPtr("Robert")}).Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true}`,
		},
		{
			name: "email taken",
			body: `{"email":"alice@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, int64(9), models.UpdateUserRequest{Email: strPtr("alice@example.com")}).
					Return(fmt.Errorf("op: %w", models.ErrConflict))
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"error":"Пользователь с такой почтой уже существует"}`,
		},
		{
			name:         "invalid email",
			body:         `{"email":"not-an-email"}`,
			setupMock:    func(*MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"поле Email должно содержать адрес почты"}`,
		},
		{
			name:         "broken json",
			body:         `{`,
			setupMock:    func(*MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Некорректный запрос"}`,
		},
		{
			name: "storage failure",
			body: `{"secondname":"Smith"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateProfile", mock.Anything, int64(9), mock.Anything).Return(errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Ошибка при обновлении профиля"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)

			req := httptest.NewRequest(http.MethodPut, "/api/user/9", bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithSession(req.Context(), session))
			rr := httptest.NewRecorder()
			New(logger, service).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
