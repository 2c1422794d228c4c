package participation

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

func (m *MockService) ChangeParticipation(ctx context.Context, eventID int64, action, login string) ([]string, error) {
	args := m.Called(ctx, eventID, action, login)
	participants, _ := args.Get(0).([]string)
	return participants, args.Error(1)
}

func TestParticipationHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name         string
		id           string
		action       string
		setupMock    func(*MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "join",
			id:     "7",
			action: "join",
			setupMock: func(m *MockService) {
				m.On("ChangeParticipation", mock.Anything, int64(7), "join", "bob").Return([]string{"carol", "bob"}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"participants":["carol","bob"]}`,
		},
		{
			name:   "leave last participant",
			id:     "7",
			action: "leave",
			setupMock: func(m *MockService) {
				m.On("ChangeParticipation", mock.Anything, int64(7), "leave", "bob").Return([]string{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"participants":[]}`,
		},
		{
			name:         "unknown action",
			id:           "7",
			action:       "subscribe",
			setupMock:    func(*MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Недопустимое действие"}`,
		},
		{
			name:         "bad id",
			id:           "seven",
			action:       "join",
			setupMock:    func(*MockService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Некорректный запрос"}`,
		},
		{
			name:   "already member",
			id:     "7",
			action: "join",
			setupMock: func(m *MockService) {
				m.On("ChangeParticipation", mock.Anything, int64(7), "join", "bob").
					Return(nil, fmt.Errorf("op: %w", models.ErrAlreadyMember))
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"error":"Вы уже участвуете в этом мероприятии"}`,
		},
		{
			name:   "not member",
			id:     "7",
			action: "leave",
			setupMock: func(m *MockService) {
				m.On("ChangeParticipation", mock.Anything, int64(7), "leave", "bob").
					Return(nil, fmt.Errorf("op: %w", models.ErrNotMember))
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"error":"Вы не участвуете в этом мероприятии"}`,
		},
		{
			name:   "missing event",
			id:     "99",
			action: "join",
			setupMock: func(m *MockService) {
				m.On("ChangeParticipation", mock.Anything, int64(99), "join", "bob").
					Return(nil, fmt.Errorf("op: %w", models.ErrNotFound))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Мероприятие не найдено"}`,
		},
		{
			name:   "storage failure",
			id:     "7",
			action: "join",
			setupMock: func(m *MockService) {
				m.On("ChangeParticipation", mock.Anything, int64(7), "join", "bob").Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Ошибка сервера"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)

			req := httptest.NewRequest(http.MethodPost, "/api/events/"+tt.id+"/"+tt.action, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			rctx.URLParams.Add("action", tt.action)
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
