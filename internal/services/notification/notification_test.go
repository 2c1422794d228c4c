package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/eventmaster/internal/metrics"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) EnsureNotification(ctx context.Context, n models.NewNotification) (int64, bool, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationRepository) DeleteNotification(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, message any) error {
	return m.Called(ctx, message).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotificationService_Ensure(t *testing.T) {
	eventID := int64(10)

	tests := []struct {
		name        string
		input       models.NewNotification
		setupMocks  func(r *MockNotificationRepository, p *MockPublisher)
		wantID      int64
		wantErr     error
		wantPublish bool
	}{
		{
			name:  "new notification is published",
			input: models.NewNotification{UserID: 2, Message: "hi", Type: models.NotificationInvitation, EventID: &eventID},
			setupMocks: func(r *MockNotificationRepository, p *MockPublisher) {
				r.On("EnsureNotification", mock.Anything, mock.Anything).Return(int64(5), true, nil).Once()
				p.On("Publish", mock.Anything, models.NotificationMessage{
					NotificationID: 5, UserID: 2, Message: "hi", Type: models.NotificationInvitation, EventID: &eventID,
				}).Return(nil).Once()
			},
			wantID:      5,
			wantPublish: true,
		},
		{
			name:  "existing notification is not published again",
			input: models.NewNotification{UserID: 2, Message: "hi", Type: models.NotificationInvitation, EventID: &eventID},
			setupMocks: func(r *MockNotificationRepository, _ *MockPublisher) {
				r.On("EnsureNotification", mock.Anything, mock.Anything).Return(int64(5), false, nil).Once()
			},
			wantID: 5,
		},
		{
			name:  "empty type defaults to reminder",
			input: models.NewNotification{UserID: 2, Message: "hi"},
			setupMocks: func(r *MockNotificationRepository, p *MockPublisher) {
				r.On("EnsureNotification", mock.Anything, mock.MatchedBy(func(n models.NewNotification) bool {
					return n.Type == models.NotificationReminder
				})).Return(int64(6), true, nil).Once()
				p.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantID:      6,
			wantPublish: true,
		},
		{
			name:  "publish failure does not fail the call",
			input: models.NewNotification{UserID: 2, Message: "hi", Type: "custom"},
			setupMocks: func(r *MockNotificationRepository, p *MockPublisher) {
				r.On("EnsureNotification", mock.Anything, mock.Anything).Return(int64(7), true, nil).Once()
				p.On("Publish", mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()
			},
			wantID:      7,
			wantPublish: true,
		},
		{
			name:  "missing id after insert",
			input: models.NewNotification{UserID: 2, Message: "hi", Type: "custom"},
			setupMocks: func(r *MockNotificationRepository, _ *MockPublisher) {
				r.On("EnsureNotification", mock.Anything, mock.Anything).
					Return(int64(0), false, models.ErrNotFoundAfterInsert).Once()
			},
			wantErr: models.ErrNotFoundAfterInsert,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockNotificationRepository)
			pub := new(MockPublisher)
			tt.setupMocks(repo, pub)
			svc := NewNotificationService(repo, pub, discardLogger())

			id, err := svc.Ensure(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			if !tt.wantPublish {
				pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestNotificationService_EnsureCountsPublishFailures(t *testing.T) {
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	repo.On("EnsureNotification", mock.Anything, mock.Anything).Return(int64(1), true, nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("down"))
	svc := NewNotificationService(repo, pub, discardLogger())

	before := testutil.ToFloat64(metrics.NotificationPublishFailures)
	_, err := svc.Ensure(context.Background(), models.NewNotification{UserID: 1, Message: "m", Type: "t"})
	require.NoError(t, err)
	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.NotificationPublishFailures), 1e-9)
}

func TestNotificationService_NilPublisher(t *testing.T) {
	repo := new(MockNotificationRepository)
	repo.On("EnsureNotification", mock.Anything, mock.Anything).Return(int64(3), true, nil)
	svc := NewNotificationService(repo, nil, discardLogger())

	id, err := svc.Ensure(context.Background(), models.NewNotification{UserID: 1, Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestNotificationService_OwnerOperations(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo, nil, discardLogger())
	ctx := context.Background()

	repo.On("ListNotifications", mock.Anything, int64(2)).
		Return([]models.Notification{{ID: 1, UserID: 2}}, nil).Once()
	repo.On("MarkNotificationRead", mock.Anything, int64(1), int64(3)).Return(models.ErrForbidden).Once()
	repo.On("MarkNotificationRead", mock.Anything, int64(1), int64(2)).Return(nil).Once()
	repo.On("DeleteNotification", mock.Anything, int64(9), int64(2)).Return(models.ErrNotFound).Once()

	list, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.ErrorIs(t, svc.MarkRead(ctx, 1, 3), models.ErrForbidden)
	require.NoError(t, svc.MarkRead(ctx, 1, 2))
	require.ErrorIs(t, svc.Delete(ctx, 9, 2), models.ErrNotFound)
	repo.AssertExpectations(t)
}
