package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/eventmaster/internal/migrations"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции проекта.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, connStr)
	require.NoError(t, err, "failed to create storage")
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))
	require.NoError(t, storage.CheckDatabaseReady(ctx))

	return storage
}

// TestDataFactory создаёт тестовые данные напрямую в базе.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создаёт пользователя с почтой <login>@example.com.
func (f *TestDataFactory) CreateUser(t *testing.T, login string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (login, password_hash, email, name, secondname)
		VALUES ($1, 'hash', $2, 'Name', 'Secondname') RETURNING id`,
		login, login+"@example.com").Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateEvent создаёт мероприятие пользователя ownerID.
func (f *TestDataFactory) CreateEvent(t *testing.T, ownerID int64, title, date string, participants ...string) int64 {
	t.Helper()
	if participants == nil {
		participants = []string{}
	}
	id, err := f.storage.CreateEvent(context.Background(), models.NewEvent{
		UserID:       ownerID,
		Title:        title,
		Date:         date,
		Creator:      "creator",
		Participants: participants,
	})
	require.NoError(t, err)
	return id
}

// TestVerification проверяет состояние базы после операций.
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создаёт объект проверок.
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// CountNotifications считает уведомления по ключу дедупликации.
func (v *TestVerification) CountNotifications(t *testing.T, userID int64, notificationType string, eventID *int64) int {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow(`SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND type = $2 AND event_id IS NOT DISTINCT FROM $3::bigint`,
		userID, notificationType, eventID).Scan(&count)
	require.NoError(t, err)
	return count
}

// VerifyEventExists проверяет наличие мероприятия.
func (v *TestVerification) VerifyEventExists(t *testing.T, eventID int64, expected bool) {
	t.Helper()
	var exists bool
	err := v.storage.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	require.NoError(t, err)
	require.Equal(t, expected, exists)
}
