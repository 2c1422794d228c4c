// Package services содержит логику работы с профилями пользователей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const profileTTL = 10 * time.Minute

// UserRepository описывает чтение и изменение пользователей.
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) error
}

// Cache кеш профилей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// UserService отдаёт и обновляет профили пользователей.
type UserService struct {
	users UserRepository
	cache Cache
	log   *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		users: users,
		cache: cache,
		log:   log,
	}
}

func profileKey(id int64) string {
	return "user:profile:" + strconv.FormatInt(id, 10)
}

// GetProfile возвращает профиль пользователя, сначала пробуя кеш.
func (s *UserService) GetProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	const op = "services.user.GetProfile"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", id))

	var cached models.UserProfile
	found, err := s.cache.Get(ctx, profileKey(id), &cached)
	if err != nil {
		log.Warn("failed to read profile from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profile := &models.UserProfile{
		Name:       u.Name,
		Secondname: u.Secondname,
		Email:      u.Email,
		Login:      u.Login,
	}
	if err := s.cache.Set(ctx, profileKey(id), profile, profileTTL); err != nil {
		log.Warn("failed to cache profile", sl.Err(err))
	}
	return profile, nil
}

// UpdateProfile частично обновляет профиль и сбрасывает кеш.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req models.UpdateUserRequest) error {
	const op = "services.user.UpdateProfile"
	if err := s.users.UpdateUser(ctx, id, req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, profileKey(id)); err != nil {
		s.log.Warn("failed to invalidate profile cache",
			slog.String("op", op), slog.Int64("user_id", id), sl.Err(err))
	}
	return nil
}

// ListUsers возвращает публичные данные всех пользователей.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const op = "services.user.ListUsers"
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// FindByLogin возвращает публичные данные пользователя по логину.
func (s *UserService) FindByLogin(ctx context.Context, login string) (*models.UserSummary, error) {
	const op = "services.user.FindByLogin"
	u, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.UserSummary{ID: u.ID, Login: u.Login, Name: u.Name, Secondname: u.Secondname}, nil
}
