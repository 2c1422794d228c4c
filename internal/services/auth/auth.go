// Package services содержит логику регистрации и аутентификации пользователей.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/eventmaster/internal/lib/password"
	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByLoginOrEmail возвращает пользователя по логину или почте.
	GetUserByLoginOrEmail(ctx context.Context, identifier string) (*models.User, error)
}

// AuthService отвечает за регистрацию и проверку учётных данных.
type AuthService struct {
	users UserRepository
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{
		users: users,
	}
}

// Register создаёт пользователя с bcrypt-хешем пароля.
// Занятый логин или почта дают models.ErrConflict.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (int64, error) {
	const op = "services.auth.Register"
	hashed, err := password.Hash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.users.CreateUser(ctx, models.User{
		Login:        req.Login,
		PasswordHash: hashed,
		Email:        req.Email,
		Name:         req.Name,
		Secondname:   req.Secondname,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Authenticate проверяет пару (логин или почта, пароль).
// Неизвестный пользователь и неверный пароль неразличимы: models.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, loginOrEmail, rawPassword string) (*models.Identity, error) {
	const op = "services.auth.Authenticate"
	user, err := s.users.GetUserByLoginOrEmail(ctx, loginOrEmail)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = password.Compare(user.PasswordHash, rawPassword)
	if errors.Is(err, password.ErrMismatch) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Identity{ID: user.ID, Login: user.Login}, nil
}
