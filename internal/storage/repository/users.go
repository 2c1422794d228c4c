package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Занятый логин или почта дают models.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkContext(ctx, op); err != nil {
		return 0, err
	}

	var newID int64
	query := `INSERT INTO users (login, password_hash, email, name, secondname)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Login, user.PasswordHash, user.Email, user.Name, user.Secondname).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetUserByLoginOrEmail ищет пользователя, у которого логин или почта равны identifier.
func (s *Storage) GetUserByLoginOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	const op = "storage.GetUserByLoginOrEmail"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, login, password_hash, email, name, secondname
			  FROM users
			  WHERE login = $1 OR email = $1
			  ORDER BY (login = $1) DESC
			  LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, identifier))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByID возвращает пользователя по ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, login, password_hash, email, name, secondname
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByLogin возвращает пользователя по логину.
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.GetUserByLogin"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, login, password_hash, email, name, secondname
			  FROM users
			  WHERE login = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, login))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// ListUsers возвращает публичные данные всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const op = "storage.ListUsers"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, login, name, secondname FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		var name, secondname sql.NullString
		if err := rows.Scan(&u.ID, &u.Login, &name, &secondname); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.Name, u.Secondname = name.String, secondname.String
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser частично обновляет профиль. Поля со значением nil не меняются.
// Почта, занятая другим пользователем, даёт models.ErrConflict.
func (s *Storage) UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) error {
	const op = "storage.UpdateUser"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET name = COALESCE($1, name),
			      secondname = COALESCE($2, secondname),
			      email = COALESCE($3, email)
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, req.Name, req.Secondname, req.Email, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var name, secondname sql.NullString
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Email, &name, &secondname); err != nil {
		return nil, err
	}
	u.Name, u.Secondname = name.String, secondname.String
	return u, nil
}
