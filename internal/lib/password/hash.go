// Package password реализует хеширование паролей пользователей через bcrypt.
//
// Hash создаёт bcrypt-хеш для хранения в таблице users,
// Compare сверяет сохранённый хеш с введённым паролем.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch возвращается, когда пароль не соответствует хешу.
var ErrMismatch = errors.New("password mismatch")

// Hash принимает пароль пользователя и возвращает его bcrypt-хеш.
// Пароли длиннее 72 байт bcrypt не поддерживает и возвращает ошибку.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt-хеш с введённым паролем.
//
// Возвращает nil при совпадении, ErrMismatch при неверном пароле
// и обёрнутую ошибку bcrypt, если хеш повреждён.
func Compare(hash, password string) error {
	const op = "password.Compare"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
