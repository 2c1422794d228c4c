// Package models содержит доменные структуры пользователей, мероприятий,
// уведомлений и сессий, а также структуры для приёма JSON-запросов.
package models

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64  `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"-"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name"`
	Secondname   string `json:"secondname"`
}

// UserProfile данные профиля, которые пользователь видит о себе.
type UserProfile struct {
	Name       string `json:"name"`
	Secondname string `json:"secondname"`
	Email      string `json:"email"`
	Login      string `json:"login"`
}

// UserSummary публичные данные пользователя: список и проверка логина.
type UserSummary struct {
	ID         int64  `json:"id"`
	Login      string `json:"login"`
	Name       string `json:"name"`
	Secondname string `json:"secondname"`
}

// RegisterRequest тело запроса регистрации.
type RegisterRequest struct {
	Login      string `json:"login" validate:"required,max=64"`
	Password   string `json:"password" validate:"required,min=4,max=72"`
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"max=128"`
	Secondname string `json:"secondname" validate:"max=128"`
}

// LoginRequest тело запроса входа, идентификатор это логин или почта.
type LoginRequest struct {
	LoginOrEmail string `json:"loginOrEmail" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// UpdateUserRequest частичное обновление профиля, nil означает «не менять».
type UpdateUserRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=128"`
	Secondname *string `json:"secondname" validate:"omitempty,max=128"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

// Identity результат успешной аутентификации.
type Identity struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}
