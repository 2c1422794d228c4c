package models

// Session серверная сессия, хранится в redis по идентификатору из cookie.
type Session struct {
	ID     string `json:"-"`
	UserID int64  `json:"user_id"`
	Login  string `json:"login"`
}
