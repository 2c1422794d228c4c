package models

import "time"

// Типы уведомлений. Набор открыт: API принимает произвольную короткую строку.
const (
	NotificationInvitation = "invitation"
	NotificationResponse   = "response"
	NotificationReminder   = "reminder"
)

// Notification уведомление, адресованное пользователю UserID.
// Ключ дедупликации: тройка (UserID, Type, EventID).
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	EventID   *int64    `json:"event_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification параметры создания уведомления.
type NewNotification struct {
	UserID  int64
	Message string
	Type    string
	EventID *int64
}

// CreateNotificationRequest тело запроса POST /api/notifications.
type CreateNotificationRequest struct {
	UserID  int64  `json:"user_id" validate:"required,gt=0"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"type" validate:"omitempty,max=32"`
	EventID *int64 `json:"event_id" validate:"omitempty,gt=0"`
}

// NotificationMessage сообщение о новом уведомлении, публикуемое в брокер.
type NotificationMessage struct {
	NotificationID int64  `json:"notification_id"`
	UserID         int64  `json:"user_id"`
	Message        string `json:"message"`
	Type           string `json:"type"`
	EventID        *int64 `json:"event_id,omitempty"`
}
