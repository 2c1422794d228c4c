package models

import "encoding/json"

// Действия над участием в мероприятии.
const (
	ActionJoin  = "join"
	ActionLeave = "leave"
)

// Event мероприятие. Participants: упорядоченный список логинов,
// логин владельца в него никогда не входит.
type Event struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Title        string          `json:"title"`
	Description  *string         `json:"description"`
	Date         string          `json:"date"`
	Time         *string         `json:"time"`
	Creator      string          `json:"creator"`
	Participants []string        `json:"participants"`
	RouteData    json.RawMessage `json:"route_data"`
	Distance     *float64        `json:"distance"`
}

// CreateEventRequest тело запроса POST /api/events.
type CreateEventRequest struct {
	Title        string          `json:"title" validate:"required,max=256"`
	Description  *string         `json:"description"`
	Date         string          `json:"date" validate:"required,datetime=2006-01-02"`
	Time         *string         `json:"time" validate:"omitempty,datetime=15:04"`
	Creator      string          `json:"creator"`
	Participants []string        `json:"participants" validate:"omitempty,dive,required"`
	RouteData    json.RawMessage `json:"route_data"`
	Distance     *float64        `json:"distance" validate:"omitempty,gte=0"`
}

// NewEvent параметры создания мероприятия для слоя хранилища.
type NewEvent struct {
	UserID       int64
	Title        string
	Description  *string
	Date         string
	Time         *string
	Creator      string
	Participants []string
	RouteData    json.RawMessage
	Distance     *float64
}

// ParticipationResult результат вступления или выхода из мероприятия.
type ParticipationResult struct {
	OwnerID      int64
	Title        string
	Participants []string
}

// EventDigest данные мероприятия для рассылки напоминаний.
type EventDigest struct {
	ID           int64
	OwnerID      int64
	OwnerLogin   string
	Title        string
	Date         string
	Time         *string
	Participants []string
}
