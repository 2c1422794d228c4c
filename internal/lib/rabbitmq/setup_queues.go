// Package rabbitmq содержит подключение к RabbitMQ, объявление очередей,
// публикацию и потребление сообщений об уведомлениях.
package rabbitmq

// NotificationsExchange direct-exchange, через который проходят все уведомления.
const NotificationsExchange = "notifications"

// Очередь и ключ маршрутизации для только что созданных уведомлений.
const (
	CreatedQueue      = "notification.created"
	CreatedRoutingKey = "created"
)

// QueueConfig описывает очередь и ключ, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляются при старте.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: CreatedQueue, RoutingKey: CreatedRoutingKey},
	}
}
