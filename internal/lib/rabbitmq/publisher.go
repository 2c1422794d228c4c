package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Channel часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage сериализует message в JSON и публикует его с persistent-доставкой.
func PublishMessage(ch Channel, exchange string, routingKey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует сообщения в фиксированный exchange с фиксированным ключом.
type Publisher struct {
	ch         Channel
	exchange   string
	routingKey string
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch Channel, exchange, routingKey string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, routingKey: routingKey}
}

// Publish отправляет message, если контекст ещё не отменён.
func (p *Publisher) Publish(ctx context.Context, message any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rabbitmq.Publish: %w", err)
	}
	return PublishMessage(p.ch, p.exchange, p.routingKey, message)
}
