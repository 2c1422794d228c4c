package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых сообщений.
const maxInFlight = 10

// ConsumerMessage запускает потребителя очереди queueName.
//
// Каждое сообщение обрабатывается handler в отдельной горутине. При успехе Ack,
// при ошибке Nack с возвратом в очередь. Потребитель останавливается при отмене ctx
// или закрытии канала доставки.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler func(context.Context, []byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go consume(ctx, delivery, log.With(slog.String("queue", queueName)), handler)
	return nil
}

func consume(ctx context.Context, delivery <-chan amqp.Delivery, log *slog.Logger, handler func(context.Context, []byte) error) {
	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				if err := handler(ctx, d.Body); err != nil {
					log.Error("failed to handle message", sl.Err(err))
					if nackErr := d.Nack(false, true); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if ackErr := d.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}(d)
		case <-ctx.Done():
			return
		}
	}
}
