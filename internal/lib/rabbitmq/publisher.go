package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage сериализует message в JSON и публикует его в exchange
// с ключом маршрутизации routingkey. Сообщения помечаются как persistent:
// заявка на отмену не должна теряться при перезапуске брокера.
func PublishMessage(ch *amqp.Channel, exchange, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := ch.Publish(exchange, routingkey, false, false, pub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
