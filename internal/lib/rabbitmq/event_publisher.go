package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/subzero-app/subzero/internal/models"
)

// EventPublisher публикует события заявок на отмену в обменник cancellations.
type EventPublisher struct {
	ch *amqp.Channel
}

// NewEventPublisher создает новый EventPublisher поверх открытого канала.
func NewEventPublisher(ch *amqp.Channel) *EventPublisher {
	return &EventPublisher{ch: ch}
}

// Publish отправляет событие заявки в очередь обработки.
func (p *EventPublisher) Publish(event models.CancellationEvent) error {
	return PublishMessage(p.ch, CancellationsExchange, CancellationsKey, event)
}
