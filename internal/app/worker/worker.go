// Package worker собирает фоновый обработчик заявок на отмену: он читает
// события из очереди и переводит заявки в статус completed.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/subzero-app/subzero/internal/config"
	"github.com/subzero-app/subzero/internal/lib/rabbitmq"
	"github.com/subzero-app/subzero/internal/lib/sl"
	cancellationservice "github.com/subzero-app/subzero/internal/services/cancellation"
	"github.com/subzero-app/subzero/internal/storage/repository"
)

// App объединяет зависимости воркера отмен.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	service *cancellationservice.CancellationService
	logger  *slog.Logger
}

// New подключается к базе и брокеру и собирает сервис отмен.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	service := cancellationservice.NewCancellationService(
		db, db, rabbitmq.NewEventPublisher(ch), logger)

	return &App{
		conn:    conn,
		ch:      ch,
		service: service,
		logger:  logger,
	}, nil
}

// Run запускает потребителя очереди заявок и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.CancellationsQueue, func(body []byte) error {
		var event struct {
			RequestID string `json:"request_id"`
		}
		if err := json.Unmarshal(body, &event); err != nil {
			a.logger.Error("failed to decode cancellation event", sl.Err(err))
			return err
		}
		if err := a.service.Complete(ctx, event.RequestID); err != nil {
			a.logger.Error("failed to complete cancellation",
				slog.String("request_id", event.RequestID), sl.Err(err))
			return err
		}
		a.logger.Info("cancellation completed", slog.String("request_id", event.RequestID))
		return nil
	})
	if err != nil {
		a.logger.Error("failed to start cancellations consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("cancellation worker shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
