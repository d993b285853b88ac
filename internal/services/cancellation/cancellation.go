// Package services реализует жизненный цикл заявок на отмену подписки:
// создание заявки, публикацию события в очередь, статистику и повторную
// обработку неудавшихся заявок.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/subzero-app/subzero/internal/models"
)

// CancellationRepository определяет методы для работы с заявками в хранилище.
type CancellationRepository interface {
	CreateCancellation(ctx context.Context, req models.CancellationRequest) (*models.CancellationRequest, error)
	ListCancellations(ctx context.Context, username string) ([]models.CancellationRequest, error)
	GetCancellation(ctx context.Context, id string) (*models.CancellationRequest, error)
	SetCancellationStatus(ctx context.Context, id, status string, completedAt *time.Time) (int, error)
	CountCancellationStats(ctx context.Context, username string) (*models.CancellationStats, error)
}

// SubscriptionReader читает и переводит в новый статус подписки пользователя.
type SubscriptionReader interface {
	ReadSubscription(ctx context.Context, username, id string) (*models.Subscription, error)
	SetSubscriptionStatus(ctx context.Context, username, id, status string) (int, error)
}

// Publisher публикует события заявок в очередь для асинхронной обработки.
type Publisher interface {
	Publish(event models.CancellationEvent) error
}

// ErrRequestNotFound возвращается, когда заявка не принадлежит пользователю.
var ErrRequestNotFound = errors.New("cancellation request not found")

// CancellationService управляет заявками на отмену подписок.
type CancellationService struct {
	repo      CancellationRepository
	subs      SubscriptionReader
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewCancellationService создает новый экземпляр CancellationService.
func NewCancellationService(repo CancellationRepository, subs SubscriptionReader, publisher Publisher, log *slog.Logger) *CancellationService {
	return &CancellationService{
		repo:      repo,
		subs:      subs,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Request создаёт заявку на отмену подписки, переводит подписку в статус
// cancelled и публикует событие для асинхронной обработки. Годовая экономия
// заявки равна годовой сумме отменяемой подписки.
func (s *CancellationService) Request(ctx context.Context, username, subscriptionID, reason string) (*models.CancellationRequest, error) {
	sub, err := s.subs.ReadSubscription(ctx, username, subscriptionID)
	if err != nil {
		return nil, err
	}

	req := models.CancellationRequest{
		ID:             uuid.NewString(),
		SubscriptionID: sub.ID,
		Username:       username,
		Reason:         reason,
		Status:         models.CancellationPending,
		AnnualSavings:  sub.YearlyAmount,
	}
	created, err := s.repo.CreateCancellation(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.subs.SetSubscriptionStatus(ctx, username, sub.ID, models.StatusCancelled); err != nil {
		return nil, err
	}

	event := models.CancellationEvent{
		RequestID:      created.ID,
		SubscriptionID: sub.ID,
		Username:       username,
		Reason:         reason,
	}
	if err := s.publisher.Publish(event); err != nil {
		// Заявка уже сохранена, воркер подберёт её при повторе.
		s.log.Warn("failed to publish cancellation event", slog.Any("err", err))
	}

	s.log.Info("cancellation requested", slog.String("request_id", created.ID),
		slog.String("subscription_id", sub.ID))
	return created, nil
}

// List возвращает заявки пользователя.
func (s *CancellationService) List(ctx context.Context, username string) ([]models.CancellationRequest, error) {
	return s.repo.ListCancellations(ctx, username)
}

// Stats возвращает сводную статистику по заявкам пользователя.
func (s *CancellationService) Stats(ctx context.Context, username string) (*models.CancellationStats, error) {
	return s.repo.CountCancellationStats(ctx, username)
}

// Retry повторно ставит заявку пользователя в очередь на обработку.
func (s *CancellationService) Retry(ctx context.Context, username, requestID string) (*models.CancellationRequest, error) {
	req, err := s.repo.GetCancellation(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Username != username {
		return nil, ErrRequestNotFound
	}

	if _, err := s.repo.SetCancellationStatus(ctx, requestID, models.CancellationPending, nil); err != nil {
		return nil, err
	}
	req.Status = models.CancellationPending
	req.CompletedAt = nil

	event := models.CancellationEvent{
		RequestID:      req.ID,
		SubscriptionID: req.SubscriptionID,
		Username:       req.Username,
		Reason:         req.Reason,
	}
	if err := s.publisher.Publish(event); err != nil {
		s.log.Warn("failed to publish cancellation event", slog.Any("err", err))
	}
	return req, nil
}

// Complete помечает заявку завершённой. Вызывается воркером после обработки
// сообщения из очереди.
func (s *CancellationService) Complete(ctx context.Context, requestID string) error {
	completedAt := s.now()
	count, err := s.repo.SetCancellationStatus(ctx, requestID, models.CancellationCompleted, &completedAt)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRequestNotFound
	}
	s.log.Info("cancellation completed", slog.String("request_id", requestID))
	return nil
}
