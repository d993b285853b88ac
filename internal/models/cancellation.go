package models

import "time"

// Статусы заявки на отмену подписки.
const (
	CancellationPending   = "pending"
	CancellationCompleted = "completed"
	CancellationFailed    = "failed"
)

// CancellationRequest — заявка на отмену подписки. Создаётся при
// POST /subscriptions/{id}/cancel и обрабатывается асинхронно воркером.
type CancellationRequest struct {
	ID             string     `json:"id"`                     // Уникальный идентификатор заявки
	SubscriptionID string     `json:"subscription_id"`        // Отменяемая подписка
	Username       string     `json:"-"`                      // Владелец
	Reason         string     `json:"reason,omitempty"`       // Причина отмены в свободной форме
	Status         string     `json:"status"`                 // pending, completed или failed
	AnnualSavings  float64    `json:"annual_savings"`         // Годовая экономия при успешной отмене
	CreatedAt      time.Time  `json:"created_at"`             // Время создания заявки
	CompletedAt    *time.Time `json:"completed_at,omitempty"` // Время завершения обработки
}

// DummyCancel используется для приёма запроса на отмену подписки.
type DummyCancel struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"` // Причина отмены
}

// CancellationStats — сводная статистика по заявкам на отмену.
type CancellationStats struct {
	TotalRequests      int     `json:"total_requests"`
	CompletedRequests  int     `json:"completed_requests"`
	PendingRequests    int     `json:"pending_requests"`
	SuccessRate        float64 `json:"success_rate"`         // Доля завершённых заявок в процентах
	TotalAnnualSavings float64 `json:"total_annual_savings"` // Суммарная годовая экономия
}

// CancellationEvent — сообщение, публикуемое в очередь при создании
// или повторе заявки на отмену.
type CancellationEvent struct {
	RequestID      string `json:"request_id"`
	SubscriptionID string `json:"subscription_id"`
	Username       string `json:"username"`
	Reason         string `json:"reason,omitempty"`
}
