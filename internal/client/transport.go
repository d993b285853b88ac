// Package client реализует API-клиент SubZero с двумя режимами работы:
// demo — встроенный набор данных без сети, live — HTTP-вызовы к бэкенду.
// Выбор режима задаётся конфигурацией и прозрачен для вызывающего кода.
package client

import (
	"context"

	"github.com/subzero-app/subzero/internal/models"
)

// Transport описывает набор операций API SubZero. Обе реализации —
// DemoTransport и HTTPTransport — подчиняются одному контракту, поэтому
// хранилища состояния не знают, откуда приходят данные.
type Transport interface {
	// Auth
	Register(ctx context.Context, req models.DummyRegister) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.DummyLogin) (*models.AuthResponse, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.DummyProfileUpdate) (*models.User, error)

	// Subscriptions
	GetSubscriptions(ctx context.Context) ([]models.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, req models.DummySubscription) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, req models.DummySubscription) error
	DeleteSubscription(ctx context.Context, id string) error
	CancelSubscription(ctx context.Context, id, reason string) (*models.CancellationRequest, error)

	// Reference and analytics
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetAnalytics(ctx context.Context) (*models.Analytics, error)
	GetUpcomingBills(ctx context.Context) ([]models.UpcomingBill, error)

	// Discovery
	LinkAccount(ctx context.Context, req models.DummyLinkAccount) (*models.LinkedAccount, error)
	GetAccounts(ctx context.Context) ([]models.LinkedAccount, error)
	DiscoverSubscriptions(ctx context.Context, opts models.DiscoveryOptions) ([]models.DiscoveredCandidate, error)

	// Cancellations
	GetCancellations(ctx context.Context) ([]models.CancellationRequest, error)
	GetCancellationStats(ctx context.Context) (*models.CancellationStats, error)

	// SetToken передает транспорту токен доступа для авторизованных вызовов.
	SetToken(token string)
}
