// Package server собирает REST-бэкенд SubZero: хранилище, кэш, брокер
// сообщений, бизнес-сервисы и HTTP-сервер с маршрутами.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/subzero-app/subzero/internal/cache"
	"github.com/subzero-app/subzero/internal/config"
	"github.com/subzero-app/subzero/internal/lib/jwt"
	"github.com/subzero-app/subzero/internal/lib/rabbitmq"
	"github.com/subzero-app/subzero/internal/migrations"
	authservice "github.com/subzero-app/subzero/internal/services/auth"
	cancellationservice "github.com/subzero-app/subzero/internal/services/cancellation"
	discoveryservice "github.com/subzero-app/subzero/internal/services/discovery"
	subscriptionservice "github.com/subzero-app/subzero/internal/services/subscription"
	"github.com/subzero-app/subzero/internal/storage/repository"
)

// App объединяет зависимости HTTP-сервера SubZero.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New инициализирует хранилище, применяет миграции, подключается к Redis и
// RabbitMQ, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, cacheRedis, logger)
	discoveryService := discoveryservice.NewDiscoveryService(db, logger)
	cancellationService := cancellationservice.NewCancellationService(
		db, db, rabbitmq.NewEventPublisher(rabbitCh), logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker,
		authService, subscriptionService, discoveryService, cancellationService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitCh.Close()
		_ = a.rabbitConn.Close()
		_ = a.db.DB.Close()
		return err
	}
}
