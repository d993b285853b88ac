package server

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/subzero-app/subzero/internal/http/handlers/account/discover"
	accountlink "github.com/subzero-app/subzero/internal/http/handlers/account/link"
	accountlist "github.com/subzero-app/subzero/internal/http/handlers/account/list"
	accountsync "github.com/subzero-app/subzero/internal/http/handlers/account/sync"
	"github.com/subzero-app/subzero/internal/http/handlers/account/transactions"
	"github.com/subzero-app/subzero/internal/http/handlers/auth/login"
	"github.com/subzero-app/subzero/internal/http/handlers/auth/profile"
	"github.com/subzero-app/subzero/internal/http/handlers/auth/register"
	"github.com/subzero-app/subzero/internal/http/handlers/auth/updateprofile"
	cancellationlist "github.com/subzero-app/subzero/internal/http/handlers/cancellation/list"
	"github.com/subzero-app/subzero/internal/http/handlers/cancellation/retry"
	"github.com/subzero-app/subzero/internal/http/handlers/cancellation/stats"
	"github.com/subzero-app/subzero/internal/http/handlers/health"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/analytics"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/bills"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/cancel"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/categories"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/create"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/list"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/read"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/remove"
	"github.com/subzero-app/subzero/internal/http/handlers/subscription/update"
	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/lib/jwt"
	authservice "github.com/subzero-app/subzero/internal/services/auth"
	cancellationservice "github.com/subzero-app/subzero/internal/services/cancellation"
	discoveryservice "github.com/subzero-app/subzero/internal/services/discovery"
	subscriptionservice "github.com/subzero-app/subzero/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	subscriptionService *subscriptionservice.SubscriptionService,
	discoveryService *discoveryservice.DiscoveryService,
	cancellationService *cancellationservice.CancellationService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Get("/subscriptions/categories", categories.New(logger, subscriptionService).ServeHTTP)
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/profile", profile.New(logger, authService).ServeHTTP)
			r.Put("/auth/profile", updateprofile.New(logger, authService).ServeHTTP)

			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/cancel", cancel.New(logger, cancellationService).ServeHTTP)

			r.Get("/subscriptions/analytics", analytics.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/bills", bills.New(logger, subscriptionService).ServeHTTP)

			r.Post("/accounts/link", accountlink.New(logger, discoveryService).ServeHTTP)
			r.Get("/accounts", accountlist.New(logger, discoveryService).ServeHTTP)
			r.Post("/accounts/{id}/sync", accountsync.New(logger, discoveryService).ServeHTTP)
			r.Get("/accounts/{id}/transactions", transactions.New(logger, discoveryService).ServeHTTP)
			r.Post("/discovery/run", discover.New(logger, discoveryService).ServeHTTP)

			r.Get("/cancellations", cancellationlist.New(logger, cancellationService).ServeHTTP)
			r.Get("/cancellations/stats", stats.New(logger, cancellationService).ServeHTTP)
			r.Post("/cancellations/{id}/retry", retry.New(logger, cancellationService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
