// Package services содержит бизнес-логику для управления подписками,
// их агрегатами и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/subzero-app/subzero/internal/lib/format"
	"github.com/subzero-app/subzero/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её с датой создания.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// ListSubscriptions возвращает все подписки пользователя.
	ListSubscriptions(ctx context.Context, username string) ([]models.Subscription, error)
	// ReadSubscription возвращает подписку пользователя по ID.
	ReadSubscription(ctx context.Context, username, id string) (*models.Subscription, error)
	// UpdateSubscription обновляет подписку и возвращает число затронутых строк.
	UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// RemoveSubscription удаляет подписку и возвращает число удалённых строк.
	RemoveSubscription(ctx context.Context, username, id string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

func listCacheKey(username string) string {
	return fmt.Sprintf("subscriptions:%s", username)
}

// Create создает новую подписку для пользователя и возвращает её.
// Годовая сумма всегда пересчитывается из месячной по циклу оплаты;
// пустой цвет заменяется случайным из палитры.
func (s *SubscriptionService) Create(ctx context.Context, username string, req models.DummySubscription) (*models.Subscription, error) {
	nextBillingDate, err := format.ParseISODate(req.NextBillingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid next billing date: %w", err)
	}
	today := format.Today(s.now())
	if nextBillingDate.Before(today) {
		return nil, fmt.Errorf("next billing date must not be earlier than today")
	}

	color := req.Color
	if color == "" {
		color = models.Palette[rand.Intn(len(models.Palette))]
	}

	sub := models.Subscription{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Category:        req.Category,
		MonthlyAmount:   req.MonthlyAmount,
		YearlyAmount:    req.MonthlyAmount * models.CycleMultiplier(req.BillingCycle),
		BillingCycle:    req.BillingCycle,
		NextBillingDate: nextBillingDate,
		Description:     req.Description,
		Website:         req.Website,
		Status:          models.StatusActive,
		Color:           color,
		DiscoveredVia:   req.DiscoveredVia,
		Username:        username,
	}

	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.String("id", created.ID))

	if err := s.cache.Invalidate(listCacheKey(username)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.Any("err", err))
	}
	return created, nil
}

// List возвращает список подписок пользователя, используя кеш или репозиторий.
func (s *SubscriptionService) List(ctx context.Context, username string) ([]models.Subscription, error) {
	var subs []models.Subscription
	cacheKey := listCacheKey(username)
	found, err := s.cache.Get(cacheKey, &subs)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return subs, nil
	}

	subs, err = s.repo.ListSubscriptions(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, subs, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache subscriptions", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return subs, nil
}

// Read возвращает подписку пользователя по ID.
func (s *SubscriptionService) Read(ctx context.Context, username, id string) (*models.Subscription, error) {
	return s.repo.ReadSubscription(ctx, username, id)
}

// Update обновляет подписку и возвращает число затронутых строк.
// Статус и источник обнаружения при обновлении не меняются.
func (s *SubscriptionService) Update(ctx context.Context, username, id string, req models.DummySubscription) (int, error) {
	nextBillingDate, err := format.ParseISODate(req.NextBillingDate)
	if err != nil {
		return 0, fmt.Errorf("invalid next billing date: %w", err)
	}

	current, err := s.repo.ReadSubscription(ctx, username, id)
	if err != nil {
		return 0, err
	}

	color := req.Color
	if color == "" {
		color = current.Color
	}

	sub := models.Subscription{
		ID:              id,
		Name:            req.Name,
		Category:        req.Category,
		MonthlyAmount:   req.MonthlyAmount,
		YearlyAmount:    req.MonthlyAmount * models.CycleMultiplier(req.BillingCycle),
		BillingCycle:    req.BillingCycle,
		NextBillingDate: nextBillingDate,
		Description:     req.Description,
		Website:         req.Website,
		Status:          current.Status,
		Color:           color,
		DiscoveredVia:   current.DiscoveredVia,
		Username:        username,
	}
	count, err := s.repo.UpdateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Invalidate(listCacheKey(username)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.Any("err", err))
	}
	return count, nil
}

// Remove удаляет подписку по ID и возвращает число удалённых строк.
func (s *SubscriptionService) Remove(ctx context.Context, username, id string) (int, error) {
	count, err := s.repo.RemoveSubscription(ctx, username, id)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(listCacheKey(username)); err != nil {
		s.log.Warn("failed to invalidate list cache", slog.Any("err", err))
	}
	return count, nil
}

// Categories возвращает справочник категорий подписок.
func (s *SubscriptionService) Categories(_ context.Context) []models.Category {
	categories := make([]models.Category, 0, len(models.Categories))
	for _, name := range models.Categories {
		categories = append(categories, models.Category{
			ID:   slugify(name),
			Name: name,
		})
	}
	return categories
}

// Analytics собирает сводную аналитику по активным подпискам пользователя:
// суммарные расходы, разбивку по категориям и до пяти самых дорогих подписок.
func (s *SubscriptionService) Analytics(ctx context.Context, username string) (*models.Analytics, error) {
	subs, err := s.List(ctx, username)
	if err != nil {
		return nil, err
	}

	var active []models.Subscription
	for _, sub := range subs {
		if sub.Status == models.StatusActive {
			active = append(active, sub)
		}
	}

	breakdown := make(map[string]models.CategorySpend)
	var totalMonthly float64
	for _, sub := range active {
		totalMonthly += sub.MonthlyAmount
		spend := breakdown[sub.Category]
		spend.Amount += sub.MonthlyAmount
		spend.Count++
		breakdown[sub.Category] = spend
	}

	top := make([]models.Subscription, len(active))
	copy(top, active)
	sort.Slice(top, func(i, j int) bool {
		return top[i].MonthlyAmount > top[j].MonthlyAmount
	})
	if len(top) > 5 {
		top = top[:5]
	}

	analytics := &models.Analytics{
		TotalMonthly:      totalMonthly,
		TotalYearly:       totalMonthly * 12,
		SubscriptionCount: len(active),
		CategoryBreakdown: breakdown,
		TopSubscriptions:  top,
	}
	if len(active) > 0 {
		analytics.AveragePerSubscription = totalMonthly / float64(len(active))
	}
	return analytics, nil
}

// UpcomingBills возвращает предстоящие списания по активным подпискам,
// отсортированные по близости даты.
func (s *SubscriptionService) UpcomingBills(ctx context.Context, username string) ([]models.UpcomingBill, error) {
	subs, err := s.List(ctx, username)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var bills []models.UpcomingBill
	for _, sub := range subs {
		if sub.Status != models.StatusActive {
			continue
		}
		bills = append(bills, models.UpcomingBill{
			SubscriptionID: sub.ID,
			Name:           sub.Name,
			Amount:         sub.MonthlyAmount,
			BillingDate:    sub.NextBillingDate,
			DaysUntil:      format.DaysUntil(sub.NextBillingDate, now),
		})
	}
	sort.Slice(bills, func(i, j int) bool {
		return bills[i].DaysUntil < bills[j].DaysUntil
	})
	return bills, nil
}

func slugify(name string) string {
	slug := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			slug = append(slug, r+'a'-'A')
		case r == ' ':
			slug = append(slug, '-')
		default:
			slug = append(slug, r)
		}
	}
	return string(slug)
}
