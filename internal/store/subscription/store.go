// Package subscription реализует клиентское хранилище состояния подписок.
//
// Store — единственный владелец списка подписок на стороне приложения.
// Все операции проходят через API-клиент, а результат применяется к
// локальному состоянию под мьютексом. Ошибки не покидают границу
// хранилища: каждая операция возвращает Result с флагом успеха и
// человекочитаемым сообщением.
package subscription

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator"

	"github.com/subzero-app/subzero/internal/lib/format"
	"github.com/subzero-app/subzero/internal/models"
)

// API описывает операции клиента, которые нужны хранилищу подписок.
type API interface {
	GetSubscriptions(ctx context.Context) ([]models.Subscription, error)
	GetUpcomingBills(ctx context.Context) ([]models.UpcomingBill, error)
	CreateSubscription(ctx context.Context, req models.DummySubscription) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, req models.DummySubscription) error
	DeleteSubscription(ctx context.Context, id string) error
	CancelSubscription(ctx context.Context, id, reason string) (*models.CancellationRequest, error)
	DiscoverSubscriptions(ctx context.Context, opts models.DiscoveryOptions) ([]models.DiscoveredCandidate, error)
}

// TierSource сообщает, действует ли для пользователя бесплатный тариф.
type TierSource interface {
	IsFreeTier() bool
}

// Result — исход операции хранилища. Error заполняется только при неуспехе.
type Result struct {
	Success bool
	Error   string
}

// DiscoveryResult — исход обнаружения: число добавленных подписок.
type DiscoveryResult struct {
	Success bool
	Count   int
	Error   string
}

// State — снимок состояния подписок. Totals считаются по всем записям
// независимо от статуса, bills — только по активным.
type State struct {
	Subscriptions     []models.Subscription
	UpcomingBills     []models.UpcomingBill
	TotalMonthlySpend float64
	TotalAnnualSpend  float64
	IsLoading         bool
	IsDiscovering     bool
	Error             string
	LastSyncDate      *time.Time
}

// Store — хранилище состояния подписок.
type Store struct {
	mu       sync.Mutex
	api      API
	tier     TierSource
	validate *validator.Validate
	now      func() time.Time
	state    State
}

// New создаёт хранилище поверх API-клиента и источника тарифа.
func New(api API, tier TierSource) *Store {
	return &Store{
		api:      api,
		tier:     tier,
		validate: validator.New(),
		now:      time.Now,
	}
}

// State возвращает копию текущего состояния.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Subscriptions = append([]models.Subscription(nil), s.state.Subscriptions...)
	st.UpcomingBills = append([]models.UpcomingBill(nil), s.state.UpcomingBills...)
	if s.state.LastSyncDate != nil {
		d := *s.state.LastSyncDate
		st.LastSyncDate = &d
	}
	return st
}

// Load загружает подписки и предстоящие списания с сервера и пересчитывает
// агрегаты. Повторный вызов полностью замещает состояние, не дублируя записи.
func (s *Store) Load(ctx context.Context) Result {
	s.setLoading(true)

	subs, err := s.api.GetSubscriptions(ctx)
	if err != nil {
		return s.fail(err)
	}
	bills, err := s.api.GetUpcomingBills(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Subscriptions = subs
	s.state.UpcomingBills = bills
	s.recomputeTotalsLocked()
	s.state.IsLoading = false
	s.state.Error = ""
	return Result{Success: true}
}

// Add валидирует данные, проверяет лимит бесплатного тарифа и создаёт
// подписку. Ошибка валидации не попадает в state.Error — состояние
// остаётся нетронутым.
func (s *Store) Add(ctx context.Context, req models.DummySubscription) Result {
	if msg := s.validateRequest(req); msg != "" {
		return Result{Error: msg}
	}

	s.mu.Lock()
	active := 0
	for _, sub := range s.state.Subscriptions {
		if sub.Status == models.StatusActive {
			active++
		}
	}
	overLimit := s.tier.IsFreeTier() && active >= models.FreeTierLimit
	s.mu.Unlock()
	if overLimit {
		return Result{Error: "free tier limited to 3 subscriptions, upgrade to add more"}
	}

	sub, err := s.api.CreateSubscription(ctx, req)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Subscriptions = append(s.state.Subscriptions, *sub)
	s.recomputeLocalLocked()
	s.state.Error = ""
	return Result{Success: true}
}

// Update валидирует данные и изменяет подписку, затем применяет изменение
// к локальной записи и пересчитывает агрегаты.
func (s *Store) Update(ctx context.Context, id string, req models.DummySubscription) Result {
	if msg := s.validateRequest(req); msg != "" {
		return Result{Error: msg}
	}

	if err := s.api.UpdateSubscription(ctx, id, req); err != nil {
		return s.fail(err)
	}

	date, _ := format.ParseISODate(req.NextBillingDate)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subscriptions {
		if s.state.Subscriptions[i].ID != id {
			continue
		}
		sub := &s.state.Subscriptions[i]
		sub.Name = req.Name
		sub.Category = req.Category
		sub.MonthlyAmount = req.MonthlyAmount
		sub.BillingCycle = req.BillingCycle
		sub.YearlyAmount = req.MonthlyAmount * models.CycleMultiplier(req.BillingCycle)
		sub.NextBillingDate = date
		sub.Description = req.Description
		sub.Website = req.Website
		if req.Color != "" {
			sub.Color = req.Color
		}
		break
	}
	s.recomputeLocalLocked()
	s.state.Error = ""
	return Result{Success: true}
}

// Delete удаляет подписку на сервере и убирает её из состояния.
func (s *Store) Delete(ctx context.Context, id string) Result {
	if err := s.api.DeleteSubscription(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subscriptions {
		if s.state.Subscriptions[i].ID == id {
			s.state.Subscriptions = append(
				s.state.Subscriptions[:i], s.state.Subscriptions[i+1:]...)
			break
		}
	}
	s.recomputeLocalLocked()
	s.state.Error = ""
	return Result{Success: true}
}

// Cancel создаёт заявку на отмену и перечитывает состояние с сервера.
func (s *Store) Cancel(ctx context.Context, id, reason string) Result {
	if _, err := s.api.CancelSubscription(ctx, id, reason); err != nil {
		return s.fail(err)
	}
	// Статус не меняется локально: сервер — источник истины для отмены.
	return s.Load(ctx)
}

// Discover запускает обнаружение подписок, добавляет каждого найденного
// кандидата и полностью перезагружает состояние с сервера.
func (s *Store) Discover(ctx context.Context, opts models.DiscoveryOptions) DiscoveryResult {
	s.mu.Lock()
	s.state.IsDiscovering = true
	s.mu.Unlock()

	candidates, err := s.api.DiscoverSubscriptions(ctx, opts)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state.IsDiscovering = false
		s.state.Error = err.Error()
		return DiscoveryResult{Error: err.Error()}
	}

	added := 0
	for _, c := range candidates {
		req := models.DummySubscription{
			Name:            c.Name,
			Category:        c.Category,
			MonthlyAmount:   c.MonthlyAmount,
			BillingCycle:    models.CycleMonthly,
			NextBillingDate: s.now().AddDate(0, 1, 0).Format("2006-01-02"),
			DiscoveredVia:   c.DiscoveredVia(),
		}
		if _, err := s.api.CreateSubscription(ctx, req); err != nil {
			continue
		}
		added++
	}

	if res := s.Load(ctx); !res.Success {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state.IsDiscovering = false
		return DiscoveryResult{Count: added, Error: res.Error}
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsDiscovering = false
	s.state.LastSyncDate = &now
	return DiscoveryResult{Success: true, Count: added}
}

// validateRequest проверяет поля и дату до сетевого вызова.
func (s *Store) validateRequest(req models.DummySubscription) string {
	if err := s.validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return validationMessage(errs[0])
		}
		return "invalid subscription data"
	}
	date, err := format.ParseISODate(req.NextBillingDate)
	if err != nil {
		return "next billing date must be in format 2006-01-02"
	}
	today := format.Today(s.now())
	if date.Before(today) {
		return "next billing date cannot be in the past"
	}
	return ""
}

func validationMessage(err validator.FieldError) string {
	switch err.Field() {
	case "Name":
		return "name is required"
	case "MonthlyAmount":
		return "amount must be greater than zero"
	case "Category":
		return "category is required"
	case "BillingCycle":
		return "billing cycle must be weekly, monthly, quarterly or yearly"
	case "NextBillingDate":
		return "next billing date is required"
	default:
		return "invalid subscription data"
	}
}

// fail фиксирует ошибку операции в состоянии и снимает флаги загрузки.
func (s *Store) fail(err error) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false
	s.state.IsDiscovering = false
	s.state.Error = err.Error()
	return Result{Error: err.Error()}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = v
}

// recomputeTotalsLocked пересчитывает суммарные расходы по всем подпискам.
func (s *Store) recomputeTotalsLocked() {
	var monthly, yearly float64
	for _, sub := range s.state.Subscriptions {
		monthly += sub.MonthlyAmount
		yearly += sub.YearlyAmount
	}
	s.state.TotalMonthlySpend = monthly
	s.state.TotalAnnualSpend = yearly
}

// recomputeLocalLocked пересчитывает агрегаты после локальной мутации,
// не обращаясь к серверу: totals по всем записям, bills по активным.
func (s *Store) recomputeLocalLocked() {
	s.recomputeTotalsLocked()

	now := s.now()
	bills := make([]models.UpcomingBill, 0, len(s.state.Subscriptions))
	for _, sub := range s.state.Subscriptions {
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
		return bills[i].BillingDate.Before(bills[j].BillingDate)
	})
	s.state.UpcomingBills = bills
}
