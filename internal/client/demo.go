package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subzero-app/subzero/internal/models"
)

// DemoToken — фиксированный токен демо-режима.
const DemoToken = "demo_token"

// DemoTransport хранит данные в памяти и имитирует задержку сети.
// Любые учётные данные принимаются, мутации изменяют встроенный набор,
// поэтому приложение ведёт себя как живое без поднятого бэкенда.
type DemoTransport struct {
	mu       sync.Mutex
	delay    time.Duration
	now      func() time.Time
	user     models.User
	subs     []models.Subscription
	accounts []models.LinkedAccount
	cancels  []models.CancellationRequest
	authed   bool
}

// NewDemoTransport создаёт транспорт со встроенным демонстрационным набором
// подписок. Задержка имитирует сетевой вызов, ноль отключает её (для тестов).
func NewDemoTransport(delay time.Duration) *DemoTransport {
	now := time.Now
	return &DemoTransport{
		delay: delay,
		now:   now,
		user: models.User{
			UID:              "demo-user",
			Email:            "demo@subzero.app",
			Name:             "Demo User",
			SubscriptionTier: models.TierFree,
			CreatedAt:        now(),
		},
		subs: demoSubscriptions(now()),
	}
}

func demoSubscriptions(now time.Time) []models.Subscription {
	day := func(d int) time.Time { return now.AddDate(0, 0, d) }
	return []models.Subscription{
		{
			ID:              "demo-netflix",
			Name:            "Netflix Premium",
			Category:        "Entertainment",
			MonthlyAmount:   15.99,
			YearlyAmount:    191.88,
			BillingCycle:    models.CycleMonthly,
			NextBillingDate: day(8),
			Website:         "https://netflix.com",
			Status:          models.StatusActive,
			Color:           "#E50914",
			CreatedAt:       now,
		},
		{
			ID:              "demo-spotify",
			Name:            "Spotify Premium",
			Category:        "Entertainment",
			MonthlyAmount:   9.99,
			YearlyAmount:    119.88,
			BillingCycle:    models.CycleMonthly,
			NextBillingDate: day(3),
			Website:         "https://spotify.com",
			Status:          models.StatusActive,
			Color:           "#1DB954",
			CreatedAt:       now,
		},
		{
			ID:              "demo-adobe",
			Name:            "Adobe Creative Cloud",
			Category:        "Productivity",
			MonthlyAmount:   52.99,
			YearlyAmount:    635.88,
			BillingCycle:    models.CycleMonthly,
			NextBillingDate: day(15),
			Website:         "https://adobe.com",
			Status:          models.StatusActive,
			Color:           "#FF0000",
			CreatedAt:       now,
		},
	}
}

// demoCandidates — кандидаты, которые возвращает демо-обнаружение.
func demoCandidates(now time.Time) []models.DiscoveredCandidate {
	return []models.DiscoveredCandidate{
		{
			Name:          "YouTube Premium",
			Category:      "Entertainment",
			MonthlyAmount: 11.99,
			Source:        models.SourceBank,
			Confidence:    models.ConfidenceHigh,
			LastCharge:    now.AddDate(0, 0, -12),
		},
		{
			Name:          "Dropbox Plus",
			Category:      "Cloud Storage",
			MonthlyAmount: 9.99,
			Source:        models.SourceEmail,
			Confidence:    models.ConfidenceHigh,
			LastCharge:    now.AddDate(0, 0, -20),
		},
		{
			Name:          "The New York Times",
			Category:      "News",
			MonthlyAmount: 4.25,
			Source:        models.SourceBank,
			Confidence:    models.ConfidenceMedium,
			LastCharge:    now.AddDate(0, 0, -28),
		},
	}
}

// sleep имитирует сетевую задержку, прерываясь по отмене контекста.
func (t *DemoTransport) sleep(ctx context.Context) error {
	if t.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(t.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetToken в демо-режиме лишь помечает транспорт как авторизованный.
func (t *DemoTransport) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.authed = token != ""
}

// Register в демо-режиме принимает любые данные и возвращает демо-пользователя
// с регистрационным именем.
func (t *DemoTransport) Register(ctx context.Context, req models.DummyRegister) (*models.AuthResponse, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.user.Email = req.Email
	t.user.Name = req.Name
	t.authed = true
	u := t.user
	u.SubscriptionCount = t.countSubsLocked()
	return &models.AuthResponse{AccessToken: DemoToken, User: &u}, nil
}

// Login в демо-режиме принимает любые учётные данные.
func (t *DemoTransport) Login(ctx context.Context, req models.DummyLogin) (*models.AuthResponse, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if req.Email != "" {
		t.user.Email = req.Email
	}
	t.authed = true
	u := t.user
	u.SubscriptionCount = t.countSubsLocked()
	return &models.AuthResponse{AccessToken: DemoToken, User: &u}, nil
}

func (t *DemoTransport) GetProfile(ctx context.Context) (*models.User, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.authed {
		return nil, errors.New("unauthorized")
	}
	u := t.user
	u.SubscriptionCount = t.countSubsLocked()
	return &u, nil
}

func (t *DemoTransport) UpdateProfile(ctx context.Context, req models.DummyProfileUpdate) (*models.User, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if req.Name != "" {
		t.user.Name = req.Name
	}
	if req.SubscriptionTier != "" {
		t.user.SubscriptionTier = req.SubscriptionTier
	}
	u := t.user
	u.SubscriptionCount = t.countSubsLocked()
	return &u, nil
}

func (t *DemoTransport) countSubsLocked() int {
	return len(t.subs)
}

func (t *DemoTransport) GetSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Subscription, len(t.subs))
	copy(out, t.subs)
	return out, nil
}

func (t *DemoTransport) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.subs {
		if s.ID == id {
			out := s
			return &out, nil
		}
	}
	return nil, errors.New("subscription not found")
}

func (t *DemoTransport) CreateSubscription(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.NextBillingDate)
	if err != nil {
		return nil, errors.New("invalid next billing date")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	color := req.Color
	if color == "" {
		color = models.Palette[len(t.subs)%len(models.Palette)]
	}
	sub := models.Subscription{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Category:        req.Category,
		MonthlyAmount:   req.MonthlyAmount,
		YearlyAmount:    req.MonthlyAmount * models.CycleMultiplier(req.BillingCycle),
		BillingCycle:    req.BillingCycle,
		NextBillingDate: date,
		Description:     req.Description,
		Website:         req.Website,
		Status:          models.StatusActive,
		Color:           color,
		DiscoveredVia:   req.DiscoveredVia,
		CreatedAt:       t.now(),
	}
	t.subs = append(t.subs, sub)
	return &sub, nil
}

func (t *DemoTransport) UpdateSubscription(ctx context.Context, id string, req models.DummySubscription) error {
	if err := t.sleep(ctx); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", req.NextBillingDate)
	if err != nil {
		return errors.New("invalid next billing date")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.subs {
		if t.subs[i].ID == id {
			s := &t.subs[i]
			s.Name = req.Name
			s.Category = req.Category
			s.MonthlyAmount = req.MonthlyAmount
			s.BillingCycle = req.BillingCycle
			s.YearlyAmount = req.MonthlyAmount * models.CycleMultiplier(req.BillingCycle)
			s.NextBillingDate = date
			s.Description = req.Description
			s.Website = req.Website
			if req.Color != "" {
				s.Color = req.Color
			}
			return nil
		}
	}
	return errors.New("subscription not found")
}

func (t *DemoTransport) DeleteSubscription(ctx context.Context, id string) error {
	if err := t.sleep(ctx); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.subs {
		if t.subs[i].ID == id {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return nil
		}
	}
	return errors.New("subscription not found")
}

// CancelSubscription помечает подписку отменённой и создаёт заявку
// в статусе pending, как это делает живой бэкенд.
func (t *DemoTransport) CancelSubscription(ctx context.Context, id, reason string) (*models.CancellationRequest, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.subs {
		if t.subs[i].ID == id {
			t.subs[i].Status = models.StatusCancelled
			cr := models.CancellationRequest{
				ID:             uuid.NewString(),
				SubscriptionID: id,
				Reason:         reason,
				Status:         models.CancellationPending,
				AnnualSavings:  t.subs[i].YearlyAmount,
				CreatedAt:      t.now(),
			}
			t.cancels = append(t.cancels, cr)
			return &cr, nil
		}
	}
	return nil, errors.New("subscription not found")
}

func (t *DemoTransport) GetCategories(ctx context.Context) ([]models.Category, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(models.Categories))
	for _, name := range models.Categories {
		out = append(out, models.Category{ID: slugify(name), Name: name})
	}
	return out, nil
}

func (t *DemoTransport) GetAnalytics(ctx context.Context) (*models.Analytics, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return computeAnalytics(t.subs), nil
}

func (t *DemoTransport) GetUpcomingBills(ctx context.Context) ([]models.UpcomingBill, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return computeUpcomingBills(t.subs, t.now()), nil
}

func (t *DemoTransport) LinkAccount(ctx context.Context, req models.DummyLinkAccount) (*models.LinkedAccount, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	acc := models.LinkedAccount{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		Provider:  req.Provider,
		Label:     req.Label,
		CreatedAt: t.now(),
	}
	t.accounts = append(t.accounts, acc)
	return &acc, nil
}

func (t *DemoTransport) GetAccounts(ctx context.Context) ([]models.LinkedAccount, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.LinkedAccount, len(t.accounts))
	copy(out, t.accounts)
	return out, nil
}

// DiscoverSubscriptions возвращает встроенных кандидатов, отфильтрованных
// по включённым источникам. Без единого источника — ошибка.
func (t *DemoTransport) DiscoverSubscriptions(ctx context.Context, opts models.DiscoveryOptions) ([]models.DiscoveredCandidate, error) {
	if !opts.IncludeBankData && !opts.IncludeEmailData {
		return nil, errors.New("at least one data source must be enabled")
	}
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	var out []models.DiscoveredCandidate
	for _, c := range demoCandidates(t.now()) {
		if c.Source == models.SourceBank && !opts.IncludeBankData {
			continue
		}
		if c.Source == models.SourceEmail && !opts.IncludeEmailData {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (t *DemoTransport) GetCancellations(ctx context.Context) ([]models.CancellationRequest, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.CancellationRequest, len(t.cancels))
	copy(out, t.cancels)
	return out, nil
}

func (t *DemoTransport) GetCancellationStats(ctx context.Context) (*models.CancellationStats, error) {
	if err := t.sleep(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	st := models.CancellationStats{TotalRequests: len(t.cancels)}
	for _, c := range t.cancels {
		switch c.Status {
		case models.CancellationCompleted:
			st.CompletedRequests++
			st.TotalAnnualSavings += c.AnnualSavings
		case models.CancellationPending:
			st.PendingRequests++
		}
	}
	if st.TotalRequests > 0 {
		st.SuccessRate = float64(st.CompletedRequests) / float64(st.TotalRequests) * 100
	}
	return &st, nil
}
