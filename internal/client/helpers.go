package client

import (
	"sort"
	"time"

	"github.com/subzero-app/subzero/internal/lib/format"
	"github.com/subzero-app/subzero/internal/models"
)

// slugify переводит имя категории в идентификатор: "Cloud Storage" -> "cloud-storage".
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

// computeAnalytics собирает сводку по активным подпискам: суммы, разбивку
// по категориям и до пяти самых дорогих подписок.
func computeAnalytics(subs []models.Subscription) *models.Analytics {
	result := models.Analytics{
		CategoryBreakdown: make(map[string]models.CategorySpend),
	}
	var active []models.Subscription
	for _, s := range subs {
		if s.Status != models.StatusActive {
			continue
		}
		active = append(active, s)
		result.TotalMonthly += s.MonthlyAmount
		spend := result.CategoryBreakdown[s.Category]
		spend.Amount += s.MonthlyAmount
		spend.Count++
		result.CategoryBreakdown[s.Category] = spend
	}
	// Годовая сводка — это месячная сумма за 12 месяцев, а не сумма
	// yearly_amount по записям: так же считает серверная аналитика.
	result.TotalYearly = result.TotalMonthly * 12
	result.SubscriptionCount = len(active)
	if len(active) > 0 {
		result.AveragePerSubscription = result.TotalMonthly / float64(len(active))
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].MonthlyAmount > active[j].MonthlyAmount
	})
	if len(active) > 5 {
		active = active[:5]
	}
	result.TopSubscriptions = active
	return &result
}

// computeUpcomingBills строит список предстоящих списаний по активным
// подпискам, отсортированный по дате ближайшего списания.
func computeUpcomingBills(subs []models.Subscription, now time.Time) []models.UpcomingBill {
	var out []models.UpcomingBill
	for _, s := range subs {
		if s.Status != models.StatusActive {
			continue
		}
		out = append(out, models.UpcomingBill{
			SubscriptionID: s.ID,
			Name:           s.Name,
			Amount:         s.MonthlyAmount,
			BillingDate:    s.NextBillingDate,
			DaysUntil:      format.DaysUntil(s.NextBillingDate, now),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BillingDate.Before(out[j].BillingDate)
	})
	return out
}
