package models

// CategorySpend — расход и число подписок в одной категории.
type CategorySpend struct {
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// Analytics — сводная аналитика по активным подпискам пользователя.
// Cancelled и paused подписки в аналитике не учитываются, в отличие
// от totalMonthlySpend клиентского состояния, куда входят все записи.
type Analytics struct {
	TotalMonthly            float64                  `json:"total_monthly_spend"`
	TotalYearly             float64                  `json:"total_annual_spend"`
	SubscriptionCount       int                      `json:"subscription_count"`
	AveragePerSubscription  float64                  `json:"average_per_subscription"`
	CategoryBreakdown       map[string]CategorySpend `json:"category_breakdown"`
	TopSubscriptions        []Subscription           `json:"top_subscriptions"` // До пяти самых дорогих по месячной сумме
}
