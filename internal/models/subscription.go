// Package models содержит доменные структуры приложения SubZero:
// подписки, пользователей, обнаруженные кандидаты и агрегаты,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Возможные статусы подписки.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusPaused    = "paused"
)

// Возможные циклы оплаты подписки.
const (
	CycleWeekly    = "weekly"
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
)

// Categories — фиксированный набор категорий подписок.
var Categories = []string{
	"Entertainment",
	"Productivity",
	"Cloud Storage",
	"News",
	"Fitness",
	"Shopping",
	"Other",
}

// Palette — фиксированная палитра цветов для отображения подписки.
var Palette = []string{
	"#E50914", "#1DB954", "#FF0000", "#0078D4", "#FF6B35", "#4A90E2",
}

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике, хранилище и клиентском состоянии.
// Поле YearlyAmount всегда производное: MonthlyAmount * CycleMultiplier.
type Subscription struct {
	ID              string    `json:"id"`                       // Уникальный идентификатор
	Name            string    `json:"name"`                     // Название сервиса
	Category        string    `json:"category"`                 // Категория из фиксированного набора
	MonthlyAmount   float64   `json:"monthly_amount"`           // Сумма за один платёж
	YearlyAmount    float64   `json:"yearly_amount"`            // Сумма за год (производная)
	BillingCycle    string    `json:"billing_cycle"`            // Цикл оплаты
	NextBillingDate time.Time `json:"next_billing_date"`        // Дата следующего списания
	Description     string    `json:"description,omitempty"`    // Описание (опционально)
	Website         string    `json:"website,omitempty"`        // Сайт сервиса (опционально)
	Status          string    `json:"status"`                   // Статус подписки
	Color           string    `json:"color"`                    // Цвет для отображения
	DiscoveredVia   string    `json:"discovered_via,omitempty"` // bank или email, только для найденных подписок
	Username        string    `json:"-"`                        // Владелец, заполняется на сервере
	CreatedAt       time.Time `json:"created_at"`               // Дата создания записи
}

// CycleMultiplier возвращает множитель для пересчёта суммы платежа
// в годовую сумму: weekly 52, monthly 12, quarterly 4, yearly 1.
// Неизвестный цикл трактуется как monthly.
func CycleMultiplier(cycle string) float64 {
	switch cycle {
	case CycleWeekly:
		return 52
	case CycleQuarterly:
		return 4
	case CycleYearly:
		return 1
	default:
		return 12
	}
}

// DummySubscription используется для приёма данных подписки из JSON-запроса
// или формы добавления, прежде чем конвертировать их в Subscription.
// Дата приходит строкой в формате 2006-01-02, чтобы её можно было
// валидировать и парсить вручную.
type DummySubscription struct {
	Name            string  `json:"name" validate:"required"`                                                // Название сервиса
	Category        string  `json:"category" validate:"required"`                                            // Категория
	MonthlyAmount   float64 `json:"monthly_amount" validate:"required,gt=0"`                                 // Сумма платежа (>0)
	BillingCycle    string  `json:"billing_cycle" validate:"required,oneof=weekly monthly quarterly yearly"` // Цикл оплаты
	NextBillingDate string  `json:"next_billing_date" validate:"required"`                                   // Дата следующего списания, 2006-01-02
	Description     string  `json:"description,omitempty" validate:"omitempty"`                              // Описание
	Website         string  `json:"website,omitempty" validate:"omitempty"`                                  // Сайт
	Color           string  `json:"color,omitempty" validate:"omitempty"`                                    // Цвет (если пустой — назначается случайный)
	DiscoveredVia   string  `json:"discovered_via,omitempty" validate:"omitempty,oneof=bank email"`          // Источник обнаружения
}

// UpcomingBill — производная запись о предстоящем списании.
// Никогда не хранится и не изменяется напрямую, пересчитывается
// при каждом изменении списка подписок или текущей даты.
type UpcomingBill struct {
	SubscriptionID string    `json:"subscription_id"` // Ссылка на подписку (только для поиска)
	Name           string    `json:"name"`            // Название сервиса
	Amount         float64   `json:"amount"`          // Сумма списания
	BillingDate    time.Time `json:"billing_date"`    // Дата списания
	DaysUntil      int       `json:"days_until"`      // Дней до списания
}

// Category — элемент справочника категорий для API.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
