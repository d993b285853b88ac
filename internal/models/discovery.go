package models

import "time"

// Источники обнаружения подписок.
const (
	SourceBank  = "Bank Transaction"
	SourceEmail = "Email Receipt"
)

// Уровни уверенности для обнаруженных кандидатов.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// DiscoveredCandidate — найденная в транзакциях или письмах подписка,
// ещё не подтверждённая пользователем. Существует только в рамках
// сессии обнаружения: либо превращается в Subscription, либо отбрасывается.
type DiscoveredCandidate struct {
	Name          string    `json:"name"`           // Название сервиса
	Category      string    `json:"category"`       // Предполагаемая категория
	MonthlyAmount float64   `json:"monthly_amount"` // Сумма регулярного списания
	Source        string    `json:"source"`         // Bank Transaction или Email Receipt
	Confidence    string    `json:"confidence"`     // High, Medium или Low
	LastCharge    time.Time `json:"last_charge"`    // Дата последнего списания
}

// DiscoveredVia переводит источник кандидата в значение поля
// Subscription.DiscoveredVia: bank либо email.
func (c DiscoveredCandidate) DiscoveredVia() string {
	if c.Source == SourceEmail {
		return "email"
	}
	return "bank"
}

// DiscoveryOptions — параметры запуска обнаружения подписок.
// Хотя бы один из источников должен быть включён.
type DiscoveryOptions struct {
	IncludeBankData  bool `json:"include_bank_data"`
	IncludeEmailData bool `json:"include_email_data"`
}

// LinkedAccount — подключённый внешний источник данных:
// банковский счёт или почтовый ящик.
type LinkedAccount struct {
	ID         string     `json:"id"`                    // Уникальный идентификатор
	Username   string     `json:"-"`                     // Владелец
	Kind       string     `json:"kind"`                  // bank или email
	Provider   string     `json:"provider"`              // Например, Chase Bank или Gmail
	Label      string     `json:"label"`                 // Отображаемое имя счёта
	LastSynced *time.Time `json:"last_synced,omitempty"` // Время последней синхронизации
	CreatedAt  time.Time  `json:"created_at"`
}

// Виды подключённых счетов.
const (
	AccountKindBank  = "bank"
	AccountKindEmail = "email"
)

// DummyLinkAccount используется для приёма запроса на подключение счёта.
type DummyLinkAccount struct {
	Kind     string `json:"kind" validate:"required,oneof=bank email"` // Вид счёта
	Provider string `json:"provider" validate:"required"`              // Провайдер
	Label    string `json:"label" validate:"required"`                 // Отображаемое имя
}

// Transaction — списание по подключённому счёту. Используется
// сервисом обнаружения для поиска регулярных платежей.
type Transaction struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"` // Счёт, по которому прошло списание
	Merchant  string    `json:"merchant"`   // Получатель платежа
	Amount    float64   `json:"amount"`     // Сумма списания
	ChargedAt time.Time `json:"charged_at"` // Дата списания
}
