// Package models содержит доменную модель пользователя SubZero,
// включающую данные учётной записи, хэш пароля и тарифный план.
package models

import "time"

// Тарифные планы пользователя. Free ограничен тремя подписками,
// Pro не имеет ограничений.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// FreeTierLimit — максимальное число подписок на бесплатном тарифе.
const FreeTierLimit = 3

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID               string    `json:"id"`                 // Уникальный идентификатор пользователя
	Email             string    `json:"email"`              // Электронная почта
	Name              string    `json:"name"`               // Отображаемое имя
	PasswordHash      string    `json:"-"`                  // Хэш пароля, наружу не отдаётся
	SubscriptionTier  string    `json:"subscription_tier"`  // Тарифный план: free или pro
	SubscriptionCount int       `json:"subscription_count"` // Кэшированное число подписок
	CreatedAt         time.Time `json:"created_at"`         // Дата регистрации
}

// IsFree сообщает, действует ли для пользователя ограничение бесплатного тарифа.
func (u *User) IsFree() bool {
	return u.SubscriptionTier == TierFree
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`      // Электронная почта
	Password string `json:"password" validate:"required,min=8"`   // Пароль (минимум 8 символов)
	Name     string `json:"name" validate:"required"`             // Отображаемое имя
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"` // Электронная почта
	Password string `json:"password" validate:"required"`    // Пароль
}

// DummyProfileUpdate используется для приёма изменений профиля.
// Все поля опциональны, пустые не изменяют текущие значения.
type DummyProfileUpdate struct {
	Name             string `json:"name,omitempty" validate:"omitempty"`                          // Новое имя
	SubscriptionTier string `json:"subscription_tier,omitempty" validate:"omitempty,oneof=free pro"` // Новый тариф
}

// AuthResponse — ответ сервера на регистрацию и вход.
type AuthResponse struct {
	AccessToken string `json:"access_token"` // JWT для заголовка Authorization
	User        *User  `json:"user"`         // Данные пользователя
}
