package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"копейки", 15.99, "$15.99"},
		{"круглая сумма", 10, "$10.00"},
		{"разделители разрядов", 1234.56, "$1,234.56"},
		{"ноль", 0, "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.amount))
		})
	}
}

func TestDateFormats(t *testing.T) {
	d := time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "Jul 15, 2024", Date(d))
	assert.Equal(t, "2024-07-15", ISODate(d))

	parsed, err := ParseISODate("2024-07-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseISODate("15-07-2024")
	assert.Error(t, err)
}

func TestToday_UsesLocalCalendarDate(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	honolulu := time.FixedZone("HST", -10*60*60)

	// Вечер в поясе восточнее UTC: по UTC уже следующие сутки начались бы
	// только через 2 часа, но календарная дата — 28-е.
	evening := time.Date(2026, 8, 28, 22, 0, 0, 0, msk)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Today(evening))

	// Раннее утро западнее UTC: по UTC уже 29-е, календарная дата — 28-е.
	morning := time.Date(2026, 8, 28, 1, 0, 0, 0, honolulu)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Today(morning))

	// Дата "сегодня" из API не считается прошедшей ни в одном поясе.
	apiDate, err := ParseISODate("2026-08-28")
	require.NoError(t, err)
	assert.False(t, apiDate.Before(Today(evening)))
	assert.False(t, apiDate.Before(Today(morning)))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 7, 7, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, 3, DaysUntil(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 8, DaysUntil(time.Date(2024, 7, 15, 23, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0, DaysUntil(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), now))
}
