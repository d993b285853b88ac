// Package format содержит чистые функции форматирования денежных сумм
// и дат для отображения. Суммы выводятся в долларах США с разделителями
// разрядов, даты — в коротком американском формате.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency форматирует сумму как $1,234.56.
func Currency(amount float64) string {
	return printer.Sprintf("$%v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Date форматирует дату для отображения: Jan 2, 2006.
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// ISODate форматирует дату для передачи в API: 2006-01-02.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseISODate разбирает дату в формате 2006-01-02.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Today возвращает полночь UTC календарной даты момента now в его
// часовом поясе. Даты из API разбираются как полночь UTC, поэтому
// сравнивать их нужно по календарной дате, а не по машинному времени:
// Truncate по UTC-суткам сдвигал бы "сегодня" для поясов восточнее UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil возвращает число полных дней от now до даты t,
// считая обе даты по календарным суткам. Для прошедших дат возвращает 0.
func DaysUntil(t, now time.Time) int {
	days := int(Today(t).Sub(Today(now)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
