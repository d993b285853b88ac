// Package sl содержит помощники для структурированного логирования через slog.
package sl

import "log/slog"

// Err упаковывает ошибку в slog.Attr с ключом "error", чтобы все записи
// лога выводили ошибки единообразно.
//
// Пример:
//
//	log.Error("failed to create subscription", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
