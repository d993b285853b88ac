// Package health реализует HTTP-обработчик проверки работоспособности сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/subzero-app/subzero/internal/http/response"
)

// Handler управляет HTTP-запросами проверки работоспособности.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Проверить работоспособность
// @Description Возвращает ok, если сервис готов принимать запросы.
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]any "Статус сервиса"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{"status": "ok"}))
}
