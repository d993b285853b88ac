// Package categories реализует HTTP-обработчик справочника категорий.
package categories

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subzero-app/subzero/internal/http/response"
	"github.com/subzero-app/subzero/internal/models"
)

// Handler управляет HTTP-запросами на получение категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс справочника категорий.
type Service interface {
	Categories(ctx context.Context) []models.Category
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить категории подписок
// @Description Возвращает справочник категорий с идентификаторами.
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} map[string]any "Список категорий"
// @Router /subscriptions/categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.categories"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cats := h.service.Categories(r.Context())

	log.Debug("categories served", slog.Int("count", len(cats)))
	render.JSON(w, r, response.OKWithData(cats))
}
