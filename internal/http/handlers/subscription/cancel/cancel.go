// Package cancel реализует HTTP-обработчик отмены подписки.
//
// Отмена создает заявку в статусе pending, помечает подписку как
// отмененную и публикует событие для фонового воркера.
package cancel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/http/response"
	"github.com/subzero-app/subzero/internal/lib/sl"
	"github.com/subzero-app/subzero/internal/models"
)

// Handler управляет HTTP-запросами на отмену подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Request(ctx context.Context, username, subscriptionID, reason string) (*models.CancellationRequest, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Создает заявку на отмену и помечает подписку отмененной.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор подписки"
// @Param request body models.DummyCancel false "Причина отмены"
// @Success 200 {object} map[string]any "Заявка на отмену"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Router /subscriptions/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("missing user in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	// Тело запроса необязательно, причина может отсутствовать.
	var req models.DummyCancel
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	cr, err := h.service.Request(r.Context(), username, id, req.Reason)
	if err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("could not cancel subscription"))
		return
	}

	log.Info("cancellation requested",
		slog.String("subscription_id", id),
		slog.String("request_id_created", cr.ID),
	)
	render.JSON(w, r, response.OKWithData(cr))
}
