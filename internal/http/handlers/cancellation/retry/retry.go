// Package retry реализует HTTP-обработчик повторной отправки заявки на отмену.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/http/response"
	"github.com/subzero-app/subzero/internal/lib/sl"
	"github.com/subzero-app/subzero/internal/models"
	cancellationservice "github.com/subzero-app/subzero/internal/services/cancellation"
)

// Handler управляет HTTP-запросами на повтор заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики повтора заявки.
type Service interface {
	Retry(ctx context.Context, username, requestID string) (*models.CancellationRequest, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Повторить заявку на отмену
// @Description Возвращает неудавшуюся заявку в статус pending и публикует событие заново.
// @Tags Cancellations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Идентификатор заявки"
// @Success 200 {object} map[string]any "Обновлённая заявка"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Router /cancellations/{id}/retry [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cancellation.retry"
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

	cr, err := h.service.Retry(r.Context(), username, id)
	if err != nil {
		log.Error("failed to retry cancellation", sl.Err(err))
		if errors.Is(err, cancellationservice.ErrRequestNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("cancellation request not found"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not retry cancellation"))
		return
	}

	log.Info("cancellation retried", slog.String("cancellation_id", id))
	render.JSON(w, r, response.OKWithData(cr))
}
