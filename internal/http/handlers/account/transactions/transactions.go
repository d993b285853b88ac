// Package transactions реализует HTTP-обработчик списаний по счёту.
package transactions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/http/response"
	"github.com/subzero-app/subzero/internal/lib/sl"
	"github.com/subzero-app/subzero/internal/models"
	discoveryservice "github.com/subzero-app/subzero/internal/services/discovery"
)

// Handler управляет HTTP-запросами на получение списаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списаний по счёту.
type Service interface {
	Transactions(ctx context.Context, username, accountID string, limit int) ([]models.Transaction, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить списания по счёту
// @Description Возвращает последние списания по подключённому счёту.
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Идентификатор счёта"
// @Param limit query int false "Максимум записей"
// @Success 200 {object} map[string]any "Список списаний"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Router /accounts/{id}/transactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.transactions"
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

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.Transactions(r.Context(), username, id, limit)
	if err != nil {
		log.Error("failed to list transactions", sl.Err(err))
		if errors.Is(err, discoveryservice.ErrAccountNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list transactions"))
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}
