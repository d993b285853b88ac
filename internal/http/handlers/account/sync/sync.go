// Package sync реализует HTTP-обработчик синхронизации счёта.
//
// Синхронизация подтягивает свежие списания по счёту и обновляет отметку
// последней выгрузки. Для банковских счетов загружается история транзакций,
// для почтовых — чеки о покупках.
package sync

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
	discoveryservice "github.com/subzero-app/subzero/internal/services/discovery"
)

// Handler управляет HTTP-запросами на синхронизацию счёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики синхронизации.
type Service interface {
	SyncAccount(ctx context.Context, username, accountID string) (*models.LinkedAccount, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Синхронизировать счёт
// @Description Подтягивает списания по счёту и обновляет дату последней выгрузки.
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Идентификатор счёта"
// @Success 200 {object} map[string]any "Обновлённый счёт"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Router /accounts/{id}/sync [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.sync"
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

	account, err := h.service.SyncAccount(r.Context(), username, id)
	if err != nil {
		log.Error("failed to sync account", sl.Err(err))
		if errors.Is(err, discoveryservice.ErrAccountNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not sync account"))
		return
	}

	log.Info("account synced", slog.String("account_id", id))
	render.JSON(w, r, response.OKWithData(account))
}
