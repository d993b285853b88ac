// Package list реализует HTTP-обработчик получения подключённых счетов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/http/response"
	"github.com/subzero-app/subzero/internal/lib/sl"
	"github.com/subzero-app/subzero/internal/models"
)

// Handler управляет HTTP-запросами на получение счетов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка счетов.
type Service interface {
	ListAccounts(ctx context.Context, username string) ([]models.LinkedAccount, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить подключённые счета
// @Description Возвращает банковские и почтовые счета текущего пользователя.
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any "Список счетов"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"
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

	accounts, err := h.service.ListAccounts(r.Context(), username)
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list accounts"))
		return
	}

	render.JSON(w, r, response.OKWithData(accounts))
}
