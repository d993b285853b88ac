// Package link реализует HTTP-обработчик подключения счёта для поиска подписок.
package link

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/http/response"
	"github.com/subzero-app/subzero/internal/lib/sl"
	"github.com/subzero-app/subzero/internal/models"
)

// Handler управляет HTTP-запросами на подключение счёта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подключения счёта.
type Service interface {
	LinkAccount(ctx context.Context, username string, req models.DummyLinkAccount) (*models.LinkedAccount, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подключить счёт
// @Description Подключает банковский или почтовый счёт как источник поиска подписок.
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.DummyLinkAccount true "Данные счёта"
// @Success 200 {object} map[string]any "Подключённый счёт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /accounts/link [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.link"
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

	var req models.DummyLinkAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	account, err := h.service.LinkAccount(r.Context(), username, req)
	if err != nil {
		log.Error("failed to link account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not link account"))
		return
	}

	log.Info("account linked", slog.String("account_id", account.ID), slog.String("kind", account.Kind))
	render.JSON(w, r, response.OKWithData(account))
}
