// Package discover реализует HTTP-обработчик поиска повторяющихся подписок.
//
// Поиск просматривает списания по подключённым счетам пользователя и
// возвращает кандидатов — продавцов с повторяющимися одинаковыми суммами.
package discover

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/http/response"
	"github.com/subzero-app/subzero/internal/lib/sl"
	"github.com/subzero-app/subzero/internal/models"
	discoveryservice "github.com/subzero-app/subzero/internal/services/discovery"
)

// Handler управляет HTTP-запросами на поиск подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска подписок.
type Service interface {
	Discover(ctx context.Context, username string, opts models.DiscoveryOptions) ([]models.DiscoveredCandidate, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Найти подписки по списаниям
// @Description Ищет повторяющиеся списания по подключённым счетам и возвращает кандидатов.
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.DiscoveryOptions false "Источники поиска"
// @Success 200 {object} map[string]any "Найденные кандидаты"
// @Failure 400 {object} response.ErrorResponse "Не выбран ни один источник"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /discovery/run [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.discover"
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

	// По умолчанию включены оба источника.
	opts := models.DiscoveryOptions{IncludeBankData: true, IncludeEmailData: true}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&opts)
	}

	candidates, err := h.service.Discover(r.Context(), username, opts)
	if err != nil {
		log.Error("failed to discover subscriptions", sl.Err(err))
		if errors.Is(err, discoveryservice.ErrNoSources) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("at least one data source must be enabled"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not discover subscriptions"))
		return
	}

	log.Info("discovery finished", slog.Int("candidates", len(candidates)))
	render.JSON(w, r, response.OKWithData(candidates))
}
