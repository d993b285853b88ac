package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/subzero-app/subzero/internal/models"
)

// HTTPTransport выполняет реальные вызовы REST API SubZero.
// Все ответы сервера приходят в конверте {status, error, data}.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPTransport создаёт транспорт live-режима для переданного адреса API.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken сохраняет токен доступа для заголовка Authorization.
func (t *HTTPTransport) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

// envelope — стандартный конверт ответа сервера.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (t *HTTPTransport) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	t.mu.RLock()
	token := t.token
	t.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do выполняет запрос, разворачивает конверт и декодирует data в out.
// Сообщение об ошибке берётся из конверта, если сервер его прислал.
func (t *HTTPTransport) do(req *http.Request, out any) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return errors.New("API request failed: " + resp.Status)
		}
		return err
	}
	if resp.StatusCode >= 400 || env.Status == "Error" {
		if env.Error != "" {
			return errors.New(env.Error)
		}
		return errors.New("API request failed: " + resp.Status)
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (t *HTTPTransport) Register(ctx context.Context, req models.DummyRegister) (*models.AuthResponse, error) {
	r, err := t.newRequest(ctx, http.MethodPost, "/v1/auth/register", req)
	if err != nil {
		return nil, err
	}
	var out models.AuthResponse
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) Login(ctx context.Context, req models.DummyLogin) (*models.AuthResponse, error) {
	r, err := t.newRequest(ctx, http.MethodPost, "/v1/auth/login", req)
	if err != nil {
		return nil, err
	}
	var out models.AuthResponse
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) GetProfile(ctx context.Context) (*models.User, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	var out models.User
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) UpdateProfile(ctx context.Context, req models.DummyProfileUpdate) (*models.User, error) {
	r, err := t.newRequest(ctx, http.MethodPut, "/v1/auth/profile", req)
	if err != nil {
		return nil, err
	}
	var out models.User
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) GetSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/subscriptions", nil)
	if err != nil {
		return nil, err
	}
	var out []models.Subscription
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/subscriptions/"+id, nil)
	if err != nil {
		return nil, err
	}
	var out models.Subscription
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) CreateSubscription(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	r, err := t.newRequest(ctx, http.MethodPost, "/v1/subscriptions", req)
	if err != nil {
		return nil, err
	}
	var out models.Subscription
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) UpdateSubscription(ctx context.Context, id string, req models.DummySubscription) error {
	r, err := t.newRequest(ctx, http.MethodPut, "/v1/subscriptions/"+id, req)
	if err != nil {
		return err
	}
	return t.do(r, nil)
}

func (t *HTTPTransport) DeleteSubscription(ctx context.Context, id string) error {
	r, err := t.newRequest(ctx, http.MethodDelete, "/v1/subscriptions/"+id, nil)
	if err != nil {
		return err
	}
	return t.do(r, nil)
}

func (t *HTTPTransport) CancelSubscription(ctx context.Context, id, reason string) (*models.CancellationRequest, error) {
	r, err := t.newRequest(ctx, http.MethodPost,
		fmt.Sprintf("/v1/subscriptions/%s/cancel", id), models.DummyCancel{Reason: reason})
	if err != nil {
		return nil, err
	}
	var out models.CancellationRequest
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) GetCategories(ctx context.Context) ([]models.Category, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/subscriptions/categories", nil)
	if err != nil {
		return nil, err
	}
	var out []models.Category
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) GetAnalytics(ctx context.Context) (*models.Analytics, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/subscriptions/analytics", nil)
	if err != nil {
		return nil, err
	}
	var out models.Analytics
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) GetUpcomingBills(ctx context.Context) ([]models.UpcomingBill, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/subscriptions/bills", nil)
	if err != nil {
		return nil, err
	}
	var out []models.UpcomingBill
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) LinkAccount(ctx context.Context, req models.DummyLinkAccount) (*models.LinkedAccount, error) {
	r, err := t.newRequest(ctx, http.MethodPost, "/v1/accounts/link", req)
	if err != nil {
		return nil, err
	}
	var out models.LinkedAccount
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) GetAccounts(ctx context.Context) ([]models.LinkedAccount, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/accounts", nil)
	if err != nil {
		return nil, err
	}
	var out []models.LinkedAccount
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) DiscoverSubscriptions(ctx context.Context, opts models.DiscoveryOptions) ([]models.DiscoveredCandidate, error) {
	r, err := t.newRequest(ctx, http.MethodPost, "/v1/discovery/run", opts)
	if err != nil {
		return nil, err
	}
	var out []models.DiscoveredCandidate
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) GetCancellations(ctx context.Context) ([]models.CancellationRequest, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/cancellations", nil)
	if err != nil {
		return nil, err
	}
	var out []models.CancellationRequest
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) GetCancellationStats(ctx context.Context) (*models.CancellationStats, error) {
	r, err := t.newRequest(ctx, http.MethodGet, "/v1/cancellations/stats", nil)
	if err != nil {
		return nil, err
	}
	var out models.CancellationStats
	if err := t.do(r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
