package client

import (
	"context"
	"log/slog"

	"github.com/subzero-app/subzero/internal/config"
	"github.com/subzero-app/subzero/internal/models"
)

// Client оборачивает Transport и управляет жизненным циклом токена:
// сохраняет его при входе и регистрации, восстанавливает при старте
// и удаляет при выходе. Остальные операции делегируются транспорту.
type Client struct {
	Transport
	tokens TokenStore
	log    *slog.Logger
}

// New собирает клиент по конфигурации: demo-режим работает на встроенных
// данных, любой другой — через HTTP. Сохранённый токен, если он есть,
// сразу передаётся транспорту.
func New(cfg config.Client, log *slog.Logger) (*Client, error) {
	var transport Transport
	if cfg.Mode == "demo" {
		transport = NewDemoTransport(cfg.DemoDelay)
	} else {
		transport = NewHTTPTransport(cfg.BaseURL)
	}

	tokens, err := NewFileTokenStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	c := &Client{Transport: transport, tokens: tokens, log: log}
	if token, err := tokens.Load(); err == nil && token != "" {
		transport.SetToken(token)
	}
	return c, nil
}

// NewWithTransport собирает клиент поверх готового транспорта. Используется
// в тестах и там, где транспорт конфигурируется отдельно.
func NewWithTransport(transport Transport, tokens TokenStore, log *slog.Logger) *Client {
	return &Client{Transport: transport, tokens: tokens, log: log}
}

// Login выполняет вход и сохраняет полученный токен.
func (c *Client) Login(ctx context.Context, req models.DummyLogin) (*models.AuthResponse, error) {
	resp, err := c.Transport.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	c.storeToken(resp.AccessToken)
	return resp, nil
}

// Register регистрирует пользователя и сохраняет полученный токен.
func (c *Client) Register(ctx context.Context, req models.DummyRegister) (*models.AuthResponse, error) {
	resp, err := c.Transport.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	c.storeToken(resp.AccessToken)
	return resp, nil
}

// Logout сбрасывает токен в транспорте и удаляет его с диска.
func (c *Client) Logout() error {
	c.Transport.SetToken("")
	return c.tokens.Clear()
}

func (c *Client) storeToken(token string) {
	c.Transport.SetToken(token)
	if err := c.tokens.Save(token); err != nil {
		c.log.Warn("failed to persist access token", slog.Any("err", err))
	}
}
