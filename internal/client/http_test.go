package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subzero-app/subzero/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHTTPTransport_LoginAndBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"data": map[string]any{
					"access_token": "tok123",
					"user":         map[string]any{"email": "demo@subzero.app"},
				},
			})
		case "/v1/subscriptions":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"data":   []any{},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL)
	resp, err := tr.Login(context.Background(), models.DummyLogin{Email: "demo@subzero.app", Password: "pass12345"})
	require.NoError(t, err)
	assert.Equal(t, "tok123", resp.AccessToken)

	tr.SetToken(resp.AccessToken)
	_, err = tr.GetSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestHTTPTransport_ServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "Error",
			"error":  "invalid credentials",
		})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL)
	_, err := tr.Login(context.Background(), models.DummyLogin{Email: "demo@subzero.app", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestHTTPTransport_NonJSONErrorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL)
	_, err := tr.GetAnalytics(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API request failed")
}

func TestClient_TokenLifecycle(t *testing.T) {
	dir := t.TempDir()
	tokens, err := NewFileTokenStore(dir)
	require.NoError(t, err)

	c := NewWithTransport(NewDemoTransport(0), tokens, newNoopLogger())

	_, err = c.Login(context.Background(), models.DummyLogin{Email: "demo@subzero.app", Password: "pass12345"})
	require.NoError(t, err)

	saved, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, DemoToken, saved)

	require.NoError(t, c.Logout())
	saved, err = tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}
