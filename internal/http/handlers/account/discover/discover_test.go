package discover

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/models"
	discoveryservice "github.com/subzero-app/subzero/internal/services/discovery"
)

type DiscoveryServiceMock struct {
	mock.Mock
}

func (m *DiscoveryServiceMock) Discover(ctx context.Context, username string, opts models.DiscoveryOptions) ([]models.DiscoveredCandidate, error) {
	args := m.Called(ctx, username, opts)
	candidates, _ := args.Get(0).([]models.DiscoveredCandidate)
	return candidates, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDiscoverHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(DiscoveryServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	candidates := []models.DiscoveredCandidate{
		{
			Name:          "YouTube Premium",
			Category:      "Entertainment",
			MonthlyAmount: 11.99,
			Source:        models.SourceBank,
			Confidence:    "High",
			LastCharge:    time.Now(),
		},
	}

	tests := []struct {
		name           string
		username       string
		requestBody    interface{}
		mockOpts       models.DiscoveryOptions
		mockResp       []models.DiscoveredCandidate
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "bank only returns candidates",
			username:       "demo@subzero.app",
			requestBody:    models.DiscoveryOptions{IncludeBankData: true},
			mockOpts:       models.DiscoveryOptions{IncludeBankData: true},
			mockResp:       candidates,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "empty body defaults to both sources",
			username:       "demo@subzero.app",
			requestBody:    nil,
			mockOpts:       models.DiscoveryOptions{IncludeBankData: true, IncludeEmailData: true},
			mockResp:       candidates,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "no sources selected",
			username:       "demo@subzero.app",
			requestBody:    models.DiscoveryOptions{},
			mockOpts:       models.DiscoveryOptions{},
			mockErr:        discoveryservice.ErrNoSources,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "at least one data source must be enabled",
			wantStatus:     "Error",
		},
		{
			name:           "missing user in context",
			username:       "",
			requestBody:    models.DiscoveryOptions{IncludeBankData: true},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.On("Discover", mock.Anything, tt.username, tt.mockOpts).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			var body io.Reader
			if tt.requestBody != nil {
				bodyBytes, err := json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
				body = bytes.NewReader(bodyBytes)
			} else {
				body = bytes.NewReader(nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/discovery/run", body)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.username != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.username)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].([]any)
				assert.True(t, ok)
				assert.Len(t, data, len(tt.mockResp))
			}

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
