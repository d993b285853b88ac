package retry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/subzero-app/subzero/internal/http/middlewarectx"
	"github.com/subzero-app/subzero/internal/models"
	cancellationservice "github.com/subzero-app/subzero/internal/services/cancellation"
)

type CancellationServiceMock struct {
	mock.Mock
}

func (m *CancellationServiceMock) Retry(ctx context.Context, username, requestID string) (*models.CancellationRequest, error) {
	args := m.Called(ctx, username, requestID)
	cr, _ := args.Get(0).(*models.CancellationRequest)
	return cr, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRetryHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(CancellationServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		username       string
		requestID      string
		mockResp       *models.CancellationRequest
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:      "request returned to pending",
			username:  "demo@subzero.app",
			requestID: "cr-1",
			mockResp: &models.CancellationRequest{
				ID:             "cr-1",
				SubscriptionID: "demo-netflix",
				Status:         models.CancellationPending,
				AnnualSavings:  191.88,
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "unknown request id",
			username:       "demo@subzero.app",
			requestID:      "cr-missing",
			mockErr:        cancellationservice.ErrRequestNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "cancellation request not found",
			wantStatus:     "Error",
		},
		{
			name:           "missing user in context",
			username:       "",
			requestID:      "cr-1",
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
				serviceMock.On("Retry", mock.Anything, tt.username, tt.requestID).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/cancellations/"+tt.requestID+"/retry", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.username != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.username)
			}
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.requestID)
			ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
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
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.requestID, data["id"])
				assert.Equal(t, models.CancellationPending, data["status"])
			}

			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
