package middlewarectx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/subzero-app/subzero/internal/lib/jwt"
)

// MockParser реализует интерфейс TokenParser
type MockParser struct {
	mock.Mock
}

func (m *MockParser) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockParser)
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "нет заголовка Authorization",
			authHeader:     "",
			setupMock:      func(_ *MockParser) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "заголовок без префикса Bearer",
			authHeader:     "Token abc",
			setupMock:      func(_ *MockParser) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "невалидный токен",
			authHeader: "Bearer bad-token",
			setupMock: func(m *MockParser) {
				m.On("ParseToken", "bad-token").Return(nil, errors.New("invalid token"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "валидный токен",
			authHeader: "Bearer good-token",
			setupMock: func(m *MockParser) {
				m.On("ParseToken", "good-token").Return(&jwt.CustomClaims{
					Email:            "demo@subzero.com",
					SubscriptionTier: "free",
					UserUID:          "uid-1",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(MockParser)
			tt.setupMock(parser)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "demo@subzero.com", r.Context().Value(User))
				assert.Equal(t, "free", r.Context().Value(Tier))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			JWTMiddleware(parser, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			parser.AssertExpectations(t)
		})
	}
}
