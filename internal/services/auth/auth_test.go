package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subzero-app/subzero/internal/lib/jwt"
	"github.com/subzero-app/subzero/internal/lib/password"
	"github.com/subzero-app/subzero/internal/models"
)

// MockUsers реализует интерфейс UserRepository
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) UpdateUserProfile(ctx context.Context, email string, upd models.DummyProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, email, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestRegister_DefaultsToFreeTier(t *testing.T) {
	users := new(MockUsers)
	svc := NewAuthService(users, jwt.NewJWTMaker("secret", time.Hour))

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.SubscriptionTier == models.TierFree && u.Email == "new@subzero.com" && u.PasswordHash != ""
	})).Return("uid-1", nil)

	resp, err := svc.Register(context.Background(), models.DummyRegister{
		Email:    "new@subzero.com",
		Password: "password123",
		Name:     "New User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "uid-1", resp.User.UID)
	assert.True(t, resp.User.IsFree())
	users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hash, err := password.GetHash("password123")
	require.NoError(t, err)

	user := &models.User{
		UID:              "uid-1",
		Email:            "demo@subzero.com",
		Name:             "Demo User",
		PasswordHash:     hash,
		SubscriptionTier: models.TierPro,
	}

	tests := []struct {
		name     string
		email    string
		pass     string
		setup    func(*MockUsers)
		wantErr  string
	}{
		{
			name:  "успешный вход",
			email: "demo@subzero.com",
			pass:  "password123",
			setup: func(m *MockUsers) {
				m.On("GetUserByEmail", mock.Anything, "demo@subzero.com").Return(user, nil)
			},
		},
		{
			name:  "неверный пароль",
			email: "demo@subzero.com",
			pass:  "wrong",
			setup: func(m *MockUsers) {
				m.On("GetUserByEmail", mock.Anything, "demo@subzero.com").Return(user, nil)
			},
			wantErr: "invalid credentials",
		},
		{
			name:  "пользователь не найден",
			email: "ghost@subzero.com",
			pass:  "password123",
			setup: func(m *MockUsers) {
				m.On("GetUserByEmail", mock.Anything, "ghost@subzero.com").
					Return(nil, errors.New("sql: no rows in result set"))
			},
			wantErr: "invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUsers)
			tt.setup(users)
			maker := jwt.NewJWTMaker("secret", time.Hour)
			svc := NewAuthService(users, maker)

			resp, err := svc.Login(context.Background(), models.DummyLogin{Email: tt.email, Password: tt.pass})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			claims, err := maker.ParseToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "demo@subzero.com", claims.Email)
			assert.Equal(t, models.TierPro, claims.SubscriptionTier)
		})
	}
}
