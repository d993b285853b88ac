package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/subzero-app/subzero/internal/models"
)

// MockAccounts реализует интерфейс AccountRepository
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) LinkAccount(ctx context.Context, acc models.LinkedAccount) (*models.LinkedAccount, error) {
	args := m.Called(ctx, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LinkedAccount), args.Error(1)
}

func (m *MockAccounts) ListAccounts(ctx context.Context, username string) ([]models.LinkedAccount, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LinkedAccount), args.Error(1)
}

func (m *MockAccounts) MarkAccountSynced(ctx context.Context, username, id string, syncedAt time.Time) (int, error) {
	args := m.Called(ctx, username, id, syncedAt)
	return args.Int(0), args.Error(1)
}

func (m *MockAccounts) AddTransaction(ctx context.Context, tx models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccounts) ListTransactions(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func newTestDiscovery(repo *MockAccounts) *DiscoveryService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewDiscoveryService(repo, logger)
	svc.now = func() time.Time { return time.Date(2024, 7, 7, 0, 0, 0, 0, time.UTC) }
	return svc
}

func charge(account, merchant string, amount float64, day int) models.Transaction {
	return models.Transaction{
		ID:        merchant + "-" + time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC).String(),
		AccountID: account,
		Merchant:  merchant,
		Amount:    amount,
		ChargedAt: time.Date(2024, time.Month(day%6+1), 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestDiscover_NoSources(t *testing.T) {
	svc := newTestDiscovery(new(MockAccounts))

	_, err := svc.Discover(context.Background(), "demo@subzero.com", models.DiscoveryOptions{})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestDiscover_RecurringChargesOnly(t *testing.T) {
	repo := new(MockAccounts)
	svc := newTestDiscovery(repo)

	repo.On("ListAccounts", mock.Anything, "demo@subzero.com").Return([]models.LinkedAccount{
		{ID: "acc-bank", Kind: models.AccountKindBank},
		{ID: "acc-email", Kind: models.AccountKindEmail},
	}, nil)
	repo.On("ListTransactions", mock.Anything, "acc-bank", 500).Return([]models.Transaction{
		charge("acc-bank", "YouTube Premium", 11.99, 1),
		charge("acc-bank", "YouTube Premium", 11.99, 2),
		charge("acc-bank", "YouTube Premium", 11.99, 3),
		charge("acc-bank", "The New York Times", 4.25, 1),
		charge("acc-bank", "The New York Times", 4.25, 2),
		charge("acc-bank", "Corner Cafe", 7.40, 1),
	}, nil)

	candidates, err := svc.Discover(context.Background(), "demo@subzero.com", models.DiscoveryOptions{
		IncludeBankData: true,
	})
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, "YouTube Premium", candidates[0].Name)
	assert.Equal(t, models.ConfidenceHigh, candidates[0].Confidence)
	assert.Equal(t, models.SourceBank, candidates[0].Source)
	assert.Equal(t, "Entertainment", candidates[0].Category)
	assert.Equal(t, "bank", candidates[0].DiscoveredVia())

	assert.Equal(t, "The New York Times", candidates[1].Name)
	assert.Equal(t, models.ConfidenceMedium, candidates[1].Confidence)
	assert.Equal(t, "News", candidates[1].Category)

	repo.AssertNotCalled(t, "ListTransactions", mock.Anything, "acc-email", mock.Anything)
}

func TestDiscover_EmailSource(t *testing.T) {
	repo := new(MockAccounts)
	svc := newTestDiscovery(repo)

	repo.On("ListAccounts", mock.Anything, "demo@subzero.com").Return([]models.LinkedAccount{
		{ID: "acc-email", Kind: models.AccountKindEmail},
	}, nil)
	repo.On("ListTransactions", mock.Anything, "acc-email", 500).Return([]models.Transaction{
		charge("acc-email", "Dropbox Plus", 9.99, 1),
		charge("acc-email", "Dropbox Plus", 9.99, 2),
	}, nil)

	candidates, err := svc.Discover(context.Background(), "demo@subzero.com", models.DiscoveryOptions{
		IncludeEmailData: true,
	})
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, models.SourceEmail, candidates[0].Source)
	assert.Equal(t, "email", candidates[0].DiscoveredVia())
	assert.Equal(t, "Cloud Storage", candidates[0].Category)
}

func TestSyncAccount_SeedsEmptyAccount(t *testing.T) {
	repo := new(MockAccounts)
	svc := newTestDiscovery(repo)

	repo.On("ListAccounts", mock.Anything, "demo@subzero.com").Return([]models.LinkedAccount{
		{ID: "acc-bank", Kind: models.AccountKindBank},
	}, nil)
	repo.On("ListTransactions", mock.Anything, "acc-bank", 1).Return([]models.Transaction(nil), nil)
	repo.On("AddTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("MarkAccountSynced", mock.Anything, "demo@subzero.com", "acc-bank", mock.Anything).Return(1, nil)

	acc, err := svc.SyncAccount(context.Background(), "demo@subzero.com", "acc-bank")
	require.NoError(t, err)
	require.NotNil(t, acc.LastSynced)

	// 3 списания YouTube Premium + 2 списания The New York Times
	repo.AssertNumberOfCalls(t, "AddTransaction", 5)
}

func TestSyncAccount_NotFound(t *testing.T) {
	repo := new(MockAccounts)
	svc := newTestDiscovery(repo)

	repo.On("ListAccounts", mock.Anything, "demo@subzero.com").Return([]models.LinkedAccount{}, nil)

	_, err := svc.SyncAccount(context.Background(), "demo@subzero.com", "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
