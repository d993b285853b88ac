package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subzero-app/subzero/internal/models"
)

func TestStorage_ListSubscriptions(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		wantCount int
		setup     func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:      "subscriptions of one user only",
			username:  "alice@example.com",
			wantCount: 2,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "alice@example.com", "Alice", models.TierFree)
				factory.CreateUser(t, "bob@example.com", "Bob", models.TierFree)
				factory.CreateSubscription(t, "alice@example.com", "Netflix Premium", "Entertainment", 15.99, models.StatusActive)
				factory.CreateSubscription(t, "alice@example.com", "Spotify Premium", "Entertainment", 9.99, models.StatusActive)
				factory.CreateSubscription(t, "bob@example.com", "Dropbox Plus", "Cloud Storage", 9.99, models.StatusActive)
			},
		},
		{
			name:      "non-existing user",
			username:  "nobody@example.com",
			wantCount: 0,
			setup:     func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.ListSubscriptions(context.Background(), tt.username)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)
		})
	}
}

func TestStorage_SubscriptionLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "alice@example.com", "Alice", models.TierFree)

	sub := models.Subscription{
		ID:              "sub-1",
		Name:            "Netflix Premium",
		Category:        "Entertainment",
		MonthlyAmount:   15.99,
		YearlyAmount:    191.88,
		BillingCycle:    models.CycleMonthly,
		NextBillingDate: time.Now().AddDate(0, 0, 8),
		Status:          models.StatusActive,
		Color:           "#E50914",
		Username:        "alice@example.com",
	}

	created, err := storage.CreateSubscription(ctx, sub)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := storage.ReadSubscription(ctx, "alice@example.com", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "Netflix Premium", got.Name)
	assert.InDelta(t, 191.88, got.YearlyAmount, 0.001)

	// Чужая подписка не читается.
	_, err = storage.ReadSubscription(ctx, "bob@example.com", "sub-1")
	assert.Error(t, err)

	sub.MonthlyAmount = 20
	sub.YearlyAmount = 240
	rows, err := storage.UpdateSubscription(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	rows, err = storage.SetSubscriptionStatus(ctx, "alice@example.com", "sub-1", models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	got, err = storage.ReadSubscription(ctx, "alice@example.com", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	rows, err = storage.RemoveSubscription(ctx, "alice@example.com", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	list, err := storage.ListSubscriptions(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStorage_GetUserByEmailCountsSubscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "alice@example.com", "Alice", models.TierFree)
	factory.CreateSubscription(t, "alice@example.com", "Netflix Premium", "Entertainment", 15.99, models.StatusActive)
	factory.CreateSubscription(t, "alice@example.com", "Spotify Premium", "Entertainment", 9.99, models.StatusActive)

	user, err := storage.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, models.TierFree, user.SubscriptionTier)
	assert.Equal(t, 2, user.SubscriptionCount)
}

func TestStorage_TransactionsAndAccounts(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "alice@example.com", "Alice", models.TierFree)
	accountID := factory.CreateAccount(t, "alice@example.com", models.AccountKindBank)

	for i := range 3 {
		err := storage.AddTransaction(ctx, models.Transaction{
			ID:        "tx-" + string(rune('a'+i)),
			AccountID: accountID,
			Merchant:  "YouTube Premium",
			Amount:    11.99,
			ChargedAt: time.Now().AddDate(0, -i, 0),
		})
		require.NoError(t, err)
	}

	txs, err := storage.ListTransactions(ctx, accountID, 10)
	require.NoError(t, err)
	assert.Len(t, txs, 3)

	syncedAt := time.Now()
	rows, err := storage.MarkAccountSynced(ctx, "alice@example.com", accountID, syncedAt)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	accounts, err := storage.ListAccounts(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.NotNil(t, accounts[0].LastSynced)
}

func TestStorage_CancellationStats(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "alice@example.com", "Alice", models.TierFree)

	_, err := storage.CreateCancellation(ctx, models.CancellationRequest{
		ID: "cr-1", SubscriptionID: "sub-1", Username: "alice@example.com",
		Status: models.CancellationCompleted, AnnualSavings: 191.88, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = storage.CreateCancellation(ctx, models.CancellationRequest{
		ID: "cr-2", SubscriptionID: "sub-2", Username: "alice@example.com",
		Status: models.CancellationPending, AnnualSavings: 119.88, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	stats, err := storage.CountCancellationStats(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRequests)
	assert.Equal(t, 1, stats.CompletedRequests)
	assert.Equal(t, 1, stats.PendingRequests)
	assert.InDelta(t, 50.0, stats.SuccessRate, 0.001)
	assert.InDelta(t, 191.88, stats.TotalAnnualSavings, 0.001)
}
