package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subzero-app/subzero/internal/models"
)

func TestDemoTransport_LoginAcceptsAnyCredentials(t *testing.T) {
	tr := NewDemoTransport(0)

	resp, err := tr.Login(context.Background(), models.DummyLogin{
		Email:    "anyone@example.com",
		Password: "whatever",
	})
	require.NoError(t, err)
	assert.Equal(t, DemoToken, resp.AccessToken)
	assert.Equal(t, "anyone@example.com", resp.User.Email)
	assert.Equal(t, models.TierFree, resp.User.SubscriptionTier)
	assert.Equal(t, 3, resp.User.SubscriptionCount)
}

func TestDemoTransport_SeedDataset(t *testing.T) {
	tr := NewDemoTransport(0)

	subs, err := tr.GetSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 3)

	byName := map[string]models.Subscription{}
	for _, s := range subs {
		byName[s.Name] = s
	}
	assert.InDelta(t, 15.99, byName["Netflix Premium"].MonthlyAmount, 0.001)
	assert.InDelta(t, 191.88, byName["Netflix Premium"].YearlyAmount, 0.001)
	assert.InDelta(t, 9.99, byName["Spotify Premium"].MonthlyAmount, 0.001)
	assert.InDelta(t, 52.99, byName["Adobe Creative Cloud"].MonthlyAmount, 0.001)
	for _, s := range subs {
		assert.Equal(t, models.StatusActive, s.Status)
	}
}

func TestDemoTransport_CreateComputesYearlyAmount(t *testing.T) {
	tr := NewDemoTransport(0)

	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	sub, err := tr.CreateSubscription(context.Background(), models.DummySubscription{
		Name:            "iCloud+",
		Category:        "Cloud Storage",
		MonthlyAmount:   2.99,
		BillingCycle:    models.CycleWeekly,
		NextBillingDate: date,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.99*52, sub.YearlyAmount, 0.001)
	assert.NotEmpty(t, sub.ID)
	assert.Contains(t, models.Palette, sub.Color)

	subs, err := tr.GetSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 4)
}

func TestDemoTransport_DeleteRemovesExactly(t *testing.T) {
	tr := NewDemoTransport(0)

	require.NoError(t, tr.DeleteSubscription(context.Background(), "demo-spotify"))

	subs, err := tr.GetSubscriptions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	for _, s := range subs {
		assert.NotEqual(t, "demo-spotify", s.ID)
	}

	err = tr.DeleteSubscription(context.Background(), "missing-id")
	assert.Error(t, err)
}

func TestDemoTransport_CancelCreatesPendingRequest(t *testing.T) {
	tr := NewDemoTransport(0)

	cr, err := tr.CancelSubscription(context.Background(), "demo-netflix", "too expensive")
	require.NoError(t, err)
	assert.Equal(t, models.CancellationPending, cr.Status)
	assert.Equal(t, "demo-netflix", cr.SubscriptionID)
	assert.InDelta(t, 191.88, cr.AnnualSavings, 0.001)

	sub, err := tr.GetSubscription(context.Background(), "demo-netflix")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, sub.Status)

	list, err := tr.GetCancellations(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDemoTransport_DiscoverFiltersBySource(t *testing.T) {
	tr := NewDemoTransport(0)
	ctx := context.Background()

	tests := []struct {
		name      string
		opts      models.DiscoveryOptions
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "both sources",
			opts:      models.DiscoveryOptions{IncludeBankData: true, IncludeEmailData: true},
			wantNames: []string{"YouTube Premium", "Dropbox Plus", "The New York Times"},
		},
		{
			name:      "bank only",
			opts:      models.DiscoveryOptions{IncludeBankData: true},
			wantNames: []string{"YouTube Premium", "The New York Times"},
		},
		{
			name:      "email only",
			opts:      models.DiscoveryOptions{IncludeEmailData: true},
			wantNames: []string{"Dropbox Plus"},
		},
		{
			name:    "no sources",
			opts:    models.DiscoveryOptions{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.DiscoverSubscriptions(ctx, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.ElementsMatch(t, tt.wantNames, names)
		})
	}
}

func TestDemoTransport_AnalyticsCountsActiveOnly(t *testing.T) {
	tr := NewDemoTransport(0)
	ctx := context.Background()

	_, err := tr.CancelSubscription(ctx, "demo-adobe", "")
	require.NoError(t, err)

	a, err := tr.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, a.SubscriptionCount)
	assert.InDelta(t, 15.99+9.99, a.TotalMonthly, 0.001)
	require.NotEmpty(t, a.TopSubscriptions)
	assert.Equal(t, "Netflix Premium", a.TopSubscriptions[0].Name)
}

func TestDemoTransport_AnalyticsYearlyIsMonthlyTimesTwelve(t *testing.T) {
	tr := NewDemoTransport(0)
	ctx := context.Background()

	// Недельный цикл: yearly_amount записи (2.99 × 52) не совпадает
	// с месячной суммой за 12 месяцев — сводка должна брать второе.
	_, err := tr.CreateSubscription(ctx, models.DummySubscription{
		Name:            "Weekly Box",
		Category:        "Shopping",
		MonthlyAmount:   2.99,
		BillingCycle:    models.CycleWeekly,
		NextBillingDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	})
	require.NoError(t, err)

	a, err := tr.GetAnalytics(ctx)
	require.NoError(t, err)
	wantMonthly := 15.99 + 9.99 + 52.99 + 2.99
	assert.InDelta(t, wantMonthly, a.TotalMonthly, 0.001)
	assert.InDelta(t, wantMonthly*12, a.TotalYearly, 0.001)
}

func TestDemoTransport_DelayHonorsContext(t *testing.T) {
	tr := NewDemoTransport(200 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.GetSubscriptions(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
