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

// MockCancellations реализует интерфейс CancellationRepository
type MockCancellations struct {
	mock.Mock
}

func (m *MockCancellations) CreateCancellation(ctx context.Context, req models.CancellationRequest) (*models.CancellationRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CancellationRequest), args.Error(1)
}

func (m *MockCancellations) ListCancellations(ctx context.Context, username string) ([]models.CancellationRequest, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CancellationRequest), args.Error(1)
}

func (m *MockCancellations) GetCancellation(ctx context.Context, id string) (*models.CancellationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CancellationRequest), args.Error(1)
}

func (m *MockCancellations) SetCancellationStatus(ctx context.Context, id, status string, completedAt *time.Time) (int, error) {
	args := m.Called(ctx, id, status, completedAt)
	return args.Int(0), args.Error(1)
}

func (m *MockCancellations) CountCancellationStats(ctx context.Context, username string) (*models.CancellationStats, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CancellationStats), args.Error(1)
}

// MockSubs реализует интерфейс SubscriptionReader
type MockSubs struct {
	mock.Mock
}

func (m *MockSubs) ReadSubscription(ctx context.Context, username, id string) (*models.Subscription, error) {
	args := m.Called(ctx, username, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubs) SetSubscriptionStatus(ctx context.Context, username, id, status string) (int, error) {
	args := m.Called(ctx, username, id, status)
	return args.Int(0), args.Error(1)
}

// MockPublisher реализует интерфейс Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(event models.CancellationEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newTestCancellation(repo *MockCancellations, subs *MockSubs, pub *MockPublisher) *CancellationService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewCancellationService(repo, subs, pub, logger)
	svc.now = func() time.Time { return time.Date(2024, 7, 7, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRequest(t *testing.T) {
	repo := new(MockCancellations)
	subs := new(MockSubs)
	pub := new(MockPublisher)
	svc := newTestCancellation(repo, subs, pub)

	subs.On("ReadSubscription", mock.Anything, "demo@subzero.com", "sub-1").Return(&models.Subscription{
		ID:           "sub-1",
		Name:         "Netflix",
		YearlyAmount: 191.88,
		Status:       models.StatusActive,
	}, nil)
	repo.On("CreateCancellation", mock.Anything, mock.MatchedBy(func(req models.CancellationRequest) bool {
		return req.SubscriptionID == "sub-1" &&
			req.Status == models.CancellationPending &&
			req.AnnualSavings == 191.88 &&
			req.Reason == "too expensive"
	})).Return(&models.CancellationRequest{ID: "req-1", SubscriptionID: "sub-1", Status: models.CancellationPending}, nil)
	subs.On("SetSubscriptionStatus", mock.Anything, "demo@subzero.com", "sub-1", models.StatusCancelled).Return(1, nil)
	pub.On("Publish", mock.MatchedBy(func(event models.CancellationEvent) bool {
		return event.RequestID == "req-1" && event.SubscriptionID == "sub-1"
	})).Return(nil)

	req, err := svc.Request(context.Background(), "demo@subzero.com", "sub-1", "too expensive")
	require.NoError(t, err)
	assert.Equal(t, models.CancellationPending, req.Status)

	repo.AssertExpectations(t)
	subs.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestRetry_WrongOwner(t *testing.T) {
	repo := new(MockCancellations)
	svc := newTestCancellation(repo, new(MockSubs), new(MockPublisher))

	repo.On("GetCancellation", mock.Anything, "req-1").Return(&models.CancellationRequest{
		ID:       "req-1",
		Username: "someone-else@subzero.com",
	}, nil)

	_, err := svc.Retry(context.Background(), "demo@subzero.com", "req-1")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestComplete(t *testing.T) {
	repo := new(MockCancellations)
	svc := newTestCancellation(repo, new(MockSubs), new(MockPublisher))

	repo.On("SetCancellationStatus", mock.Anything, "req-1", models.CancellationCompleted,
		mock.AnythingOfType("*time.Time")).Return(1, nil)

	require.NoError(t, svc.Complete(context.Background(), "req-1"))
	repo.AssertExpectations(t)
}

func TestComplete_NotFound(t *testing.T) {
	repo := new(MockCancellations)
	svc := newTestCancellation(repo, new(MockSubs), new(MockPublisher))

	repo.On("SetCancellationStatus", mock.Anything, "ghost", models.CancellationCompleted,
		mock.AnythingOfType("*time.Time")).Return(0, nil)

	assert.ErrorIs(t, svc.Complete(context.Background(), "ghost"), ErrRequestNotFound)
}
