package repository

import (
	"context"
	"fmt"

	"github.com/subzero-app/subzero/internal/models"
)

const subscriptionColumns = `id, name, category, monthly_amount, yearly_amount,
	billing_cycle, next_billing_date, description, website, status, color,
	discovered_via, username, created_at`

// CreateSubscription вставляет новую подписку и возвращает её вместе с ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, name, category, monthly_amount, yearly_amount,
			      billing_cycle, next_billing_date, description, website, status, color,
			      discovered_via, username)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.Name, sub.Category, sub.MonthlyAmount, sub.YearlyAmount,
		sub.BillingCycle, sub.NextBillingDate, sub.Description, sub.Website,
		sub.Status, sub.Color, sub.DiscoveredVia, sub.Username).Scan(&sub.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ListSubscriptions возвращает все подписки пользователя в порядке создания.
func (s *Storage) ListSubscriptions(ctx context.Context, username string) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE username = $1
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Category, &sub.MonthlyAmount,
			&sub.YearlyAmount, &sub.BillingCycle, &sub.NextBillingDate, &sub.Description,
			&sub.Website, &sub.Status, &sub.Color, &sub.DiscoveredVia, &sub.Username,
			&sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// ReadSubscription возвращает подписку пользователя по ID.
func (s *Storage) ReadSubscription(ctx context.Context, username, id string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE username = $1 AND id = $2`
	var sub models.Subscription
	row := s.DB.QueryRowContext(ctx, query, username, id)
	if err := row.Scan(&sub.ID, &sub.Name, &sub.Category, &sub.MonthlyAmount,
		&sub.YearlyAmount, &sub.BillingCycle, &sub.NextBillingDate, &sub.Description,
		&sub.Website, &sub.Status, &sub.Color, &sub.DiscoveredVia, &sub.Username,
		&sub.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// UpdateSubscription обновляет данные подписки по ID и возвращает число затронутых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $3, category = $4, monthly_amount = $5, yearly_amount = $6,
			      billing_cycle = $7, next_billing_date = $8, description = $9,
			      website = $10, status = $11, color = $12
			  WHERE username = $1 AND id = $2`
	result, err := s.DB.ExecContext(ctx, query,
		sub.Username, sub.ID, sub.Name, sub.Category, sub.MonthlyAmount, sub.YearlyAmount,
		sub.BillingCycle, sub.NextBillingDate, sub.Description, sub.Website,
		sub.Status, sub.Color)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, username, id string) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE username = $1 AND id = $2`
	result, err := s.DB.ExecContext(ctx, query, username, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetSubscriptionStatus переводит подписку в новый статус.
func (s *Storage) SetSubscriptionStatus(ctx context.Context, username, id, status string) (int, error) {
	const op = "storage.SetSubscriptionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET status = $3 WHERE username = $1 AND id = $2`
	result, err := s.DB.ExecContext(ctx, query, username, id, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
