package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/subzero-app/subzero/internal/models"
)

// CreateCancellation сохраняет новую заявку на отмену подписки.
func (s *Storage) CreateCancellation(ctx context.Context, req models.CancellationRequest) (*models.CancellationRequest, error) {
	const op = "storage.CreateCancellation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cancellation_requests (id, subscription_id, username, reason, status, annual_savings)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		req.ID, req.SubscriptionID, req.Username, req.Reason, req.Status,
		req.AnnualSavings).Scan(&req.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &req, nil
}

// ListCancellations возвращает заявки пользователя, новые первыми.
func (s *Storage) ListCancellations(ctx context.Context, username string) ([]models.CancellationRequest, error) {
	const op = "storage.ListCancellations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, username, reason, status, annual_savings, created_at, completed_at
			  FROM cancellation_requests
			  WHERE username = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var reqs []models.CancellationRequest
	for rows.Next() {
		var req models.CancellationRequest
		var completedAt sql.NullTime
		if err := rows.Scan(&req.ID, &req.SubscriptionID, &req.Username, &req.Reason,
			&req.Status, &req.AnnualSavings, &req.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if completedAt.Valid {
			req.CompletedAt = &completedAt.Time
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reqs, nil
}

// GetCancellation возвращает заявку по ID.
func (s *Storage) GetCancellation(ctx context.Context, id string) (*models.CancellationRequest, error) {
	const op = "storage.GetCancellation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, username, reason, status, annual_savings, created_at, completed_at
			  FROM cancellation_requests
			  WHERE id = $1`
	var req models.CancellationRequest
	var completedAt sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&req.ID, &req.SubscriptionID, &req.Username, &req.Reason,
		&req.Status, &req.AnnualSavings, &req.CreatedAt, &completedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if completedAt.Valid {
		req.CompletedAt = &completedAt.Time
	}
	return &req, nil
}

// SetCancellationStatus переводит заявку в новый статус. Для завершённых
// заявок фиксируется время завершения.
func (s *Storage) SetCancellationStatus(ctx context.Context, id, status string, completedAt *time.Time) (int, error) {
	const op = "storage.SetCancellationStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cancellation_requests SET status = $2, completed_at = $3 WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, status, completedAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountCancellationStats собирает сводную статистику по заявкам пользователя.
func (s *Storage) CountCancellationStats(ctx context.Context, username string) (*models.CancellationStats, error) {
	const op = "storage.CountCancellationStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*),
			      COUNT(*) FILTER (WHERE status = 'completed'),
			      COUNT(*) FILTER (WHERE status = 'pending'),
			      COALESCE(SUM(annual_savings) FILTER (WHERE status = 'completed'), 0)
			  FROM cancellation_requests
			  WHERE username = $1`
	var stats models.CancellationStats
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&stats.TotalRequests, &stats.CompletedRequests,
		&stats.PendingRequests, &stats.TotalAnnualSavings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if stats.TotalRequests > 0 {
		stats.SuccessRate = float64(stats.CompletedRequests) / float64(stats.TotalRequests) * 100
	}
	return &stats, nil
}
