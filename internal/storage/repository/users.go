package repository

import (
	"context"
	"fmt"

	"github.com/subzero-app/subzero/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, name, password_hash, subscription_tier)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.SubscriptionTier).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, name, password_hash, subscription_tier, created_at,
			      (SELECT COUNT(*) FROM subscriptions WHERE subscriptions.username = users.email)
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Email, &u.Name, &u.PasswordHash,
		&u.SubscriptionTier, &u.CreatedAt, &u.SubscriptionCount); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserProfile обновляет имя и тарифный план пользователя.
// Пустые значения оставляют текущие данные без изменений.
func (s *Storage) UpdateUserProfile(ctx context.Context, email string, upd models.DummyProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE(NULLIF($2, ''), name),
			      subscription_tier = COALESCE(NULLIF($3, ''), subscription_tier)
			  WHERE email = $1`
	if _, err := s.DB.ExecContext(ctx, query, email, upd.Name, upd.SubscriptionTier); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetUserByEmail(ctx, email)
}
