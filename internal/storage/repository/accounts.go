package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/subzero-app/subzero/internal/models"
)

// LinkAccount сохраняет подключённый счёт и возвращает его с заполненным ID.
func (s *Storage) LinkAccount(ctx context.Context, acc models.LinkedAccount) (*models.LinkedAccount, error) {
	const op = "storage.LinkAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO linked_accounts (id, username, kind, provider, label)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		acc.ID, acc.Username, acc.Kind, acc.Provider, acc.Label).Scan(&acc.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &acc, nil
}

// ListAccounts возвращает подключённые счета пользователя.
func (s *Storage) ListAccounts(ctx context.Context, username string) ([]models.LinkedAccount, error) {
	const op = "storage.ListAccounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, kind, provider, label, last_synced, created_at
			  FROM linked_accounts
			  WHERE username = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var accs []models.LinkedAccount
	for rows.Next() {
		var acc models.LinkedAccount
		var lastSynced sql.NullTime
		if err := rows.Scan(&acc.ID, &acc.Username, &acc.Kind, &acc.Provider,
			&acc.Label, &lastSynced, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if lastSynced.Valid {
			acc.LastSynced = &lastSynced.Time
		}
		accs = append(accs, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return accs, nil
}

// MarkAccountSynced обновляет время последней синхронизации счёта.
func (s *Storage) MarkAccountSynced(ctx context.Context, username, id string, syncedAt time.Time) (int, error) {
	const op = "storage.MarkAccountSynced"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE linked_accounts SET last_synced = $3 WHERE username = $1 AND id = $2`
	result, err := s.DB.ExecContext(ctx, query, username, id, syncedAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AddTransaction сохраняет списание по счёту.
func (s *Storage) AddTransaction(ctx context.Context, tx models.Transaction) error {
	const op = "storage.AddTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO transactions (id, account_id, merchant, amount, charged_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		tx.ID, tx.AccountID, tx.Merchant, tx.Amount, tx.ChargedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTransactions возвращает списания по счёту, новые первыми.
func (s *Storage) ListTransactions(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, account_id, merchant, amount, charged_at
			  FROM transactions
			  WHERE account_id = $1
			  ORDER BY charged_at DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Merchant, &tx.Amount, &tx.ChargedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return txs, nil
}
