package aiusage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var currentMonth = func() string { return monthOf(time.Now()) }

// Store handles ai_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseToken atomically checks the monthly quota and deducts one token.
// It resets the counter to allowance when last_reset_month is behind the current month.
// Returns ErrInsufficientTokens when 0 rows are updated (quota exhausted or account absent).
func (s *Store) UseToken(ctx context.Context, accountID string, allowance int) error {
	now := currentMonth()

	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE account_id = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, now, allowance, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureAccount inserts a new ai_usage row with the full allowance.
// If the row already exists the insert is silently skipped (ON CONFLICT DO NOTHING).
func (s *Store) EnsureAccount(ctx context.Context, accountID string, allowance int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (account_id, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO NOTHING
	`, accountID, allowance, currentMonth())
	return err
}

// Refund gives back one token in the current month, never above allowance.
// Rows from an earlier month are left alone: the next UseToken resets them anyway.
func (s *Store) Refund(ctx context.Context, accountID string, allowance int) error {
	_, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET tokens_remaining = tokens_remaining + 1
		WHERE account_id = $1 AND last_reset_month = $2 AND tokens_remaining < $3
	`, accountID, currentMonth(), allowance)
	return err
}

func (s *Store) Get(ctx context.Context, accountID string) (*Usage, error) {
	u := Usage{AccountID: accountID}
	err := s.db.QueryRow(ctx, `
		SELECT tokens_remaining, last_reset_month FROM ai_usage WHERE account_id = $1
	`, accountID).Scan(&u.TokensRemaining, &u.LastResetMonth)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
