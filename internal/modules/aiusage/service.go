// README: Allowance service; the chat pipeline spends one token per generated reply.
package aiusage

import (
	"context"
	"errors"
)

// Repository persists allowance rows.
type Repository interface {
	UseToken(ctx context.Context, accountID string, allowance int) error
	EnsureAccount(ctx context.Context, accountID string, allowance int) error
	Refund(ctx context.Context, accountID string, allowance int) error
	Get(ctx context.Context, accountID string) (*Usage, error)
}

// Service orchestrates AI token-usage logic.
type Service struct {
	store     Repository
	allowance int
}

// NewService creates a Service granting allowance replies per month (DefaultTokens when <= 0).
func NewService(store Repository, allowance int) *Service {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &Service{store: store, allowance: allowance}
}

// UseToken deducts one token from the account's monthly allowance.
// If the row does not exist yet it is initialised and the token is immediately consumed.
func (s *Service) UseToken(ctx context.Context, accountID string) error {
	err := s.store.UseToken(ctx, accountID, s.allowance)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureAccount(ctx, accountID, s.allowance); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, accountID, s.allowance)
}

// Refund returns one token spent by UseToken, for a call that produced nothing.
func (s *Service) Refund(ctx context.Context, accountID string) error {
	return s.store.Refund(ctx, accountID, s.allowance)
}

// Remaining reports the allowance left this month; unknown accounts have the full allowance.
func (s *Service) Remaining(ctx context.Context, accountID string) (int, error) {
	u, err := s.store.Get(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if u == nil || u.LastResetMonth < currentMonth() {
		return s.allowance, nil
	}
	return u.TokensRemaining, nil
}
