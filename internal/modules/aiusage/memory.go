package aiusage

import (
	"context"
	"sync"
)

// MemoryStore keeps allowance rows in process; same semantics as Store.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]*Usage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]*Usage)}
}

func (m *MemoryStore) UseToken(_ context.Context, accountID string, allowance int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[accountID]
	if !ok {
		return ErrInsufficientTokens
	}
	now := currentMonth()
	if u.LastResetMonth < now {
		u.TokensRemaining = allowance
		u.LastResetMonth = now
	}
	if u.TokensRemaining <= 0 {
		return ErrInsufficientTokens
	}
	u.TokensRemaining--
	return nil
}

func (m *MemoryStore) EnsureAccount(_ context.Context, accountID string, allowance int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[accountID]; !ok {
		m.rows[accountID] = &Usage{AccountID: accountID, TokensRemaining: allowance, LastResetMonth: currentMonth()}
	}
	return nil
}

func (m *MemoryStore) Refund(_ context.Context, accountID string, allowance int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[accountID]
	if ok && u.LastResetMonth == currentMonth() && u.TokensRemaining < allowance {
		u.TokensRemaining++
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, accountID string) (*Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[accountID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
