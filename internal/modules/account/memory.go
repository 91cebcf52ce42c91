// README: In-memory account store used for local runs, demos and tests.
package account

import (
	"context"
	"sync"

	"carebot/internal/types"
)

type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[types.ID]*Account
}

func NewMemoryStore(seed ...Account) *MemoryStore {
	m := &MemoryStore{accounts: make(map[types.ID]*Account, len(seed))}
	for i := range seed {
		m.accounts[seed[i].ID] = seed[i].clone()
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, id types.ID) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a.clone(), nil
}

func (m *MemoryStore) AddOrder(_ context.Context, accountID types.ID, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	a.Orders = append(a.Orders, *o)
	return nil
}
