// README: Conversation sessions (ordered chat turns per account) with an in-memory store.
package chat

import (
	"context"
	"sync"
	"time"

	"carebot/internal/types"
)

const Greeting = "Hello! How can I assist you today?"

// Turn is one immutable chat message.
type Turn struct {
	Text      string    `json:"text"`
	FromUser  bool      `json:"isFromUser"`
	Timestamp time.Time `json:"timestamp"`
}

type Session struct {
	AccountID types.ID `json:"accountId"`
	Turns     []Turn   `json:"turns"`
}

// NewSession returns a session holding only the greeting turn.
func NewSession(accountID types.ID, now time.Time) *Session {
	return &Session{
		AccountID: accountID,
		Turns:     []Turn{{Text: Greeting, FromUser: false, Timestamp: now}},
	}
}

// SessionStore keeps one conversation per account.
type SessionStore interface {
	Append(ctx context.Context, accountID types.ID, turns ...Turn) error
	// Load returns the stored conversation, or a fresh greeting-only session.
	Load(ctx context.Context, accountID types.ID) (*Session, error)
	Reset(ctx context.Context, accountID types.ID) error
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[types.ID][]Turn
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[types.ID][]Turn), now: time.Now}
}

func (m *MemorySessionStore) Append(_ context.Context, accountID types.ID, turns ...Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sessions[accountID]
	if !ok {
		existing = NewSession(accountID, m.now()).Turns
	}
	m.sessions[accountID] = append(existing, turns...)
	return nil
}

func (m *MemorySessionStore) Load(_ context.Context, accountID types.ID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	turns, ok := m.sessions[accountID]
	if !ok {
		return NewSession(accountID, m.now()), nil
	}
	return &Session{AccountID: accountID, Turns: append([]Turn(nil), turns...)}, nil
}

func (m *MemorySessionStore) Reset(_ context.Context, accountID types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accountID)
	return nil
}
