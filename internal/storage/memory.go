package storage

import (
	"context"
	"maps"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// MemoryStore keeps ledgers in process memory, one per user.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]core.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]map[string]core.Transaction)}
}

// ForUser returns the ledger.Store of one user.
func (m *MemoryStore) ForUser(userID string) ledger.Store {
	return &memoryUserStore{parent: m, userID: userID}
}

type memoryUserStore struct {
	parent *MemoryStore
	userID string
}

func (s *memoryUserStore) Load(context.Context) (map[string]core.Transaction, error) {
	s.parent.mu.RLock()
	defer s.parent.mu.RUnlock()
	txns := maps.Clone(s.parent.users[s.userID])
	if txns == nil {
		txns = map[string]core.Transaction{}
	}
	return txns, nil
}

func (s *memoryUserStore) Save(_ context.Context, txns map[string]core.Transaction) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.users[s.userID] = maps.Clone(txns)
	return nil
}
