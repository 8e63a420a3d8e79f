// Package tokenstore keeps the single bearer token the client holds.
//
// Absence of a token is a valid state (anonymous). Stores never return
// errors: when the backing medium fails they log and behave as if no token
// were stored, so the client degrades to anonymous instead of failing.
package tokenstore

import (
	"context"
	"sync"
)

// Key is the name under which the token is persisted.
const Key = "accessToken"

// Store is the only component that touches persisted session state.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the token and true, or "" and false when none is stored.
	Get(ctx context.Context) (string, bool)
	// Set replaces any prior token. Setting "" clears the store.
	Set(ctx context.Context, token string)
	// Clear removes the token. Clearing an empty store is a no-op.
	Clear(ctx context.Context)
}

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(_ context.Context, token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}
