// Package throttle limits failed sign-in attempts per key (the lower-cased
// email). Counters expire a fixed window after the first failure.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Limiter counts failures per key.
type Limiter interface {
	// Allow reports whether another attempt is permitted for key.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt.
	Fail(ctx context.Context, key string) error
	// Reset forgets key, typically after a successful attempt.
	Reset(ctx context.Context, key string) error
}

type window struct {
	count   int
	expires time.Time
}

// Memory is an in-process Limiter for single-instance deployments.
//
// Allow and Fail are separate steps, so concurrent attempts for one key may
// all pass Allow and overshoot max by the number in flight.
type Memory struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	keys   map[string]window
	now    func() time.Time
}

func NewMemory(maxAttempts int, w time.Duration) *Memory {
	return &Memory{max: maxAttempts, window: w, keys: make(map[string]window), now: time.Now}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current(key).count < m.max, nil
}

func (m *Memory) Fail(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	w := m.keys[key]
	if w.count == 0 {
		w.expires = m.now().Add(m.window)
	}
	w.count++
	m.keys[key] = w
	return nil
}

func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.keys, key)
	m.mu.Unlock()
	return nil
}

// sweep drops every expired window so one-off keys do not accumulate.
func (m *Memory) sweep() {
	now := m.now()
	for k, w := range m.keys {
		if !now.Before(w.expires) {
			delete(m.keys, k)
		}
	}
}

// current returns the live window for key, dropping an expired one.
func (m *Memory) current(key string) window {
	w, ok := m.keys[key]
	if ok && !m.now().Before(w.expires) {
		delete(m.keys, key)
		return window{}
	}
	return w
}
