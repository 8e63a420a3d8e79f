package tokenstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ecoconnect/internal/client/localdb"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	tok, ok := s.Get(ctx)
	assert.False(t, ok)
	assert.Empty(t, tok)

	s.Set(ctx, "first")
	tok, ok = s.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "first", tok)

	s.Set(ctx, "second")
	tok, _ = s.Get(ctx)
	assert.Equal(t, "second", tok, "Set replaces the prior value")

	s.Clear(ctx)
	_, ok = s.Get(ctx)
	assert.False(t, ok)

	s.Clear(ctx) // idempotent
	_, ok = s.Get(ctx)
	assert.False(t, ok)

	s.Set(ctx, "third")
	s.Set(ctx, "")
	_, ok = s.Get(ctx)
	assert.False(t, ok, "setting an empty token clears the store")
}

func TestMemory_Contract(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLite_Contract(t *testing.T) {
	db, err := localdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	exerciseStore(t, NewSQLite(db, nil))
}

func TestSQLite_SharesStateAcrossInstances(t *testing.T) {
	ctx := context.Background()
	db, err := localdb.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	NewSQLite(db, nil).Set(ctx, "persisted")

	tok, ok := NewSQLite(db, nil).Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "persisted", tok)
}

func TestSQLite_DegradesToAnonymousWhenMediumFails(t *testing.T) {
	ctx := context.Background()
	db, err := localdb.Open(ctx, ":memory:")
	require.NoError(t, err)

	s := NewSQLite(db, nil)
	s.Set(ctx, "tok")
	require.NoError(t, db.Close())

	assert.NotPanics(t, func() {
		s.Set(ctx, "other")
		s.Clear(ctx)
	})
	_, ok := s.Get(ctx)
	assert.False(t, ok)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(ctx, "tok")
		}()
		go func() {
			defer wg.Done()
			s.Get(ctx)
			s.Clear(ctx)
		}()
	}
	wg.Wait()
}
