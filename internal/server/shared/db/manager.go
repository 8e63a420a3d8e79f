// Package db selects and owns the server's user storage: PostgreSQL when a
// DSN is configured, an in-process map otherwise.
package db

import (
	"context"

	"github.com/dmitrijs2005/ecoconnect/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Ping(context.Context) error
	Users() users.Repository
	Close() error
}

// New returns a Postgres-backed manager for a non-empty dsn and an in-memory
// one otherwise. Migrations are applied before it returns.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(ctx, dsn)
}
