package tokenstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/ecoconnect/internal/dbx"
	"github.com/dmitrijs2005/ecoconnect/internal/logging"
)

// SQLite persists the token in the client_state table of the local database
// (see package localdb).
type SQLite struct {
	db     dbx.DBTX
	logger logging.Logger
}

func NewSQLite(db dbx.DBTX, logger logging.Logger) *SQLite {
	return &SQLite{db: db, logger: logging.OrNop(logger)}
}

func (s *SQLite) Get(ctx context.Context) (string, bool) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, Key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn(ctx, "token store unreadable, continuing anonymously", "err", err)
		return "", false
	}
	return token, token != ""
}

func (s *SQLite) Set(ctx context.Context, token string) {
	if token == "" {
		s.Clear(ctx)
		return
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, Key, token)
	if err != nil {
		s.logger.Warn(ctx, "token store write failed", "err", err)
	}
}

func (s *SQLite) Clear(ctx context.Context) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, Key); err != nil {
		s.logger.Warn(ctx, "token store clear failed", "err", err)
	}
}
