package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/ecoconnect/internal/common"
	"github.com/dmitrijs2005/ecoconnect/internal/dbx"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create checks for an existing email and inserts in one transaction. The
// unique index still backs the check against concurrent inserts.
func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, user.Email).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrorAlreadyExists
		}

		query :=
			`INSERT INTO users (id, first_name, last_name, email, phone_number, password_hash, account_type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING created_at`

		return tx.QueryRowContext(ctx, query,
			user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber,
			user.PasswordHash, int(user.AccountType)).Scan(&user.CreatedAt)
	})

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, common.ErrorAlreadyExists):
		return nil, err
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return nil, common.ErrorAlreadyExists
	default:
		return nil, fmt.Errorf("db error: %w", err)
	}
}

const selectUser = `SELECT id, first_name, last_name, email, phone_number, password_hash,
	account_type, is_archived, created_at FROM users`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	u := &User{}
	var accountType int
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.PasswordHash,
		&accountType, &u.IsArchived, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.AccountType = AccountType(accountType)
	return u, nil
}

func (r *PostgresRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_archived = $2 WHERE id = $1`, id, archived)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
