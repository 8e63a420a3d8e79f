package users

import (
	"context"
)

// Repository stores users. Lookups of unknown users return
// common.ErrorNotFound; Create with a taken email returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetArchived(ctx context.Context, id string, archived bool) error
}
