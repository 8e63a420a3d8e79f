// Package session turns a stored bearer token into the signed-in user's
// profile.
//
// Resolution is two strictly ordered calls: the identity endpoint yields the
// user id, then the profile endpoint yields the full record. Nothing is
// cached, so every resolution observes the server's current view of the
// account (an archived account stops resolving immediately).
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
	"github.com/dmitrijs2005/ecoconnect/internal/logging"
)

const (
	identityPath = "/users/auth"
	profilePath  = "/users/individual/"
)

var (
	// ErrUnauthenticated means the identity call failed: no token, a
	// rejected token or an unreachable server.
	ErrUnauthenticated = errors.New("session: unauthenticated")
	// ErrProfileUnavailable means the identity call succeeded but the
	// profile could not be fetched (typically an archived account).
	ErrProfileUnavailable = errors.New("session: profile unavailable")
)

// IsSessionFailure reports whether err is one of the resolver's failures.
func IsSessionFailure(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrProfileUnavailable)
}

// Getter is the slice of the API client the resolver needs.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

type Resolver struct {
	api     Getter
	logger  logging.Logger
	timeout time.Duration
}

type Option func(*Resolver)

// WithTimeout bounds a whole resolution (both calls).
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Resolver) { r.logger = logging.OrNop(l) }
}

func NewResolver(api Getter, opts ...Option) *Resolver {
	r := &Resolver{api: api, logger: logging.Nop{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveCurrentUser returns the profile of the user the stored token
// belongs to. Errors match ErrUnauthenticated or ErrProfileUnavailable and
// wrap the underlying cause.
func (r *Resolver) ResolveCurrentUser(ctx context.Context) (*models.UserProfile, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var identity models.Identity
	if err := r.api.Get(ctx, identityPath, &identity); err != nil {
		r.logger.Debug(ctx, "identity check failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("%w: identity response has no id", ErrUnauthenticated)
	}

	var body []byte
	if err := r.api.Get(ctx, profilePath+url.PathEscape(string(identity.ID)), &body); err != nil {
		r.logger.Debug(ctx, "profile fetch failed", "user_id", identity.ID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}

	profile, err := models.DecodeUserProfile(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	if profile.ID != identity.ID {
		return nil, fmt.Errorf("%w: profile id %q does not match identity %q",
			ErrProfileUnavailable, profile.ID, identity.ID)
	}

	r.logger.Debug(ctx, "session resolved", "user_id", profile.ID, "account_type", profile.AccountType)
	return profile, nil
}
