package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/ecoconnect/internal/common"
	"github.com/dmitrijs2005/ecoconnect/internal/logging"
	"github.com/dmitrijs2005/ecoconnect/internal/server/auth"
	"github.com/dmitrijs2005/ecoconnect/internal/server/throttle"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginInput is the sign-in payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Service struct {
	repo    Repository
	tokens  *auth.Issuer
	limiter throttle.Limiter
	logger  logging.Logger
	cost    int
}

func NewService(repo Repository, tokens *auth.Issuer, limiter throttle.Limiter, logger logging.Logger) *Service {
	return &Service{
		repo:    repo,
		tokens:  tokens,
		limiter: limiter,
		logger:  logging.OrNop(logger),
		cost:    bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a resident account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	return s.create(ctx, in, AccountResident)
}

func (s *Service) create(ctx context.Context, in RegisterInput, accountType AccountType) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        normalizeEmail(in.Email),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		PasswordHash: hash,
		AccountType:  accountType,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID, "account_type", int(accountType))
	return user, nil
}

// EnsureAdmin creates an administrator with the given credentials unless
// the email is already registered.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.create(ctx, RegisterInput{
		FirstName: "Admin",
		LastName:  "Admin",
		Email:     email,
		Password:  password,
	}, AccountAdministrator)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil
	}
	return err
}

// Login checks credentials and returns a fresh access token. Unknown
// emails and wrong passwords are indistinguishable (common.ErrorUnauthorized);
// archived accounts get common.ErrorArchived.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, *User, error) {
	key := normalizeEmail(in.Email)

	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		// An unavailable limiter must not lock everyone out.
		s.logger.Warn(ctx, "login limiter unavailable", "err", err)
		allowed = true
	}
	if !allowed {
		return "", nil, common.ErrorTooManyAttempts
	}

	user, err := s.repo.GetByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.recordFailure(ctx, key)
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.Password)); err != nil {
		s.recordFailure(ctx, key)
		return "", nil, common.ErrorUnauthorized
	}
	if user.IsArchived {
		return "", nil, common.ErrorArchived
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn(ctx, "login limiter reset failed", "err", err)
	}
	return token, user, nil
}

func (s *Service) recordFailure(ctx context.Context, key string) {
	if err := s.limiter.Fail(ctx, key); err != nil {
		s.logger.Warn(ctx, "login limiter update failed", "err", err)
	}
}

// Authenticate maps a bearer token to a user id. Archival is not checked
// here: a token stays valid until it expires.
func (s *Service) Authenticate(_ context.Context, token string) (string, error) {
	return s.tokens.UserIDFromToken(token)
}

// Profile returns an active user. Archived users are reported as not found.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsArchived {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

// Archive marks targetID archived. Only an active administrator may do it.
func (s *Service) Archive(ctx context.Context, actorID, targetID string) error {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorForbidden
		}
		return err
	}
	if actor.IsArchived || actor.AccountType != AccountAdministrator {
		return common.ErrorForbidden
	}
	if _, err := uuid.Parse(targetID); err != nil {
		return common.ErrorNotFound
	}

	if err := s.repo.SetArchived(ctx, targetID, true); err != nil {
		return err
	}
	s.logger.Info(ctx, "user archived", "user_id", targetID, "by", actorID)
	return nil
}
