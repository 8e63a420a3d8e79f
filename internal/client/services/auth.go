// Package services contains the application services the ecoconnect CLI
// drives: sign-in/sign-up/sign-out and the community feature calls.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
	"github.com/dmitrijs2005/ecoconnect/internal/client/tokenstore"
	"github.com/dmitrijs2005/ecoconnect/internal/logging"
	"github.com/dmitrijs2005/ecoconnect/internal/validation"
)

// API is the part of the request client the services use.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// SignInRequest is the sign-in form.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
}

type signInResponse struct {
	AccessToken string              `json:"accessToken"`
	User        *models.UserProfile `json:"user"`
}

type registerResponse struct {
	Message string              `json:"message"`
	User    *models.UserProfile `json:"user"`
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: validate, exchange credentials for a token and store it.
//   - SignUp: validate and create an account; does not sign in.
//   - SignOut: drop the stored token. Purely local.
//   - Ping: check server liveness.
//
// Validation failures match validation.ErrInvalid and never reach the
// server.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*models.UserProfile, error)
	SignUp(ctx context.Context, req RegisterRequest) (*models.UserProfile, error)
	SignOut(ctx context.Context)
	Ping(ctx context.Context) error
}

type authService struct {
	api       API
	store     tokenstore.Store
	validator *validation.Validator
	logger    logging.Logger
}

func NewAuthService(api API, store tokenstore.Store, logger logging.Logger) AuthService {
	return &authService{
		api:       api,
		store:     store,
		validator: validation.New(),
		logger:    logging.OrNop(logger),
	}
}

func (a *authService) SignIn(ctx context.Context, email, password string) (*models.UserProfile, error) {
	req := SignInRequest{Email: email, Password: password}
	if err := a.validator.Validate(req); err != nil {
		return nil, err
	}

	var resp signInResponse
	if err := a.api.Post(ctx, "/users/login", req, &resp); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("sign in: server returned no token")
	}

	a.store.Set(ctx, resp.AccessToken)
	a.logger.Info(ctx, "signed in", "email", email)
	return resp.User, nil
}

func (a *authService) SignUp(ctx context.Context, req RegisterRequest) (*models.UserProfile, error) {
	if err := a.validator.Validate(req); err != nil {
		return nil, err
	}

	var resp registerResponse
	if err := a.api.Post(ctx, "/users/register", req, &resp); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	a.logger.Info(ctx, "account created", "email", req.Email)
	return resp.User, nil
}

func (a *authService) SignOut(ctx context.Context) {
	a.store.Clear(ctx)
	a.logger.Info(ctx, "signed out")
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Get(ctx, "/health", nil)
}
