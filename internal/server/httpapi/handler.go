// Package httpapi is the reference server's HTTP surface: the user endpoints
// the ecoconnect client consumes, plus health and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/ecoconnect/internal/common"
	"github.com/dmitrijs2005/ecoconnect/internal/server/users"
)

// Authenticator maps a bearer token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// UserService is what the handlers need from users.Service.
type UserService interface {
	Authenticator
	Register(ctx context.Context, in users.RegisterInput) (*users.User, error)
	Login(ctx context.Context, in users.LoginInput) (string, *users.User, error)
	Profile(ctx context.Context, id string) (*users.User, error)
	Archive(ctx context.Context, actorID, targetID string) error
}

type UserHandler struct {
	svc     UserService
	metrics *Metrics
}

func NewUserHandler(svc UserService, m *Metrics) *UserHandler {
	return &UserHandler{svc: svc, metrics: m}
}

type registerResponse struct {
	Message string        `json:"message"`
	User    users.Profile `json:"user"`
}

type loginResponse struct {
	AccessToken string        `json:"accessToken"`
	User        users.Profile `json:"user"`
}

type identityResponse struct {
	ID string `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// bindValid decodes the JSON body into dst and runs the validator on it.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(dst)
}

// Register handles POST /users/register.
func (h *UserHandler) Register(c echo.Context) error {
	var in users.RegisterInput
	if err := bindValid(c, &in); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, registerResponse{Message: "User registered successfully", User: user.Profile()})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(c echo.Context) error {
	var in users.LoginInput
	if err := bindValid(c, &in); err != nil {
		return err
	}

	token, user, err := h.svc.Login(c.Request().Context(), in)
	h.metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{AccessToken: token, User: user.Profile()})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return loginSuccess
	case errors.Is(err, common.ErrorTooManyAttempts):
		return loginThrottled
	case errors.Is(err, common.ErrorArchived):
		return loginArchived
	case errors.Is(err, common.ErrorUnauthorized):
		return loginRejected
	default:
		return loginError
	}
}

// Identity handles GET /users/auth. It only proves the token is valid.
func (h *UserHandler) Identity(c echo.Context) error {
	return c.JSON(http.StatusOK, identityResponse{ID: currentUserID(c)})
}

// Individual handles GET /users/individual/:id.
func (h *UserHandler) Individual(c echo.Context) error {
	user, err := h.svc.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Profile())
}

// Archive handles PUT /users/archive/:id.
func (h *UserHandler) Archive(c echo.Context) error {
	if err := h.svc.Archive(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User archived"})
}

// Health is the liveness probe.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
