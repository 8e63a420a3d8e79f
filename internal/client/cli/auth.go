package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ecoconnect/internal/client/apiclient"
	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
	"github.com/dmitrijs2005/ecoconnect/internal/client/services"
	"github.com/dmitrijs2005/ecoconnect/internal/validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) signInView(ctx context.Context, _ *models.UserProfile) (string, error) {
	printlnFn("== Sign in ==")
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return "", err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", err
	}

	user, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		toast("Sign in", err)
		return "", nil
	}
	if user != nil && user.FirstName != "" {
		printlnFn("Welcome back,", user.FirstName+"!")
	}
	return a.config.LandingRoute, nil
}

func (a *App) signUpView(ctx context.Context, _ *models.UserProfile) (string, error) {
	printlnFn("== Create an account ==")
	var req services.RegisterRequest
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Email", &req.Email},
		{"Phone number", &req.PhoneNumber},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return "", err
		}
		*f.dst = v
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", err
	}
	req.Password = password

	if _, err := a.auth.SignUp(ctx, req); err != nil {
		toast("Sign up", err)
		return "", nil
	}
	printlnFn("Account created. Please sign in.")
	return routeSignIn, nil
}

// describeError turns service errors into a short user-facing message.
func describeError(err error) string {
	var se *apiclient.StatusError
	switch {
	case errors.Is(err, validation.ErrInvalid):
		return err.Error()
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case errors.As(err, &se):
		return fmt.Sprintf("server answered %d", se.Code)
	case errors.Is(err, apiclient.ErrTransport):
		return "server is not reachable"
	default:
		return err.Error()
	}
}
