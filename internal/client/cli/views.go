package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/ecoconnect/internal/client/guard"
	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
)

const (
	routeSignIn       = "signin"
	routeSignUp       = "signup"
	routeDashboard    = "dashboard"
	routeInaccessible = "inaccessible"

	// maxHops bounds redirect chains such as signin -> dashboard -> signin.
	maxHops = 5
)

var errUnknownView = errors.New("unknown view")

type access int

const (
	accessPublic access = iota
	accessEntry
	accessProtected
	accessAdmin
)

// renderFunc draws a view. It returns the route to continue to, or "" to
// stay. profile is nil for public and entry views.
type renderFunc func(ctx context.Context, profile *models.UserProfile) (string, error)

type view struct {
	access access
	help   string
	render renderFunc
}

func (a *App) registerViews() map[string]view {
	return map[string]view{
		routeSignIn:       {access: accessEntry, help: "sign in", render: a.signInView},
		routeSignUp:       {access: accessEntry, help: "create an account", render: a.signUpView},
		routeDashboard:    {access: accessProtected, help: "overview", render: a.dashboardView},
		"profile":         {access: accessProtected, help: "your account", render: a.profileView},
		"posts":           {access: accessProtected, help: "forum posts", render: a.postsView},
		"events":          {access: accessProtected, help: "upcoming events", render: a.eventsView},
		"schedules":       {access: accessProtected, help: "pickup schedules", render: a.schedulesView},
		"vouchers":        {access: accessProtected, help: "available vouchers", render: a.vouchersView},
		"feedback":        {access: accessProtected, help: "send feedback", render: a.feedbackView},
		"admin":           {access: accessAdmin, help: "administrator console", render: a.adminView},
		routeInaccessible: {access: accessPublic, render: a.inaccessibleView},
	}
}

// routes lists the views worth offering in the given state.
func (a *App) routes(signedIn bool) []string {
	out := make([]string, 0, len(a.views))
	for name, v := range a.views {
		if v.help == "" {
			continue
		}
		if signedIn == (v.access == accessEntry) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (a *App) guardFor(v view) *guard.Guard {
	opts := []guard.Option{
		guard.WithTimeout(a.config.SessionTimeout),
		guard.WithLogger(a.logger),
		guard.OnPending(func() { printlnFn("Loading...") }),
	}

	switch v.access {
	case accessEntry:
		return guard.NewEntry(a.resolver, a.config.LandingRoute, opts...)
	case accessAdmin:
		opts = append(opts, guard.WithAuthorization(guard.RequireAdmin, routeDashboard))
	}
	if a.config.InaccessibleRoute != "" {
		opts = append(opts, guard.WithInaccessibleRoute(a.config.InaccessibleRoute))
	}
	return guard.NewProtected(a.resolver, routeSignIn, opts...)
}

// Navigate opens route, following guard redirects and view transitions.
func (a *App) Navigate(ctx context.Context, route string) error {
	for hop := 0; route != ""; hop++ {
		if hop >= maxHops {
			return fmt.Errorf("too many redirects, last was %q", route)
		}
		v, ok := a.views[route]
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownView, route)
		}

		var profile *models.UserProfile
		if v.access != accessPublic {
			outcome, settled := a.mount(ctx, v)
			if !settled {
				return ctx.Err()
			}
			if r, isRedirect := outcome.Decision.(guard.Redirect); isRedirect {
				route = r.To
				continue
			}
			profile = outcome.Profile()
		}

		next, err := v.render(ctx, profile)
		if err != nil {
			return err
		}
		route = next
	}
	return nil
}

// mount replaces the current guard with a fresh one for v and waits for it.
func (a *App) mount(ctx context.Context, v view) (guard.Outcome, bool) {
	if a.current != nil {
		a.current.Unmount()
	}
	a.current = a.guardFor(v)
	return a.current.Check(ctx)
}

// toast reports a failed action on one line.
func toast(action string, err error) {
	printlnFn(fmt.Sprintf("%s failed: %s", action, describeError(err)))
}
