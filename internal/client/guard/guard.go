// Package guard gates views on the outcome of a session resolution.
//
// An entry guard (sign-in, sign-up) sends signed-in users to the landing
// view and renders otherwise. A protected guard renders for signed-in users
// and sends everyone else to sign-in. Every mount resolves afresh; there is
// no session cache shared between guards.
//
// Each mount is tagged with a generation. Unmounting or remounting bumps the
// generation and cancels the in-flight resolution, and a resolution that
// settles for an old generation is dropped instead of being applied.
package guard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/ecoconnect/internal/client/models"
	"github.com/dmitrijs2005/ecoconnect/internal/client/session"
	"github.com/dmitrijs2005/ecoconnect/internal/logging"
)

// DefaultTimeout bounds a resolution so a hung call cannot leave a guard
// pending forever.
const DefaultTimeout = 10 * time.Second

// Resolver is satisfied by *session.Resolver.
type Resolver interface {
	ResolveCurrentUser(ctx context.Context) (*models.UserProfile, error)
}

type options struct {
	timeout      time.Duration
	logger       logging.Logger
	onPending    func()
	inaccessible string
	allow        func(*models.UserProfile) bool
	deniedRoute  string
}

type Option func(*options)

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = logging.OrNop(l) }
}

// OnPending registers a hook run each time a mount enters Pending.
func OnPending(fn func()) Option {
	return func(o *options) { o.onPending = fn }
}

// WithInaccessibleRoute makes a protected guard send users whose profile
// could not be loaded (archived accounts, typically) to route instead of
// sign-in.
func WithInaccessibleRoute(route string) Option {
	return func(o *options) { o.inaccessible = route }
}

// WithAuthorization makes a protected guard redirect signed-in users for
// whom allow returns false to deniedRoute.
func WithAuthorization(allow func(*models.UserProfile) bool, deniedRoute string) Option {
	return func(o *options) {
		o.allow = allow
		o.deniedRoute = deniedRoute
	}
}

// RequireAdmin is an allow func for administrator-only views.
func RequireAdmin(p *models.UserProfile) bool {
	return p != nil && p.IsAdmin()
}

type decider func(o *options, p *models.UserProfile, err error) Decision

type Guard struct {
	name     string
	resolver Resolver
	decide   decider
	opts     options

	mu     sync.Mutex
	gen    uint64
	state  State
	cancel context.CancelFunc
}

// NewEntry builds the guard for sign-in and sign-up views.
func NewEntry(resolver Resolver, landingRoute string, opts ...Option) *Guard {
	return newGuard("entry", resolver, func(_ *options, _ *models.UserProfile, err error) Decision {
		if err != nil {
			return Render{}
		}
		return Redirect{To: landingRoute}
	}, opts)
}

// NewProtected builds the guard for views that need a signed-in user.
func NewProtected(resolver Resolver, signInRoute string, opts ...Option) *Guard {
	return newGuard("protected", resolver, func(o *options, p *models.UserProfile, err error) Decision {
		if err != nil {
			if o.inaccessible != "" && errors.Is(err, session.ErrProfileUnavailable) {
				return Redirect{To: o.inaccessible}
			}
			return Redirect{To: signInRoute}
		}
		if o.allow != nil && !o.allow(p) {
			return Redirect{To: o.deniedRoute}
		}
		return Render{}
	}, opts)
}

func newGuard(name string, resolver Resolver, decide decider, opts []Option) *Guard {
	g := &Guard{
		name:     name,
		resolver: resolver,
		decide:   decide,
		opts:     options{timeout: DefaultTimeout, logger: logging.Nop{}},
		state:    Pending{},
	}
	for _, opt := range opts {
		opt(&g.opts)
	}
	return g
}

// State returns a snapshot of the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Mount starts a fresh resolution. The returned channel yields exactly one
// Outcome and closes if this mount is still current when resolution
// settles; otherwise it closes without a value.
func (g *Guard) Mount(ctx context.Context) <-chan Outcome {
	g.mu.Lock()
	g.gen++
	gen := g.gen
	if g.cancel != nil {
		g.cancel()
	}
	rctx, cancel := context.WithTimeout(ctx, g.opts.timeout)
	g.cancel = cancel
	g.state = Pending{}
	g.mu.Unlock()

	if g.opts.onPending != nil {
		g.opts.onPending()
	}

	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		defer cancel()

		profile, err := g.resolver.ResolveCurrentUser(rctx)

		g.mu.Lock()
		if gen != g.gen {
			g.mu.Unlock()
			g.opts.logger.Debug(ctx, "stale resolution dropped", "guard", g.name)
			return
		}
		var st State = Authenticated{Profile: profile}
		if err != nil {
			st = Unauthenticated{Err: err}
		}
		g.state = st
		g.cancel = nil
		g.mu.Unlock()

		o := Outcome{State: st, Decision: g.decide(&g.opts, profile, err)}
		g.opts.logger.Debug(ctx, "guard settled", "guard", g.name, "state", st.String(), "decision", describe(o.Decision))
		out <- o
	}()
	return out
}

// Unmount abandons the current mount. Any in-flight resolution is cancelled
// and its result will not be applied.
func (g *Guard) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// Check mounts and waits for the outcome. ok is false when the mount was
// superseded before it settled.
func (g *Guard) Check(ctx context.Context) (Outcome, bool) {
	o, ok := <-g.Mount(ctx)
	return o, ok
}

func describe(d Decision) string {
	if r, ok := d.(Redirect); ok {
		return "redirect:" + r.To
	}
	return "render"
}
