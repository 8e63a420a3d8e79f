package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/ecoconnect/internal/client/apiclient"
	"github.com/dmitrijs2005/ecoconnect/internal/client/config"
	"github.com/dmitrijs2005/ecoconnect/internal/client/guard"
	"github.com/dmitrijs2005/ecoconnect/internal/client/localdb"
	"github.com/dmitrijs2005/ecoconnect/internal/client/services"
	"github.com/dmitrijs2005/ecoconnect/internal/client/session"
	"github.com/dmitrijs2005/ecoconnect/internal/client/tokenstore"
	"github.com/dmitrijs2005/ecoconnect/internal/logging"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	store     tokenstore.Store
	auth      services.AuthService
	community services.CommunityService
	resolver  guard.Resolver
	views     map[string]view
	current   *guard.Guard
	reader    *bufio.Reader
	out       io.Writer
	db        *sql.DB
}

// NewApp opens the local state database and wires the client stack on top
// of it. Ephemeral runs keep the token in memory and touch no files.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	var (
		db    *sql.DB
		store tokenstore.Store = tokenstore.NewMemory()
	)
	if !c.Ephemeral {
		var err error
		db, err = localdb.Open(ctx, c.StatePath)
		if err != nil {
			return nil, fmt.Errorf("open state database: %w", err)
		}
		store = tokenstore.NewSQLite(db, logger)
	}

	api := apiclient.New(c.APIBaseURL, store,
		apiclient.WithTimeout(c.RequestTimeout),
		apiclient.WithLogger(logger),
	)
	resolver := session.NewResolver(api, session.WithLogger(logger))

	a := newApp(c, logger, store, api, resolver, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, store tokenstore.Store, api services.API,
	resolver guard.Resolver, in io.Reader, out io.Writer) *App {
	a := &App{
		config:    c,
		logger:    logging.OrNop(logger),
		store:     store,
		auth:      services.NewAuthService(api, store, logger),
		community: services.NewCommunityService(api),
		resolver:  resolver,
		reader:    bufio.NewReader(in),
		out:       out,
	}
	a.views = a.registerViews()
	return a
}

// Run shows the entry view and then serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	printlnFn("Welcome to ecoconnect (type 'help' for commands)")
	if err := a.auth.Ping(ctx); err != nil {
		printlnFn("Server is not reachable at", a.config.APIBaseURL)
	}

	if err := a.Navigate(ctx, routeSignIn); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) Close() {
	if a.current != nil {
		a.current.Unmount()
		a.current = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing state database", "err", err)
		}
		a.db = nil
	}
}

func (a *App) signedIn(ctx context.Context) bool {
	_, ok := a.store.Get(ctx)
	return ok
}

// SignOut drops the token and returns to the sign-in view.
func (a *App) SignOut(ctx context.Context) error {
	a.auth.SignOut(ctx)
	printlnFn("Signed out.")
	return a.Navigate(ctx, routeSignIn)
}

func (a *App) status() string {
	if a.signedIn(context.Background()) {
		return "(signed in)"
	}
	return ""
}
