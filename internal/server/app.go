// Package server wires the reference API server: storage, the login
// limiter, the user service and the HTTP router, with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/ecoconnect/internal/logging"
	"github.com/dmitrijs2005/ecoconnect/internal/server/auth"
	"github.com/dmitrijs2005/ecoconnect/internal/server/config"
	"github.com/dmitrijs2005/ecoconnect/internal/server/httpapi"
	"github.com/dmitrijs2005/ecoconnect/internal/server/shared/db"
	"github.com/dmitrijs2005/ecoconnect/internal/server/throttle"
	"github.com/dmitrijs2005/ecoconnect/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger *logging.ZerologLogger
	repos  db.RepositoryManager
	redis  *redis.Client
	echo   *echo.Echo
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewZerolog(logging.ZerologOptions{
		Level:  c.LogLevel,
		Pretty: c.LogPretty,
		Output: os.Stdout,
	})

	repos, err := db.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, repos: repos}

	limiter, err := app.newLimiter(ctx)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	svc := users.NewService(repos.Users(), auth.NewIssuer([]byte(c.JWTSecret), c.TokenTTL), limiter, logger)
	if c.AdminEmail != "" {
		if err := svc.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword); err != nil {
			app.Close()
			return nil, fmt.Errorf("admin bootstrap: %w", err)
		}
	}

	app.echo = httpapi.NewRouter(svc, logger.Zerolog(), httpapi.NewMetrics())
	return app, nil
}

func (app *App) newLimiter(ctx context.Context) (throttle.Limiter, error) {
	if app.config.RedisAddr == "" {
		return throttle.NewMemory(app.config.LoginMaxAttempts, app.config.LoginWindow), nil
	}
	client, err := throttle.Connect(ctx, throttle.Config{Addr: app.config.RedisAddr, DB: app.config.RedisDB})
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.redis = client
	return throttle.NewRedis(client, app.config.LoginMaxAttempts, app.config.LoginWindow), nil
}

// Handler exposes the router, mostly for tests.
func (app *App) Handler() http.Handler {
	return app.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	defer app.Close()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.Addr)
		errCh <- app.echo.Start(app.config.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (app *App) Close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(context.Background(), "redis close", "err", err)
		}
	}
	if err := app.repos.Close(); err != nil {
		app.logger.Warn(context.Background(), "db close", "err", err)
	}
}
