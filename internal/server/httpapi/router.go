package httpapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dmitrijs2005/ecoconnect/internal/validation"
)

// NewRouter builds the Echo instance with every route registered.
func NewRouter(svc UserService, log zerolog.Logger, m *Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(instrument(log, m))
	// Recover sits inside instrument and hands the panic back as an error,
	// so it is rendered, logged and counted once.
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{DisableErrorHandler: true}))

	h := NewUserHandler(svc, m)
	bearer := RequireBearer(svc)

	g := e.Group("/users")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/auth", h.Identity, bearer)
	g.GET("/individual/:id", h.Individual, bearer)
	g.PUT("/archive/:id", h.Archive, bearer)

	e.GET("/health", Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	return e
}
