package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/forecourthq/forecourt/internal/auth"
	"github.com/forecourthq/forecourt/internal/infrastructure/config"
	"github.com/forecourthq/forecourt/internal/infrastructure/logging"
	"github.com/forecourthq/forecourt/internal/inventory"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the web server.
type Deps struct {
	Config    *config.Config
	Logger    *logging.Logger
	Accounts  auth.AccountRepository
	Inventory inventory.Repository
	Codec     *auth.Codec
	Version   string
}

// Server is the HTTP server for Forecourt.
//
// It manages the listener, routes, middleware, templates, and the
// inventory-update hub. Create with New(), start with Start(), stop with
// Close().
type Server struct {
	cfg       *config.Config
	logger    *logging.Logger
	accounts  auth.AccountRepository
	inventory inventory.Repository
	codec     *auth.Codec
	hub       *Hub
	version   string
	views     *views
	server    *http.Server
	cancel    context.CancelFunc
}

// New creates a new web server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if deps.Inventory == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if deps.Codec == nil {
		return nil, fmt.Errorf("token codec is required")
	}

	v, err := parseViews()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		accounts:  deps.Accounts,
		inventory: deps.Inventory,
		codec:     deps.Codec,
		hub:       NewHub(deps.Logger),
		version:   deps.Version,
		views:     v,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router, starts the inventory-update hub, and launches the
// listener in a background goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.hub.Run(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.HTTP.Host, s.cfg.HTTP.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", "error", err)
		}
	}()

	s.logger.Info("web server listening", "address", s.server.Addr, "version", s.version)
	return nil
}

// Close gracefully shuts down the web server, waiting up to ten seconds for
// in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("web server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("web health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("web server not started")
	}

	return nil
}
