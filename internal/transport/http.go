package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sourcegraph/conc"

	"github.com/AltairaLabs/docspace-mcp/internal/audit"
	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/errtrace"
	"github.com/AltairaLabs/docspace-mcp/internal/metrics"
	"github.com/AltairaLabs/docspace-mcp/internal/oauth"
	"github.com/AltairaLabs/docspace-mcp/internal/server"
	"github.com/AltairaLabs/docspace-mcp/internal/session"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
)

// Options carries the collaborators of the HTTP server
type Options struct {
	Info    server.Info
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Audit   *audit.Logger
	Clock   clockwork.Clock
}

// Server is the HTTP front of the MCP server
type Server struct {
	cfg        *config.Config
	sse        *SSE
	streamable *Streamable
	handler    http.Handler
	http       *http.Server
	logger     *slog.Logger
}

// New assembles the adapters enabled by cfg behind one chi router
func New(cfg *config.Config, router *tools.Router, opts Options) (*Server, error) {
	if !cfg.HasTransport(config.TransportSSE) && !cfg.HasTransport(config.TransportStreamable) {
		return nil, fmt.Errorf("transport %q is not served over http", cfg.Transport)
	}
	if cfg.OAuth.Enabled && cfg.OAuth.Secret == "" {
		return nil, errors.New("oauth secret is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	var serverOpts []server.Option
	if opts.Audit != nil {
		serverOpts = append(serverOpts, server.WithAudit(opts.Audit))
	}

	if cfg.HasTransport(config.TransportSSE) {
		reg := newRegistry(cfg, opts, config.TransportSSE, logger)
		s.sse = NewSSE(opts.Info, router, reg, cfg.Server.KeepAlive, logger.With("transport", config.TransportSSE), serverOpts...)
	}
	if cfg.HasTransport(config.TransportStreamable) {
		reg := newRegistry(cfg, opts, config.TransportStreamable, logger)
		s.streamable = NewStreamable(opts.Info, router, reg, cfg.Server.KeepAlive, logger.With("transport", config.TransportStreamable), serverOpts...)
	}

	s.handler = s.routes(opts.Metrics)
	s.http = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func newRegistry(cfg *config.Config, opts Options, transport string, logger *slog.Logger) *session.Registry {
	ropts := []session.Option{session.WithLogger(logger.With("registry", transport))}
	if opts.Clock != nil {
		ropts = append(ropts, session.WithClock(opts.Clock))
	}
	if opts.Metrics != nil {
		ropts = append(ropts, session.WithGauge(opts.Metrics.Sessions(transport)))
	}
	return session.NewRegistry(cfg.Session.TTL, ropts...)
}

func (s *Server) routes(m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get(HealthPath, s.health)
	if m != nil {
		r.Method(http.MethodGet, MetricsPath, m.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.HTTP.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "Last-Event-ID", mcpserver.HeaderKeySessionID, "Mcp-Protocol-Version"},
			ExposedHeaders: []string{mcpserver.HeaderKeySessionID, "WWW-Authenticate"},
			MaxAge:         s.cfg.HTTP.CORSMaxAge,
		}))

		var auth func(http.Handler) http.Handler
		if s.cfg.OAuth.Enabled {
			r.Method(http.MethodGet, oauth.MetadataPath, oauth.MetadataHandler(s.metadata()))
			auth = oauth.RequireBearer(
				oauth.NewVerifier([]byte(s.cfg.OAuth.Secret), s.cfg.OAuth.Issuer, s.cfg.OAuth.Audience),
				oauth.MiddlewareOptions{
					MetadataURL: s.metadataURL(),
					Scopes:      s.cfg.OAuth.Scopes,
					Logger:      s.logger,
				},
			)
		}

		r.Group(func(r chi.Router) {
			if s.cfg.HTTP.RateLimit > 0 {
				r.Use(NewIPRateLimiter(s.cfg.HTTP.RateLimit, s.cfg.HTTP.RateBurst).Middleware)
			}
			r.Use(SingleSessionHeader)
			if auth != nil {
				r.Use(auth)
			}

			if s.sse != nil {
				r.Method(http.MethodGet, SSEPath, s.sse.StreamHandler())
				r.Method(http.MethodPost, MessagePath, s.sse.MessageHandler())
			}
			if s.streamable != nil {
				r.Handle(StreamablePath, s.streamable)
			}
		})
	})

	return r
}

func (s *Server) metadataURL() string {
	return strings.TrimSuffix(s.cfg.OAuth.Resource, "/") + oauth.MetadataPath
}

func (s *Server) metadata() oauth.Metadata {
	m := oauth.Metadata{
		Resource:        s.cfg.OAuth.Resource,
		ScopesSupported: s.cfg.OAuth.Scopes,
	}
	if s.cfg.OAuth.Issuer != "" {
		m.AuthorizationServers = []string{s.cfg.OAuth.Issuer}
	}
	return m
}

type healthResponse struct {
	Status   string         `json:"status"`
	Sessions map[string]int `json:"sessions"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Sessions: make(map[string]int),
	}
	if s.sse != nil {
		resp.Sessions[config.TransportSSE] = s.sse.Registry().Len()
	}
	if s.streamable != nil {
		resp.Sessions[config.TransportStreamable] = s.streamable.Registry().Len()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Handler returns the routed handler without starting a listener
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) registries() []*session.Registry {
	var regs []*session.Registry
	if s.sse != nil {
		regs = append(regs, s.sse.Registry())
	}
	if s.streamable != nil {
		regs = append(regs, s.streamable.Registry())
	}
	return regs
}

// ListenAndServe listens on the configured address and serves until ctx is
// done
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down. The
// session sweeps run alongside and are stopped before any session is closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	sweepCtx, stopSweeps := context.WithCancel(ctx)
	sweeps := conc.NewWaitGroup()
	for _, reg := range s.registries() {
		sweeps.Go(func() {
			s.watch(sweepCtx, reg)
		})
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(ln)
	}()
	s.logger.Info("http server listening", "addr", ln.Addr().String(), "transport", s.cfg.Transport)

	select {
	case err := <-serveErr:
		stopSweeps()
		sweeps.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	stopSweeps()
	sweeps.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func (s *Server) watch(ctx context.Context, reg *session.Registry) {
	err := reg.Watch(ctx, s.cfg.Session.Interval)
	if err == nil || errtrace.IsCanceled(err) {
		return
	}
	s.logger.Error("session sweep stopped", "error", errtrace.Format(err))
}

// Shutdown closes every session, then drains the HTTP server. Connections
// still open when ctx expires are closed forcibly.
func (s *Server) Shutdown(ctx context.Context) error {
	var result *multierror.Error

	for _, reg := range s.registries() {
		if err := reg.Clear(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("clear sessions: %w", err))
		}
	}

	if err := s.http.Shutdown(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("shutdown: %w", err))
		if err := s.http.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close: %w", err))
		}
	}

	s.logger.Info("http server stopped")
	return result.ErrorOrNil()
}
