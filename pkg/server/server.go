package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/proxy"
	"yaproxy-hq/yaproxy/pkg/proxy/handlers"
	"yaproxy-hq/yaproxy/pkg/proxy/middleware"
	"yaproxy-hq/yaproxy/pkg/proxy/types"
	"yaproxy-hq/yaproxy/pkg/telemetry"
	"yaproxy-hq/yaproxy/pkg/telemetry/metrics"
	"yaproxy-hq/yaproxy/pkg/telemetry/tracing"
)

// Dependencies are the components the routes delegate to.
type Dependencies struct {
	Upstream handlers.Upstream
	Resolver handlers.Resolver

	// History is nil when the history log is disabled; /history then
	// answers 404.
	History handlers.HistoryReader

	Telemetry *telemetry.Telemetry
}

// Server is the HTTP gateway.
type Server struct {
	config *config.Config
	deps   Dependencies
	logger *slog.Logger

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
	isRunning  bool

	shutdownOnce sync.Once
}

// NewServer creates a gateway. It does not listen until Start.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	logger := slog.Default()
	if deps.Telemetry != nil && deps.Telemetry.Logger != nil {
		logger = deps.Telemetry.Logger
	}
	return &Server{
		config: cfg,
		deps:   deps,
		logger: logger.With("component", "server"),
	}
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	get := middleware.AllowMethods(http.MethodGet)

	yh := handlers.NewYandexHandler(s.deps.Upstream, s.logger)
	dh := handlers.NewDownloadHandler(s.deps.Resolver, s.logger)

	mux.Handle("/{$}", get(http.HandlerFunc(yh.AccountStatus)))
	mux.Handle("/yandex-music/account/status", get(http.HandlerFunc(yh.AccountStatus)))
	mux.Handle("/yandex-music/track/{trackId}", get(http.HandlerFunc(yh.Track)))
	mux.Handle("/yandex-music/track/{trackId}/download", get(dh))
	mux.Handle("/yandex-music/users/{userId}/likes/tracks", get(http.HandlerFunc(yh.LikedTracks)))
	mux.Handle("/yandex-music/tracks/{trackId}/supplement", get(http.HandlerFunc(yh.TrackSupplement)))
	mux.Handle("/yandex-music/tracks/{trackId}/lyrics", get(http.HandlerFunc(yh.TrackLyrics)))

	if s.deps.History != nil {
		mux.Handle("/history", get(handlers.NewHistoryHandler(s.deps.History, s.logger)))
	}

	tel := s.deps.Telemetry
	hc := s.config.Telemetry.Health
	if tel != nil && tel.Health != nil {
		mux.Handle(hc.LivenessPath, get(tel.Health.LivenessHandler()))
		mux.Handle(hc.ReadinessPath, get(tel.Health.ReadinessHandler()))
	}
	if tel != nil && tel.Metrics != nil {
		mux.Handle(s.config.Telemetry.Metrics.Path, get(tel.Metrics.Handler()))
	}

	mux.HandleFunc("/", notFound)

	var tracer *tracing.Tracer
	if tel != nil {
		tracer = tel.Tracer
	}

	return middleware.RouteMiddleware(mux)(middleware.Chain(mux,
		middleware.RecoveryMiddleware,
		middleware.LoggingMiddleware(s.logger),
		middleware.RequestIDMiddleware,
		tracing.HTTPMiddleware(tracer),
		middleware.MetricsMiddleware(s.metrics()),
		middleware.CORSMiddleware(&s.config.Server.CORS),
		middleware.TimeoutMiddleware(s.config.Server.WriteTimeout),
	))
}

func (s *Server) metrics() *metrics.Collector {
	if s.deps.Telemetry == nil {
		return nil
	}
	return s.deps.Telemetry.Metrics
}

// notFound answers unknown paths in the error envelope.
func notFound(w http.ResponseWriter, r *http.Request) {
	proxy.WriteErrorResponse(w, types.NewNotFoundError(fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)))
}

// Start listens on the configured address and serves until ctx is cancelled
// or the server fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.isRunning = true
	srv := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting gateway", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		if ok {
			return err
		}
		return nil
	}
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests within the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		running := s.isRunning
		s.mu.Unlock()
		if !running || srv == nil {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("gateway stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
