package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/yourusername/trailbot/pkg/engine"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host               string        // Host to bind to (default "localhost")
	Port               int           // Port to listen on (default 8080)
	ReadTimeout        time.Duration // Read timeout (default 30s)
	WriteTimeout       time.Duration // Write timeout (default 30s)
	IdleTimeout        time.Duration // Idle timeout (default 60s)
	MaxMoveWorkers     int           // Max concurrent move/state requests (default 100)
	MaxAnalysisWorkers int           // Max concurrent analysis requests (default 4)
	Participant        string        // Participant name reported by GET /
	AgentName          string        // Agent name reported by GET /
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:               "localhost",
		Port:               8080,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxMoveWorkers:     100,
		MaxAnalysisWorkers: 4,
		Participant:        "trailbot",
		AgentName:          "trailbot",
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	engine   *engine.Engine
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	logger   log.Logger
	version  string
}

// NewServer creates a new API server.
func NewServer(e *engine.Engine, config ServerConfig, version string, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	pool := NewWorkerPool(PoolConfig{
		MaxMoveWorkers:     config.MaxMoveWorkers,
		MaxAnalysisWorkers: config.MaxAnalysisWorkers,
	})
	handlers := NewHandlersWithPool(e, version, pool)
	handlers.SetLogger(logger)
	handlers.SetIdentity(config.Participant, config.AgentName)

	return &Server{
		config:   config,
		engine:   e,
		handlers: handlers,
		pool:     pool,
		logger:   logger,
		version:  version,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func loggingMiddleware(logger log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		level.Info(logger).Log(
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("GET /{$}", s.handlers.Info)
	mux.HandleFunc("GET /api/health", s.handlers.Health)
	mux.HandleFunc("POST /api/state", s.handlers.State)
	mux.HandleFunc("GET /api/move", s.handlers.Move)
	mux.HandleFunc("POST /api/end", s.handlers.End)
	mux.HandleFunc("POST /api/analyze", s.handlers.Analyze)
	mux.HandleFunc("GET /api/decisions/stream", s.handlers.DecisionSSE)
	mux.HandleFunc("/api/ws", s.handlers.WebSocket)

	// Legacy aliases used by older game masters
	mux.HandleFunc("POST /send-state", s.handlers.State)
	mux.HandleFunc("GET /send-move", s.handlers.Move)
	mux.HandleFunc("POST /end", s.handlers.End)

	return corsMiddleware(loggingMiddleware(s.logger, mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	level.Info(s.logger).Log("msg", "starting trailbot API server", "version", s.version, "addr", addr)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		level.Info(s.logger).Log("msg", "shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	level.Info(s.logger).Log("msg", "server stopped")
	return nil
}
