package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chatvault-ai/chatvault/agent"
	"github.com/chatvault-ai/chatvault/logging"
	"github.com/chatvault-ai/chatvault/session"
)

// Options configure the HTTP server.
type Options struct {
	// Addr is the listen address.
	Addr string
	// AllowedOrigins lists origins granted CORS access. "*" allows any.
	AllowedOrigins []string
	// Logger receives request logs. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Server serves the ChatVault REST API.
type Server struct {
	registry *session.Registry
	orch     *agent.Orchestrator
	logger   logging.Logger
	opts     Options
}

// New creates a server over the given registry and orchestrator. The
// orchestrator may be nil, in which case the chat endpoint reports the agent
// as unavailable while session management keeps working.
func New(registry *session.Registry, orch *agent.Orchestrator, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:   ":8000",
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{registry: registry, orch: orch, logger: opts.Logger, opts: opts}
}

// Handler builds the route table. Exposed separately from Run so tests can
// drive the API with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions/new", s.handleNewSession)
	mux.HandleFunc("POST /api/sessions/switch", s.handleSwitchSession)
	mux.HandleFunc("GET /api/sessions/current", s.handleCurrentSession)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/save-chat", s.handleSaveChat)
	mux.HandleFunc("GET /api/chat-sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/chat-sessions/{blob_name}", s.handleLoadSession)
	mux.HandleFunc("DELETE /api/chat-sessions/{blob_name}", s.handleDeleteSession)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withRequestLog(s.withCORS(mux))
}

// Run serves until ctx is cancelled, then shuts the listener down
// gracefully. The final session save is the lifecycle coordinator's job,
// not the transport's.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("http server listening", "addr", s.opts.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown incomplete", "error", err.Error())
	}
	return nil
}
