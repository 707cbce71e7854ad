// Package chatvault provides a high-level façade over the session registry,
// blob storage and orchestrator services, enabling construction of the chat
// persistence backend with a few lines of wiring. Most applications interact
// with this package by:
//  1. Creating a ChatVault via New() (optionally overriding default in-memory services)
//  2. Calling Run() with a signal-bound context
//
// The façade also implements the process lifecycle: container provisioning
// and session resume on startup, and a bounded best-effort save of the
// current session on graceful shutdown. All defaults are safe for local
// development and testing; production deployments supply a durable blob
// store, a real model backend and a structured logger.
package chatvault

import (
	"context"
	"time"

	"github.com/chatvault-ai/chatvault/agent"
	"github.com/chatvault-ai/chatvault/core"
	"github.com/chatvault-ai/chatvault/logging"
	"github.com/chatvault-ai/chatvault/model"
	"github.com/chatvault-ai/chatvault/server"
	"github.com/chatvault-ai/chatvault/session"
	"github.com/chatvault-ai/chatvault/storage"
)

// Options configure the ChatVault instance.
type Options struct {
	// BlobStore holds session snapshots (defaults to in-memory).
	BlobStore core.BlobStore
	// Model backs the orchestrator. Nil disables the chat endpoint while
	// keeping session management available.
	Model model.Model
	// Instruction overrides the orchestrator system prompt.
	Instruction string
	// Addr is the HTTP listen address.
	Addr string
	// AllowedOrigins lists origins granted CORS access.
	AllowedOrigins []string
	// ShutdownTimeout bounds the final save so a stalled store can never
	// block process termination.
	ShutdownTimeout time.Duration
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// ChatVault is the assembled service: registry, orchestrator and HTTP server
// over one blob store.
type ChatVault struct {
	opts     Options
	store    core.BlobStore
	registry *session.Registry
	orch     *agent.Orchestrator
	srv      *server.Server
	logger   logging.Logger
}

// New creates a ChatVault instance with optional overrides. Any unset
// service is initialized with a safe default.
func New(optFns ...func(o *Options)) *ChatVault {
	opts := Options{
		BlobStore:       storage.NewInMemoryStore(),
		Instruction:     agent.DefaultInstruction,
		Addr:            ":8000",
		ShutdownTimeout: 10 * time.Second,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	v := &ChatVault{opts: opts, store: opts.BlobStore, logger: opts.Logger}

	v.registry = session.NewRegistry(v.store, func(o *session.RegistryOptions) {
		o.Logger = opts.Logger
	})
	if opts.Model != nil {
		v.orch = agent.NewOrchestrator(opts.Model, v.registry, func(o *agent.Options) {
			o.Instruction = opts.Instruction
			o.Logger = opts.Logger
		})
	}
	v.srv = server.New(v.registry, v.orch, func(o *server.Options) {
		o.Addr = opts.Addr
		o.AllowedOrigins = opts.AllowedOrigins
		o.Logger = opts.Logger
	})
	return v
}

// Registry exposes the session registry, mainly for tests and embedding.
func (v *ChatVault) Registry() *session.Registry { return v.registry }

// Orchestrator exposes the orchestrator; nil when no model is configured.
func (v *ChatVault) Orchestrator() *agent.Orchestrator { return v.orch }

// Start provisions storage and resumes the most recent session. A
// provisioning failure does not abort: chat without persistence is strictly
// better than no service, so the store is swapped for an in-memory one and
// the failure is logged. A resume failure likewise logs and starts fresh.
func (v *ChatVault) Start(ctx context.Context) error {
	if err := v.store.EnsureContainer(ctx); err != nil {
		v.logger.Error("storage provisioning failed, continuing without persistence", "error", err.Error())
		v.degradeToMemory()
	}
	if err := v.registry.Startup(ctx); err != nil {
		v.logger.Warn("could not resume previous session, starting fresh", "error", err.Error())
	}
	return nil
}

// degradeToMemory rebuilds the service graph on an in-memory store after a
// provisioning failure.
func (v *ChatVault) degradeToMemory() {
	v.store = storage.NewInMemoryStore()
	v.registry = session.NewRegistry(v.store, func(o *session.RegistryOptions) {
		o.Logger = v.opts.Logger
	})
	if v.opts.Model != nil {
		v.orch = agent.NewOrchestrator(v.opts.Model, v.registry, func(o *agent.Options) {
			o.Instruction = v.opts.Instruction
			o.Logger = v.opts.Logger
		})
	}
	v.srv = server.New(v.registry, v.orch, func(o *server.Options) {
		o.Addr = v.opts.Addr
		o.AllowedOrigins = v.opts.AllowedOrigins
		o.Logger = v.opts.Logger
	})
}

// Run starts the service and blocks until ctx is cancelled (typically by
// SIGINT/SIGTERM via signal.NotifyContext), then performs the shutdown save.
func (v *ChatVault) Run(ctx context.Context) error {
	if err := v.Start(ctx); err != nil {
		return err
	}
	if err := v.srv.Run(ctx); err != nil {
		return err
	}

	// The final save is best effort and bounded: its failure is logged but
	// must never block or fail process termination.
	saveCtx, cancel := context.WithTimeout(context.Background(), v.opts.ShutdownTimeout)
	defer cancel()
	if blobName, err := v.Shutdown(saveCtx); err != nil {
		v.logger.Error("shutdown save failed", "error", err.Error())
	} else if blobName != "" {
		v.logger.Info("session saved on shutdown", "blob_name", blobName)
	}
	return nil
}

// Shutdown flushes the current session and returns the written blob name
// ("" when there was nothing to save). Exposed so hosts embedding ChatVault
// can hook it into their own lifecycle.
func (v *ChatVault) Shutdown(ctx context.Context) (string, error) {
	return v.registry.SaveCurrent(ctx)
}
