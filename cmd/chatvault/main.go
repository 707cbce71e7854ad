// Command chatvault runs the chat session persistence backend: a REST API
// over the session registry, blob storage and the orchestrator agent.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/chatvault-ai/chatvault"
	"github.com/chatvault-ai/chatvault/config"
	"github.com/chatvault-ai/chatvault/logging"
	"github.com/chatvault-ai/chatvault/model"
	"github.com/chatvault-ai/chatvault/model/anthropic"
	"github.com/chatvault-ai/chatvault/model/openai"
	"github.com/chatvault-ai/chatvault/storage/azure"
)

var version = "dev"

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:     "chatvault",
		Short:   "Chat session persistence backend",
		Long:    "chatvault serves the session lifecycle API of the AI assistant: create, switch, list, load, delete and save chat sessions persisted as JSON snapshots in blob storage.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgFile)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	vault := chatvault.New(func(o *chatvault.Options) {
		o.Addr = cfg.Server.Addr
		o.AllowedOrigins = cfg.Server.AllowedOrigins
		o.ShutdownTimeout = cfg.ShutdownTimeout
		o.Logger = logger

		if cfg.Storage.ConnectionString == "" {
			logger.Warn("no storage connection string configured, sessions will not survive restarts")
		} else {
			store, err := azure.NewStore(cfg.Storage.ConnectionString, func(so *azure.Options) {
				so.Container = cfg.Storage.Container
			})
			if err != nil {
				logger.Error("azure store setup failed, continuing without persistence", "error", err.Error())
			} else {
				o.BlobStore = store
			}
		}

		if m := buildModel(cfg, logger); m != nil {
			o.Model = m
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting chatvault", "version", version, "addr", cfg.Server.Addr)
	return vault.Run(ctx)
}

func buildModel(cfg *config.Config, logger logging.Logger) model.Model {
	switch cfg.Model.Provider {
	case "anthropic":
		if cfg.Model.Anthropic.APIKey == "" {
			logger.Warn("anthropic provider selected but no api key configured, chat endpoint disabled")
			return nil
		}
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.Model.Anthropic.APIKey
			if cfg.Model.Anthropic.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Anthropic.Model)
			}
		})
	case "azure-openai":
		ao := cfg.Model.AzureOpenAI
		if ao.Endpoint == "" || ao.APIKey == "" || ao.Deployment == "" {
			logger.Warn("azure openai not fully configured, chat endpoint disabled")
			return nil
		}
		return openai.NewAzureModel(ao.Endpoint, ao.APIKey, func(o *openai.Options) {
			o.Model = ao.Deployment
			o.APIVersion = ao.APIVersion
		})
	default:
		logger.Warn("unknown model provider, chat endpoint disabled", "provider", cfg.Model.Provider)
		return nil
	}
}
