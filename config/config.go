// Package config loads ChatVault configuration. Precedence, highest first:
//  1. Environment variables (AZURE_STORAGE_CONNECTION_STRING,
//     AZURE_OPENAI_*, ANTHROPIC_API_KEY, CHATVAULT_*)
//  2. The YAML file passed via --config
//  3. Built-in defaults
//
// A .env file in the working directory is folded into the environment first
// (best effort), matching how the deployment scripts supply credentials.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// StorageConfig selects and parameterizes the blob storage backend.
type StorageConfig struct {
	// ConnectionString authenticates against the storage account. Empty
	// means no durable storage is configured; the service then runs with
	// the in-memory store only.
	ConnectionString string `yaml:"connection_string"`
	Container        string `yaml:"container"`
}

// AzureOpenAIConfig parameterizes the Azure OpenAI chat backend.
type AzureOpenAIConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"api_version"`
}

// AnthropicConfig parameterizes the Anthropic chat backend.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ModelConfig selects the chat completion provider.
type ModelConfig struct {
	// Provider is "azure-openai" or "anthropic".
	Provider    string            `yaml:"provider"`
	AzureOpenAI AzureOpenAIConfig `yaml:"azure_openai"`
	Anthropic   AnthropicConfig   `yaml:"anthropic"`
}

// ServerConfig parameterizes the HTTP listener.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig parameterizes structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Config is the complete service configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Model   ModelConfig   `yaml:"model"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	// ShutdownTimeout bounds the graceful-shutdown save so a stalled store
	// cannot block process termination.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Container: "chat-history"},
		Model: ModelConfig{
			Provider:    "azure-openai",
			AzureOpenAI: AzureOpenAIConfig{APIVersion: "2024-10-21"},
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:4200", "http://127.0.0.1:4200"},
		},
		Log:             LogConfig{Level: "info", Format: "json"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is the normal case outside deployments.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Storage.ConnectionString, "AZURE_STORAGE_CONNECTION_STRING")
	setString(&c.Storage.Container, "CHAT_CONTAINER")

	setString(&c.Model.Provider, "MODEL_PROVIDER")
	setString(&c.Model.AzureOpenAI.Endpoint, "AZURE_OPENAI_ENDPOINT")
	setString(&c.Model.AzureOpenAI.APIKey, "AZURE_OPENAI_API_KEY")
	setString(&c.Model.AzureOpenAI.Deployment, "AZURE_OPENAI_DEPLOYMENT")
	setString(&c.Model.AzureOpenAI.APIVersion, "AZURE_OPENAI_API_VERSION")
	setString(&c.Model.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setString(&c.Model.Anthropic.Model, "ANTHROPIC_MODEL")

	setString(&c.Server.Addr, "CHATVAULT_ADDR")
	if v := os.Getenv("CHATVAULT_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}

	setString(&c.Log.Level, "CHATVAULT_LOG_LEVEL")
	setString(&c.Log.Format, "CHATVAULT_LOG_FORMAT")

	if v := os.Getenv("CHATVAULT_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ShutdownTimeout = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
