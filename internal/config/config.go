package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all souvenir configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Bind string
	Port int
}

type DatabaseConfig struct {
	Path string
}

type LLMConfig struct {
	Provider     string // "anthropic", "ollama"
	Model        string // e.g. "claude-haiku-4-5-20251001"
	OllamaURL    string
	OllamaModel  string // e.g. "llama3.2"
	AnthropicKey string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38811,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider: "ollama",
		},
	}
}

// Load returns the default config with .env and environment overrides applied.
// A missing .env file is not an error.
func Load() Config {
	godotenv.Load()

	cfg := Default()
	if v := os.Getenv("SOUVENIR_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SOUVENIR_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("SOUVENIR_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Server.Port)
	}
	if v := os.Getenv("SOUVENIR_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("SOUVENIR_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.LLM.OllamaURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.LLM.OllamaModel = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.Provider = "anthropic"
		cfg.LLM.AnthropicKey = v
	}
	return cfg
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
