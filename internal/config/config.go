package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath    string `toml:"db_path"`
	BatchSize int    `toml:"batch_size"`
	AI        AI     `toml:"ai"`
}

type AI struct {
	Provider  string `toml:"provider"` // "openai" or "ollama"
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"`
	APIKeyEnv string `toml:"api_key_env"` // env var holding the key, never the key itself
}

// Load reads ~/.whatsfind/config.toml over the defaults. A missing file is
// not an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:    filepath.Join(home, ".whatsfind", "whatsfind.db"),
		BatchSize: 1000,
		AI: AI{
			Provider:  "ollama",
			BaseURL:   "http://localhost:11434",
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}

	cfgPath := filepath.Join(home, ".whatsfind", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.DBPath = expandHome(cfg.DBPath, home)
	return cfg, nil
}

// APIKey resolves the configured key from the environment.
func (c *Config) APIKey() string {
	if c.AI.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.AI.APIKeyEnv)
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
