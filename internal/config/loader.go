package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = getConfigPath()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			// Config file is optional, don't fail if it doesn't exist
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	loadFromEnv(cfg)

	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "goatcode", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "goatcode", "config.yaml")
}

// ConfigDir returns the directory holding the config file and logs.
func ConfigDir() string {
	p := getConfigPath()
	if p == "" {
		return ""
	}
	return filepath.Dir(p)
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand environment variables so keys can be referenced as ${VAR}
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadFromEnv applies environment variable overrides to provider entries
// that were configured without an explicit key.
func loadFromEnv(cfg *Config) {
	envKeys := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
		"gemini":    "GEMINI_API_KEY",
	}

	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.APIKey != "" {
			continue
		}
		if env, ok := envKeys[p.Name]; ok {
			p.APIKey = os.Getenv(env)
		}
	}

	if base := os.Getenv("OLLAMA_HOST"); base != "" {
		for i := range cfg.Providers {
			if cfg.Providers[i].Name == "ollama" && cfg.Providers[i].BaseURL == "" {
				cfg.Providers[i].BaseURL = base
			}
		}
	}

	if level := os.Getenv("GOATCODE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider entry missing name")
		}
		if p.Model == "" {
			return fmt.Errorf("provider %q missing model", p.Name)
		}
	}
	return nil
}
