package config

import "time"

// Config represents the main application configuration.
type Config struct {
	Providers  []ProviderConfig `yaml:"providers"`
	Agent      AgentConfig      `yaml:"agent"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Runtime version information
	Version string `yaml:"-"`
}

// ProviderConfig describes one LLM backend in the failover chain, in order.
type ProviderConfig struct {
	// Name selects the adapter: ollama, openai, anthropic, gemini.
	Name string `yaml:"name"`

	// Model is the backend model identifier (e.g. "llama3.2", "gpt-4o").
	Model string `yaml:"model"`

	// BaseURL overrides the backend endpoint. Optional for hosted APIs,
	// defaults to http://localhost:11434 for ollama.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey authenticates against hosted backends. Optional for ollama.
	APIKey string `yaml:"api_key,omitempty"`

	// HTTPTimeout bounds a single backend call.
	HTTPTimeout time.Duration `yaml:"http_timeout,omitempty"`
}

// AgentConfig holds pipeline-level settings.
type AgentConfig struct {
	// MaxValidationRetries bounds the validate-fix loop. Values below 1
	// are clamped to 1 so the loop always produces a validation report.
	MaxValidationRetries int `yaml:"max_validation_retries"`

	// MemoryLookupLimit caps how many past patterns bias plan generation.
	MemoryLookupLimit int `yaml:"memory_lookup_limit"`

	// Temperature defaults per call site; low values keep analysis phases
	// close to deterministic.
	AnalysisTemperature float32 `yaml:"analysis_temperature"`
	CodegenTemperature  float32 `yaml:"codegen_temperature"`

	// CodegenMaxTokens caps the code generation response.
	CodegenMaxTokens int `yaml:"codegen_max_tokens"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  bool   `yaml:"file"`
}

// RetryBudget returns the effective validate-fix attempt budget.
func (c *AgentConfig) RetryBudget() int {
	if c.MaxValidationRetries < 1 {
		return 1
	}
	return c.MaxValidationRetries
}
