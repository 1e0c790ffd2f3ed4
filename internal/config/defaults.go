package config

import "time"

// Default configuration values.
const (
	DefaultMaxValidationRetries = 3
	DefaultMemoryLookupLimit    = 3
	DefaultAnalysisTemperature  = 0.2
	DefaultCodegenTemperature   = 0.3
	DefaultCodegenMaxTokens     = 4000

	DefaultHTTPTimeout = 120 * time.Second

	// External process timeouts used by the exec-backed tools.
	DefaultTestTimeout      = 120 * time.Second
	DefaultLintTimeout      = 60 * time.Second
	DefaultTypecheckTimeout = 60 * time.Second
)

// DefaultConfig returns a configuration with sensible defaults:
// a single local Ollama provider and the standard retry budget.
func DefaultConfig() *Config {
	return &Config{
		Providers: []ProviderConfig{
			{Name: "ollama", Model: "llama3.2"},
		},
		Agent: AgentConfig{
			MaxValidationRetries: DefaultMaxValidationRetries,
			MemoryLookupLimit:    DefaultMemoryLookupLimit,
			AnalysisTemperature:  DefaultAnalysisTemperature,
			CodegenTemperature:   DefaultCodegenTemperature,
			CodegenMaxTokens:     DefaultCodegenMaxTokens,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
