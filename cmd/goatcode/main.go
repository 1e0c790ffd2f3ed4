package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shivay00001/goatcode/internal/agent"
	"github.com/Shivay00001/goatcode/internal/config"
	"github.com/Shivay00001/goatcode/internal/llm"
	"github.com/Shivay00001/goatcode/internal/logging"
	"github.com/Shivay00001/goatcode/internal/memory"
	"github.com/Shivay00001/goatcode/internal/tools"
)

var (
	version = "0.1.0"

	cfgFile     string
	projectPath string
	prompt      string
	provider    string
	model       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goatcode",
		Short: "Deterministic, tool-augmented coding agent",
		Long: `Goatcode turns a natural-language coding request into validated code
changes. It analyzes intent, gathers project context, plans, generates
code through a failover chain of LLM providers, and iterates until the
project's own tests, linter, and type checker pass.`,
		RunE: runAgent,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/goatcode/config.yaml)")
	rootCmd.Flags().StringVar(&projectPath, "project", ".", "path to the project directory")
	rootCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "the coding request (required)")
	rootCmd.Flags().StringVar(&provider, "provider", "", "override the first provider (ollama, openai, anthropic, gemini)")
	rootCmd.Flags().StringVar(&model, "model", "", "override the first provider's model")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("goatcode version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAgent(cmd *cobra.Command, args []string) error {
	if prompt == "" {
		return fmt.Errorf("--prompt is required")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Version = version

	if provider != "" {
		override := config.ProviderConfig{Name: provider, Model: model}
		if override.Model == "" && len(cfg.Providers) > 0 {
			override.Model = cfg.Providers[0].Model
		}
		cfg.Providers = append([]config.ProviderConfig{override}, cfg.Providers...)
	} else if model != "" && len(cfg.Providers) > 0 {
		cfg.Providers[0].Model = model
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	logging.Configure(level, os.Stderr)
	if cfg.Logging.File {
		if err := logging.EnableFileLogging(config.ConfigDir(), level); err != nil {
			logging.Warn("could not enable file logging", "error", err)
		}
	}
	defer logging.Close()

	ctx := context.Background()
	router, err := llm.NewRouterFromConfig(ctx, cfg.Providers)
	if err != nil {
		return fmt.Errorf("failed to build provider chain: %w", err)
	}

	store := memory.NewStore()
	registry := tools.DefaultRegistry(store)
	engine := agent.NewEngine(registry)

	a := agent.New(router, registry, store, engine, cfg)
	result, err := a.Execute(ctx, prompt, projectPath)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(out))

	if result.Status == agent.StatusError {
		os.Exit(1)
	}
	return nil
}
