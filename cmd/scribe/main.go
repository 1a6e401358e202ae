package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/app"
	"scribe/internal/config"
	"scribe/internal/input"
	"scribe/internal/logging"
)

var (
	version  = "0.1.0"
	cfgFile  string
	model    string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scribe",
		Short: "Interactive text and code processing with language models",
		Long: `Scribe reads text from the console or the clipboard, applies a command
such as summarize, code review or reword, and streams the model's answer
as rendered markdown. Recent exchanges are kept for follow-up questions.`,
		SilenceUsage: true,
		RunE:         runSession,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/scribe/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "adapter to use: gemini, ollama or anthropic")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scribe version %s\n", version)
		},
	})
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCheckCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies the command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if model != "" {
		if !slices.Contains(config.KnownAdapters(), model) {
			return nil, fmt.Errorf("unknown model %q, choose one of: %s", model, strings.Join(config.KnownAdapters(), ", "))
		}
		cfg.Model.Default = model
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	cfg.Version = version

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging sends logs to the log file so the terminal stays clean.
func setupLogging(cfg *config.Config) {
	level := logging.ParseLevel(cfg.Logging.Level)
	if !cfg.Logging.File && level != logging.LevelDebug {
		return
	}
	if err := logging.EnableFileLogging(config.Dir(), level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging not available: %v\n", err)
	}
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	setupLogging(cfg)
	defer logging.Close()

	reader := input.NewConsole(cmd.InOrStdin())
	defer reader.Close()

	ctx := context.Background()
	session, err := app.NewBuilder(cfg).
		WithInput(reader).
		WithOutput(cmd.OutOrStdout()).
		WithSignalHandling().
		Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	return session.Run(ctx)
}
