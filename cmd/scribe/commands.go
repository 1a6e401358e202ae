package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scribe/internal/client"
	"scribe/internal/commands"
	"scribe/internal/config"
	"scribe/internal/logging"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the command triggers",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := commands.DefaultRegistry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, group := range registry.ByCategory() {
				fmt.Fprintf(out, "%s %s\n", group.Info.Icon, group.Info.Name)
				for _, c := range group.Commands {
					fmt.Fprintf(out, "  %-4s %s\n", c.Trigger, c.Description)
				}
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var write bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after the config file, environment variables and
flags are applied. API keys are masked. With --write the configuration is
saved to the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if write {
				path := cfgFile
				if path == "" {
					path = config.GetConfigPath()
				}
				if err := cfg.Save(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
				return nil
			}

			masked := *cfg
			masked.API.GeminiKey = mask(cfg.API.GeminiKey)
			masked.API.AnthropicKey = mask(cfg.API.AnthropicKey)
			masked.API.OllamaKey = mask(cfg.API.OllamaKey)

			data, err := yaml.Marshal(&masked)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	configCmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to the config file")

	return configCmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check which model adapters are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Adapter construction warnings go to stderr for this command.
			logging.Configure(logging.LevelWarn, cmd.ErrOrStderr())

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			gateway := client.NewGateway(cfg, client.NewAdapters(ctx, cfg)...)
			if len(gateway.Names()) == 0 {
				return fmt.Errorf("no model adapter is configured")
			}
			for _, name := range config.KnownAdapters() {
				a, err := gateway.Adapter(name)
				if err != nil {
					fmt.Fprintf(out, "%-10s %-28s %s\n", name, "-", "not configured")
					continue
				}
				status := "configured"
				if h, ok := a.(interface{ Healthcheck(context.Context) error }); ok {
					if err := h.Healthcheck(ctx); err != nil {
						status = "unreachable: " + err.Error()
					} else {
						status = "reachable"
					}
				}
				fmt.Fprintf(out, "%-10s %-28s %s\n", name, a.Model(), status)
			}
			fmt.Fprintf(out, "\nDefault: %s\n", gateway.DefaultName())
			return nil
		},
	}
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
