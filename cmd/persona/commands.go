package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/redditpersona/internal/api"
	"github.com/kalambet/redditpersona/internal/config"
	"github.com/kalambet/redditpersona/internal/ollama"
	"github.com/kalambet/redditpersona/internal/pipeline"
	"github.com/kalambet/redditpersona/internal/storage"
)

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate <profile-url>",
	Short: "Generate one persona and print it",
	Long: `Generate one persona and print it.

Examples:
  persona generate https://www.reddit.com/user/spez/
  persona generate https://www.reddit.com/user/spez/ > spez.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		a, err := newApp(appCfg)
		if err != nil {
			return err
		}
		if err := a.ensureReady(ctx); err != nil {
			return errors.New(pipeline.Describe(err))
		}

		res, err := a.generator.Generate(ctx, args[0])
		if err != nil {
			return errors.New(pipeline.Describe(err))
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Document)
		printSuccess("Persona saved to %s", res.Path)
		return nil
	},
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show model server, credentials and output status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context(), appCfg)
	},
}

func showStatus(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := ollama.New(cfg.Ollama.BaseURL)
	srv := ollama.NewServer(client, cfg.Ollama.Model, false)
	switch {
	case srv.IsReady(ctx):
		printStatus("Ollama", "running at %s", client.BaseURL())
		printStatus("Model", "%s (available)", cfg.Ollama.Model)
	case client.IsRunning(ctx):
		printStatus("Ollama", "running at %s", client.BaseURL())
		printStatus("Model", "%s (not pulled)", cfg.Ollama.Model)
	default:
		printStatus("Ollama", "not running")
		printStatus("Model", "%s", cfg.Ollama.Model)
	}

	if cfg.Reddit.ClientID != "" && cfg.Reddit.ClientSecret != "" {
		printStatus("Reddit", "credentials configured")
	} else {
		printStatus("Reddit", "credentials missing")
	}

	printStatus("Output dir", "%s", cfg.Output.Dir)
	if _, err := os.Stat(cfg.Output.Dir); err == nil {
		store, err := storage.Open(cfg.Output.Dir, cfg.Output.Readme)
		if err != nil {
			return err
		}
		names, err := store.ListPersonas()
		if err != nil {
			return err
		}
		printStatus("Personas", "%d", len(names))
	} else if !errors.Is(err, fs.ErrNotExist) {
		printWarning("cannot read output dir: %v", err)
	}

	printStatus("Config file", "%s", config.ConfigFilePath())
	return nil
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range config.ShowAll(appCfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(boldStyle, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve persona tools over MCP (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		a, err := newApp(appCfg)
		if err != nil {
			return err
		}

		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Generator: a.generator,
			Personas:  a.store,
			Ready: func(ctx context.Context) error {
				return a.server.EnsureReady(ctx, os.Stderr)
			},
		})
		slog.Info("MCP server started (stdio transport)")
		err = server.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP stdio server: %w", err)
		}
		return nil
	},
}
