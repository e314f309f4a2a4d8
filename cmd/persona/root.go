package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kalambet/redditpersona/internal/config"
)

var (
	noColor bool
	appCfg  config.Config
)

var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Build a user persona from a Reddit profile with a local model",
	Long: `Build a user persona from a Reddit profile with a local model.

Run without arguments for the interactive prompt, or use a subcommand:
  persona generate https://www.reddit.com/user/spez/
  persona status
  persona config show`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			noColor = true
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appCfg = cfg
		setupLogging(cfg.Log.Level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		a, err := newApp(appCfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), colorize(titleStyle, "Reddit User Persona Generator"))
		if err := a.ensureReady(ctx); err != nil {
			return err
		}
		return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a.generator)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}

// setupLogging installs the process-wide slog handler on stderr.
func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
