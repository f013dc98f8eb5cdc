package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"discord-share/internal/app"
	"discord-share/internal/config"
	"discord-share/pkg/logger"
)

// Shared CLI flags
var (
	cfgFile   string
	verbose   bool
	ephemeral bool
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "discord-share",
		Short: "Share web pages to a Discord channel with generated tags",
		Long: `discord-share fetches a page, proposes hashtags for it and posts it
to a Discord webhook. Sent pages are kept in a local history with
lifetime tag statistics.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "discord-share.yaml", "config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep settings and history in memory only")

	root.AddCommand(shareCmd())
	root.AddCommand(contextCmd())
	root.AddCommand(tagsCmd())
	root.AddCommand(suggestCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(webhookCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(savedTagsCmd())
	return root
}

// withApp loads the configuration, assembles the service and runs fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, cfg config.Config) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logger.LevelDebug
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), level)

	a, err := app.Build(cfg, log, app.Options{Ephemeral: ephemeral})
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a, cfg)
}
