package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"discord-share/internal/app"
	"discord-share/internal/config"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [webhook-url]",
		Short: "Send a test message to a webhook (default: the configured one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				url := ""
				if len(args) > 0 {
					url = args[0]
				} else {
					var err error
					if url, err = a.Service.Settings().WebhookURL(ctx); err != nil {
						return err
					}
				}
				res := a.Service.ValidateWebhook(ctx, url)
				fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				if !res.Valid {
					return fmt.Errorf("webhook check failed")
				}
				return nil
			})
		},
	}
}

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the webhook URL",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <url>",
		Short: "Store the webhook URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				if err := a.Service.Settings().SetWebhookURL(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Webhook saved.")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the webhook URL in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				url, err := a.Service.Settings().WebhookURL(ctx)
				if err != nil {
					return err
				}
				if url == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No webhook configured.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	})
	return cmd
}

func savedTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved-tags",
		Short: "Manage saved tags",
	}

	printTags := func(cmd *cobra.Command, tags []string) {
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved tags.")
			return
		}
		for _, t := range tags {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				tags, err := a.Service.Settings().SavedTags(ctx)
				if err != nil {
					return err
				}
				printTags(cmd, tags)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <tag>...",
		Short: "Save tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				var tags []string
				for _, t := range args {
					var err error
					if tags, err = a.Service.Settings().AddSavedTag(ctx, t); err != nil {
						return err
					}
				}
				printTags(cmd, tags)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <tag>...",
		Short: "Forget saved tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				var tags []string
				for _, t := range args {
					var err error
					if tags, err = a.Service.Settings().RemoveSavedTag(ctx, t); err != nil {
						return err
					}
				}
				printTags(cmd, tags)
				return nil
			})
		},
	})
	return cmd
}
