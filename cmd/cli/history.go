package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"discord-share/internal/app"
	"discord-share/internal/config"
	"discord-share/internal/ioformats"
)

func historyCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List sent pages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				list, err := a.Service.History(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch format {
				case "json":
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(list)
				case "ndjson":
					return ioformats.WriteNDJSON(out, list)
				case "csv":
					return ioformats.WriteHistoryCSV(out, list)
				case "text":
				default:
					return fmt.Errorf("unknown format %q", format)
				}
				if len(list) == 0 {
					fmt.Fprintln(out, "No history.")
					return nil
				}
				for _, r := range list {
					fmt.Fprintf(out, "%s  %s\n    %s  %s\n",
						r.SentAt.Local().Format("2006-01-02 15:04"), r.Title, r.URL, strings.Join(r.Tags, " "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, ndjson or csv")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the history; tag statistics are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				if err := a.Service.ClearHistory(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			})
		},
	})
	return cmd
}
