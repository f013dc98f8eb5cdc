package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"discord-share/internal/app"
	"discord-share/internal/config"
	"discord-share/internal/ioformats"
	"discord-share/internal/share"
)

func tagsCmd() *cobra.Command {
	var (
		input       string
		output      string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "tags [url]",
		Short: "Generate tags for a page, or for every URL in --input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" && len(args) == 0 {
				return fmt.Errorf("a url or --input is required")
			}
			return withApp(cmd, func(ctx context.Context, a *app.App, cfg config.Config) error {
				if input == "" {
					draft, err := a.Service.Prepare(ctx, args[0])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(draft.Tags, " "))
					return nil
				}

				urls, err := ioformats.ReadURLs(input)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				results := a.Service.PrepareAll(ctx, urls, concurrency, cfg.FetchTimeout())

				w := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("create output: %w", err)
					}
					defer f.Close()
					w = f
				}
				return ioformats.WriteNDJSON(w, results)
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input file (csv with 'url' column or ndjson)")
	cmd.Flags().StringVar(&output, "output", "", "output NDJSON file (default stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", share.DefaultConcurrency, "worker concurrency")
	return cmd
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [prefix]",
		Short: "Suggest tags from recent, saved and popular tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				tags, err := a.Service.Suggest(ctx, prefix)
				if err != nil {
					return err
				}
				for _, t := range tags {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			})
		},
	}
}

func statsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the most used tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				stats, err := a.Service.TagStats(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return ioformats.WriteNDJSON(out, stats)
				}
				if len(stats) == 0 {
					fmt.Fprintln(out, "No tags used yet.")
					return nil
				}
				for _, tc := range stats {
					fmt.Fprintf(out, "%5d  %s\n", tc.Count, tc.Tag)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print [tag, count] pairs as NDJSON")
	return cmd
}
