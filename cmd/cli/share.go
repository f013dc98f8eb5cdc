package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"discord-share/internal/app"
	"discord-share/internal/config"
	"discord-share/internal/models"
	"discord-share/internal/share"
	"discord-share/internal/tagset"
	"discord-share/internal/webhook"
)

func shareCmd() *cobra.Command {
	var (
		title      string
		note       string
		extra      []string
		drop       []string
		noAutoTags bool
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "share <url>",
		Short: "Post a page to the webhook with generated tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, cfg config.Config) error {
				pageURL := args[0]

				var draft models.Draft
				if noAutoTags {
					draft = models.Draft{Page: models.PageContext{URL: pageURL}}
				} else {
					draft = a.Service.PrepareOrFallback(ctx, pageURL)
				}

				tags := editTags(draft.Tags, extra, drop)
				req := share.Request{
					URL:         pageURL,
					Title:       title,
					Tags:        tags,
					Note:        note,
					Description: describe(draft.Page),
				}
				if req.Title == "" {
					req.Title = draft.Page.Title
				}

				out := cmd.OutOrStdout()
				if dryRun {
					shown := req.Title
					if shown == "" {
						shown = req.URL
					}
					fmt.Fprintf(out, "%s\n%s\n%s\n", shown, req.URL, strings.Join(tags, " "))
					return nil
				}
				rec, err := a.Service.Share(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "shared %s %s\n", rec.URL, strings.Join(rec.Tags, " "))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title (default: page title)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "note added to the message")
	cmd.Flags().StringSliceVarP(&extra, "tag", "t", nil, "extra tag (repeatable)")
	cmd.Flags().StringSliceVar(&drop, "drop", nil, "generated tag to leave out (repeatable)")
	cmd.Flags().BoolVar(&noAutoTags, "no-auto-tags", false, "skip fetching the page and tag generation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the message instead of sending it")
	return cmd
}

// editTags applies the user's additions and removals to the generated tags.
func editTags(generated, extra, drop []string) []string {
	dropped := tagset.New(tagset.NormalizeAll(drop)...)
	out := tagset.New()
	for _, t := range generated {
		if !dropped.Has(t) {
			out.Add(t)
		}
	}
	out.Add(tagset.NormalizeAll(extra)...)
	return out.Slice()
}

func describe(page models.PageContext) string {
	if d := page.Metadata[models.MetaDescription]; d != "" {
		return d
	}
	return page.Excerpt
}

func contextCmd() *cobra.Command {
	var cs webhook.ContextShare
	cmd := &cobra.Command{
		Use:   "context <page-url>",
		Short: "Post a selection, link or image from a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs.URL = args[0]
			if cs.Selection == "" && cs.LinkURL == "" && cs.ImageURL == "" {
				return fmt.Errorf("one of --selection, --link or --image is required")
			}
			return withApp(cmd, func(ctx context.Context, a *app.App, _ config.Config) error {
				if cs.Title == "" {
					cs.Title = cs.URL
				}
				if err := a.Service.ShareContext(ctx, cs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "shared context from %s\n", cs.URL)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cs.Title, "title", "", "page title")
	cmd.Flags().StringVar(&cs.Selection, "selection", "", "selected text")
	cmd.Flags().StringVar(&cs.LinkURL, "link", "", "link target")
	cmd.Flags().StringVar(&cs.ImageURL, "image", "", "image source")
	return cmd
}
