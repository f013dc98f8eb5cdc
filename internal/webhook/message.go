package webhook

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"discord-share/internal/models"
)

// Embed colors.
const (
	ColorShare = 5865242
	ColorOK    = 3066993
)

const DefaultFooter = "Discord Share"

const maxSelectionLen = 500

// Message is the body of a webhook execute call.
type Message = discordgo.WebhookParams

// ContextShare is a share of a selection, link or image on a page.
type ContextShare struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Selection string `json:"selection,omitempty"`
	LinkURL   string `json:"linkUrl,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func footer(text string) *discordgo.MessageEmbedFooter {
	if text == "" {
		text = DefaultFooter
	}
	return &discordgo.MessageEmbedFooter{Text: text}
}

// BuildShareMessage renders a share record as a single embed with a tags
// field and, when present, a note field.
func BuildShareMessage(rec models.ShareRecord, description, footerText string) Message {
	var fields []*discordgo.MessageEmbedField
	if len(rec.Tags) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🏷️ Tags", Value: strings.Join(rec.Tags, " ")})
	}
	if note := strings.TrimSpace(rec.Note); note != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "📝 Note", Value: note})
	}
	return Message{Embeds: []*discordgo.MessageEmbed{{
		Title:       rec.Title,
		URL:         rec.URL,
		Color:       ColorShare,
		Description: description,
		Fields:      fields,
		Footer:      footer(footerText),
		Timestamp:   timestamp(rec.SentAt),
	}}}
}

func BuildContextMessage(cs ContextShare, footerText string, now time.Time) Message {
	if footerText == "" {
		footerText = DefaultFooter
	}
	e := &discordgo.MessageEmbed{
		Title:     cs.Title,
		URL:       cs.URL,
		Color:     ColorShare,
		Footer:    footer(footerText + " - Context Menu"),
		Timestamp: timestamp(now),
	}
	var msg Message
	if cs.Selection != "" {
		msg.Content = "Selected text: " + cs.Selection
		e.Description = firstRunes(cs.Selection, maxSelectionLen)
	}
	if cs.LinkURL != "" {
		e.Fields = []*discordgo.MessageEmbedField{{Name: "Link", Value: cs.LinkURL}}
	}
	if cs.ImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: cs.ImageURL}
	}
	msg.Embeds = []*discordgo.MessageEmbed{e}
	return msg
}

// BuildTestMessage is posted by Check to confirm the webhook accepts messages.
func BuildTestMessage(footerText string, now time.Time) Message {
	return Message{
		Content: "✅ Discord Share - connection test succeeded!",
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Setup complete",
			Description: "The webhook URL is configured correctly.",
			Color:       ColorOK,
			Footer:      footer(footerText),
			Timestamp:   timestamp(now),
		}},
	}
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
