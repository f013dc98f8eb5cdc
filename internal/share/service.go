// Package share runs a share from page to webhook: it proposes tags for a
// page, posts the edited result and records it.
package share

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"discord-share/internal/history"
	"discord-share/internal/models"
	"discord-share/internal/tagger"
	"discord-share/internal/tagset"
	"discord-share/internal/webhook"
	"discord-share/pkg/logger"
)

// StatsLimit bounds TagStats.
const StatsLimit = 20

// recentTagLimit is how many recent tags feed suggestions.
const recentTagLimit = 10

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, string, time.Duration, error)
}

type Extractor interface {
	Extract(r io.Reader, contentType, pageURL string) (models.PageContext, error)
}

type Sender interface {
	Send(ctx context.Context, url string, msg webhook.Message) error
	Check(ctx context.Context, url string) webhook.Result
}

type Service struct {
	fetcher   Fetcher
	extractor Extractor
	tags      *tagger.Generator
	sender    Sender
	recorder  *history.Recorder
	settings  *Settings
	log       *logger.Logger
	footer    string

	now   func() time.Time
	newID func() string
}

type Options struct {
	Fetcher   Fetcher
	Extractor Extractor
	Sender    Sender
	Recorder  *history.Recorder
	Settings  *Settings
	Logger    *logger.Logger
	Footer    string
}

func NewService(o Options) *Service {
	log := o.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		fetcher:   o.Fetcher,
		extractor: o.Extractor,
		tags:      tagger.New(),
		sender:    o.Sender,
		recorder:  o.Recorder,
		settings:  o.Settings,
		log:       log,
		footer:    o.Footer,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) Settings() *Settings { return s.settings }

// Prepare fetches the page and proposes tags for it.
func (s *Service) Prepare(ctx context.Context, rawURL string) (models.Draft, error) {
	body, finalURL, ct, took, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return models.Draft{}, fmt.Errorf("share: fetch %s: %w", rawURL, err)
	}
	defer body.Close()

	page, err := s.extractor.Extract(body, ct, finalURL)
	if err != nil {
		return models.Draft{}, fmt.Errorf("share: parse %s: %w", finalURL, err)
	}
	draft := s.Draft(page)
	s.log.Debugf("prepared %s in %s: %d tags", finalURL, took, len(draft.Tags))
	return draft, nil
}

// PrepareOrFallback is Prepare that degrades to URL-only tags when the page
// cannot be fetched or parsed.
func (s *Service) PrepareOrFallback(ctx context.Context, rawURL string) models.Draft {
	draft, err := s.Prepare(ctx, rawURL)
	if err != nil {
		s.log.Warnf("%v; tagging from the url only", err)
		return s.Draft(models.PageContext{URL: rawURL})
	}
	return draft
}

// Draft proposes tags for an already scraped page.
func (s *Service) Draft(page models.PageContext) models.Draft {
	return models.Draft{Page: page, Tags: s.tags.Generate(page)}
}

type Request struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Note        string   `json:"note,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (s *Service) webhookURL(ctx context.Context) (string, error) {
	url, err := s.settings.WebhookURL(ctx)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", &webhook.ValidationError{Reason: "webhook url is not configured"}
	}
	if err := webhook.Validate(url); err != nil {
		return "", err
	}
	return url, nil
}

// Share posts the page to the configured webhook and records it. A record
// that fails to persist after a successful post is still returned together
// with the storage error.
func (s *Service) Share(ctx context.Context, req Request) (models.ShareRecord, error) {
	if strings.TrimSpace(req.URL) == "" {
		return models.ShareRecord{}, &webhook.ValidationError{Reason: "page url is empty"}
	}
	url, err := s.webhookURL(ctx)
	if err != nil {
		return models.ShareRecord{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = req.URL
	}
	rec := models.ShareRecord{
		ID:     s.newID(),
		URL:    req.URL,
		Title:  title,
		Tags:   tagset.NormalizeAll(req.Tags),
		Note:   strings.TrimSpace(req.Note),
		SentAt: s.now(),
	}

	msg := webhook.BuildShareMessage(rec, req.Description, s.footer)
	if err := s.sender.Send(ctx, url, msg); err != nil {
		s.log.Errorf("share %s failed: %v", rec.URL, err)
		return models.ShareRecord{}, fmt.Errorf("share: send: %w", err)
	}
	s.log.Infof("shared %s with %d tags", rec.URL, len(rec.Tags))

	if err := s.recorder.RecordShare(ctx, rec); err != nil {
		s.log.Errorf("record %s failed: %v", rec.URL, err)
		return rec, fmt.Errorf("share: record: %w", err)
	}
	return rec, nil
}

// ShareContext posts a selection, link or image. It is not recorded.
func (s *Service) ShareContext(ctx context.Context, cs webhook.ContextShare) error {
	url, err := s.webhookURL(ctx)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, url, webhook.BuildContextMessage(cs, s.footer, s.now())); err != nil {
		s.log.Errorf("context share %s failed: %v", cs.URL, err)
		return fmt.Errorf("share: send: %w", err)
	}
	s.log.Infof("shared context from %s", cs.URL)
	return nil
}

func (s *Service) ValidateWebhook(ctx context.Context, url string) webhook.Result {
	return s.sender.Check(ctx, url)
}

func (s *Service) History(ctx context.Context) ([]models.ShareRecord, error) {
	return s.recorder.LoadHistory(ctx)
}

func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.recorder.ClearHistory(ctx); err != nil {
		return err
	}
	s.log.Infof("history cleared")
	return nil
}

func (s *Service) TagStats(ctx context.Context) ([]models.TagCount, error) {
	return s.recorder.TopTags(ctx, StatsLimit)
}

// Suggest completes prefix from recent tags, then saved and frequently used
// tags, then the built-in popular list.
func (s *Service) Suggest(ctx context.Context, prefix string) ([]string, error) {
	recent, err := s.recorder.RecentTags(ctx, recentTagLimit)
	if err != nil {
		return nil, err
	}
	frequent, err := s.settings.SavedTags(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.recorder.TopTags(ctx, StatsLimit)
	if err != nil {
		return nil, err
	}
	for _, tc := range top {
		frequent = append(frequent, tc.Tag)
	}
	return s.tags.Suggestions(prefix, recent, frequent), nil
}
