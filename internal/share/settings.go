package share

import (
	"context"
	"encoding/json"

	"discord-share/internal/history"
	"discord-share/internal/tagset"
	"discord-share/internal/webhook"
)

const (
	KeyWebhookURL = "webhookUrl"
	KeySavedTags  = "savedTags"
)

// Settings holds the small synced values: the webhook URL and the user's
// saved tags.
type Settings struct {
	store           history.Store
	fallbackWebhook string
}

// NewSettings uses fallbackWebhook when no URL has been stored.
func NewSettings(store history.Store, fallbackWebhook string) *Settings {
	return &Settings{store: store, fallbackWebhook: fallbackWebhook}
}

func (s *Settings) WebhookURL(ctx context.Context) (string, error) {
	var url string
	found, err := s.get(ctx, KeyWebhookURL, &url)
	if err != nil {
		return "", err
	}
	if !found || url == "" {
		return s.fallbackWebhook, nil
	}
	return url, nil
}

// SetWebhookURL stores url after checking its shape.
func (s *Settings) SetWebhookURL(ctx context.Context, url string) error {
	if err := webhook.Validate(url); err != nil {
		return err
	}
	return s.put(ctx, KeyWebhookURL, url)
}

func (s *Settings) SavedTags(ctx context.Context) ([]string, error) {
	tags := []string{}
	if _, err := s.get(ctx, KeySavedTags, &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// AddSavedTag normalizes tag and appends it unless already saved.
func (s *Settings) AddSavedTag(ctx context.Context, tag string) ([]string, error) {
	tag = tagset.Normalize(tag)
	tags, err := s.SavedTags(ctx)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return tags, nil
	}
	set := tagset.New(tags...)
	if set.Has(tag) {
		return tags, nil
	}
	set.Add(tag)
	tags = set.Slice()
	return tags, s.put(ctx, KeySavedTags, tags)
}

func (s *Settings) RemoveSavedTag(ctx context.Context, tag string) ([]string, error) {
	tag = tagset.Normalize(tag)
	tags, err := s.SavedTags(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tags) {
		return tags, nil
	}
	return kept, s.put(ctx, KeySavedTags, kept)
}

func (s *Settings) get(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return false, &history.StorageError{Op: "read", Key: key, Err: err}
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &history.StorageError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

func (s *Settings) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &history.StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return &history.StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}
