// Package history keeps the bounded list of sent pages and the lifetime
// usage count of every tag.
package history

import (
	"context"
	"encoding/json"
	"sort"

	"discord-share/internal/models"
	"discord-share/internal/tagset"
)

const (
	KeyHistory      = "history"
	KeyTagFrequency = "tagFrequency"

	// MaxEntries caps the history list; older records are evicted.
	MaxEntries = 100
)

// Recorder persists shares. Tag counts are lifetime counters and are not
// reduced when a record is evicted from the list.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// RecordShare prepends rec to the history and bumps the count of each of
// its tags.
func (r *Recorder) RecordShare(ctx context.Context, rec models.ShareRecord) error {
	rec.Tags = tagset.NormalizeAll(rec.Tags)

	list, err := r.LoadHistory(ctx)
	if err != nil {
		return err
	}
	list = append([]models.ShareRecord{rec}, list...)
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	if err := r.put(ctx, KeyHistory, list); err != nil {
		return err
	}

	freq, err := r.TagFrequency(ctx)
	if err != nil {
		return err
	}
	for _, tag := range rec.Tags {
		freq[tag]++
	}
	return r.put(ctx, KeyTagFrequency, freq)
}

// LoadHistory returns the records newest first, or an empty list.
func (r *Recorder) LoadHistory(ctx context.Context) ([]models.ShareRecord, error) {
	list := []models.ShareRecord{}
	if err := r.get(ctx, KeyHistory, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.ShareRecord{}
	}
	return list, nil
}

// ClearHistory drops the history list. Tag counts are kept.
func (r *Recorder) ClearHistory(ctx context.Context) error {
	if err := r.store.Delete(ctx, KeyHistory); err != nil {
		return &StorageError{Op: "delete", Key: KeyHistory, Err: err}
	}
	return nil
}

func (r *Recorder) TagFrequency(ctx context.Context) (map[string]int, error) {
	freq := map[string]int{}
	if err := r.get(ctx, KeyTagFrequency, &freq); err != nil {
		return nil, err
	}
	if freq == nil {
		freq = map[string]int{}
	}
	return freq, nil
}

// TopTags returns up to limit tags by descending count; equal counts are
// ordered by tag.
func (r *Recorder) TopTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	freq, err := r.TagFrequency(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]models.TagCount, 0, len(freq))
	for tag, n := range freq {
		list = append(list, models.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count == list[j].Count {
			return list[i].Tag < list[j].Tag
		}
		return list[i].Count > list[j].Count
	})
	if limit < 0 {
		limit = 0
	}
	if limit > len(list) {
		limit = len(list)
	}
	return list[:limit], nil
}

// RecentTags collects up to n distinct tags from the newest records.
func (r *Recorder) RecentTags(ctx context.Context, n int) ([]string, error) {
	list, err := r.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	tags := tagset.New()
	for _, rec := range list {
		tags.Add(rec.Tags...)
		if tags.Len() >= n {
			break
		}
	}
	return tags.Head(n), nil
}

func (r *Recorder) get(ctx context.Context, key string, v any) error {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return &StorageError{Op: "read", Key: key, Err: err}
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &StorageError{Op: "decode", Key: key, Err: err}
	}
	return nil
}

func (r *Recorder) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}
