package ioformats

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"time"

	"discord-share/internal/models"
)

var historyHeader = []string{"id", "sent_at", "url", "title", "tags", "note"}

// WriteHistoryCSV writes one row per share, tags space separated.
func WriteHistoryCSV(w io.Writer, recs []models.ShareRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.ID,
			r.SentAt.UTC().Format(time.RFC3339),
			r.URL,
			r.Title,
			strings.Join(r.Tags, " "),
			r.Note,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNDJSON writes items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
