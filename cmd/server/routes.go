package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"discord-share/internal/crawler"
	"discord-share/internal/history"
	"discord-share/internal/ioformats"
	"discord-share/internal/share"
	"discord-share/internal/webhook"
	"discord-share/pkg/logger"
)

const maxRequestBody = 1 << 20

type urlReq struct {
	URL string `json:"url"`
}

type batchReq struct {
	URLs []string `json:"urls"`
}

type tagReq struct {
	Tag string `json:"tag"`
}

type handlers struct {
	svc     *share.Service
	log     *logger.Logger
	timeout time.Duration
}

func newRouter(svc *share.Service, l *logger.Logger, fetchTimeout time.Duration) http.Handler {
	h := &handlers{svc: svc, log: l, timeout: fetchTimeout}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(func(next http.Handler) http.Handler { return logRequest(l, next) })

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/webhook/validate", h.validateWebhook)
	r.Get("/settings/webhook", h.getWebhook)
	r.Put("/settings/webhook", h.putWebhook)

	r.Get("/history", h.history)
	r.Delete("/history", h.clearHistory)

	r.Route("/tags", func(r chi.Router) {
		r.Get("/stats", h.tagStats)
		r.Get("/suggest", h.suggest)
		r.Post("/generate", h.generate)
		r.Post("/batch", h.batch)
		r.Post("/upload", h.upload)
		r.Get("/saved", h.savedTags)
		r.Post("/saved", h.addSavedTag)
		r.Delete("/saved", h.removeSavedTag)
	})

	r.Post("/share", h.share)
	r.Post("/share/context", h.shareContext)
	return r
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return false
	}
	return true
}

func (h *handlers) validateWebhook(w http.ResponseWriter, r *http.Request) {
	var req urlReq
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.ValidateWebhook(r.Context(), req.URL))
}

func (h *handlers) getWebhook(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.Settings().WebhookURL(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url, "configured": url != ""})
}

func (h *handlers) putWebhook(w http.ResponseWriter, r *http.Request) {
	var req urlReq
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Settings().SetWebhookURL(r.Context(), req.URL); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": req.URL, "configured": true})
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.History(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearHistory(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) tagStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.TagStats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) suggest(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// POST /tags/generate  { "url": "https://..." }
func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	var req urlReq
	if !decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout+5*time.Second)
	defer cancel()

	draft, err := h.svc.Prepare(ctx, req.URL)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// POST /tags/batch  { "urls": ["https://...", "..."] }
func (h *handlers) batch(w http.ResponseWriter, r *http.Request) {
	var req batchReq
	if !decode(w, r, &req) {
		return
	}
	if len(req.URLs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	writeJSON(w, http.StatusOK, h.svc.PrepareAll(r.Context(), req.URLs, share.DefaultConcurrency, h.timeout))
}

// POST /tags/upload (multipart file=...) -> NDJSON
func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart parse error"})
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file part 'file' required"})
		return
	}
	defer f.Close()

	urls, err := ioformats.DecodeURLs(f, ioformats.FormatFromName(header.Filename))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	results := h.svc.PrepareAll(r.Context(), urls, share.DefaultConcurrency, h.timeout)
	w.Header().Set("Content-Type", "application/x-ndjson")
	if err := ioformats.WriteNDJSON(w, results); err != nil {
		h.log.Errorf("write upload results: %v", err)
	}
}

func (h *handlers) share(w http.ResponseWriter, r *http.Request) {
	var req share.Request
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.svc.Share(r.Context(), req)
	if err != nil {
		var se *history.StorageError
		if rec.ID != "" && errors.As(err, &se) {
			// the message went out; only the history write failed
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error(), "record": rec})
			return
		}
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *handlers) shareContext(w http.ResponseWriter, r *http.Request) {
	var req webhook.ContextShare
	if !decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.svc.ShareContext(r.Context(), req); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) savedTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Settings().SavedTags(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *handlers) addSavedTag(w http.ResponseWriter, r *http.Request) {
	var req tagReq
	if !decode(w, r, &req) {
		return
	}
	tags, err := h.svc.Settings().AddSavedTag(r.Context(), req.Tag)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// DELETE /tags/saved?tag=go
func (h *handlers) removeSavedTag(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tag is required"})
		return
	}
	tags, err := h.svc.Settings().RemoveSavedTag(r.Context(), tag)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= 500 {
		h.log.Errorf("%v", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var (
		ve *webhook.ValidationError
		ne *webhook.NetworkError
		se *history.StorageError
	)
	switch {
	case errors.As(err, &ve), errors.Is(err, crawler.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, crawler.ErrNotHTML):
		return http.StatusUnprocessableEntity
	case errors.As(err, &se):
		return http.StatusInternalServerError
	case errors.As(err, &ne):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		l.Infof("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
