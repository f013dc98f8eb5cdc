package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-share/internal/crawler"
	"discord-share/internal/history"
	"discord-share/internal/parser"
	"discord-share/internal/share"
	"discord-share/internal/webhook"
	"discord-share/pkg/logger"
)

const hookURL = "https://discord.com/api/webhooks/1/abc"

type pageFetcher struct{}

func (pageFetcher) Fetch(_ context.Context, rawURL string) (io.ReadCloser, string, string, time.Duration, error) {
	if strings.HasPrefix(rawURL, "notaurl") {
		return nil, "", "", 0, crawler.ErrInvalidURL
	}
	page := `<html><head><title>Python tutorial</title></head><body></body></html>`
	return io.NopCloser(strings.NewReader(page)), rawURL, "text/html", 0, nil
}

// statusDoer answers every webhook post with a fixed status.
type statusDoer struct {
	code  int
	posts int
}

func (d *statusDoer) Do(req *http.Request) (*http.Response, error) {
	d.posts++
	return &http.Response{StatusCode: d.code, Body: io.NopCloser(strings.NewReader(""))}, nil
}

func newTestServer(t *testing.T, code int) (*httptest.Server, *statusDoer) {
	t.Helper()
	doer := &statusDoer{code: code}
	svc := share.NewService(share.Options{
		Fetcher:   pageFetcher{},
		Extractor: parser.New(),
		Sender:    webhook.NewClient(doer, ""),
		Recorder:  history.NewRecorder(history.NewMemoryStore()),
		Settings:  share.NewSettings(history.NewMemoryStore(), ""),
	})
	ts := httptest.NewServer(newRouter(svc, logger.Discard(), time.Second))
	t.Cleanup(ts.Close)
	return ts, doer
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, 204)
	resp := do(t, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShareFlow(t *testing.T) {
	ts, doer := newTestServer(t, 204)

	resp := do(t, http.MethodPost, ts.URL+"/share", map[string]any{"url": "https://example.org"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/settings/webhook", map[string]string{"url": "https://example.com/x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, ts.URL+"/settings/webhook", map[string]string{"url": hookURL})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/share", map[string]any{
		"url":  "https://example.org",
		"tags": []string{"go", "#go", "web"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}
	decodeBody(t, resp, &rec)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, []string{"#go", "#web"}, rec.Tags)
	assert.Equal(t, 1, doer.posts)

	resp = do(t, http.MethodGet, ts.URL+"/history", nil)
	var list []map[string]any
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)

	resp = do(t, http.MethodGet, ts.URL+"/tags/stats", nil)
	var stats [][]any
	decodeBody(t, resp, &stats)
	require.Len(t, stats, 2)
	assert.Equal(t, "#go", stats[0][0])
	assert.Equal(t, float64(1), stats[0][1])

	resp = do(t, http.MethodDelete, ts.URL+"/history", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, ts.URL+"/history", nil)
	decodeBody(t, resp, &list)
	assert.Empty(t, list)
}

func TestShareWebhookRejected(t *testing.T) {
	ts, _ := newTestServer(t, 404)
	do(t, http.MethodPut, ts.URL+"/settings/webhook", map[string]string{"url": hookURL})

	resp := do(t, http.MethodPost, ts.URL+"/share", map[string]any{"url": "https://example.org"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/webhook/validate", map[string]string{"url": hookURL})
	var res webhook.Result
	decodeBody(t, resp, &res)
	assert.False(t, res.Valid)
	assert.Equal(t, "webhook URL not found", res.Message)
}

func TestGenerate(t *testing.T) {
	ts, _ := newTestServer(t, 204)

	resp := do(t, http.MethodPost, ts.URL+"/tags/generate", map[string]string{"url": "https://github.com/a/b"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var draft struct {
		Tags []string `json:"tags"`
	}
	decodeBody(t, resp, &draft)
	assert.Subset(t, draft.Tags, []string{"#github", "#python", "#tutorial"})

	resp = do(t, http.MethodPost, ts.URL+"/tags/generate", map[string]string{"url": "notaurl"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload(t *testing.T) {
	ts, _ := newTestServer(t, 204)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "urls.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("url\nhttps://qiita.com/a\nhttps://zenn.dev/b\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/tags/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	dec := json.NewDecoder(resp.Body)
	var lines []share.BatchResult
	for {
		var br share.BatchResult
		if err := dec.Decode(&br); errors.Is(err, io.EOF) {
			break
		} else {
			require.NoError(t, err)
		}
		lines = append(lines, br)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "https://qiita.com/a", lines[0].URL)
	require.NotNil(t, lines[1].Draft)
	assert.Contains(t, lines[1].Draft.Tags, "#zenn")
}

func TestSavedTagsAndSuggest(t *testing.T) {
	ts, _ := newTestServer(t, 204)

	resp := do(t, http.MethodPost, ts.URL+"/tags/saved", map[string]string{"tag": "golang"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/tags/suggest?q=lang", nil)
	var tags []string
	decodeBody(t, resp, &tags)
	assert.Equal(t, []string{"#golang"}, tags)

	resp = do(t, http.MethodDelete, ts.URL+"/tags/saved?tag=golang", nil)
	decodeBody(t, resp, &tags)
	assert.Empty(t, tags)

	resp = do(t, http.MethodDelete, ts.URL+"/tags/saved", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&webhook.ValidationError{Reason: "x"}, http.StatusBadRequest},
		{&webhook.NetworkError{StatusCode: 500}, http.StatusBadGateway},
		{&history.StorageError{Op: "write", Key: "k", Err: errors.New("full")}, http.StatusInternalServerError},
		{crawler.ErrNotHTML, http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusFor(c.err), "%v", c.err)
	}
}
