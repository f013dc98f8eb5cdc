
package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "discord-share/1.0 (+https://github.com/discord-share)"

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrNotHTML    = errors.New("non-html content")
)

// HTTPClient fetches pages whose tags are generated before sharing.
type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

// NewTransport is shared with the webhook client so both sides dial the same way.
func NewTransport(dialTimeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Transport: NewTransport(dialTimeout),
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: userAgent,
	}
}

// Fetch returns the capped body, the final URL after redirects, the content
// type and the elapsed time.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, string, time.Duration, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, "", "", 0, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", "", 0, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", "", 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, "", "", 0, fmt.Errorf("http status %d", resp.StatusCode)
	}

	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, "", "", 0, err
		}
		body = gz
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	// servers that omit the header are let through
	if !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") && mediaType != "" {
		body.Close()
		resp.Body.Close()
		return nil, "", "", 0, ErrNotHTML
	}

	finalURL := resp.Request.URL.String()
	elapsed := time.Since(start)
	return &cappedBody{Reader: io.LimitReader(body, h.sizeCap), closers: []io.Closer{body, resp.Body}}, finalURL, contentType, elapsed, nil
}

type cappedBody struct {
	io.Reader
	closers []io.Closer
}

func (c *cappedBody) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
