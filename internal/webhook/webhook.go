// Package webhook validates Discord webhook URLs and posts messages to them.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var urlPattern = regexp.MustCompile(`^https://(discord\.com|discordapp\.com)/api/webhooks/\d+/[\w-]+$`)

// ValidationError reports a webhook URL rejected before any network call.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return "webhook: " + e.Reason
}

// NetworkError reports a failed POST. StatusCode is zero when no response
// was received.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("webhook: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook: send: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Validate checks the URL shape only.
func Validate(url string) error {
	if strings.TrimSpace(url) == "" {
		return &ValidationError{URL: url, Reason: "webhook url is empty"}
	}
	if !urlPattern.MatchString(url) {
		return &ValidationError{URL: url, Reason: "not a valid Discord webhook URL"}
	}
	return nil
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	http   Doer
	footer string
	now    func() time.Time
}

func NewClient(doer Doer, footerText string) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{http: doer, footer: footerText, now: time.Now}
}

// Send posts msg to url. Any non-2xx answer is a *NetworkError.
func (c *Client) Send(ctx context.Context, url string, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("webhook: encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Result is the answer to a webhook check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Check validates url and posts a test message to it.
func (c *Client) Check(ctx context.Context, url string) Result {
	if err := Validate(url); err != nil {
		var ve *ValidationError
		errors.As(err, &ve)
		return Result{Valid: false, Message: ve.Reason}
	}
	err := c.Send(ctx, url, BuildTestMessage(c.footer, c.now()))
	if err == nil {
		return Result{Valid: true, Message: "connection test succeeded"}
	}
	return Result{Valid: false, Message: Describe(err)}
}

// Describe turns a send error into a message for the user.
func Describe(err error) string {
	var ne *NetworkError
	if !errors.As(err, &ne) {
		return err.Error()
	}
	switch ne.StatusCode {
	case 0:
		return fmt.Sprintf("connection error: %v", ne.Err)
	case http.StatusNotFound:
		return "webhook URL not found"
	case http.StatusUnauthorized:
		return "webhook URL is invalid"
	default:
		return fmt.Sprintf("error: %d", ne.StatusCode)
	}
}
