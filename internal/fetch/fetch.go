// internal/fetch/fetch.go
//
// HTTP reachability fetcher.
//
// Context
// -------
// The URL and DOI rules only need to know whether a link answers.  Client
// issues a GET through hashicorp/go-retryablehttp so transient 5xx and
// connection resets are retried a few times before the rule reports the
// link.  Timeouts and retries live here; the orchestrator has none.
//
// Notes
// -----
//   - Redirects are followed; the final status is returned.
//   - A final 5xx is returned as a status, not as an error, so the rule can
//     tell "answered badly" from "never answered" in logs.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/yanizio/recordeditor/internal/validation"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
	maxDrain       = 64 << 10
)

// Options tunes the client.
type Options struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
}

// Client fetches URLs.  Safe for concurrent use.
type Client struct {
	http *retryablehttp.Client
	ua   string
}

// Compile-time assertion.
var _ validation.Fetcher = (*Client)(nil)

// New builds a Client.  Negative Retries disables retrying.
func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Retries == 0 {
		o.Retries = DefaultRetries
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = "recordeditor-linkcheck/1"
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = o.Retries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = o.Timeout
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = zapLeveled{zap.S().Named("fetch")}

	return &Client{http: rc, ua: o.UserAgent}
}

// Fetch GETs url and returns the final status code.
func (c *Client) Fetch(ctx context.Context, url string) (int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.ua)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	return resp.StatusCode, nil
}

// zapLeveled adapts a sugared logger to retryablehttp.LeveledLogger.
type zapLeveled struct{ s *zap.SugaredLogger }

func (z zapLeveled) Error(msg string, kv ...interface{}) { z.s.Errorw(msg, kv...) }
func (z zapLeveled) Info(msg string, kv ...interface{})  { z.s.Debugw(msg, kv...) }
func (z zapLeveled) Debug(msg string, kv ...interface{}) { z.s.Debugw(msg, kv...) }
func (z zapLeveled) Warn(msg string, kv ...interface{})  { z.s.Warnw(msg, kv...) }
