// Package client talks to a running modelsvc instance: it checks /status and
// submits file jobs to /run.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"modelsvc/internal/manager"
	"modelsvc/pkg/types"
)

const (
	StatusRoute = "/status"
	RunRoute    = "/run"
)

// ErrUnexpectedStatus is wrapped by errors for non-200 responses.
var ErrUnexpectedStatus = errors.New("model returned non-success status code")

// Client is a small HTTP client for the model service.
type Client struct {
	base *url.URL
	hc   *http.Client
	log  zerolog.Logger
}

// Option customizes New.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithLogger logs each call and the decoded response at info level.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// New parses rawURL, defaulting the scheme to http.
func New(rawURL string, opts ...Option) (*Client, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("empty model url")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid model url: %s", rawURL)
	}
	c := &Client{base: u, hc: &http.Client{Timeout: 5 * time.Minute}, log: zerolog.Nop()}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) endpoint(route string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + route
	return u.String()
}

// Status fetches /status. A non-200 answer is returned together with an error
// wrapping ErrUnexpectedStatus.
func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var st types.StatusResponse
	code, err := c.do(ctx, http.MethodGet, StatusRoute, nil, &st)
	if err != nil {
		return st, err
	}
	if code != http.StatusOK {
		return st, fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
	return st, nil
}

// WaitReady polls /status until it answers 200 or ctx is done.
func (c *Client) WaitReady(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = time.Second
	}
	for {
		if _, err := c.Status(ctx); err == nil {
			return nil
		}
		select {
		case <-time.After(every):
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for %s: %w", c.endpoint(StatusRoute), ctx.Err())
		}
	}
}

// PostJob submits a file job. input and output are paths in the server's
// filesystem.
func (c *Client) PostJob(ctx context.Context, input, output string) (types.MessageResponse, error) {
	job := types.JobRequest{Type: manager.JobTypeFile, Input: &input, Output: &output}
	var msg types.MessageResponse
	code, err := c.do(ctx, http.MethodPost, RunRoute, job, &msg)
	if err != nil {
		return msg, err
	}
	if code != http.StatusOK {
		return msg, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, code, msg.Message)
	}
	return msg, nil
}

// RunJob checks the service status and then posts the job.
func (c *Client) RunJob(ctx context.Context, input, output string) (types.MessageResponse, error) {
	if _, err := c.Status(ctx); err != nil {
		return types.MessageResponse{}, err
	}
	return c.PostJob(ctx, input, output)
}

func (c *Client) do(ctx context.Context, method, route string, body, out any) (int, error) {
	target := c.endpoint(route)
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return 0, fmt.Errorf("invalid model url: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.log.Info().Str("method", method).Str("url", target).Msg("calling model")
	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("unable to connect to model url %s: %w", c.base, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, fmt.Errorf("model returned invalid json from %s: %w", target, err)
	}
	c.log.Info().Int("status", resp.StatusCode).RawJSON("body", raw).Msg("received response")
	return resp.StatusCode, nil
}
