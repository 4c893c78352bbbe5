// Package rest talks to the scripting add-on's REST API and the tracker's
// project endpoint.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// PluginPath is the add-on API root relative to the tracker base URL.
	PluginPath = "/rest/my-groovy/latest"
	// TrackerPath is the tracker's own API root.
	TrackerPath = "/rest/api/2"

	// MaxResponseBytes caps the size of a response body.
	MaxResponseBytes = 16 << 20
)

// ErrResponseTooLarge is returned when a body exceeds MaxResponseBytes.
var ErrResponseTooLarge = errors.New("response body too large")

// Error is a non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a thin JSON client over the add-on API.
type Client struct {
	base    string
	token   string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		timeout: cfg.Timeout,
		http:    httpClient,
		logger:  logger,
	}
}

// Listeners returns the listener endpoints.
func (c *Client) Listeners() *ListenerClient { return &ListenerClient{c: c} }

// Scheduled returns the scheduled task endpoints.
func (c *Client) Scheduled() *ScheduledClient { return &ScheduledClient{c: c} }

// Registry returns the script registry endpoints.
func (c *Client) Registry() *RegistryClient { return &RegistryClient{c: c} }

// RestScripts returns the REST script endpoints.
func (c *Client) RestScripts() *RestScriptClient { return &RestScriptClient{c: c} }

// Executions returns the execution history endpoints.
func (c *Client) Executions() *ExecutionClient { return &ExecutionClient{c: c} }

// Watches returns the watch endpoints.
func (c *Client) Watches() *WatchClient { return &WatchClient{c: c} }

// Jira returns the tracker reference data endpoints.
func (c *Client) Jira() *JiraClient { return &JiraClient{c: c} }

func (c *Client) plugin(ctx context.Context, method, path string, in, out any) error {
	return c.do(ctx, method, c.base+PluginPath+"/"+path, in, out)
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream request", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(data) > MaxResponseBytes {
		return fmt.Errorf("%s %s: %w", method, url, ErrResponseTooLarge)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts {"message"} or {"error"} from body, falling back to
// the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Field   string `json:"field"`
	}
	if json.Unmarshal(body, &payload) == nil {
		msg := payload.Message
		if msg == "" {
			msg = payload.Error
		}
		if msg != "" {
			if payload.Field != "" {
				return payload.Field + ": " + msg
			}
			return msg
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}
