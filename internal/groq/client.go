// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package groq

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Configuration constants for the chat-completions API.
const (
	// DefaultBaseURL is the base URL of Groq's OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultTemperature is the sampling temperature sent with every request.
	DefaultTemperature = 0.7

	// DefaultMaxTokens caps the completion length.
	DefaultMaxTokens = 4096

	// maxErrorBodyChars bounds how much of an error body ends up in messages.
	maxErrorBodyChars = 512

	// maxErrorBodyBytes bounds how much of an error body is read.
	maxErrorBodyBytes = 64 * 1024
)

// sharedStreamingClient has no overall timeout: streams are bounded by the
// caller's context. Dial and TLS handshakes still time out.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatMessage is a single message in the request history.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the body of a chat-completions request.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// Delta is one unit produced by a stream: either a text fragment or the
// error that terminated the stream. The error delta is always the last one.
type Delta struct {
	Text string
	Err  error
}

// =============================================================================
// CLIENT
// =============================================================================

// Client streams chat completions. It allows a single request in flight.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	temperature float64
	maxTokens   int
	logger      *slog.Logger

	mu     sync.Mutex
	flight *flight
}

// flight is the bookkeeping for the request currently in progress.
type flight struct {
	cancel context.CancelFunc
}

// NewClient creates a client with the given bearer token.
//
// An empty key still yields a client; Stream then fails with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     DefaultBaseURL,
		httpClient:  sharedStreamingClient,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		logger:      slog.Default(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithHTTPClient replaces the HTTP client used for streaming.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTemperature overrides the sampling temperature.
func (c *Client) WithTemperature(t float64) *Client {
	c.temperature = t
	return c
}

// WithMaxTokens overrides the completion token cap.
func (c *Client) WithMaxTokens(n int) *Client {
	c.maxTokens = n
	return c
}

// WithLogger sets the logger used for dropped-record diagnostics.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	c.logger = l
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// NewRequest builds a streaming request for model with the client's sampling
// parameters.
func (c *Client) NewRequest(model string, messages []ChatMessage) ChatRequest {
	return ChatRequest{
		Model:       model,
		Messages:    messages,
		Stream:      true,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
}

// InFlight reports whether a stream is currently running.
func (c *Client) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flight != nil
}

// Cancel aborts the in-flight request, if any. The stream's channel closes
// without delivering an error.
func (c *Client) Cancel() {
	c.mu.Lock()
	f := c.flight
	c.mu.Unlock()
	if f != nil {
		f.cancel()
	}
}

// =============================================================================
// STREAMING
// =============================================================================

// Stream starts a streaming chat completion and returns a channel of deltas
// in arrival order. The channel is closed when the stream ends, fails, or is
// cancelled. A failure is delivered as a final Delta with Err set; a
// cancellation is not delivered at all. Callers must drain the channel.
//
// Stream returns ErrBusy if another stream is still running on this client.
func (c *Client) Stream(ctx context.Context, req ChatRequest) (<-chan Delta, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	req.Stream = true

	ctx, cancel := context.WithCancel(ctx)
	f := &flight{cancel: cancel}

	c.mu.Lock()
	if c.flight != nil {
		c.mu.Unlock()
		cancel()
		return nil, ErrBusy
	}
	c.flight = f
	c.mu.Unlock()

	out := make(chan Delta)
	go func() {
		defer close(out)
		defer c.release(f)

		emit := func(text string) bool {
			select {
			case out <- Delta{Text: text}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		err := c.do(ctx, req, emit)
		if err == nil || errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		c.logger.Warn("chat stream failed", "model", req.Model, "error", err)
		out <- Delta{Err: err}
	}()

	return out, nil
}

// release clears the in-flight slot if it still belongs to f.
func (c *Client) release(f *flight) {
	c.mu.Lock()
	if c.flight == f {
		c.flight = nil
	}
	c.mu.Unlock()
	f.cancel()
}

// do performs the HTTP exchange and feeds every decoded delta to emit.
func (c *Client) do(ctx context.Context, req ChatRequest, emit func(string) bool) error {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return newAPIError(resp.StatusCode, body)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return ErrNoBody
	}

	c.logger.Debug("chat stream opened", "model", req.Model, "messages", len(req.Messages))
	return c.readRecords(resp.Body, emit)
}
