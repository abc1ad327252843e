// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the rewrite backends.
//
// Each backend speaks a different wire protocol (chat completions with a
// JSON-schema response format, the Anthropic messages API with a forced tool
// call, OpenRouter chat completions) but every adapter converges on the same
// Result shape. That normalization is the entire point of this package:
// callers never see a backend-specific envelope.
//
// PROVIDER: Secure logging and response size limits on every adapter.
package provider

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/govtext/internal/prompt"
)

// =============================================================================
// PROVIDERS
// =============================================================================

// Provider identifies one of the supported rewrite backends.
type Provider string

const (
	OpenAI     Provider = "openai"
	Anthropic  Provider = "anthropic"
	OpenRouter Provider = "openrouter"
)

// Providers lists every supported backend, in display order.
var Providers = []Provider{OpenAI, Anthropic, OpenRouter}

// ParseProvider validates a provider string.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// ProviderNames returns the valid provider names joined for usage messages.
func ProviderNames() string {
	names := make([]string, len(Providers))
	for i, p := range Providers {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// Display returns the human-readable backend name used in error messages.
func (p Provider) Display() string {
	switch p {
	case OpenAI:
		return "OpenAI"
	case Anthropic:
		return "Anthropic"
	case OpenRouter:
		return "OpenRouter"
	}
	return string(p)
}

// EnvVar returns the environment variable holding the backend's API key.
func (p Provider) EnvVar() string {
	switch p {
	case OpenAI:
		return "OPENAI_API_KEY"
	case Anthropic:
		return "ANTHROPIC_API_KEY"
	case OpenRouter:
		return "OPENROUTER_API_KEY"
	}
	return ""
}

// DefaultModel returns the model used when no model is configured.
// The empty string means the provider has no default.
func (p Provider) DefaultModel() string {
	switch p {
	case OpenAI:
		return "gpt-4.1-mini"
	case Anthropic:
		return "claude-3-5-sonnet-latest"
	case OpenRouter:
		return "openai/gpt-4o-mini"
	}
	return ""
}

// DefaultBaseURL returns the backend's default API base URL.
func (p Provider) DefaultBaseURL() string {
	switch p {
	case OpenAI:
		return "https://api.openai.com/v1"
	case Anthropic:
		return "https://api.anthropic.com"
	case OpenRouter:
		return "https://openrouter.ai/api/v1"
	}
	return ""
}

// =============================================================================
// CONTRACT TYPES
// =============================================================================

// Request is a provider-agnostic rewrite request.
type Request struct {
	// Text is the input to rewrite or check.
	Text string
	// Explain asks the backend to list the changes it made.
	Explain bool
	// Check audits style issues instead of rewriting.
	Check bool
	// Context is an optional service/audience description.
	Context string
	// Mode is the content-type hint. Zero value means page body.
	Mode prompt.Mode
}

// Usage carries token counts when the backend reports them.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Result is the normalized response shape shared by every adapter.
// In check mode Issues is authoritative and RewrittenText is ignored.
type Result struct {
	RewrittenText string
	Explanation   []string
	Issues        []string
	Usage         *Usage
}

// Options configures a single rewrite call. Callers are expected to pass
// fully normalized options (see the engine package).
type Options struct {
	Provider  Provider
	APIKey    string
	Model     string
	TimeoutMs int
	BaseURL   string
}

// Adapter is the uniform signature every backend implements.
type Adapter func(ctx context.Context, opts Options, req Request) (*Result, error)

// ForProvider returns the adapter for a provider tag.
func ForProvider(p Provider) (Adapter, bool) {
	switch p {
	case OpenAI:
		return rewriteOpenAI, true
	case Anthropic:
		return rewriteAnthropic, true
	case OpenRouter:
		return rewriteOpenRouter, true
	}
	return nil, false
}

// =============================================================================
// SHARED HTTP PLUMBING
// =============================================================================

const (
	// maxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	maxResponseSize = 10 * 1024 * 1024 // 10MB

	userAgent = "govtext/1.0"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// One shared HTTP client serves all backends; per-request deadlines come
// from the context, not a client-level timeout.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// rewritePayload is the structured body all three backends are asked to
// produce, whatever their envelope looks like.
type rewritePayload struct {
	RewrittenText string   `json:"rewrittenText"`
	Explanation   []string `json:"explanation"`
	Issues        []string `json:"issues"`
}

func (p rewritePayload) toResult(usage *Usage) *Result {
	return &Result{
		RewrittenText: p.RewrittenText,
		Explanation:   p.Explanation,
		Issues:        p.Issues,
		Usage:         usage,
	}
}

// doJSON issues one POST with the request's deadline bound to timeoutMs and
// returns the raw body plus status code. Transport failures are classified
// here so every adapter reports them identically.
func doJSON(ctx context.Context, opts Options, endpoint string, body []byte, setHeaders func(*http.Request)) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.TimeoutMs)*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	setHeaders(req)

	logRequest(req)

	start := time.Now()
	resp, err := sharedHTTPClient.Do(req)

	// SECURITY: Clear auth headers immediately after the request so they
	// never reach a log line.
	req.Header.Del("Authorization")
	req.Header.Del("x-api-key")

	if err != nil {
		return 0, nil, classifyTransportError(err, opts.TimeoutMs)
	}
	defer resp.Body.Close()

	logResponse(resp, time.Since(start))

	data, err := readResponse(resp)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// classifyTransportError maps transport failures to the two user-visible
// message shapes: a timeout or a generic network error.
func classifyTransportError(err error, timeoutMs int) error {
	if isTimeout(err) {
		return fmt.Errorf("Request timed out after %dms", timeoutMs)
	}
	// Unwrap url.Error so the detail reads as the underlying cause, not the
	// full "Post https://..." wrapper.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("Network error: %v", urlErr.Err)
	}
	return fmt.Errorf("Network error: %v", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return false
}

// readResponse reads the body with a size cap.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == maxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", maxResponseSize)
	}
	return body, nil
}

// apiStatusError builds the fallback error for a non-2xx response whose body
// carried no usable message.
func apiStatusError(p Provider, status int) error {
	return fmt.Errorf("%s API error: %d", p.Display(), status)
}

// =============================================================================
// PROVIDER: Request/Response Logging (without sensitive data)
// =============================================================================

// logRequest logs an API request without exposing sensitive data.
// Headers may contain auth and the body contains user text, so neither is
// logged.
func logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs only the status line and duration, never the body.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}
