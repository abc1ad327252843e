// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine validates rewrite options and dispatches to the correct
// backend adapter.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/govtext/internal/provider"
)

// DefaultTimeoutMs is the request deadline applied when none is configured.
const DefaultTimeoutMs = 30000

var (
	// ErrMissingAPIKey indicates no credential is available for the provider.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrMissingModel indicates no model was given and the provider has no default.
	ErrMissingModel = errors.New("no model configured and no default available")

	// ErrInvalidTimeout indicates a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout must be a positive number of milliseconds")

	// ErrUnknownProvider indicates a provider tag with no adapter.
	// Provider values are validated upstream; hitting this is a config bug.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Normalize validates options and fills defaults. It never mutates its
// argument; the returned value is complete and ready for dispatch.
func Normalize(opts provider.Options) (provider.Options, error) {
	out := opts

	if strings.TrimSpace(out.APIKey) == "" {
		return provider.Options{}, fmt.Errorf("%w for %s", ErrMissingAPIKey, out.Provider.Display())
	}

	if out.Model == "" {
		out.Model = out.Provider.DefaultModel()
		if out.Model == "" {
			return provider.Options{}, fmt.Errorf("%w: %s", ErrMissingModel, out.Provider)
		}
	}

	if out.TimeoutMs == 0 {
		out.TimeoutMs = DefaultTimeoutMs
	}
	if out.TimeoutMs <= 0 {
		return provider.Options{}, fmt.Errorf("%w: %d", ErrInvalidTimeout, out.TimeoutMs)
	}

	return out, nil
}

// Rewrite normalizes options and dispatches to the adapter selected by the
// provider tag.
func Rewrite(ctx context.Context, req provider.Request, opts provider.Options) (*provider.Result, error) {
	normalized, err := Normalize(opts)
	if err != nil {
		return nil, err
	}

	adapter, ok := provider.ForProvider(normalized.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, normalized.Provider)
	}

	return adapter(ctx, normalized, req)
}

// =============================================================================
// CONFIGURED CLIENT
// =============================================================================

// Client binds normalized options once so callers can issue repeated
// rewrites without re-validating.
type Client struct {
	opts provider.Options
}

// NewClient normalizes the options up front and returns a bound client.
func NewClient(opts provider.Options) (*Client, error) {
	normalized, err := Normalize(opts)
	if err != nil {
		return nil, err
	}
	return &Client{opts: normalized}, nil
}

// Options returns the normalized options the client is bound to.
func (c *Client) Options() provider.Options {
	return c.opts
}

// Rewrite issues one rewrite call with the bound options.
func (c *Client) Rewrite(ctx context.Context, req provider.Request) (*provider.Result, error) {
	adapter, ok := provider.ForProvider(c.opts.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, c.opts.Provider)
	}
	return adapter(ctx, c.opts, req)
}
