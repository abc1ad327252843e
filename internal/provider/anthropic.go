// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jeranaias/govtext/internal/prompt"
)

// =============================================================================
// ANTHROPIC ADAPTER (messages API + forced tool call)
// =============================================================================

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
	rewriteToolName    = "govuk_rewrite"
)

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicRequest struct {
	Model      string             `json:"model"`
	MaxTokens  int                `json:"max_tokens"`
	System     string             `json:"system"`
	Messages   []anthropicMessage `json:"messages"`
	Tools      []anthropicTool    `json:"tools"`
	ToolChoice map[string]string  `json:"tool_choice"`
}

type anthropicResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func rewriteAnthropic(ctx context.Context, opts Options, req Request) (*Result, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = Anthropic.DefaultBaseURL()
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + "/v1/messages"

	var userMsg string
	if req.Check {
		userMsg = prompt.BuildCheckMessage(req.Text, req.Context, req.Mode)
	} else {
		userMsg = prompt.BuildUserMessage(req.Text, req.Context, req.Mode, req.Explain)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     opts.Model,
		MaxTokens: anthropicMaxTokens,
		System:    prompt.BuildSystemPrompt(req.Mode),
		Messages: []anthropicMessage{
			{Role: "user", Content: userMsg},
		},
		Tools: []anthropicTool{{
			Name:        rewriteToolName,
			Description: "Report the rewritten text, the list of changes, and any style issues found.",
			InputSchema: rewriteSchema,
		}},
		// Forcing the tool guarantees structured input instead of prose.
		ToolChoice: map[string]string{"type": "tool", "name": rewriteToolName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, data, err := doJSON(ctx, opts, endpoint, body, func(r *http.Request) {
		r.Header.Set("x-api-key", opts.APIKey)
		r.Header.Set("anthropic-version", anthropicVersion)
	})
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		var apiErr anthropicErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%s", apiErr.Error.Message)
		}
		return nil, apiStatusError(Anthropic, status)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("Anthropic returned malformed JSON: %v", err)
	}

	var toolInput json.RawMessage
	for _, block := range resp.Content {
		if block.Type == "tool_use" {
			toolInput = block.Input
			break
		}
	}
	if len(toolInput) == 0 {
		return nil, fmt.Errorf("Anthropic returned an empty response")
	}

	var payload rewritePayload
	if err := json.Unmarshal(toolInput, &payload); err != nil {
		return nil, fmt.Errorf("Anthropic returned malformed JSON: %v", err)
	}

	var usage *Usage
	if resp.Usage != nil {
		usage = &Usage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens}
	}
	return payload.toResult(usage), nil
}
