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
// OPENAI ADAPTER (chat completions + JSON-schema response format)
// =============================================================================

// rewriteSchema constrains the model output to the shared payload shape.
// OpenAI enforces it server-side via the json_schema response format.
var rewriteSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"rewrittenText": map[string]any{"type": "string"},
		"explanation":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"issues":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required":             []string{"rewrittenText", "explanation", "issues"},
	"additionalProperties": false,
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	ResponseFormat map[string]any  `json:"response_format"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type openaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func rewriteOpenAI(ctx context.Context, opts Options, req Request) (*Result, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = OpenAI.DefaultBaseURL()
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + "/chat/completions"

	var userMsg string
	if req.Check {
		userMsg = prompt.BuildCheckMessage(req.Text, req.Context, req.Mode)
	} else {
		userMsg = prompt.BuildUserMessage(req.Text, req.Context, req.Mode, req.Explain)
	}

	body, err := json.Marshal(openaiRequest{
		Model: opts.Model,
		Messages: []openaiMessage{
			{Role: "system", Content: prompt.BuildSystemPrompt(req.Mode)},
			{Role: "user", Content: userMsg},
		},
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "govuk_rewrite",
				"strict": true,
				"schema": rewriteSchema,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, data, err := doJSON(ctx, opts, endpoint, body, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+opts.APIKey)
	})
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		var apiErr openaiErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%s", apiErr.Error.Message)
		}
		return nil, apiStatusError(OpenAI, status)
	}

	var resp openaiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("OpenAI returned malformed JSON: %v", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("OpenAI returned an empty response")
	}

	var payload rewritePayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("OpenAI returned malformed JSON: %v", err)
	}

	var usage *Usage
	if resp.Usage != nil {
		usage = &Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	}
	return payload.toResult(usage), nil
}
