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
// OPENROUTER ADAPTER (chat completions, bearer token + referer headers)
// =============================================================================

const (
	openrouterReferer = "https://github.com/jeranaias/govtext"
	openrouterTitle   = "govtext"
)

// jsonShapeInstruction is appended to the system prompt because OpenRouter
// routes to models without schema-constrained output support.
const jsonShapeInstruction = `Respond with a single JSON object and nothing else. Shape:
{"rewrittenText": string, "explanation": [string], "issues": [string]}`

type openrouterRequest struct {
	Model          string            `json:"model"`
	Messages       []openaiMessage   `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

func rewriteOpenRouter(ctx context.Context, opts Options, req Request) (*Result, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = OpenRouter.DefaultBaseURL()
	}
	endpoint := strings.TrimSuffix(baseURL, "/") + "/chat/completions"

	var userMsg string
	if req.Check {
		userMsg = prompt.BuildCheckMessage(req.Text, req.Context, req.Mode)
	} else {
		userMsg = prompt.BuildUserMessage(req.Text, req.Context, req.Mode, req.Explain)
	}

	body, err := json.Marshal(openrouterRequest{
		Model: opts.Model,
		Messages: []openaiMessage{
			{Role: "system", Content: prompt.BuildSystemPrompt(req.Mode) + "\n\n" + jsonShapeInstruction},
			{Role: "user", Content: userMsg},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, data, err := doJSON(ctx, opts, endpoint, body, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+opts.APIKey)
		r.Header.Set("HTTP-Referer", openrouterReferer)
		r.Header.Set("X-Title", openrouterTitle)
	})
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		var apiErr openaiErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%s", apiErr.Error.Message)
		}
		return nil, apiStatusError(OpenRouter, status)
	}

	var resp openaiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("OpenRouter returned malformed JSON: %v", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("OpenRouter returned an empty response")
	}

	var payload rewritePayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("OpenRouter returned malformed JSON: %v", err)
	}

	var usage *Usage
	if resp.Usage != nil {
		usage = &Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	}
	return payload.toResult(usage), nil
}
