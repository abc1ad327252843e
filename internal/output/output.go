// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package output selects and renders the final user-visible text for a
// rewrite result.
//
// Rendering returns plain strings; styling and color are owned by the
// front-ends.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/govtext/internal/diff"
	"github.com/jeranaias/govtext/internal/provider"
	"github.com/jeranaias/govtext/internal/util"
)

// =============================================================================
// OUTPUT MODES
// =============================================================================

// Mode is the selected rendering mode.
type Mode string

const (
	ModeJSON    Mode = "json"
	ModeCheck   Mode = "check"
	ModeDiff    Mode = "diff"
	ModeExplain Mode = "explain"
	ModePlain   Mode = "plain"
)

// Flags are the rendering toggles a caller may set.
type Flags struct {
	JSON    bool
	Check   bool
	Diff    bool
	Explain bool
}

// SelectMode picks exactly one mode by fixed precedence:
// json > check > diff > explain > plain. The first true flag wins.
func SelectMode(f Flags) Mode {
	switch {
	case f.JSON:
		return ModeJSON
	case f.Check:
		return ModeCheck
	case f.Diff:
		return ModeDiff
	case f.Explain:
		return ModeExplain
	}
	return ModePlain
}

// =============================================================================
// NO-IMPROVEMENT DETECTION
// =============================================================================

// NoImprovementMessage is the fixed reassurance shown when the rewrite came
// back unchanged.
const NoImprovementMessage = "This text already follows the style guide. No changes needed."

// DetectNoImprovement reports whether the rewritten text is materially
// identical to the original. Always false in check mode: an issues list is
// never "no improvement". Otherwise the texts are compared after newline
// normalization and trimming.
func DetectNoImprovement(original, rewritten string, checkModeActive bool) bool {
	if checkModeActive {
		return false
	}
	a := strings.TrimSpace(util.NormalizeNewlines(original))
	b := strings.TrimSpace(util.NormalizeNewlines(rewritten))
	return a == b
}

// =============================================================================
// RENDERERS
// =============================================================================

const (
	explainHeader = "Changes made:"
	diffHeader    = "Diff against original:"
	checkHeader   = "Style issues found:"

	// checkCleanMessage is shown when a style check finds nothing.
	checkCleanMessage = "No style issues found. Nice work."
)

// RenderPlain returns the rewritten text only.
func RenderPlain(res *provider.Result) string {
	return res.RewrittenText
}

// RenderExplain returns the rewritten text followed by the explanation
// bullets. When no improvement was detected, a reassurance bullet is
// prepended to the real bullets.
func RenderExplain(res *provider.Result, noImprovement bool) string {
	var sb strings.Builder
	sb.WriteString(res.RewrittenText)
	sb.WriteString("\n\n")
	sb.WriteString(explainHeader)

	if noImprovement {
		sb.WriteString("\n- ")
		sb.WriteString(NoImprovementMessage)
	}
	for _, item := range res.Explanation {
		sb.WriteString("\n- ")
		sb.WriteString(item)
	}
	return sb.String()
}

// RenderCheck returns the issues list, or a fixed friendly message when the
// list is empty. Issue order is preserved.
func RenderCheck(res *provider.Result) string {
	if len(res.Issues) == 0 {
		return checkCleanMessage
	}
	var sb strings.Builder
	sb.WriteString(checkHeader)
	for _, issue := range res.Issues {
		sb.WriteString("\n- ")
		sb.WriteString(issue)
	}
	return sb.String()
}

// RenderDiff returns the rewritten text followed by a line-level diff
// against the original.
func RenderDiff(original string, res *provider.Result) string {
	var sb strings.Builder
	sb.WriteString(res.RewrittenText)
	sb.WriteString("\n\n")
	sb.WriteString(diffHeader)
	sb.WriteString("\n")
	sb.WriteString(diff.Render(diff.Compute(original, res.RewrittenText)))
	return sb.String()
}

// jsonOutput is the structured shape emitted in JSON mode. Explanation and
// issues default to empty lists, never null.
type jsonOutput struct {
	RewrittenText string   `json:"rewrittenText"`
	Explanation   []string `json:"explanation"`
	Issues        []string `json:"issues"`
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	NoImprovement *bool    `json:"noImprovement,omitempty"`
}

// RenderJSON returns the result as an indented JSON object. noImprovement
// is included only when the caller computed it (i.e. original text was
// supplied).
func RenderJSON(res *provider.Result, p provider.Provider, model string, noImprovement *bool) (string, error) {
	out := jsonOutput{
		RewrittenText: res.RewrittenText,
		Explanation:   res.Explanation,
		Issues:        res.Issues,
		Provider:      string(p),
		Model:         model,
		NoImprovement: noImprovement,
	}
	if out.Explanation == nil {
		out.Explanation = []string{}
	}
	if out.Issues == nil {
		out.Issues = []string{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

// Render dispatches to the renderer for the selected mode. original is the
// input text, used for the diff and the JSON noImprovement field.
func Render(mode Mode, res *provider.Result, original string, p provider.Provider, model string) (string, error) {
	switch mode {
	case ModeJSON:
		noImp := DetectNoImprovement(original, res.RewrittenText, false)
		return RenderJSON(res, p, model, &noImp)
	case ModeCheck:
		return RenderCheck(res), nil
	case ModeDiff:
		return RenderDiff(original, res), nil
	case ModeExplain:
		noImp := DetectNoImprovement(original, res.RewrittenText, false)
		return RenderExplain(res, noImp), nil
	}
	return RenderPlain(res), nil
}
