// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt builds the system and user messages sent to the rewrite
// backends.
//
// All functions are deterministic string assembly. The base style guide is
// fixed; content modes append an addendum with extra rules for that content
// type. Page body, heading and form label use the base guide unchanged.
package prompt

import (
	"fmt"
	"strings"
)

// =============================================================================
// CONTENT MODES
// =============================================================================

// Mode identifies the type of content being rewritten. It selects a
// mode-specific addendum to the system prompt and a note in the user message.
type Mode string

const (
	ModePageBody     Mode = "page-body"
	ModeErrorMessage Mode = "error-message"
	ModeHintText     Mode = "hint-text"
	ModeNotification Mode = "notification"
	ModeButton       Mode = "button"
	ModeHeading      Mode = "heading"
	ModeFormLabel    Mode = "form-label"
)

// DefaultMode is the mode assumed when none is specified.
const DefaultMode = ModePageBody

// Modes lists every valid content mode, in display order.
var Modes = []Mode{
	ModePageBody,
	ModeErrorMessage,
	ModeHintText,
	ModeNotification,
	ModeButton,
	ModeHeading,
	ModeFormLabel,
}

// ParseMode validates a mode string. The empty string resolves to DefaultMode.
func ParseMode(s string) (Mode, bool) {
	if s == "" {
		return DefaultMode, true
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// ModeNames returns the valid mode names joined for usage messages.
func ModeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// SYSTEM PROMPT
// =============================================================================

const baseStyleGuide = `You are a content designer who rewrites text into GOV.UK content style.

Follow these rules:
- Use plain English. Prefer short, common words over long or formal ones.
- Keep sentences short. Aim for no more than 25 words per sentence.
- Use the active voice. Address the reader as "you".
- Front-load the most important information.
- Use contractions where natural (you'll, we'll, can't).
- Use sentence case for headings and labels. Never use title case or all caps.
- Do not use jargon, Latin abbreviations (e.g., i.e., etc.) or legalese.
- Do not add information that is not in the original text.
- Do not remove legally or factually significant details.
- Spell out numbers one to nine only at the start of a sentence; otherwise use digits.
- Use "must" for legal obligations and "should" for recommendations.`

// modeAddenda holds extra rules appended to the base guide for specific
// content types. Modes absent from this table use the base guide alone.
var modeAddenda = map[Mode]string{
	ModeErrorMessage: `This text is an error message shown against a form field.
Additional rules:
- Be specific about what went wrong and how to fix it.
- Do not use "please", "sorry" or "oops".
- Do not blame the user.
- Keep it to a single short sentence where possible.`,
	ModeHintText: `This text is hint text shown below a form field label.
Additional rules:
- Help the user answer the question; do not restate the label.
- Do not end with a full stop if the hint is a sentence fragment.
- Give a format example where a specific format is required.`,
	ModeNotification: `This text is a notification (email, text message or letter).
Additional rules:
- State the most important information in the first sentence.
- Make any required action and its deadline explicit.
- Do not use marketing language.`,
	ModeButton: `This text is a button label.
Additional rules:
- Start with a verb.
- Use at most 5 words.
- Do not use "click here" or "submit".`,
}

// BuildSystemPrompt returns the system message for a mode: the fixed base
// style guide, plus the mode addendum when one exists, separated by a blank
// line.
func BuildSystemPrompt(mode Mode) string {
	addendum, ok := modeAddenda[mode]
	if !ok {
		return baseStyleGuide
	}
	return baseStyleGuide + "\n\n" + addendum
}

// =============================================================================
// USER MESSAGES
// =============================================================================

// BuildUserMessage assembles the user message for a rewrite request.
// Layout: optional service-context line, optional mode note, the explain or
// no-explain instruction, then the input text last.
func BuildUserMessage(text, context string, mode Mode, explain bool) string {
	var b strings.Builder

	if strings.TrimSpace(context) != "" {
		fmt.Fprintf(&b, "Service context: %s\n\n", strings.TrimSpace(context))
	}
	if mode != DefaultMode {
		fmt.Fprintf(&b, "The text is %s content.\n\n", mode)
	}
	if explain {
		b.WriteString("Rewrite the following text. List each change you made and the style rule behind it.\n\n")
	} else {
		b.WriteString("Rewrite the following text. Return only the rewritten text, with no explanation.\n\n")
	}
	b.WriteString(text)

	return b.String()
}

// BuildCheckMessage assembles the user message for a style check. The backend
// is asked for issues only, never a rewrite.
func BuildCheckMessage(text, context string, mode Mode) string {
	var b strings.Builder

	if strings.TrimSpace(context) != "" {
		fmt.Fprintf(&b, "Service context: %s\n\n", strings.TrimSpace(context))
	}
	if mode != DefaultMode {
		fmt.Fprintf(&b, "The text is %s content.\n\n", mode)
	}
	b.WriteString("Check the following text against the style rules. List each issue you find. Do not rewrite the text.\n\n")
	b.WriteString(text)

	return b.String()
}
