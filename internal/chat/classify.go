// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/govtext/internal/util"
)

// =============================================================================
// INPUT CLASSIFICATION
// =============================================================================

// InputKind is the result of classifying one raw input submission.
type InputKind int

const (
	// InputEmpty means nothing to do: zero events, stay idle.
	InputEmpty InputKind = iota
	// InputCommand means the first line is a slash command.
	InputCommand
	// InputPayload means the whole trimmed text is rewrite payload.
	InputPayload
)

// Classified carries the classification outcome. CommandLine is set for
// InputCommand, Payload for InputPayload.
type Classified struct {
	Kind        InputKind
	CommandLine string
	Payload     string
}

// Classify decides what one raw submission is.
//
// A slash token on the first line hijacks the input when the input is a
// single line, or when the token names a known command. Multi-line input
// starting with an unrecognized slash token stays payload: pasted text may
// legitimately begin with a "/" that is a path or code fragment, and only
// recognized command names may discard the rest of a paste.
func Classify(raw string) Classified {
	text := strings.TrimSpace(util.NormalizeNewlines(raw))
	if text == "" {
		return Classified{Kind: InputEmpty}
	}

	multiline := strings.Contains(text, "\n")
	firstLine := strings.TrimSpace(util.FirstLine(text))

	if strings.HasPrefix(firstLine, "/") {
		token := firstSlashToken(firstLine)
		if !multiline || KnownCommand(token) {
			return Classified{Kind: InputCommand, CommandLine: firstLine}
		}
	}

	return Classified{Kind: InputPayload, Payload: text}
}

// firstSlashToken extracts the lowercase word following the leading slash.
func firstSlashToken(line string) string {
	rest := strings.TrimPrefix(line, "/")
	if i := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		rest = rest[:i]
	}
	return strings.ToLower(rest)
}
