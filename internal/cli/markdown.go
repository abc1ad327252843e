// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// markdown.go - Terminal markdown rendering for assistant output.
package cli

import (
	"github.com/charmbracelet/glamour"
)

var markdownRenderer *glamour.TermRenderer

// maxMarkdownWidth caps wrapping on very wide terminals for readability.
const maxMarkdownWidth = 100

func init() {
	wrap := TerminalWidth()
	if wrap > maxMarkdownWidth {
		wrap = maxMarkdownWidth
	}

	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders content for terminal display, falling back to the
// raw text when rendering is unavailable or fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
