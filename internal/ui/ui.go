// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui is the rich terminal front-end for the chat session. It renders
// the same event stream as the line REPL; all session logic lives in
// internal/chat.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/govtext/internal/chat"
)

// Options configures the UI.
type Options struct {
	Session *chat.Session
	Version string
}

// Run starts the terminal UI and blocks until the session ends.
func Run(opts Options) error {
	program := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
