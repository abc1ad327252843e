// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// handlers.go - Shared plumbing for the govtext command handlers.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/jeranaias/govtext/internal/chat"
	"github.com/jeranaias/govtext/internal/config"
	"github.com/jeranaias/govtext/internal/prompt"
	"github.com/jeranaias/govtext/internal/setup"
	"github.com/jeranaias/govtext/internal/storage"
)

// resolveConfig merges the four configuration tiers for this invocation.
func resolveConfig(args Args) config.Resolved {
	return config.Resolve(args.ConfigFlags(), config.EnvSnapshot(), config.LoadSnapshot())
}

// sessionState seeds a chat session state from the resolved config and the
// invocation flags. An invalid mode warns and falls back to the default:
// flag problems are never terminal to a chat session.
func sessionState(args Args, cfg config.Resolved) chat.State {
	st := chat.NewState(cfg)

	if args.ModeName != "" {
		if mode, ok := prompt.ParseMode(args.ModeName); ok {
			st.Mode = mode
		} else {
			fmt.Fprintf(os.Stderr, "%s\n", SystemStyle.Render(
				fmt.Sprintf("Ignoring invalid mode %q. Valid modes: %s.", args.ModeName, prompt.ModeNames())))
		}
	}
	st.Context = args.Context
	st.Explain = args.Explain
	st.Check = args.Check
	st.Diff = args.Diff
	st.JSON = args.JSON
	st.Copy = args.Copy
	st.Spinner = !args.NoSpinner
	return st
}

// newWizard builds the interactive setup wizard over the real terminal.
func newWizard() *setup.Wizard {
	return &setup.Wizard{Asker: setup.NewTerminalAsker()}
}

// =============================================================================
// HISTORY ADAPTER
// =============================================================================

// storeHistory adapts storage.Store to the chat.History interface.
type storeHistory struct {
	store *storage.Store
}

func (h storeHistory) Record(e chat.HistoryEntry) error {
	return h.store.Record(storage.Entry{
		ID:           e.ID,
		CreatedAt:    e.CreatedAt,
		Provider:     e.Provider,
		Model:        e.Model,
		Mode:         e.Mode,
		Input:        e.Input,
		Output:       e.Output,
		InputTokens:  e.InputTokens,
		OutputTokens: e.OutputTokens,
	})
}

func (h storeHistory) Recent(limit int) ([]chat.HistoryEntry, error) {
	entries, err := h.store.Recent(limit)
	if err != nil {
		return nil, err
	}
	out := make([]chat.HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = chat.HistoryEntry{
			ID:           e.ID,
			CreatedAt:    e.CreatedAt,
			Provider:     e.Provider,
			Model:        e.Model,
			Mode:         e.Mode,
			Input:        e.Input,
			Output:       e.Output,
			InputTokens:  e.InputTokens,
			OutputTokens: e.OutputTokens,
		}
	}
	return out, nil
}

// openHistory opens the default history store. History is best-effort: a
// failure is logged and the session runs without it.
func openHistory() (chat.History, func()) {
	store, err := storage.OpenDefault()
	if err != nil {
		log.Printf("history unavailable: %v", err)
		return nil, func() {}
	}
	return storeHistory{store: store}, func() { store.Close() }
}
