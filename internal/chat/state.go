// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive session core: input
// classification, the slash-command processor, the credential bootstrap
// flow and the rewrite event stream.
//
// The session emits a uniform stream of tagged events that both the line
// REPL and the terminal UI render without knowing about each other. State is
// never mutated in place; every command or rewrite outcome produces a new
// State value.
package chat

import (
	"fmt"
	"time"

	"github.com/jeranaias/govtext/internal/config"
	"github.com/jeranaias/govtext/internal/prompt"
	"github.com/jeranaias/govtext/internal/provider"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the immutable-by-replacement session state.
type State struct {
	Provider  provider.Provider
	Model     string
	TimeoutMs int
	BaseURL   string
	Mode      prompt.Mode
	Context   string

	Explain bool
	Check   bool
	Diff    bool
	JSON    bool
	Spinner bool
	Copy    bool
	Tokens  bool
}

// NewState builds the initial session state from resolved configuration.
func NewState(cfg config.Resolved) State {
	return State{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		TimeoutMs: cfg.TimeoutMs,
		BaseURL:   cfg.BaseURL,
		Mode:      prompt.DefaultMode,
		Spinner:   true,
	}
}

// Options returns the provider options for the current state.
func (s State) Options(apiKey string) provider.Options {
	return provider.Options{
		Provider:  s.Provider,
		APIKey:    apiKey,
		Model:     s.Model,
		TimeoutMs: s.TimeoutMs,
		BaseURL:   s.BaseURL,
	}
}

// Dump returns the flat key:value lines shown by the show command.
func (s State) Dump() []string {
	boolStr := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	ctx := s.Context
	if ctx == "" {
		ctx = "(none)"
	}
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = "(default)"
	}
	return []string{
		fmt.Sprintf("provider: %s", s.Provider),
		fmt.Sprintf("model: %s", s.Model),
		fmt.Sprintf("timeoutMs: %d", s.TimeoutMs),
		fmt.Sprintf("baseUrl: %s", baseURL),
		fmt.Sprintf("mode: %s", s.Mode),
		fmt.Sprintf("context: %s", ctx),
		fmt.Sprintf("explain: %s", boolStr(s.Explain)),
		fmt.Sprintf("check: %s", boolStr(s.Check)),
		fmt.Sprintf("diff: %s", boolStr(s.Diff)),
		fmt.Sprintf("json: %s", boolStr(s.JSON)),
		fmt.Sprintf("copy: %s", boolStr(s.Copy)),
		fmt.Sprintf("tokens: %s", boolStr(s.Tokens)),
	}
}

// =============================================================================
// SESSION EVENTS
// =============================================================================

// EventKind tags a session event for rendering.
type EventKind int

const (
	// EventAssistant carries rewritten output.
	EventAssistant EventKind = iota
	// EventSystem carries informational notes (command output, token counts).
	EventSystem
	// EventError carries recoverable failures.
	EventError
	// EventSuccess carries positive confirmations such as the no-change notice.
	EventSuccess
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventAssistant:
		return "assistant"
	case EventSystem:
		return "system"
	case EventError:
		return "error"
	case EventSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Event is one tagged unit of session output. Front-ends render each kind
// differently but must preserve ordering and never drop events.
type Event struct {
	Kind EventKind
	Text string
}

func systemEvents(lines []string) []Event {
	events := make([]Event, len(lines))
	for i, l := range lines {
		events[i] = Event{Kind: EventSystem, Text: l}
	}
	return events
}

// =============================================================================
// REWRITE HISTORY
// =============================================================================

// HistoryEntry is one recorded rewrite.
type HistoryEntry struct {
	ID           string
	CreatedAt    time.Time
	Provider     string
	Model        string
	Mode         string
	Input        string
	Output       string
	InputTokens  int
	OutputTokens int
}

// History records completed rewrites and lists recent ones. Implementations
// live outside this package; the session treats recording as best-effort.
type History interface {
	Record(HistoryEntry) error
	Recent(limit int) ([]HistoryEntry, error)
}
