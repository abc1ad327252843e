// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/jeranaias/govtext/internal/config"
	"github.com/jeranaias/govtext/internal/engine"
	"github.com/jeranaias/govtext/internal/output"
	"github.com/jeranaias/govtext/internal/provider"
	"github.com/jeranaias/govtext/internal/util"
)

// =============================================================================
// SESSION
// =============================================================================

// RewriteFunc matches engine.Rewrite. Injectable for tests.
type RewriteFunc func(ctx context.Context, req provider.Request, opts provider.Options) (*provider.Result, error)

// SetupOffer asks the user whether to run interactive setup for a provider
// missing its API key, and runs it on a yes. It reports whether setup
// actually completed. The prompt abstraction is supplied by the front-end so
// the identical flow serves both the REPL and the terminal UI.
type SetupOffer func(ctx context.Context, p provider.Provider) (ran bool, err error)

// SessionOptions wires a session's collaborators. Zero-value fields get
// production defaults.
type SessionOptions struct {
	State State

	// Flags are the CLI flags of the invocation, re-applied when config is
	// re-resolved after setup.
	Flags config.Flags

	// Rewrite defaults to engine.Rewrite.
	Rewrite RewriteFunc

	// OfferSetup is nil when no interactive setup is available.
	OfferSetup SetupOffer

	// Env defaults to config.EnvSnapshot. Called fresh on every bootstrap
	// so keys injected by setup are visible.
	Env func() map[string]string

	// LoadFile defaults to config.LoadSnapshot.
	LoadFile func() config.FileConfig

	// WriteClipboard defaults to clipboard.WriteAll.
	WriteClipboard func(string) error

	// History is optional; nil disables /history and recording.
	History History
}

// Session drives one interactive chat. One input is processed to completion
// before the next is accepted; the session owns the single State value and
// replaces it on every transition. The mutex exists because front-ends read
// State from their render loop while a submission runs on another goroutine.
type Session struct {
	mu             sync.Mutex
	st             State
	flags          config.Flags
	rewrite        RewriteFunc
	offerSetup     SetupOffer
	env            func() map[string]string
	loadFile       func() config.FileConfig
	writeClipboard func(string) error
	history        History
}

// NewSession builds a session, filling defaults for unset collaborators.
func NewSession(opts SessionOptions) *Session {
	s := &Session{
		st:             opts.State,
		flags:          opts.Flags,
		rewrite:        opts.Rewrite,
		offerSetup:     opts.OfferSetup,
		env:            opts.Env,
		loadFile:       opts.LoadFile,
		writeClipboard: opts.WriteClipboard,
		history:        opts.History,
	}
	if s.rewrite == nil {
		s.rewrite = engine.Rewrite
	}
	if s.env == nil {
		s.env = config.EnvSnapshot
	}
	if s.loadFile == nil {
		s.loadFile = config.LoadSnapshot
	}
	if s.writeClipboard == nil {
		s.writeClipboard = clipboard.WriteAll
	}
	return s
}

// State returns the current session state snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
}

// HandleInput processes one raw submission and returns the ordered event
// stream plus whether the session should exit. No error escapes: every
// failure mode converts to an event.
func (s *Session) HandleInput(ctx context.Context, raw string) ([]Event, bool) {
	classified := Classify(raw)

	switch classified.Kind {
	case InputEmpty:
		return nil, false

	case InputCommand:
		return s.handleCommand(classified.CommandLine)

	default:
		return s.handleRewrite(ctx, classified.Payload), false
	}
}

// handleCommand routes one command line. The history command needs the
// store, so it is intercepted before the pure Apply.
func (s *Session) handleCommand(line string) ([]Event, bool) {
	name, _ := ParseCommandLine(line)
	if name == "history" && s.history != nil {
		return s.handleHistory(), false
	}

	newState, messages, quit := Apply(line, s.State())
	s.setState(newState)
	return systemEvents(messages), quit
}

const historyPreviewRunes = 60

func (s *Session) handleHistory() []Event {
	entries, err := s.history.Recent(10)
	if err != nil {
		return []Event{{Kind: EventError, Text: fmt.Sprintf("Error: %v", err)}}
	}
	if len(entries) == 0 {
		return []Event{{Kind: EventSystem, Text: "No rewrites recorded yet."}}
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, fmt.Sprintf("Last %d rewrites:", len(entries)))
	for _, e := range entries {
		preview := util.TruncateRunes(strings.ReplaceAll(e.Input, "\n", " "), historyPreviewRunes)
		lines = append(lines, fmt.Sprintf("  %s  %s/%s  %s",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Provider, e.Model, preview))
	}
	return systemEvents(lines)
}

// =============================================================================
// REWRITE PATH
// =============================================================================

func (s *Session) handleRewrite(ctx context.Context, payload string) []Event {
	apiKey, events := s.bootstrapKey(ctx)
	if apiKey == "" {
		return events
	}

	st := s.State()
	req := provider.Request{
		Text:    payload,
		Explain: st.Explain,
		Check:   st.Check,
		Context: st.Context,
		Mode:    st.Mode,
	}

	res, err := s.rewrite(ctx, req, st.Options(apiKey))
	if err != nil {
		// Rewrite failures never end the session.
		return []Event{{Kind: EventError, Text: fmt.Sprintf("Error: %v", err)}}
	}

	var out []Event
	if output.DetectNoImprovement(payload, res.RewrittenText, st.Check) {
		out = append(out, Event{Kind: EventSuccess, Text: output.NoImprovementMessage})
	} else {
		rendered, rerr := output.Render(s.renderMode(), res, payload, st.Provider, st.Model)
		if rerr != nil {
			return []Event{{Kind: EventError, Text: fmt.Sprintf("Error: %v", rerr)}}
		}
		out = append(out, Event{Kind: EventAssistant, Text: rendered})
	}

	if st.Tokens && res.Usage != nil {
		out = append(out, Event{
			Kind: EventSystem,
			Text: fmt.Sprintf("Tokens: %d in, %d out", res.Usage.InputTokens, res.Usage.OutputTokens),
		})
	}

	// Clipboard copy is suppressed in check mode and silent on failure.
	if st.Copy && !st.Check {
		if err := s.writeClipboard(res.RewrittenText); err == nil {
			out = append(out, Event{Kind: EventSystem, Text: "Copied to clipboard."})
		}
	}

	s.recordHistory(payload, res)
	return out
}

// renderMode maps the session toggles to an output mode.
func (s *Session) renderMode() output.Mode {
	st := s.State()
	return output.SelectMode(output.Flags{
		JSON:    st.JSON,
		Check:   st.Check,
		Diff:    st.Diff,
		Explain: st.Explain,
	})
}

// recordHistory stores a completed rewrite. Failures are logged, never
// surfaced: history is best-effort.
func (s *Session) recordHistory(input string, res *provider.Result) {
	if s.history == nil {
		return
	}
	st := s.State()
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Provider:  string(st.Provider),
		Model:     st.Model,
		Mode:      string(st.Mode),
		Input:     input,
		Output:    res.RewrittenText,
	}
	if res.Usage != nil {
		entry.InputTokens = res.Usage.InputTokens
		entry.OutputTokens = res.Usage.OutputTokens
	}
	if err := s.history.Record(entry); err != nil {
		log.Printf("history record failed: %v", err)
	}
}

// =============================================================================
// API KEY BOOTSTRAP
// =============================================================================

// bootstrapKey resolves the current provider's API key, offering interactive
// setup when it is missing. Returns the key, or "" plus the error events to
// emit. The session always stays alive.
func (s *Session) bootstrapKey(ctx context.Context) (string, []Event) {
	key := s.currentKey()
	if key != "" {
		return key, nil
	}

	if s.offerSetup != nil {
		ran, err := s.offerSetup(ctx, s.State().Provider)
		if err != nil {
			return "", []Event{{Kind: EventError, Text: fmt.Sprintf("Error: %v", err)}}
		}
		if ran {
			s.refreshFromConfig()
			key = s.currentKey()
			if key != "" {
				return key, nil
			}
		}
	}

	return "", s.missingKeyEvents()
}

func (s *Session) currentKey() string {
	return strings.TrimSpace(s.env()[s.State().Provider.EnvVar()])
}

// refreshFromConfig re-resolves configuration after setup and refreshes
// model, timeout and base URL. The provider itself is left alone to avoid
// surprising the user mid-session.
func (s *Session) refreshFromConfig() {
	cfg := config.Resolve(s.flags, s.env(), s.loadFile())
	st := s.State()
	if cfg.Provider != st.Provider {
		return
	}
	st.Model = cfg.Model
	st.TimeoutMs = cfg.TimeoutMs
	st.BaseURL = cfg.BaseURL
	s.setState(st)
}

// missingKeyEvents is the structured error set for a declined or failed
// setup: the env var name, an export instruction, and the provider switch
// hint.
func (s *Session) missingKeyEvents() []Event {
	p := s.State().Provider
	envVar := p.EnvVar()
	return []Event{
		{Kind: EventError, Text: fmt.Sprintf("No API key found for %s.", p.Display())},
		{Kind: EventError, Text: fmt.Sprintf("Set the %s environment variable:", envVar)},
		{Kind: EventError, Text: fmt.Sprintf("  export %s=your-key-here", envVar)},
		{Kind: EventError, Text: fmt.Sprintf("Or switch provider with /provider <name> (%s).", provider.ProviderNames())},
	}
}
