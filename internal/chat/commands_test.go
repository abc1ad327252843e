// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jeranaias/govtext/internal/prompt"
	"github.com/jeranaias/govtext/internal/provider"
)

func baseState() State {
	return State{
		Provider:  provider.OpenAI,
		Model:     "gpt-4.1-mini",
		TimeoutMs: 30000,
		Mode:      prompt.DefaultMode,
		Spinner:   true,
	}
}

func TestApplyIsPure(t *testing.T) {
	st := baseState()
	st.Context = "benefits service"

	s1, m1, q1 := Apply("/show", st)
	s2, m2, q2 := Apply("/show", st)

	if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(m1, m2) || q1 != q2 {
		t.Error("Apply is not pure for identical inputs")
	}
	if !reflect.DeepEqual(s1, st) {
		t.Error("show must not change state")
	}
}

func TestApplyProviderResetsModel(t *testing.T) {
	tests := []struct {
		arg       string
		wantModel string
	}{
		{"openai", "gpt-4.1-mini"},
		{"anthropic", "claude-3-5-sonnet-latest"},
		{"openrouter", "openai/gpt-4o-mini"},
	}

	for _, tt := range tests {
		st := baseState()
		st.Model = "custom-model"

		got, msgs, quit := Apply("/provider "+tt.arg, st)
		if quit {
			t.Fatalf("%s: unexpected quit", tt.arg)
		}
		if string(got.Provider) != tt.arg || got.Model != tt.wantModel {
			t.Errorf("provider %s: state = (%s, %s), want (%s, %s)", tt.arg, got.Provider, got.Model, tt.arg, tt.wantModel)
		}
		if len(msgs) != 1 || !strings.Contains(msgs[0], tt.arg) || !strings.Contains(msgs[0], tt.wantModel) {
			t.Errorf("provider %s: message must confirm provider and model: %v", tt.arg, msgs)
		}
	}
}

func TestApplyProviderInvalid(t *testing.T) {
	st := baseState()
	got, msgs, _ := Apply("/provider azure", st)
	if !reflect.DeepEqual(got, st) {
		t.Error("invalid provider must not change state")
	}
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "Usage:") {
		t.Errorf("msgs = %v", msgs)
	}
}

func TestApplyModel(t *testing.T) {
	got, _, _ := Apply("/model gpt-4o", baseState())
	if got.Model != "gpt-4o" {
		t.Errorf("model = %q", got.Model)
	}

	st := baseState()
	got, msgs, _ := Apply("/model", st)
	if !reflect.DeepEqual(got, st) || len(msgs) != 1 || !strings.HasPrefix(msgs[0], "Usage:") {
		t.Errorf("empty model arg: state change or wrong message %v", msgs)
	}
}

func TestApplyMode(t *testing.T) {
	got, _, _ := Apply("/mode error-message", baseState())
	if got.Mode != prompt.ModeErrorMessage {
		t.Errorf("mode = %s", got.Mode)
	}

	_, msgs, _ := Apply("/mode shouting", baseState())
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "Usage:") {
		t.Errorf("invalid mode: %v", msgs)
	}
}

func TestApplyContext(t *testing.T) {
	st := baseState()

	got, _, _ := Apply("/context benefits service for carers", st)
	if got.Context != "benefits service for carers" {
		t.Errorf("context = %q", got.Context)
	}

	// clear is case-insensitive
	got, _, _ = Apply("/context CLEAR", got)
	if got.Context != "" {
		t.Errorf("context after clear = %q", got.Context)
	}

	_, msgs, _ := Apply("/context", st)
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "Usage:") {
		t.Errorf("empty context arg: %v", msgs)
	}
}

func TestApplyToggles(t *testing.T) {
	toggles := []struct {
		name string
		get  func(State) bool
	}{
		{"explain", func(s State) bool { return s.Explain }},
		{"check", func(s State) bool { return s.Check }},
		{"diff", func(s State) bool { return s.Diff }},
		{"json", func(s State) bool { return s.JSON }},
		{"tokens", func(s State) bool { return s.Tokens }},
		{"copy", func(s State) bool { return s.Copy }},
	}

	for _, tt := range toggles {
		st, _, _ := Apply("/"+tt.name+" on", baseState())
		if !tt.get(st) {
			t.Errorf("/%s on: toggle not set", tt.name)
		}
		st, _, _ = Apply("/"+tt.name+" off", st)
		if tt.get(st) {
			t.Errorf("/%s off: toggle not cleared", tt.name)
		}

		// on/off literals are case-sensitive
		before := baseState()
		st, msgs, _ := Apply("/"+tt.name+" ON", before)
		if !reflect.DeepEqual(st, before) {
			t.Errorf("/%s ON must be a usage error, state changed", tt.name)
		}
		if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "Usage:") {
			t.Errorf("/%s ON: msgs = %v", tt.name, msgs)
		}
	}
}

func TestApplyCommandNameCaseInsensitive(t *testing.T) {
	got, _, _ := Apply("/PROVIDER anthropic", baseState())
	if got.Provider != provider.Anthropic {
		t.Errorf("uppercase command name not accepted: %s", got.Provider)
	}
}

func TestApplyQuit(t *testing.T) {
	st, msgs, quit := Apply("/quit", baseState())
	if !quit {
		t.Error("quit flag not set")
	}
	if len(msgs) != 1 {
		t.Errorf("msgs = %v", msgs)
	}
	if !reflect.DeepEqual(st, baseState()) {
		t.Error("quit must not change state")
	}
}

func TestApplyUnknown(t *testing.T) {
	st, msgs, quit := Apply("/madeup", baseState())
	if quit {
		t.Error("unknown command must not exit")
	}
	if !reflect.DeepEqual(st, baseState()) {
		t.Error("unknown command must not change state")
	}
	if len(msgs) != 1 || msgs[0] != "Unknown command. Run /help to see supported commands." {
		t.Errorf("msgs = %v", msgs)
	}
}

func TestApplyHelpListsEveryCommand(t *testing.T) {
	_, msgs, _ := Apply("/help", baseState())
	joined := strings.Join(msgs, "\n")
	for _, c := range Commands {
		if !strings.Contains(joined, c.Usage) {
			t.Errorf("help missing %s", c.Usage)
		}
	}
}

func TestSuggestCommands(t *testing.T) {
	got := SuggestCommands("c")
	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	want := []string{"context", "check", "copy"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
			}
		}
		if !found {
			t.Errorf("SuggestCommands(\"c\") missing %s: %v", w, names)
		}
	}

	if all := SuggestCommands(""); len(all) != len(Commands) {
		t.Errorf("empty prefix should match all commands, got %d", len(all))
	}
}
