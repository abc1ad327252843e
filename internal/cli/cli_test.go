// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"

	"github.com/jeranaias/govtext/internal/output"
)

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		command string
		text    string
		wantErr bool
	}{
		{"no args is tui", nil, "", "", false},
		{"chat", []string{"chat"}, "chat", "", false},
		{"rewrite with text", []string{"rewrite", "Apply", "now"}, "rewrite", "Apply now", false},
		{"version flag", []string{"--version"}, "version", "", false},
		{"help flag", []string{"-h"}, "help", "", false},
		{"unknown command", []string{"rewite"}, "", "", true},
		{"case-insensitive command", []string{"CHAT"}, "chat", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := ParseArgs(tt.argv)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseArgs: %v", err)
			}
			if args.Command != tt.command || args.Text != tt.text {
				t.Errorf("got (%q, %q), want (%q, %q)", args.Command, args.Text, tt.command, tt.text)
			}
		})
	}
}

func TestParseArgsFlags(t *testing.T) {
	args, err := ParseArgs([]string{
		"rewrite", "--provider", "anthropic", "--model=claude-x",
		"--timeout-ms", "5000", "--mode", "error-message",
		"--context", "benefits service", "--diff", "some", "text",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}

	if args.Provider != "anthropic" || args.Model != "claude-x" || args.TimeoutMs != 5000 {
		t.Errorf("config flags = %+v", args)
	}
	if args.ModeName != "error-message" || args.Context != "benefits service" {
		t.Errorf("mode/context = %+v", args)
	}
	if !args.Diff || args.Text != "some text" {
		t.Errorf("diff/text = %+v", args)
	}
}

func TestParseArgsBoolFlagDoesNotSwallowText(t *testing.T) {
	args, err := ParseArgs([]string{"rewrite", "--check", "Apply now."})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if !args.Check || args.Text != "Apply now." {
		t.Errorf("args = %+v", args)
	}
}

func TestParseArgsInvalidValues(t *testing.T) {
	if _, err := ParseArgs([]string{"rewrite", "--timeout-ms", "abc"}); err == nil {
		t.Error("non-numeric timeout must error")
	}
	if _, err := ParseArgs([]string{"history", "--limit", "-3"}); err == nil {
		t.Error("negative limit must error")
	}
	if _, err := ParseArgs([]string{"rewrite", "--frobnicate"}); err == nil {
		t.Error("unknown flag must error")
	}
}

func TestParseArgsMissingValue(t *testing.T) {
	tests := [][]string{
		{"rewrite", "--model"},
		{"rewrite", "--provider", "--check"},
		{"history", "--limit"},
	}
	for _, argv := range tests {
		if _, err := ParseArgs(argv); err == nil {
			t.Errorf("ParseArgs(%v) must error on a flag without a value", argv)
		} else if !strings.Contains(err.Error(), "requires a value") {
			t.Errorf("ParseArgs(%v) error = %v", argv, err)
		}
	}
}

func TestParseArgsDefaultLimit(t *testing.T) {
	args, err := ParseArgs([]string{"history"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Limit != 20 {
		t.Errorf("limit = %d", args.Limit)
	}
}

func TestOutputFlagsPrecedence(t *testing.T) {
	args, _ := ParseArgs([]string{"rewrite", "--json", "--check", "text"})
	if got := output.SelectMode(args.OutputFlags()); got != output.ModeJSON {
		t.Errorf("mode = %v, want json first", got)
	}
}

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"rewite", "rewrite"},
		{"histroy", "history"},
		{"chta", "chat"},
		{"stup", "setup"},
		{"x", ""},
		{"completelydifferent", ""},
	}
	for _, tt := range tests {
		if got := SuggestCommand(tt.input); got != tt.want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"chat", "chta", 2},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
