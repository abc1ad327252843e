// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing for govtext commands.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/govtext/internal/config"
	"github.com/jeranaias/govtext/internal/output"
)

// boolFlagNames are flags that never take a value, so a following positional
// argument is not swallowed as their value.
var boolFlagNames = map[string]bool{
	"json":       true,
	"check":      true,
	"diff":       true,
	"explain":    true,
	"copy":       true,
	"no-spinner": true,
	"help":       true,
	"h":          true,
	"version":    true,
	"v":          true,
}

// knownCommands are the valid top-level commands.
var knownCommands = map[string]bool{
	"":        true,
	"tui":     true,
	"chat":    true,
	"rewrite": true,
	"setup":   true,
	"history": true,
	"version": true,
	"help":    true,
}

// Args holds the parsed invocation.
type Args struct {
	Command string
	// Text is the joined positional remainder (rewrite payload).
	Text string

	// Configuration flags.
	Provider  string
	Model     string
	TimeoutMs int
	BaseURL   string
	ModeName  string
	Context   string

	// Output flags.
	JSON      bool
	Check     bool
	Diff      bool
	Explain   bool
	Copy      bool
	NoSpinner bool

	// History flags.
	Limit int
}

// ConfigFlags maps the parsed flags onto the resolver's flag tier.
func (a Args) ConfigFlags() config.Flags {
	return config.Flags{
		Provider:  a.Provider,
		Model:     a.Model,
		TimeoutMs: a.TimeoutMs,
		BaseURL:   a.BaseURL,
	}
}

// OutputFlags maps the parsed flags onto the output mode selector.
func (a Args) OutputFlags() output.Flags {
	return output.Flags{
		JSON:    a.JSON,
		Check:   a.Check,
		Diff:    a.Diff,
		Explain: a.Explain,
	}
}

// ParseArgs parses argv into Args. Flag forms accepted: --flag value,
// --flag=value, and bare --flag for booleans.
func ParseArgs(argv []string) (Args, error) {
	args := Args{Limit: 20}
	var positional []string

	i := 0
	for i < len(argv) {
		arg := argv[i]

		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value := ""
		hasValue := false

		if eq := strings.Index(name, "="); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
			hasValue = true
		} else if !boolFlagNames[name] && i+1 < len(argv) && !strings.HasPrefix(argv[i+1], "-") {
			value = argv[i+1]
			hasValue = true
			i++
		}
		i++

		if err := args.setFlag(name, value, hasValue); err != nil {
			return Args{}, err
		}
	}

	if args.Command == "" && len(positional) > 0 {
		args.Command = strings.ToLower(positional[0])
		positional = positional[1:]
	}
	if !knownCommands[args.Command] {
		return Args{}, fmt.Errorf("unknown command: %s", args.Command)
	}
	args.Text = strings.Join(positional, " ")

	return args, nil
}

func (a *Args) setFlag(name, value string, hasValue bool) error {
	switch name {
	case "provider", "model", "m", "timeout-ms", "timeout", "base-url", "mode", "context", "limit":
		if !hasValue {
			return fmt.Errorf("flag --%s requires a value", name)
		}
	}

	switch name {
	case "provider":
		a.Provider = value
	case "model", "m":
		a.Model = value
	case "timeout-ms", "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("--timeout-ms must be a positive integer, got %q", value)
		}
		a.TimeoutMs = n
	case "base-url":
		a.BaseURL = value
	case "mode":
		a.ModeName = value
	case "context":
		a.Context = value
	case "limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("--limit must be a positive integer, got %q", value)
		}
		a.Limit = n
	case "json":
		a.JSON = true
	case "check":
		a.Check = true
	case "diff":
		a.Diff = true
	case "explain":
		a.Explain = true
	case "copy":
		a.Copy = true
	case "no-spinner":
		a.NoSpinner = true
	case "help", "h":
		a.Command = "help"
	case "version", "v":
		a.Command = "version"
	default:
		return fmt.Errorf("unknown flag: --%s", name)
	}

	if hasValue && boolFlagNames[name] && value != "" && value != "true" {
		return fmt.Errorf("flag --%s does not take a value", name)
	}
	return nil
}
