// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/jeranaias/govtext/internal/prompt"
	"github.com/jeranaias/govtext/internal/provider"
)

// =============================================================================
// COMMAND CATALOG
// =============================================================================

// CommandDef describes one slash command. The catalog drives help text,
// unknown-command detection and completion suggestions.
type CommandDef struct {
	Name        string
	Usage       string
	Description string
	Hint        string
}

// Commands is the static command catalog, in help order.
var Commands = []CommandDef{
	{Name: "help", Usage: "/help", Description: "Show this help"},
	{Name: "show", Usage: "/show", Description: "Show the current session settings"},
	{Name: "provider", Usage: "/provider <name>", Description: "Switch provider", Hint: provider.ProviderNames()},
	{Name: "model", Usage: "/model <name>", Description: "Set the model"},
	{Name: "mode", Usage: "/mode <name>", Description: "Set the content mode", Hint: prompt.ModeNames()},
	{Name: "context", Usage: "/context <text|clear>", Description: "Set or clear the service context"},
	{Name: "explain", Usage: "/explain <on|off>", Description: "Toggle change explanations"},
	{Name: "check", Usage: "/check <on|off>", Description: "Toggle style-check mode"},
	{Name: "diff", Usage: "/diff <on|off>", Description: "Toggle diff output"},
	{Name: "json", Usage: "/json <on|off>", Description: "Toggle JSON output"},
	{Name: "tokens", Usage: "/tokens <on|off>", Description: "Toggle token counts"},
	{Name: "copy", Usage: "/copy <on|off>", Description: "Toggle copying results to the clipboard"},
	{Name: "history", Usage: "/history", Description: "Show recent rewrites"},
	{Name: "quit", Usage: "/quit", Description: "End the session"},
}

// unknownCommandMessage is the fixed reply for unrecognized commands.
const unknownCommandMessage = "Unknown command. Run /help to see supported commands."

// farewellMessage is emitted by the quit command.
const farewellMessage = "Goodbye."

// KnownCommand reports whether name (lowercase) is in the catalog.
func KnownCommand(name string) bool {
	for _, c := range Commands {
		if c.Name == name {
			return true
		}
	}
	return false
}

// LookupCommand returns the catalog entry for a command name.
func LookupCommand(name string) (CommandDef, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandDef{}, false
}

// SuggestCommands returns catalog entries whose name starts with the given
// prefix. An empty prefix matches everything.
func SuggestCommands(prefix string) []CommandDef {
	prefix = strings.ToLower(prefix)
	var out []CommandDef
	for _, c := range Commands {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// helpLines renders the formatted catalog.
func helpLines() []string {
	width := 0
	for _, c := range Commands {
		if len(c.Usage) > width {
			width = len(c.Usage)
		}
	}

	lines := []string{"Commands:"}
	for _, c := range Commands {
		line := fmt.Sprintf("  %-*s  %s", width, c.Usage, c.Description)
		if c.Hint != "" {
			line += fmt.Sprintf(" (%s)", c.Hint)
		}
		lines = append(lines, line)
	}
	return lines
}

// =============================================================================
// COMMAND APPLICATION
// =============================================================================

// ParseCommandLine splits a slash-command line into its lowercase name and
// trimmed argument string.
func ParseCommandLine(line string) (name, arg string) {
	rest := strings.TrimPrefix(strings.TrimSpace(line), "/")
	parts := strings.SplitN(rest, " ", 2)
	name = strings.ToLower(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return name, arg
}

// Apply executes one slash-command line against the current state.
//
// Apply is pure: identical (line, state) inputs produce identical outputs
// and no side effects. Every branch returns messages instead of failing;
// command errors are always recoverable within the session.
func Apply(line string, st State) (State, []string, bool) {
	name, arg := ParseCommandLine(line)

	switch name {
	case "help":
		return st, helpLines(), false

	case "quit":
		return st, []string{farewellMessage}, true

	case "show":
		return st, st.Dump(), false

	case "provider":
		p, ok := provider.ParseProvider(arg)
		if !ok {
			return st, []string{fmt.Sprintf("Usage: /provider <name> (%s)", provider.ProviderNames())}, false
		}
		st.Provider = p
		// Models are provider-scoped, so switching always resets the model.
		st.Model = p.DefaultModel()
		return st, []string{fmt.Sprintf("Provider set to %s (model %s).", p, st.Model)}, false

	case "model":
		if arg == "" {
			return st, []string{"Usage: /model <name>"}, false
		}
		st.Model = arg
		return st, []string{fmt.Sprintf("Model set to %s.", arg)}, false

	case "mode":
		if arg == "" {
			return st, []string{fmt.Sprintf("Usage: /mode <name> (%s)", prompt.ModeNames())}, false
		}
		m, ok := prompt.ParseMode(arg)
		if !ok {
			return st, []string{fmt.Sprintf("Usage: /mode <name> (%s)", prompt.ModeNames())}, false
		}
		st.Mode = m
		return st, []string{fmt.Sprintf("Mode set to %s.", m)}, false

	case "context":
		if arg == "" {
			return st, []string{"Usage: /context <text|clear>"}, false
		}
		if strings.EqualFold(arg, "clear") {
			st.Context = ""
			return st, []string{"Context cleared."}, false
		}
		st.Context = arg
		return st, []string{"Context set."}, false

	case "explain":
		return applyToggle(st, name, arg, func(st *State, v bool) { st.Explain = v })
	case "check":
		return applyToggle(st, name, arg, func(st *State, v bool) { st.Check = v })
	case "diff":
		return applyToggle(st, name, arg, func(st *State, v bool) { st.Diff = v })
	case "json":
		return applyToggle(st, name, arg, func(st *State, v bool) { st.JSON = v })
	case "tokens":
		return applyToggle(st, name, arg, func(st *State, v bool) { st.Tokens = v })
	case "copy":
		return applyToggle(st, name, arg, func(st *State, v bool) { st.Copy = v })

	case "history":
		// Needs the history store; the session intercepts it before Apply.
		return st, []string{"History is not available in this session."}, false
	}

	return st, []string{unknownCommandMessage}, false
}

// applyToggle parses exactly the literals "on" and "off" (case-sensitive).
func applyToggle(st State, name, arg string, set func(*State, bool)) (State, []string, bool) {
	switch arg {
	case "on":
		set(&st, true)
		return st, []string{fmt.Sprintf("%s is on.", name)}, false
	case "off":
		set(&st, false)
		return st, []string{fmt.Sprintf("%s is off.", name)}, false
	}
	return st, []string{fmt.Sprintf("Usage: /%s <on|off>", name)}, false
}
