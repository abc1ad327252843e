// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// =============================================================================
// TERMINAL ASKER
// =============================================================================

// TerminalAsker prompts on a terminal. Secrets are read without echo via
// x/term when stdin is a real terminal, and fall back to a plain line read
// otherwise (pipes, tests).
type TerminalAsker struct {
	In  *bufio.Reader
	Out io.Writer

	// Fd is the stdin file descriptor used for no-echo reads.
	Fd int
}

// NewTerminalAsker builds an asker over stdin/stdout.
func NewTerminalAsker() *TerminalAsker {
	return &TerminalAsker{
		In:  bufio.NewReader(os.Stdin),
		Out: os.Stdout,
		Fd:  int(os.Stdin.Fd()),
	}
}

// Ask prompts for one line; empty input returns defaultVal.
func (a *TerminalAsker) Ask(prompt, defaultVal string) (string, error) {
	fmt.Fprintf(a.Out, "%s: ", prompt)
	line, err := a.In.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal, nil
	}
	return line, nil
}

// AskSecret prompts without echoing.
func (a *TerminalAsker) AskSecret(prompt string) (string, error) {
	fmt.Fprintf(a.Out, "%s: ", prompt)

	if term.IsTerminal(a.Fd) {
		raw, err := term.ReadPassword(a.Fd)
		fmt.Fprintln(a.Out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := a.In.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskYesNo prompts for y/n with a default.
func (a *TerminalAsker) AskYesNo(prompt string, defaultYes bool) (bool, error) {
	suffix := "[Y/n]"
	if !defaultYes {
		suffix = "[y/N]"
	}

	answer, err := a.Ask(fmt.Sprintf("%s %s", prompt, suffix), "")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return defaultYes, nil
	}
	return answer == "y" || answer == "yes", nil
}
