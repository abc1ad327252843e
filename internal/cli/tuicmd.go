// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tuicmd.go - The default command: the rich terminal UI.
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/govtext/internal/chat"
	"github.com/jeranaias/govtext/internal/ui"
)

func runTUI(args Args) int {
	// The rich UI needs a real terminal on both ends. Piped invocations get
	// the line REPL instead, which degrades cleanly.
	if !IsTTY() || !IsStdoutTTY() {
		return runChat(args)
	}

	st := sessionState(args, resolveConfig(args))

	hist, closeStore := openHistory()
	defer closeStore()

	// No setup offer inside the UI: the wizard owns the terminal, bubbletea
	// owns the terminal, and they cannot share it. Missing keys surface as
	// error events with the export instruction instead.
	sess := chat.NewSession(chat.SessionOptions{
		State:   st,
		Flags:   args.ConfigFlags(),
		History: hist,
	})

	if err := ui.Run(ui.Options{Session: sess, Version: Version}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
		return ExitRuntime
	}
	return ExitOK
}
