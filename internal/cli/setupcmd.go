// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setupcmd.go - The "govtext setup" command.
package cli

import (
	"context"
	"fmt"
	"os"
)

func runSetup(args Args) int {
	if !IsTTY() {
		fmt.Fprintln(os.Stderr, "stdin is not a terminal; setup requires interactive input")
		return ExitRuntime
	}

	if _, err := newWizard().Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
		return ExitRuntime
	}
	return ExitOK
}
