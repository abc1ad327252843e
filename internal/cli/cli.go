// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command dispatch and usage for govtext.
package cli

import (
	"fmt"
	"os"
	"runtime"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

const usageText = `govtext - rewrite text into GOV.UK content style

Usage:
  govtext                        Start the interactive UI (default)
  govtext rewrite [text]         Rewrite text once (reads stdin when omitted)
  govtext chat                   Line-based chat session
  govtext setup                  Interactive configuration wizard
  govtext history                Show recent rewrites
  govtext version                Show version information
  govtext help                   Show this help

Configuration flags (rewrite, chat):
  --provider NAME     Provider: openai, anthropic, openrouter
  --model NAME        Model name (defaults per provider)
  --timeout-ms N      Request timeout in milliseconds
  --base-url URL      Override the provider API base URL
  --mode NAME         Content mode: page-body, error-message, hint-text,
                      notification, button, heading, form-label
  --context TEXT      Service context passed to the model

Output flags (rewrite):
  --json              Machine-readable JSON output
  --check             Report style issues without rewriting
  --diff              Show a line diff against the original
  --explain           Include a summary of the changes made
  --copy              Copy the rewritten text to the clipboard
  --no-spinner        Disable the progress spinner

History flags:
  --limit N           Number of entries to show (default 20)

API keys are read from the environment only:
  OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY

Environment overrides: GOVTEXT_PROVIDER, GOVTEXT_MODEL, GOVTEXT_TIMEOUT_MS,
GOVTEXT_BASE_URL, GOVTEXT_CONFIG_DIR.
`

// Run parses argv and dispatches to a command handler. It returns the
// process exit code.
func Run(argv []string) int {
	args, err := ParseArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
		if suggestion := SuggestCommand(firstPositional(argv)); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean 'govtext %s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr, "Run 'govtext help' for usage.")
		return ExitUsage
	}

	switch args.Command {
	case "", "tui":
		return runTUI(args)
	case "chat":
		return runChat(args)
	case "rewrite":
		return runOneShot(args)
	case "setup":
		return runSetup(args)
	case "history":
		return runHistory(args)
	case "version":
		printVersion()
		return ExitOK
	case "help":
		fmt.Print(usageText)
		return ExitOK
	default:
		// ParseArgs validates the command; unreachable in practice.
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args.Command)
		return ExitUsage
	}
}

func printVersion() {
	fmt.Printf("govtext %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
	fmt.Printf("  %s/%s %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func firstPositional(argv []string) string {
	for _, a := range argv {
		if len(a) > 0 && a[0] != '-' {
			return a
		}
	}
	return ""
}
