// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// oneshot.go - The "govtext rewrite" command: one rewrite, no session.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/jeranaias/govtext/internal/chat"
	"github.com/jeranaias/govtext/internal/config"
	"github.com/jeranaias/govtext/internal/engine"
	"github.com/jeranaias/govtext/internal/output"
	"github.com/jeranaias/govtext/internal/prompt"
	"github.com/jeranaias/govtext/internal/provider"
)

func runOneShot(args Args) int {
	// Flag values are validated before any network activity.
	mode, ok := prompt.ParseMode(args.ModeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render(
			fmt.Sprintf("Invalid mode %q. Valid modes: %s.", args.ModeName, prompt.ModeNames())))
		return ExitRuntime
	}
	if args.Provider != "" {
		if _, ok := provider.ParseProvider(args.Provider); !ok {
			fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render(
				fmt.Sprintf("Invalid provider %q. Valid providers: %s.", args.Provider, provider.ProviderNames())))
			return ExitRuntime
		}
	}

	text := strings.TrimSpace(args.Text)
	if text == "" {
		// No argument: read the payload from stdin (pipes, redirects).
		if IsTTY() {
			fmt.Fprintln(os.Stderr, "No text to rewrite. Pass it as an argument or pipe it on stdin.")
			return ExitUsage
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
			return ExitRuntime
		}
		text = strings.TrimSpace(string(data))
		if text == "" {
			fmt.Fprintln(os.Stderr, "No text to rewrite. Pass it as an argument or pipe it on stdin.")
			return ExitUsage
		}
	}

	cfg := resolveConfig(args)
	if cfg.APIKey == "" {
		if IsTTY() {
			if ran, err := newWizard().Offer(context.Background(), cfg.Provider); err == nil && ran {
				cfg = resolveConfig(args)
			}
		}
		if cfg.APIKey == "" {
			p := cfg.Provider
			fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render(fmt.Sprintf("No API key found for %s.", p.Display())))
			fmt.Fprintf(os.Stderr, "Set the %s environment variable:\n", p.EnvVar())
			fmt.Fprintf(os.Stderr, "  export %s=your-key-here\n", p.EnvVar())
			return ExitRuntime
		}
	}

	req := provider.Request{
		Text:    text,
		Explain: args.Explain,
		Check:   args.Check,
		Context: args.Context,
		Mode:    mode,
	}
	opts := provider.Options{
		Provider:  cfg.Provider,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		TimeoutMs: cfg.TimeoutMs,
		BaseURL:   cfg.BaseURL,
	}

	var res *provider.Result
	spinnerOn := !args.NoSpinner && !args.JSON && IsStderrTTY()
	err := withSpinner("Rewriting", spinnerOn, func() error {
		var rerr error
		res, rerr = engine.Rewrite(context.Background(), req, opts)
		return rerr
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
		return ExitRuntime
	}

	outMode := output.SelectMode(args.OutputFlags())
	if outMode == output.ModePlain && output.DetectNoImprovement(text, res.RewrittenText, false) {
		fmt.Println(SuccessStyle.Render(output.NoImprovementMessage))
	} else {
		rendered, rerr := output.Render(outMode, res, text, cfg.Provider, cfg.Model)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+rerr.Error()))
			return ExitRuntime
		}
		fmt.Println(rendered)
	}

	if args.Copy && !args.Check {
		if clipboard.WriteAll(res.RewrittenText) == nil {
			fmt.Fprintln(os.Stderr, SystemStyle.Render("Copied to clipboard."))
		}
	}

	if !args.Check {
		recordOneShot(cfg, mode, text, res)
	}
	return ExitOK
}

// recordOneShot appends the rewrite to the history store, best-effort.
func recordOneShot(cfg config.Resolved, mode prompt.Mode, input string, res *provider.Result) {
	hist, closeStore := openHistory()
	defer closeStore()
	if hist == nil {
		return
	}

	entry := chat.HistoryEntry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Provider:  string(cfg.Provider),
		Model:     cfg.Model,
		Mode:      string(mode),
		Input:     input,
		Output:    res.RewrittenText,
	}
	if res.Usage != nil {
		entry.InputTokens = res.Usage.InputTokens
		entry.OutputTokens = res.Usage.OutputTokens
	}
	_ = hist.Record(entry)
}
