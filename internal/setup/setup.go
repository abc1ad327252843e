// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package setup implements the interactive configuration wizard.
//
// The wizard collects provider, model, timeout and base URL, persists them to
// the config file, and takes the API key without echoing. The key is never
// written to disk: it is injected into the process environment so the current
// session can use it, and the user is told how to export it permanently.
package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/govtext/internal/config"
	"github.com/jeranaias/govtext/internal/engine"
	"github.com/jeranaias/govtext/internal/provider"
)

// =============================================================================
// ASKER
// =============================================================================

// Asker abstracts terminal prompting so the wizard flow is testable.
type Asker interface {
	// Ask prompts for a line of input; empty input returns defaultVal.
	Ask(prompt, defaultVal string) (string, error)
	// AskSecret prompts for sensitive input without echoing.
	AskSecret(prompt string) (string, error)
	// AskYesNo prompts for a yes/no answer with a default.
	AskYesNo(prompt string, defaultYes bool) (bool, error)
}

// verifySample is the fixed sentence sent when the user asks to verify the
// key works.
const verifySample = "It is important that you submit your application prior to the deadline."

// RewriteFunc matches engine.Rewrite. Injectable for tests.
type RewriteFunc func(ctx context.Context, req provider.Request, opts provider.Options) (*provider.Result, error)

// Wizard runs the interactive setup flow. Zero-value collaborators get
// production defaults.
type Wizard struct {
	Asker Asker

	// Out receives wizard output. Defaults to os.Stdout.
	Out io.Writer

	// Save persists the non-secret config. Defaults to config.Save.
	Save func(config.FileConfig) error

	// SetEnv injects the API key into the process environment. Defaults to
	// os.Setenv.
	SetEnv func(key, value string) error

	// Rewrite verifies the key. Defaults to engine.Rewrite.
	Rewrite RewriteFunc
}

// Result is what the wizard collected. APIKey lives only in memory and the
// process environment.
type Result struct {
	Provider  provider.Provider
	Model     string
	TimeoutMs int
	BaseURL   string
	APIKey    string
}

func (w *Wizard) out() io.Writer {
	if w.Out != nil {
		return w.Out
	}
	return os.Stdout
}

func (w *Wizard) save() func(config.FileConfig) error {
	if w.Save != nil {
		return w.Save
	}
	return config.Save
}

func (w *Wizard) setEnv() func(string, string) error {
	if w.SetEnv != nil {
		return w.SetEnv
	}
	return os.Setenv
}

func (w *Wizard) rewrite() RewriteFunc {
	if w.Rewrite != nil {
		return w.Rewrite
	}
	return engine.Rewrite
}

// =============================================================================
// WIZARD FLOW
// =============================================================================

// Run executes the full wizard, starting from the default provider.
func (w *Wizard) Run(ctx context.Context) (*Result, error) {
	return w.RunFor(ctx, "")
}

// RunFor executes the wizard with a preselected provider. An empty provider
// means the user picks one.
func (w *Wizard) RunFor(ctx context.Context, preselected provider.Provider) (*Result, error) {
	out := w.out()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "govtext setup")
	fmt.Fprintln(out, strings.Repeat("=", 13))
	fmt.Fprintln(out)

	res := &Result{}

	p, err := w.askProvider(preselected)
	if err != nil {
		return nil, err
	}
	res.Provider = p

	model, err := w.Asker.Ask(fmt.Sprintf("Model [%s]", p.DefaultModel()), p.DefaultModel())
	if err != nil {
		return nil, err
	}
	res.Model = strings.TrimSpace(model)

	timeoutMs, err := w.askTimeout()
	if err != nil {
		return nil, err
	}
	res.TimeoutMs = timeoutMs

	baseURL, err := w.Asker.Ask("Custom base URL (press Enter to skip)", "")
	if err != nil {
		return nil, err
	}
	res.BaseURL = strings.TrimSpace(baseURL)

	key, err := w.Asker.AskSecret(fmt.Sprintf("%s API key", p.Display()))
	if err != nil {
		return nil, err
	}
	res.APIKey = strings.TrimSpace(key)

	if err := w.persist(res); err != nil {
		return nil, err
	}

	if res.APIKey != "" {
		if err := w.setEnv()(p.EnvVar(), res.APIKey); err != nil {
			return nil, fmt.Errorf("set %s: %w", p.EnvVar(), err)
		}
		if err := w.maybeVerify(ctx, res); err != nil {
			return nil, err
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "The key is set for this session only. To keep it, add to your shell profile:\n")
		fmt.Fprintf(out, "  export %s=your-key-here\n", p.EnvVar())
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Setup complete.")
	return res, nil
}

// Offer asks whether to run setup for a provider missing its key, and runs it
// on a yes. Used mid-session when a rewrite finds no API key.
func (w *Wizard) Offer(ctx context.Context, p provider.Provider) (bool, error) {
	fmt.Fprintf(w.out(), "No API key found for %s.\n", p.Display())
	yes, err := w.Asker.AskYesNo("Run setup now?", true)
	if err != nil || !yes {
		return false, err
	}
	if _, err := w.RunFor(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

// =============================================================================
// STEPS
// =============================================================================

func (w *Wizard) askProvider(preselected provider.Provider) (provider.Provider, error) {
	if preselected != "" {
		fmt.Fprintf(w.out(), "Provider: %s\n", preselected)
		return preselected, nil
	}

	fmt.Fprintln(w.out(), "Providers:")
	for i, p := range provider.Providers {
		fmt.Fprintf(w.out(), "  [%d] %s\n", i+1, p)
	}

	for {
		answer, err := w.Asker.Ask(fmt.Sprintf("Select provider [%s]", config.DefaultProvider), string(config.DefaultProvider))
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)

		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(provider.Providers) {
			return provider.Providers[n-1], nil
		}
		if p, ok := provider.ParseProvider(answer); ok {
			return p, nil
		}
		fmt.Fprintf(w.out(), "Unrecognized provider %q. Enter a number or one of: %s.\n", answer, provider.ProviderNames())
	}
}

// askTimeout loops until it gets a positive integer or an empty answer.
func (w *Wizard) askTimeout() (int, error) {
	for {
		answer, err := w.Asker.Ask(fmt.Sprintf("Request timeout in ms [%d]", engine.DefaultTimeoutMs), "")
		if err != nil {
			return 0, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return engine.DefaultTimeoutMs, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n > 0 {
			return n, nil
		}
		fmt.Fprintln(w.out(), "Enter a positive number of milliseconds, or press Enter for the default.")
	}
}

// persist writes the non-secret fields to the config file. The API key is
// never persisted.
func (w *Wizard) persist(res *Result) error {
	file := config.FileConfig{
		Provider: string(res.Provider),
		Model:    res.Model,
		BaseURL:  res.BaseURL,
	}
	if res.TimeoutMs != engine.DefaultTimeoutMs {
		file.TimeoutMs = res.TimeoutMs
	}
	if res.Model == res.Provider.DefaultModel() {
		file.Model = ""
	}
	if err := w.save()(file); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// maybeVerify sends a fixed sample sentence when the user opts in.
func (w *Wizard) maybeVerify(ctx context.Context, res *Result) error {
	yes, err := w.Asker.AskYesNo("Verify the key with a test request?", true)
	if err != nil {
		return err
	}
	if !yes {
		return nil
	}

	out := w.out()
	fmt.Fprintln(out, "Sending a test rewrite...")

	opts := provider.Options{
		Provider:  res.Provider,
		APIKey:    res.APIKey,
		Model:     res.Model,
		TimeoutMs: res.TimeoutMs,
		BaseURL:   res.BaseURL,
	}
	result, err := w.rewrite()(ctx, provider.Request{Text: verifySample}, opts)
	if err != nil {
		fmt.Fprintf(out, "Verification failed: %v\n", err)
		fmt.Fprintln(out, "The configuration was saved anyway. Check the key and try again.")
		return nil
	}

	fmt.Fprintln(out, "Key verified. Sample rewrite:")
	fmt.Fprintf(out, "  %s\n", result.RewrittenText)
	return nil
}
