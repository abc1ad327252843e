// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/govtext/internal/config"
	"github.com/jeranaias/govtext/internal/provider"
)

// scriptedAsker replays queued answers.
type scriptedAsker struct {
	answers []string
	secrets []string
	yesNos  []bool
}

func (a *scriptedAsker) Ask(prompt, defaultVal string) (string, error) {
	if len(a.answers) == 0 {
		return defaultVal, nil
	}
	answer := a.answers[0]
	a.answers = a.answers[1:]
	if answer == "" {
		return defaultVal, nil
	}
	return answer, nil
}

func (a *scriptedAsker) AskSecret(prompt string) (string, error) {
	if len(a.secrets) == 0 {
		return "", nil
	}
	secret := a.secrets[0]
	a.secrets = a.secrets[1:]
	return secret, nil
}

func (a *scriptedAsker) AskYesNo(prompt string, defaultYes bool) (bool, error) {
	if len(a.yesNos) == 0 {
		return defaultYes, nil
	}
	answer := a.yesNos[0]
	a.yesNos = a.yesNos[1:]
	return answer, nil
}

type wizardHarness struct {
	wizard   *Wizard
	saved    *config.FileConfig
	env      map[string]string
	rewrites []provider.Options
	out      *bytes.Buffer
}

func newHarness(asker Asker) *wizardHarness {
	h := &wizardHarness{env: map[string]string{}, out: &bytes.Buffer{}}
	h.wizard = &Wizard{
		Asker: asker,
		Out:   h.out,
		Save: func(f config.FileConfig) error {
			h.saved = &f
			return nil
		},
		SetEnv: func(key, value string) error {
			h.env[key] = value
			return nil
		},
		Rewrite: func(ctx context.Context, req provider.Request, opts provider.Options) (*provider.Result, error) {
			h.rewrites = append(h.rewrites, opts)
			return &provider.Result{RewrittenText: "Apply before the deadline."}, nil
		},
	}
	return h
}

func TestWizardFullFlow(t *testing.T) {
	asker := &scriptedAsker{
		answers: []string{
			"anthropic", // provider
			"",          // model -> default
			"5000",      // timeout
			"",          // base URL -> skip
		},
		secrets: []string{"sk-ant-secret"},
		yesNos:  []bool{true}, // verify
	}
	h := newHarness(asker)

	res, err := h.wizard.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Provider != provider.Anthropic || res.Model != "claude-3-5-sonnet-latest" {
		t.Errorf("result = %+v", res)
	}
	if res.TimeoutMs != 5000 || res.APIKey != "sk-ant-secret" {
		t.Errorf("result = %+v", res)
	}

	if h.saved == nil {
		t.Fatal("config not saved")
	}
	if h.saved.Provider != "anthropic" || h.saved.TimeoutMs != 5000 {
		t.Errorf("saved = %+v", h.saved)
	}
	if h.saved.Model != "" {
		t.Errorf("default model must not be persisted: %q", h.saved.Model)
	}

	if h.env["ANTHROPIC_API_KEY"] != "sk-ant-secret" {
		t.Errorf("env = %v", h.env)
	}

	if len(h.rewrites) != 1 {
		t.Fatalf("verify rewrites = %d", len(h.rewrites))
	}
	opts := h.rewrites[0]
	if opts.Provider != provider.Anthropic || opts.APIKey != "sk-ant-secret" || opts.TimeoutMs != 5000 {
		t.Errorf("verify opts = %+v", opts)
	}
}

func TestWizardKeyNeverSaved(t *testing.T) {
	asker := &scriptedAsker{secrets: []string{"sk-top-secret"}, yesNos: []bool{false}}
	h := newHarness(asker)

	if _, err := h.wizard.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(h.out.String(), "sk-top-secret") {
		t.Error("key echoed to output")
	}
	// FileConfig has no key field; the export hint must be shown instead.
	if !strings.Contains(h.out.String(), "export OPENAI_API_KEY=") {
		t.Errorf("missing export hint:\n%s", h.out.String())
	}
}

func TestWizardNumericProviderChoice(t *testing.T) {
	asker := &scriptedAsker{answers: []string{"3"}, yesNos: []bool{false}}
	h := newHarness(asker)

	res, err := h.wizard.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Provider != provider.OpenRouter {
		t.Errorf("provider = %s", res.Provider)
	}
}

func TestWizardInvalidProviderRetries(t *testing.T) {
	asker := &scriptedAsker{
		// Two bad answers, then a valid name; the rest take defaults.
		answers: []string{"banana", "0", "anthropic", "", "", ""},
		yesNos:  []bool{false},
	}
	h := newHarness(asker)

	res, err := h.wizard.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Provider != provider.Anthropic {
		t.Errorf("provider = %s", res.Provider)
	}
	if !strings.Contains(h.out.String(), `Unrecognized provider "banana"`) {
		t.Errorf("missing retry notice:\n%s", h.out.String())
	}
	if h.saved == nil || h.saved.Provider != "anthropic" {
		t.Errorf("saved = %+v", h.saved)
	}
}

func TestWizardInvalidTimeoutRetries(t *testing.T) {
	asker := &scriptedAsker{
		answers: []string{"", "", "abc", "-5", "2500", ""},
		yesNos:  []bool{false},
	}
	h := newHarness(asker)

	res, err := h.wizard.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TimeoutMs != 2500 {
		t.Errorf("timeout = %d", res.TimeoutMs)
	}
}

func TestWizardEmptyTimeoutDefaults(t *testing.T) {
	asker := &scriptedAsker{yesNos: []bool{false}}
	h := newHarness(asker)

	res, err := h.wizard.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TimeoutMs != 30000 {
		t.Errorf("timeout = %d", res.TimeoutMs)
	}
	if h.saved.TimeoutMs != 0 {
		t.Errorf("default timeout must not be persisted: %d", h.saved.TimeoutMs)
	}
}

func TestWizardVerifyFailureIsNonFatal(t *testing.T) {
	asker := &scriptedAsker{secrets: []string{"sk-bad"}, yesNos: []bool{true}}
	h := newHarness(asker)
	h.wizard.Rewrite = func(ctx context.Context, req provider.Request, opts provider.Options) (*provider.Result, error) {
		return nil, errors.New("Invalid API key")
	}

	if _, err := h.wizard.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(h.out.String(), "Verification failed") {
		t.Errorf("output:\n%s", h.out.String())
	}
	if h.saved == nil {
		t.Error("config must still be saved")
	}
}

func TestOfferDeclined(t *testing.T) {
	asker := &scriptedAsker{yesNos: []bool{false}}
	h := newHarness(asker)

	ran, err := h.wizard.Offer(context.Background(), provider.OpenAI)
	if err != nil || ran {
		t.Errorf("ran = %v, err = %v", ran, err)
	}
	if h.saved != nil {
		t.Error("declined offer must not save config")
	}
}

func TestOfferAcceptedPreselectsProvider(t *testing.T) {
	asker := &scriptedAsker{
		yesNos:  []bool{true, false}, // run setup; skip verify
		secrets: []string{"sk-or-key"},
	}
	h := newHarness(asker)

	ran, err := h.wizard.Offer(context.Background(), provider.OpenRouter)
	if err != nil || !ran {
		t.Fatalf("ran = %v, err = %v", ran, err)
	}
	if h.saved.Provider != "openrouter" {
		t.Errorf("saved = %+v", h.saved)
	}
	if h.env["OPENROUTER_API_KEY"] != "sk-or-key" {
		t.Errorf("env = %v", h.env)
	}
}

func TestTerminalAskerDefaults(t *testing.T) {
	out := &bytes.Buffer{}
	a := &TerminalAsker{
		In:  bufio.NewReader(strings.NewReader("\nvalue\ny\n\n")),
		Out: out,
		Fd:  -1, // not a terminal: secret falls back to plain read
	}

	got, err := a.Ask("Model", "default-model")
	if err != nil || got != "default-model" {
		t.Errorf("Ask = %q, %v", got, err)
	}

	got, err = a.Ask("Model", "default-model")
	if err != nil || got != "value" {
		t.Errorf("Ask = %q, %v", got, err)
	}

	yes, err := a.AskYesNo("Continue?", false)
	if err != nil || !yes {
		t.Errorf("AskYesNo = %v, %v", yes, err)
	}

	yes, err = a.AskYesNo("Continue?", false)
	if err != nil || yes {
		t.Errorf("AskYesNo default = %v, %v", yes, err)
	}
}
