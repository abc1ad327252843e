// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/govtext/internal/engine"
	"github.com/jeranaias/govtext/internal/provider"
)

func TestResolveDefaults(t *testing.T) {
	got := Resolve(Flags{}, map[string]string{}, FileConfig{})

	if got.Provider != provider.OpenAI {
		t.Errorf("provider = %s, want openai", got.Provider)
	}
	if got.Model != "gpt-4.1-mini" {
		t.Errorf("model = %q", got.Model)
	}
	if got.TimeoutMs != engine.DefaultTimeoutMs {
		t.Errorf("timeout = %d", got.TimeoutMs)
	}
	if got.BaseURL != "" || got.APIKey != "" {
		t.Errorf("unexpected baseURL/APIKey: %+v", got)
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Run("provider pairwise", func(t *testing.T) {
		file := FileConfig{Provider: "anthropic"}
		env := map[string]string{EnvProvider: "openrouter"}

		if got := Resolve(Flags{}, map[string]string{}, file); got.Provider != provider.Anthropic {
			t.Errorf("file tier: provider = %s", got.Provider)
		}
		if got := Resolve(Flags{}, env, file); got.Provider != provider.OpenRouter {
			t.Errorf("env over file: provider = %s", got.Provider)
		}
		if got := Resolve(Flags{Provider: "openai"}, env, file); got.Provider != provider.OpenAI {
			t.Errorf("flags over env: provider = %s", got.Provider)
		}
	})

	t.Run("model pairwise", func(t *testing.T) {
		file := FileConfig{Model: "file-model"}
		env := map[string]string{EnvModel: "env-model"}

		if got := Resolve(Flags{}, map[string]string{}, file); got.Model != "file-model" {
			t.Errorf("file tier: model = %q", got.Model)
		}
		if got := Resolve(Flags{}, env, file); got.Model != "env-model" {
			t.Errorf("env over file: model = %q", got.Model)
		}
		if got := Resolve(Flags{Model: "flag-model"}, env, file); got.Model != "flag-model" {
			t.Errorf("flags over env: model = %q", got.Model)
		}
	})

	t.Run("timeout pairwise", func(t *testing.T) {
		file := FileConfig{TimeoutMs: 1000}
		env := map[string]string{EnvTimeoutMs: "2000"}

		if got := Resolve(Flags{}, map[string]string{}, file); got.TimeoutMs != 1000 {
			t.Errorf("file tier: timeout = %d", got.TimeoutMs)
		}
		if got := Resolve(Flags{}, env, file); got.TimeoutMs != 2000 {
			t.Errorf("env over file: timeout = %d", got.TimeoutMs)
		}
		if got := Resolve(Flags{TimeoutMs: 3000}, env, file); got.TimeoutMs != 3000 {
			t.Errorf("flags over env: timeout = %d", got.TimeoutMs)
		}
	})

	t.Run("baseURL pairwise", func(t *testing.T) {
		file := FileConfig{BaseURL: "http://file"}
		env := map[string]string{EnvBaseURL: "http://env"}

		if got := Resolve(Flags{}, map[string]string{}, file); got.BaseURL != "http://file" {
			t.Errorf("file tier: baseURL = %q", got.BaseURL)
		}
		if got := Resolve(Flags{}, env, file); got.BaseURL != "http://env" {
			t.Errorf("env over file: baseURL = %q", got.BaseURL)
		}
		if got := Resolve(Flags{BaseURL: "http://flag"}, env, file); got.BaseURL != "http://flag" {
			t.Errorf("flags over env: baseURL = %q", got.BaseURL)
		}
	})
}

func TestResolveInvalidValuesDropped(t *testing.T) {
	t.Run("bad provider falls through", func(t *testing.T) {
		got := Resolve(Flags{Provider: "azure"}, map[string]string{EnvProvider: "bogus"}, FileConfig{Provider: "anthropic"})
		if got.Provider != provider.Anthropic {
			t.Errorf("provider = %s, want anthropic from file tier", got.Provider)
		}
	})

	t.Run("non-numeric timeout dropped", func(t *testing.T) {
		got := Resolve(Flags{}, map[string]string{EnvTimeoutMs: "fast"}, FileConfig{TimeoutMs: 1500})
		if got.TimeoutMs != 1500 {
			t.Errorf("timeout = %d, want file value", got.TimeoutMs)
		}
	})

	t.Run("non-positive timeout dropped", func(t *testing.T) {
		got := Resolve(Flags{}, map[string]string{EnvTimeoutMs: "-10"}, FileConfig{})
		if got.TimeoutMs != engine.DefaultTimeoutMs {
			t.Errorf("timeout = %d, want default", got.TimeoutMs)
		}
	})
}

func TestResolveModelDefaultTracking(t *testing.T) {
	t.Run("provider switch without explicit model gets new default", func(t *testing.T) {
		got := Resolve(Flags{Provider: "anthropic"}, map[string]string{}, FileConfig{})
		if got.Model != "claude-3-5-sonnet-latest" {
			t.Errorf("model = %q", got.Model)
		}
	})

	t.Run("explicit model at lower tier survives provider change at higher tier", func(t *testing.T) {
		got := Resolve(Flags{Provider: "anthropic"}, map[string]string{}, FileConfig{Model: "my-model"})
		if got.Model != "my-model" {
			t.Errorf("model = %q, want explicit file model", got.Model)
		}
	})
}

func TestResolveAPIKey(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":     "sk-openai",
		"ANTHROPIC_API_KEY":  "  sk-anthropic  ",
		"OPENROUTER_API_KEY": "",
	}

	if got := Resolve(Flags{}, env, FileConfig{}); got.APIKey != "sk-openai" {
		t.Errorf("openai key = %q", got.APIKey)
	}
	if got := Resolve(Flags{Provider: "anthropic"}, env, FileConfig{}); got.APIKey != "sk-anthropic" {
		t.Errorf("anthropic key = %q, want trimmed", got.APIKey)
	}
	if got := Resolve(Flags{Provider: "openrouter"}, env, FileConfig{}); got.APIKey != "" {
		t.Errorf("openrouter key = %q, want empty", got.APIKey)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	fc := FileConfig{Provider: "anthropic", Model: "claude-3-5-haiku-latest", TimeoutMs: 15000}
	if err := SaveTOML(fc, filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	got := LoadSnapshotFrom(dir)
	if got != fc {
		t.Errorf("round trip = %+v, want %+v", got, fc)
	}

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %o, want 0600", info.Mode().Perm())
	}
}

func TestLoadSnapshotMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600); err != nil {
		t.Fatal(err)
	}

	got := LoadSnapshotFrom(dir)
	if got != (FileConfig{}) {
		t.Errorf("malformed file should yield empty snapshot, got %+v", got)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	got := LoadSnapshotFrom(t.TempDir())
	if got != (FileConfig{}) {
		t.Errorf("missing file should yield empty snapshot, got %+v", got)
	}
}

func TestLoadSnapshotJSONFallback(t *testing.T) {
	dir := t.TempDir()
	fc := FileConfig{Provider: "openrouter", BaseURL: "http://localhost:8080"}
	data := []byte(`{"provider": "openrouter", "baseUrl": "http://localhost:8080"}`)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0600); err != nil {
		t.Fatal(err)
	}

	got := LoadSnapshotFrom(dir)
	if got != fc {
		t.Errorf("JSON fallback = %+v, want %+v", got, fc)
	}
}
