// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration resolution for govtext.
//
// Configuration merges four tiers, lowest to highest:
//   - Built-in defaults
//   - Config file (~/.govtext/config.toml, JSON fallback)
//   - Environment variables (GOVTEXT_*)
//   - CLI flags
//
// Resolution is a pure function of (flags, env snapshot, file snapshot).
// The environment is passed in as an explicit map so resolution never reads
// ambient process state and is trivially testable.
//
// API keys are a deliberate exception to the tiers: they come from the
// environment only, keyed by provider, and are never read from the config
// file or flags. Secrets do not persist to disk or shell history.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/govtext/internal/engine"
	"github.com/jeranaias/govtext/internal/provider"
	"github.com/jeranaias/govtext/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// DefaultProvider is the backend used when no tier selects one.
const DefaultProvider = provider.OpenAI

// Environment override variables.
const (
	EnvProvider  = "GOVTEXT_PROVIDER"
	EnvModel     = "GOVTEXT_MODEL"
	EnvTimeoutMs = "GOVTEXT_TIMEOUT_MS"
	EnvBaseURL   = "GOVTEXT_BASE_URL"

	// EnvConfigDir overrides the config directory location.
	EnvConfigDir = "GOVTEXT_CONFIG_DIR"
)

// FileConfig is the on-disk configuration snapshot. All fields are optional;
// zero values mean "not set at this tier".
type FileConfig struct {
	Provider  string `toml:"provider,omitempty" json:"provider,omitempty"`
	Model     string `toml:"model,omitempty" json:"model,omitempty"`
	TimeoutMs int    `toml:"timeout_ms,omitempty" json:"timeoutMs,omitempty"`
	BaseURL   string `toml:"base_url,omitempty" json:"baseUrl,omitempty"`
}

// Flags carries CLI flag values. Zero values mean the flag was not given.
type Flags struct {
	Provider  string
	Model     string
	TimeoutMs int
	BaseURL   string
}

// Resolved is the merged configuration for one invocation.
// An empty APIKey is a first-class signal that triggers the setup offer,
// not an error.
type Resolved struct {
	Provider  provider.Provider
	Model     string
	TimeoutMs int
	BaseURL   string
	APIKey    string
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve merges the four configuration tiers. Invalid values at any tier
// (unknown provider, non-positive timeout) are silently dropped so the
// previous tier's value survives.
//
// The provider default model applies only when no tier explicitly set a
// model, tracked independently of which tier set the final provider.
func Resolve(flags Flags, env map[string]string, file FileConfig) Resolved {
	p := DefaultProvider
	model := ""
	modelExplicit := false
	timeout := engine.DefaultTimeoutMs
	baseURL := ""

	// File tier
	if fp, ok := provider.ParseProvider(file.Provider); ok {
		p = fp
	}
	if file.Model != "" {
		model = file.Model
		modelExplicit = true
	}
	if file.TimeoutMs > 0 {
		timeout = file.TimeoutMs
	}
	if file.BaseURL != "" {
		baseURL = file.BaseURL
	}

	// Environment tier
	if ep, ok := provider.ParseProvider(env[EnvProvider]); ok {
		p = ep
	}
	if m := strings.TrimSpace(env[EnvModel]); m != "" {
		model = m
		modelExplicit = true
	}
	if raw := strings.TrimSpace(env[EnvTimeoutMs]); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			timeout = n
		}
	}
	if b := strings.TrimSpace(env[EnvBaseURL]); b != "" {
		baseURL = b
	}

	// Flags tier
	if fp, ok := provider.ParseProvider(flags.Provider); ok {
		p = fp
	}
	if flags.Model != "" {
		model = flags.Model
		modelExplicit = true
	}
	if flags.TimeoutMs > 0 {
		timeout = flags.TimeoutMs
	}
	if flags.BaseURL != "" {
		baseURL = flags.BaseURL
	}

	if !modelExplicit {
		model = p.DefaultModel()
	}

	return Resolved{
		Provider:  p,
		Model:     model,
		TimeoutMs: timeout,
		BaseURL:   baseURL,
		APIKey:    strings.TrimSpace(env[p.EnvVar()]),
	}
}

// EnvSnapshot captures the environment variables resolution consumes.
// Callers take one snapshot and thread it through; the resolver itself
// never touches the process environment.
func EnvSnapshot() map[string]string {
	snap := make(map[string]string, 8)
	keys := []string{EnvProvider, EnvModel, EnvTimeoutMs, EnvBaseURL}
	for _, p := range provider.Providers {
		keys = append(keys, p.EnvVar())
	}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			snap[k] = v
		}
	}
	return snap
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the govtext configuration directory path.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".govtext"), nil
}

// PathTOML returns the path to the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions fixes config file permissions on load.
// SECURITY: Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
		}
	}
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// LoadSnapshot reads the on-disk config, trying TOML first then JSON.
// A missing, unreadable or malformed file yields an empty snapshot, never
// an error: the file tier simply contributes nothing.
func LoadSnapshot() FileConfig {
	dir, err := Dir()
	if err != nil {
		return FileConfig{}
	}
	return LoadSnapshotFrom(dir)
}

// LoadSnapshotFrom reads the config snapshot from a specific directory.
func LoadSnapshotFrom(dir string) FileConfig {
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		ensureSecurePermissions(tomlPath)
		var fc FileConfig
		if _, err := toml.DecodeFile(tomlPath, &fc); err == nil {
			return fc
		}
		return FileConfig{}
	}

	jsonPath := filepath.Join(dir, "config.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		ensureSecurePermissions(jsonPath)
		var fc FileConfig
		if err := json.Unmarshal(data, &fc); err == nil {
			return fc
		}
	}

	return FileConfig{}
}

// Save writes the non-secret configuration to the default TOML file.
func Save(fc FileConfig) error {
	path, err := PathTOML()
	if err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(fc, path)
}

// SaveTOML writes the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveTOML(fc FileConfig, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# govtext configuration file\n")
	buf.WriteString("# Generated by govtext - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(fc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
