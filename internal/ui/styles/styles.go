// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the govtext TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// PALETTE
// =============================================================================

var (
	Cyan    = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	Amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

	UserBorder      = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}
	AssistantBorder = lipgloss.AdaptiveColor{Light: "#C4B5FD", Dark: "#A78BFA"}
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components used by the chat view.
type Theme struct {
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	UserLabel     lipgloss.Style
	UserText      lipgloss.Style
	AssistantText lipgloss.Style
	SystemText    lipgloss.Style
	SuccessText   lipgloss.Style
	ErrorText     lipgloss.Style

	InputBox   lipgloss.Style
	Completion lipgloss.Style
	Spinner    lipgloss.Style
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
}

// New builds the default theme.
func New() *Theme {
	return &Theme{
		HeaderTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan),
		HeaderSubtitle: lipgloss.NewStyle().
			Foreground(TextSecondary),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(UserBorder),
		UserText: lipgloss.NewStyle().
			Foreground(TextPrimary),
		AssistantText: lipgloss.NewStyle().
			Foreground(TextPrimary).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(AssistantBorder).
			PaddingLeft(1),
		SystemText: lipgloss.NewStyle().
			Foreground(TextSecondary),
		SuccessText: lipgloss.NewStyle().
			Bold(true).
			Foreground(Emerald),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(Rose),

		InputBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Cyan),
		Completion: lipgloss.NewStyle().
			Foreground(Amber),
		Spinner: lipgloss.NewStyle().
			Foreground(Cyan),
		StatusBar: lipgloss.NewStyle().
			Foreground(TextMuted),
		StatusKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondary),
	}
}
