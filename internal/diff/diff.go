// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff computes line-level diffs between original and rewritten text.
package diff

import (
	"strings"

	"github.com/jeranaias/govtext/internal/util"
)

// =============================================================================
// DIFF TYPES
// =============================================================================

// LineType represents the type of a diff line.
type LineType int

const (
	// LineUnchanged represents lines present in both texts
	LineUnchanged LineType = iota
	// LineAdded represents lines only in the rewritten text
	LineAdded
	// LineRemoved represents lines only in the original text
	LineRemoved
)

// String returns the string representation of a diff line type.
func (t LineType) String() string {
	switch t {
	case LineUnchanged:
		return "unchanged"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the rendered prefix for this line type.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+ "
	case LineRemoved:
		return "- "
	default:
		return "  "
	}
}

// Line is a single line in a diff.
type Line struct {
	Type    LineType
	Content string
}

// =============================================================================
// DIFF COMPUTATION
// =============================================================================

// Compute diffs original against rewritten text line by line. Line endings
// are normalized to LF before splitting, so CR/CRLF input diffs cleanly.
//
// The algorithm is a classic LCS dynamic program. The backtrack breaks ties
// in favor of additions, which keeps the rendered diff minimal and makes the
// output deterministic for identical inputs.
func Compute(original, rewritten string) []Line {
	a := splitLines(original)
	b := splitLines(rewritten)

	m, n := len(a), len(b)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Backtrack from the bottom-right corner. The >= comparison treats an
	// equally optimal horizontal step as an addition.
	var reversed []Line
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			reversed = append(reversed, Line{Type: LineUnchanged, Content: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			reversed = append(reversed, Line{Type: LineAdded, Content: b[j-1]})
			j--
		default:
			reversed = append(reversed, Line{Type: LineRemoved, Content: a[i-1]})
			i--
		}
	}

	lines := make([]Line, len(reversed))
	for k, l := range reversed {
		lines[len(reversed)-1-k] = l
	}
	return lines
}

// splitLines splits normalized content into lines. The empty string still
// yields one empty line so the round-trip property holds for blank inputs.
func splitLines(content string) []string {
	return strings.Split(util.NormalizeNewlines(content), "\n")
}

// Render formats diff lines with their prefixes, one per output line.
func Render(lines []Line) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(l.Type.Prefix())
		sb.WriteString(l.Content)
	}
	return sb.String()
}

// Reconstruct applies a diff (unchanged plus added lines) to rebuild the
// rewritten text. It exists to make the round-trip property directly
// checkable.
func Reconstruct(lines []Line) string {
	var out []string
	for _, l := range lines {
		if l.Type != LineRemoved {
			out = append(out, l.Content)
		}
	}
	return strings.Join(out, "\n")
}
