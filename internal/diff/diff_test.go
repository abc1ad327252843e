// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"testing"
)

func TestComputeBasic(t *testing.T) {
	lines := Compute("keep\nold line\nend", "keep\nnew line\nend")

	want := []Line{
		{LineUnchanged, "keep"},
		{LineRemoved, "old line"},
		{LineAdded, "new line"},
		{LineUnchanged, "end"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestComputeIdentical(t *testing.T) {
	lines := Compute("a\nb", "a\nb")
	for _, l := range lines {
		if l.Type != LineUnchanged {
			t.Errorf("identical input produced change: %+v", l)
		}
	}
}

func TestComputeNormalizesLineEndings(t *testing.T) {
	lines := Compute("a\r\nb", "a\nb")
	for _, l := range lines {
		if l.Type != LineUnchanged {
			t.Errorf("CRLF vs LF should be unchanged: %+v", l)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	first := Render(Compute("one\ntwo\nthree", "zero\ntwo\nfour"))
	for i := 0; i < 10; i++ {
		if got := Render(Compute("one\ntwo\nthree", "zero\ntwo\nfour")); got != first {
			t.Fatalf("non-deterministic output:\n%s\nvs\n%s", first, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		rewritten string
	}{
		{"basic change", "a\nb\nc", "a\nx\nc"},
		{"disjoint", "a\nb", "x\ny\nz"},
		{"empty original", "", "new text"},
		{"empty rewritten", "old text", ""},
		{"both empty", "", ""},
		{"addition only", "a\nc", "a\nb\nc"},
		{"removal only", "a\nb\nc", "a\nc"},
		{"repeated lines", "a\na\nb\na", "a\nb\na\na"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Compute(tt.original, tt.rewritten)
			if got := Reconstruct(lines); got != tt.rewritten {
				t.Errorf("round trip = %q, want %q (diff: %+v)", got, tt.rewritten, lines)
			}
		})
	}
}

func TestRenderPrefixes(t *testing.T) {
	got := Render([]Line{
		{LineUnchanged, "same"},
		{LineRemoved, "gone"},
		{LineAdded, "here"},
	})
	want := "  same\n- gone\n+ here"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestInsertionFavoredOnTie(t *testing.T) {
	// "a" -> "b": removal and addition are equally optimal. The tie-break
	// emits the addition first in backtrack order, which renders as the
	// removal line then the addition line after reversal.
	lines := Compute("a", "b")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %+v", len(lines), lines)
	}
	if lines[0].Type != LineRemoved || lines[1].Type != LineAdded {
		t.Errorf("tie-break order = %+v", lines)
	}
}
