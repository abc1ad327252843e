// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// spinner.go - Plain ANSI spinner for long-running one-shot operations.
package cli

import (
	"fmt"
	"os"
	"time"
)

var spinChars = []rune{'|', '/', '-', '\\'}

// withSpinner runs fn while animating a spinner on stderr. The spinner line
// is cleared when fn returns. When enabled is false, fn runs directly.
func withSpinner(msg string, enabled bool, fn func() error) error {
	if !enabled {
		return fn()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case err := <-done:
			fmt.Fprintf(os.Stderr, "\r%*s\r", len(msg)+4, "")
			return err
		case <-ticker.C:
			fmt.Fprintf(os.Stderr, "\r%s... %c", msg, spinChars[i%len(spinChars)])
			i++
		}
	}
}
