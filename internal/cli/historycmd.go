// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// historycmd.go - The "govtext history" command.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/govtext/internal/storage"
	"github.com/jeranaias/govtext/internal/util"
)

const historyInputPreviewRunes = 70

func runHistory(args Args) int {
	store, err := storage.OpenDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
		return ExitRuntime
	}
	defer store.Close()

	entries, err := store.Recent(args.Limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
		return ExitRuntime
	}
	if len(entries) == 0 {
		fmt.Println("No rewrites recorded yet.")
		return ExitOK
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Last %d rewrites", len(entries))))
	for _, e := range entries {
		preview := util.TruncateRunes(strings.ReplaceAll(e.Input, "\n", " "), historyInputPreviewRunes)
		fmt.Printf("%s  %s\n",
			DimStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04")),
			SystemStyle.Render(fmt.Sprintf("%s/%s  %s", e.Provider, e.Model, e.Mode)))
		fmt.Printf("  %s\n", preview)
	}
	return ExitOK
}
