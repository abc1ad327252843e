// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - The "govtext chat" command: a line-based chat session.
//
// The REPL and the rich UI render the same chat.Event stream; this file owns
// only input history, prompting, and per-kind styling.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/govtext/internal/chat"
	"github.com/jeranaias/govtext/internal/config"
)

func runChat(args Args) int {
	st := sessionState(args, resolveConfig(args))

	hist, closeStore := openHistory()
	defer closeStore()

	var offer chat.SetupOffer
	if IsTTY() {
		offer = newWizard().Offer
	}

	sess := chat.NewSession(chat.SessionOptions{
		State:      st,
		Flags:      args.ConfigFlags(),
		OfferSetup: offer,
		History:    hist,
	})

	input, err := newReplInput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
		return ExitRuntime
	}
	defer input.Close()

	printWelcome(sess.State())

	ctx := context.Background()
	for {
		line, err := input.Read(PromptStyle.Render("govtext> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				break
			}
			fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render("Error: "+err.Error()))
			return ExitRuntime
		}

		events, quit := handleWithSpinner(ctx, sess, line)
		renderEvents(events)
		if quit {
			break
		}
	}
	return ExitOK
}

// handleWithSpinner animates a spinner for payload submissions when the key
// is already available. Command handling and the setup offer run without one
// so they can prompt freely.
func handleWithSpinner(ctx context.Context, sess *chat.Session, line string) ([]chat.Event, bool) {
	var events []chat.Event
	var quit bool

	classified := chat.Classify(line)
	spin := classified.Kind == chat.InputPayload &&
		sess.State().Spinner &&
		IsStderrTTY() &&
		keyAvailable(sess)

	_ = withSpinner("Rewriting", spin, func() error {
		events, quit = sess.HandleInput(ctx, line)
		return nil
	})
	return events, quit
}

func keyAvailable(sess *chat.Session) bool {
	envVar := sess.State().Provider.EnvVar()
	return strings.TrimSpace(os.Getenv(envVar)) != ""
}

func printWelcome(st chat.State) {
	fmt.Println(TitleStyle.Render("govtext"))
	fmt.Println(SystemStyle.Render(fmt.Sprintf("Provider: %s  Model: %s", st.Provider, st.Model)))
	fmt.Println(DimStyle.Render("Type text to rewrite it, or /help for commands."))
	fmt.Println()
}

// renderEvents prints one submission's event stream in order.
func renderEvents(events []chat.Event) {
	for _, e := range events {
		switch e.Kind {
		case chat.EventAssistant:
			if IsStdoutTTY() {
				fmt.Print(renderMarkdown(e.Text))
			} else {
				fmt.Println(e.Text)
			}
		case chat.EventSuccess:
			fmt.Println(SuccessStyle.Render(e.Text))
		case chat.EventError:
			fmt.Fprintln(os.Stderr, ErrorStyle.Render(e.Text))
		default:
			fmt.Println(SystemStyle.Render(e.Text))
		}
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

const historyFile = "chat_history"

// replInput wraps liner with a persistent history file under the config dir.
type replInput struct {
	line        *liner.State
	historyPath string
}

func newReplInput() (*replInput, error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &replInput{
		line:        line,
		historyPath: filepath.Join(dir, historyFile),
	}
	in.loadHistory()
	return in, nil
}

func (r *replInput) loadHistory() {
	if f, err := os.Open(r.historyPath); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

// Read prompts for one line and records non-empty input in the history.
func (r *replInput) Read(promptText string) (string, error) {
	input, err := r.line.Prompt(promptText)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *replInput) saveHistory() {
	if err := config.EnsureDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

func (r *replInput) Close() {
	r.saveHistory()
	r.line.Close()
}
