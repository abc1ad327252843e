// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - Bubble Tea model for the chat view.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/govtext/internal/chat"
	"github.com/jeranaias/govtext/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// phase is the input loop state. One submission is processed to completion
// before the next is accepted.
type phase int

const (
	phaseReady phase = iota
	phaseBusy
)

// entry is one rendered transcript line group.
type entry struct {
	kind chat.EventKind
	user bool
	text string
}

type model struct {
	sess    *chat.Session
	version string
	theme   *styles.Theme

	width  int
	height int
	ready  bool

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model

	phase       phase
	transcript  []entry
	suggestions []chat.CommandDef
}

// eventsMsg carries one submission's results back into the update loop.
type eventsMsg struct {
	events []chat.Event
	quit   bool
}

func newModel(opts Options) model {
	ta := textarea.New()
	ta.Placeholder = "Type text to rewrite, or /help for commands..."
	ta.Prompt = "> "
	ta.CharLimit = 8192
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()
	// Enter submits; ctrl+j inserts a newline.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return model{
		sess:    opts.Session,
		version: opts.Version,
		theme:   styles.New(),
		input:   ta,
		spin:    sp,
		phase:   phaseReady,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventsMsg:
		m.phase = phaseReady
		for _, e := range msg.events {
			m.transcript = append(m.transcript, entry{kind: e.Kind, text: e.Text})
		}
		m.refreshViewport()
		if msg.quit {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateInput(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.phase != phaseReady {
			return m, nil
		}
		return m.submit()

	case tea.KeyTab:
		if complete, ok := m.completeCommand(); ok {
			m.input.SetValue(complete)
			m.input.CursorEnd()
			m.suggestions = nil
			return m, nil
		}
	}

	return m.updateInput(msg)
}

func (m model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestions = suggestFor(m.input.Value())
	return m, cmd
}

// submit hands the current input to the session in the background.
func (m model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.transcript = append(m.transcript, entry{user: true, text: text})
	m.refreshViewport()
	m.input.Reset()
	m.suggestions = nil
	m.phase = phaseBusy

	sess := m.sess
	run := func() tea.Msg {
		events, quit := sess.HandleInput(context.Background(), text)
		return eventsMsg{events: events, quit: quit}
	}
	return m, tea.Batch(m.spin.Tick, run)
}

// completeCommand expands a single-suggestion slash prefix.
func (m model) completeCommand() (string, bool) {
	if len(m.suggestions) == 0 {
		return "", false
	}
	return "/" + m.suggestions[0].Name + " ", true
}

// suggestFor returns catalog matches for a single-line slash prefix.
func suggestFor(value string) []chat.CommandDef {
	if strings.Contains(value, "\n") || !strings.HasPrefix(value, "/") {
		return nil
	}
	token := strings.TrimPrefix(value, "/")
	if strings.ContainsAny(token, " \t") {
		return nil
	}
	return chat.SuggestCommands(strings.ToLower(token))
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height

	inputHeight := m.input.Height() + 2 // border
	headerHeight := 2
	statusHeight := 2
	vpHeight := m.height - inputHeight - headerHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.SetWidth(m.width - 4)
	m.refreshViewport()
	return m
}

// refreshViewport rebuilds the transcript content and scrolls to the bottom.
func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.phase == phaseBusy {
		b.WriteString(m.theme.Spinner.Render(m.spin.View() + " Rewriting..."))
	} else if len(m.suggestions) > 0 {
		b.WriteString(m.renderSuggestions())
	}
	b.WriteString("\n")

	b.WriteString(m.theme.InputBox.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m model) renderHeader() string {
	st := m.sess.State()
	title := m.theme.HeaderTitle.Render("govtext " + m.version)
	sub := m.theme.HeaderSubtitle.Render(fmt.Sprintf("  %s/%s  mode:%s", st.Provider, st.Model, st.Mode))
	return runewidth.Truncate(title+sub, m.width, "...")
}

func (m model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return m.theme.SystemText.Render("Type text to rewrite it in GOV.UK style.")
	}

	wrap := lipgloss.NewStyle().Width(m.width - 4)
	var parts []string
	for _, e := range m.transcript {
		switch {
		case e.user:
			parts = append(parts, m.theme.UserLabel.Render("you")+"\n"+wrap.Inherit(m.theme.UserText).Render(e.text))
		case e.kind == chat.EventAssistant:
			parts = append(parts, m.theme.AssistantText.Width(m.width-4).Render(e.text))
		case e.kind == chat.EventSuccess:
			parts = append(parts, wrap.Inherit(m.theme.SuccessText).Render(e.text))
		case e.kind == chat.EventError:
			parts = append(parts, wrap.Inherit(m.theme.ErrorText).Render(e.text))
		default:
			parts = append(parts, wrap.Inherit(m.theme.SystemText).Render(e.text))
		}
	}
	return strings.Join(parts, "\n\n")
}

func (m model) renderSuggestions() string {
	names := make([]string, 0, len(m.suggestions))
	for _, c := range m.suggestions {
		names = append(names, "/"+c.Name)
	}
	line := "tab: " + strings.Join(names, "  ")
	return m.theme.Completion.Render(runewidth.Truncate(line, m.width-2, "..."))
}

func (m model) renderStatusBar() string {
	hints := m.theme.StatusKey.Render("enter") + m.theme.StatusBar.Render(" send  ") +
		m.theme.StatusKey.Render("ctrl+j") + m.theme.StatusBar.Render(" newline  ") +
		m.theme.StatusKey.Render("tab") + m.theme.StatusBar.Render(" complete  ") +
		m.theme.StatusKey.Render("ctrl+c") + m.theme.StatusBar.Render(" quit")
	return hints
}
