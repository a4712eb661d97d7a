// Package modal provides a centered confirmation dialog.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/soundscape/internal/ui/styles"
)

// Field identifies the focused button.
type Field int

const (
	FieldSave Field = iota
	FieldCancel
)

// SubmitMsg is sent when the user confirms.
type SubmitMsg struct {
	Tag string
}

// CancelMsg is sent when the user dismisses the modal.
type CancelMsg struct {
	Tag string
}

// Config describes the modal's content.
type Config struct {
	// Tag is echoed back in SubmitMsg and CancelMsg.
	Tag          string
	Title        string
	Message      string
	ConfirmLabel string
	Danger       bool
}

// Model is a confirm/cancel dialog.
type Model struct {
	cfg          Config
	focusedField Field
	width        int
	height       int
}

var keys = struct {
	Confirm, Cancel, Next, Prev, Yes key.Binding
}{
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Cancel:  key.NewBinding(key.WithKeys("esc", "n")),
	Next:    key.NewBinding(key.WithKeys("tab", "right", "l")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab", "left", "h")),
	Yes:     key.NewBinding(key.WithKeys("y")),
}

// New creates a modal focused on the confirm button.
func New(cfg Config) Model {
	if cfg.ConfirmLabel == "" {
		cfg.ConfirmLabel = "Confirm"
	}
	return Model{cfg: cfg, focusedField: FieldSave}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize sets the area the modal is centered in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key presses.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel):
			return m, m.cancel()
		case key.Matches(msg, keys.Yes):
			return m, m.submit()
		case key.Matches(msg, keys.Next), key.Matches(msg, keys.Prev):
			if m.focusedField == FieldSave {
				m.focusedField = FieldCancel
			} else {
				m.focusedField = FieldSave
			}
		case key.Matches(msg, keys.Confirm):
			if m.focusedField == FieldCancel {
				return m, m.cancel()
			}
			return m, m.submit()
		}
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	tag := m.cfg.Tag
	return func() tea.Msg { return SubmitMsg{Tag: tag} }
}

func (m Model) cancel() tea.Cmd {
	tag := m.cfg.Tag
	return func() tea.Msg { return CancelMsg{Tag: tag} }
}

// View renders the dialog box.
func (m Model) View() string {
	accent := styles.BorderFocusColor
	if m.cfg.Danger {
		accent = styles.StatusErrorColor
	}

	button := func(label string, focused bool, color lipgloss.TerminalColor) string {
		s := lipgloss.NewStyle().Padding(0, 2)
		if focused {
			return s.Bold(true).Foreground(lipgloss.Color("#000000")).Background(color).Render(label)
		}
		return s.Foreground(styles.TextSecondaryColor).Render(label)
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		button(m.cfg.ConfirmLabel, m.focusedField == FieldSave, accent),
		"  ",
		button("Cancel", m.focusedField == FieldCancel, styles.TextMutedColor),
	)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.cfg.Title))
	if m.cfg.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(44).Foreground(styles.TextSecondaryColor).Render(m.cfg.Message))
	}
	b.WriteString("\n\n")
	b.WriteString(buttons)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Render(b.String())
}

// Overlay draws the dialog centered over bg, keeping the background visible
// around it.
func (m Model) Overlay(bg string) string {
	return Place(bg, m.View(), m.width, m.height)
}

// Place composites fg centered over bg. bg lines are cut with ANSI-aware
// truncation so styled backgrounds stay intact.
func Place(bg, fg string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	if width == 0 {
		for _, l := range bgLines {
			width = max(width, ansi.StringWidth(l))
		}
	}
	if height == 0 {
		height = len(bgLines)
	}
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	fgWidth := 0
	for _, l := range fgLines {
		fgWidth = max(fgWidth, ansi.StringWidth(l))
	}
	x := max((width-fgWidth)/2, 0)
	y := max((height-len(fgLines))/2, 0)

	for i, fl := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bl := bgLines[row]
		if w := ansi.StringWidth(bl); w < width {
			bl += strings.Repeat(" ", width-w)
		}
		left := ansi.Truncate(bl, x, "")
		right := ansi.TruncateLeft(bl, x+ansi.StringWidth(fl), "")
		bgLines[row] = left + fl + right
	}
	return strings.Join(bgLines, "\n")
}
