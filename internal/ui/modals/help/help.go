// Package help renders the keyboard reference as a markdown modal.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/soundscape/internal/log"
	"github.com/zjrosen/soundscape/internal/sound"
	"github.com/zjrosen/soundscape/internal/ui/styles"
)

// CloseMsg is sent when the help modal is dismissed.
type CloseMsg struct{}

// Section is a titled group of bindings.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Model shows the rendered help text.
type Model struct {
	sections []Section
	reg      *sound.Registry
	style    string
	width    int
	height   int
	rendered string
}

// New creates a help modal. glamourStyle is a glamour standard style name
// ("dark", "light", "notty").
func New(sections []Section, reg *sound.Registry, glamourStyle string) Model {
	return Model{sections: sections, reg: reg, style: glamourStyle}
}

// SetSize re-renders the markdown for the new width.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.rendered = m.render()
	return m
}

// Markdown builds the help source text.
func (m Model) Markdown() string {
	var b strings.Builder
	b.WriteString("# Soundscape\n\n")
	b.WriteString("Mix looping ambient sounds. Each sound loads the first time it is played.\n\n")

	for _, s := range m.sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		b.WriteString("| Key | Action |\n|-----|--------|\n")
		for _, kb := range s.Bindings {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}

	if m.reg != nil {
		b.WriteString("## Sounds\n\n")
		for _, c := range m.reg.Categories() {
			fmt.Fprintf(&b, "- **%s**:", c.Label())
			for i, d := range m.reg.ListByCategory(c) {
				if i > 0 {
					b.WriteString(",")
				}
				fmt.Fprintf(&b, " %s", d.Name)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) render() string {
	md := m.Markdown()
	wrap := max(min(m.width-8, 72), 20)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to create markdown renderer", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render help", err)
		return md
	}
	return strings.Trim(out, "\n")
}

// Update closes the modal on esc, q or ?.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

// View renders the modal box.
func (m Model) View() string {
	body := m.rendered
	if body == "" {
		body = m.render()
	}
	if m.height > 4 {
		lines := strings.Split(body, "\n")
		if len(lines) > m.height-4 {
			body = strings.Join(lines[:m.height-4], "\n")
		}
	}
	footer := styles.MutedStyle.Render("esc to close")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Render(body + "\n" + footer)
}
