// Package noassets provides the empty state view shown when none of the
// sound files can be found.
package noassets

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/soundscape/internal/ui/styles"
)

var waveLines = []string{
	`   .-''-.      .-''-.      .-''-.   `,
	` .'      '.  .'      '.  .'      '. `,
	`'          ''          ''          '`,
}

// Model holds the noassets view state.
type Model struct {
	assetsDir string
	missing   []string
	width     int
	height    int
}

// New creates the view for an assets directory and the files missing from it.
func New(assetsDir string, missing []string) Model {
	return Model{assetsDir: assetsDir, missing: missing}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the empty state.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	art := lipgloss.NewStyle().Foreground(styles.CategoryNatureColor).Render(strings.Join(waveLines, "\n"))
	message := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).MarginTop(2)

	var b strings.Builder
	b.WriteString(art)
	b.WriteString("\n\n")
	b.WriteString(styles.TitleStyle.Render("The beach is quiet. No sounds were found."))
	b.WriteString("\n\n")
	b.WriteString(message.Render("Looked in " + m.assetsDir + " for:"))
	b.WriteString("\n")
	for _, p := range m.missing {
		b.WriteString(styles.MutedStyle.Render("  " + p))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(message.Render("  1. Run soundscape from the directory that contains sounds/"))
	b.WriteString("\n")
	b.WriteString(message.Render("  2. Use the --assets-dir flag: soundscape --assets-dir /path/to/assets"))
	b.WriteString("\n")
	b.WriteString(message.Render("  3. Run 'soundscape init', then set assets_dir in the config file"))
	b.WriteString("\n")
	b.WriteString(hint.Render("Press q to quit"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(b.String())
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}
