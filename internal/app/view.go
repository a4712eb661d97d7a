package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/soundscape/internal/sound"
	"github.com/zjrosen/soundscape/internal/soundscape"
	"github.com/zjrosen/soundscape/internal/ui/shared/modal"
	"github.com/zjrosen/soundscape/internal/ui/styles"
)

const (
	masterZone = "master"
	nameWidth  = 12
)

func rowZone(id sound.ID) string {
	return "sound-" + id.String()
}

// View renders the mixer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	reg := m.ctrl.Registry()
	row := 0
	for _, c := range reg.Categories() {
		descs := reg.ListByCategory(c)
		lines := make([]string, 0, len(descs))
		playing := 0
		focused := false
		for _, d := range descs {
			st := m.state.Sounds[d.ID]
			if st.IsPlaying {
				playing++
			}
			selected := row == m.cursor
			focused = focused || selected
			lines = append(lines, m.zones.Mark(rowZone(d.ID), m.renderRow(st, selected)))
			row++
		}
		right := fmt.Sprintf("%d/%d playing", playing, len(descs))
		b.WriteString(styles.RenderPanel(strings.Join(lines, "\n"), c.Label(), right,
			m.width, len(lines)+2, focused, styles.CategoryColor(c)))
		b.WriteString("\n")
	}

	if m.toast != "" {
		b.WriteString(styles.ToastStyle.Render(styles.TruncateString(m.toast, max(m.width-4, 1))))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))

	view := b.String()
	switch {
	case m.confirm != nil:
		view = m.confirm.Overlay(view)
	case m.showHelp:
		view = modal.Place(view, m.helpModal.View(), m.width, m.height)
	}
	return m.zones.Scan(view)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("Soundscape")

	status := styles.MutedStyle.Render("○ paused")
	switch {
	case !m.state.IsInitialized:
		status = styles.LoadingStyle.Render("◌ getting ready")
	case m.state.IsPlaying:
		status = styles.PlayingStyle.Render("● playing")
	}

	master := m.zones.Mark(masterZone, fmt.Sprintf("Master %s %3d%%",
		m.bar.ViewAs(m.state.MasterVolume.Ratio()), m.state.MasterVolume.Int()))

	left := title + "  " + status
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(master), 2)
	return left + strings.Repeat(" ", gap) + master
}

func (m Model) renderRow(st soundscape.SoundState, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	var icon string
	switch {
	case !st.IsInitialized:
		icon = styles.MutedStyle.Render("·")
	case st.IsLoading:
		icon = styles.LoadingStyle.Render("◌")
	case st.IsPlaying:
		icon = styles.PlayingStyle.Render("▶")
	default:
		icon = styles.MutedStyle.Render("■")
	}

	name := runewidth.FillRight(runewidth.Truncate(st.Name, nameWidth, "…"), nameWidth)
	if selected {
		name = styles.SelectedStyle.Render(name)
	}

	line := fmt.Sprintf("%s%s %s %s %3d%%", cursor, icon, name, m.bar.ViewAs(st.Volume.Ratio()), st.Volume.Int())
	if st.IsLoading {
		line += styles.LoadingStyle.Render("  loading…")
	}
	return line
}
