package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/soundscape/internal/sound"
)

func testSections() []Section {
	return []Section{{
		Title: "Playback",
		Bindings: []key.Binding{
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play / pause")),
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset mix")),
		},
	}}
}

func TestMarkdown_ListsBindingsAndSounds(t *testing.T) {
	m := New(testSections(), sound.Default(), "notty")

	md := m.Markdown()

	assert.Contains(t, md, "## Playback")
	assert.Contains(t, md, "| `space` | play / pause |")
	assert.Contains(t, md, "| `r` | reset mix |")
	assert.Contains(t, md, "**Nature**:")
	assert.Contains(t, md, "蝉")
}

func TestView_RendersMarkdown(t *testing.T) {
	m := New(testSections(), nil, "notty").SetSize(100, 40)

	view := ansi.Strip(m.View())

	assert.Contains(t, view, "Playback")
	assert.Contains(t, view, "play / pause")
	assert.Contains(t, view, "esc to close")
}

func TestView_ClipsToHeight(t *testing.T) {
	m := New(testSections(), sound.Default(), "notty").SetSize(100, 10)

	lines := len(strings.Split(m.View(), "\n"))

	assert.LessOrEqual(t, lines, 10)
}

func TestUpdate_CloseKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEscape},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyRunes, Runes: []rune{'?'}},
	} {
		t.Run(k.String(), func(t *testing.T) {
			m := New(testSections(), nil, "notty")
			_, cmd := m.Update(k)
			require.NotNil(t, cmd)
			assert.IsType(t, CloseMsg{}, cmd())
		})
	}
}

func TestUpdate_OtherKeysIgnored(t *testing.T) {
	m := New(testSections(), nil, "notty")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)
}
