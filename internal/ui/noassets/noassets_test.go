package noassets

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

var missing = []string{"/sounds/cicadas.mp3", "/sounds/wave.mp3"}

func TestNoAssets_New(t *testing.T) {
	m := New("/srv/ambient", missing)

	assert.Equal(t, 0, m.width)
	assert.Equal(t, 0, m.height)
	assert.Nil(t, m.Init())
}

func TestNoAssets_SetSize(t *testing.T) {
	m := New(".", missing).SetSize(120, 40)
	m2 := m.SetSize(80, 24)

	assert.Equal(t, 120, m.width, "SetSize returns a copy")
	assert.Equal(t, 80, m2.width)
	assert.Equal(t, 24, m2.height)
}

func TestNoAssets_WindowSizeMsg(t *testing.T) {
	next, cmd := New(".", missing).Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	updated := next.(Model)
	assert.Equal(t, 80, updated.width)
	assert.Equal(t, 24, updated.height)
	assert.Nil(t, cmd)
}

func TestNoAssets_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := New(".", missing).SetSize(80, 24).Update(tt.key)

			if assert.NotNil(t, cmd) {
				_, isQuit := cmd().(tea.QuitMsg)
				assert.True(t, isQuit)
			}
		})
	}
}

func TestNoAssets_OtherKeysIgnored(t *testing.T) {
	_, cmd := New(".", missing).SetSize(80, 24).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)
}

func TestNoAssets_EmptyDimensions(t *testing.T) {
	for _, size := range [][2]int{{0, 24}, {80, 0}, {0, 0}} {
		assert.Equal(t, "", New(".", missing).SetSize(size[0], size[1]).View())
	}
}

func TestNoAssets_View(t *testing.T) {
	view := ansi.Strip(New("/srv/ambient", missing).SetSize(100, 30).View())

	assert.Contains(t, view, "No sounds were found")
	assert.Contains(t, view, "Looked in /srv/ambient")
	assert.Contains(t, view, "/sounds/wave.mp3")
	assert.Contains(t, view, "--assets-dir")
	assert.Contains(t, view, "Press q to quit")
	assert.Contains(t, view, ".-''-.")
}
