package app

import (
	"github.com/charmbracelet/bubbles/key"

	helpmodal "github.com/zjrosen/soundscape/internal/ui/modals/help"
)

type keyMap struct {
	Up, Down         key.Binding
	Toggle           key.Binding
	VolumeDown       key.Binding
	VolumeUp         key.Binding
	MasterDown       key.Binding
	MasterUp         key.Binding
	PlayAll, StopAll key.Binding
	Reset            key.Binding
	Help, Dismiss    key.Binding
	Quit             key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous sound")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next sound")),
	Toggle:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "play / pause")),
	VolumeDown: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "volume -5")),
	VolumeUp:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "volume +5")),
	MasterDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "master -5")),
	MasterUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "master +5")),
	PlayAll:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play all loaded")),
	StopAll:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop all")),
	Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset mix")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.VolumeDown, k.VolumeUp, k.MasterUp, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.VolumeDown, k.VolumeUp, k.MasterDown, k.MasterUp},
		{k.PlayAll, k.StopAll, k.Reset},
		{k.Help, k.Dismiss, k.Quit},
	}
}

func (k keyMap) sections() []helpmodal.Section {
	return []helpmodal.Section{
		{Title: "Navigation", Bindings: []key.Binding{k.Up, k.Down}},
		{Title: "Playback", Bindings: []key.Binding{k.Toggle, k.PlayAll, k.StopAll, k.Reset}},
		{Title: "Volume", Bindings: []key.Binding{k.VolumeDown, k.VolumeUp, k.MasterDown, k.MasterUp}},
		{Title: "General", Bindings: []key.Binding{k.Help, k.Dismiss, k.Quit}},
	}
}
