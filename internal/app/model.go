// Package app implements the soundscape terminal UI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/soundscape/internal/audio"
	"github.com/zjrosen/soundscape/internal/log"
	"github.com/zjrosen/soundscape/internal/pubsub"
	"github.com/zjrosen/soundscape/internal/sound"
	"github.com/zjrosen/soundscape/internal/soundscape"
	helpmodal "github.com/zjrosen/soundscape/internal/ui/modals/help"
	"github.com/zjrosen/soundscape/internal/ui/shared/modal"
	"github.com/zjrosen/soundscape/internal/ui/styles"
)

const (
	volumeStep      = 5
	defaultToastTTL = 4 * time.Second
	resetTag        = "reset"
)

// stateChangedMsg signals that the store published a change.
type stateChangedMsg struct{}

// opDoneMsg carries the result of a controller call run off the UI loop.
type opDoneMsg struct {
	op  string
	id  sound.ID
	err error
}

type toastExpiredMsg struct {
	seq int
}

// Options tunes the UI.
type Options struct {
	// GlamourStyle is the markdown style for the help modal.
	GlamourStyle string
	ToastTTL     time.Duration
	// Zones tracks clickable regions. A fresh manager is created when nil.
	Zones *zone.Manager
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	ctrl   *soundscape.Controller
	events <-chan pubsub.Event[soundscape.Change]
	state  soundscape.State

	rows   []sound.ID
	cursor int
	width  int
	height int

	bar  progress.Model
	help help.Model

	helpModal helpmodal.Model
	showHelp  bool
	confirm   *modal.Model

	toast    string
	toastSeq int
	toastTTL time.Duration

	zones *zone.Manager
}

// New creates the UI over ctrl. The store subscription lives until ctx is
// cancelled.
func New(ctx context.Context, ctrl *soundscape.Controller, opts Options) Model {
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = "dark"
	}
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = defaultToastTTL
	}
	if opts.Zones == nil {
		opts.Zones = zone.New()
	}

	reg := ctrl.Registry()
	var rows []sound.ID
	for _, c := range reg.Categories() {
		for _, d := range reg.ListByCategory(c) {
			rows = append(rows, d.ID)
		}
	}

	bar := progress.New(
		progress.WithSolidFill(styles.VolumeFullColor),
		progress.WithoutPercentage(),
		progress.WithWidth(24),
	)
	bar.EmptyColor = styles.VolumeEmptyColor

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		events:    ctrl.Store().Subscribe(ctx),
		state:     ctrl.Store().Snapshot(),
		rows:      rows,
		bar:       bar,
		help:      help.New(),
		helpModal: helpmodal.New(keys.sections(), reg, opts.GlamourStyle),
		toastTTL:  opts.ToastTTL,
		zones:     opts.Zones,
	}
}

// Init prepares the soundscape and starts listening for store changes.
func (m Model) Init() tea.Cmd {
	ctrl := m.ctrl
	return tea.Batch(
		listen(m.events),
		func() tea.Msg {
			ctrl.Prepare()
			return stateChangedMsg{}
		},
	)
}

func listen(ch <-chan pubsub.Event[soundscape.Change]) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// Selected returns the id under the cursor.
func (m Model) Selected() sound.ID {
	return m.rows[m.cursor]
}

// Toast returns the visible error message, if any.
func (m Model) Toast() string {
	return m.toast
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.bar.Width = max(min(msg.Width-44, 40), 10)
		m.helpModal = m.helpModal.SetSize(msg.Width, msg.Height)
		if m.confirm != nil {
			m.confirm.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case stateChangedMsg:
		m.state = m.ctrl.Store().Snapshot()
		return m, listen(m.events)

	case opDoneMsg:
		m.state = m.ctrl.Store().Snapshot()
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "Operation failed", msg.err, "op", msg.op, "sound", msg.id)
			return m.showToast(describeError(m.state, msg.err))
		}
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case helpmodal.CloseMsg:
		m.showHelp = false
		return m, nil

	case modal.SubmitMsg:
		m.confirm = nil
		if msg.Tag == resetTag {
			return m, m.run("reset", "", func() error { return m.ctrl.Reset() })
		}
		return m, nil

	case modal.CancelMsg:
		m.confirm = nil
		return m, nil

	case tea.MouseMsg:
		if m.confirm != nil || m.showHelp {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.confirm != nil {
			var cmd tea.Cmd
			*m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			var cmd tea.Cmd
			m.helpModal, cmd = m.helpModal.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.cursor = (m.cursor - 1 + len(m.rows)) % len(m.rows)
	case key.Matches(msg, keys.Down):
		m.cursor = (m.cursor + 1) % len(m.rows)
	case key.Matches(msg, keys.Toggle):
		return m, m.toggle(m.Selected())
	case key.Matches(msg, keys.VolumeDown):
		return m.nudgeVolume(m.Selected(), -volumeStep)
	case key.Matches(msg, keys.VolumeUp):
		return m.nudgeVolume(m.Selected(), volumeStep)
	case key.Matches(msg, keys.MasterDown):
		return m.nudgeMaster(-volumeStep)
	case key.Matches(msg, keys.MasterUp):
		return m.nudgeMaster(volumeStep)
	case key.Matches(msg, keys.PlayAll):
		ctx := m.ctx
		return m, m.run("playAll", "", func() error { return m.ctrl.PlayAll(ctx) })
	case key.Matches(msg, keys.StopAll):
		return m, m.run("stopAll", "", m.ctrl.StopAll)
	case key.Matches(msg, keys.Reset):
		c := modal.New(modal.Config{
			Tag:          resetTag,
			Title:        "Reset mix",
			Message:      "Stop every sound and restore default volumes? The master volume is kept.",
			ConfirmLabel: "Reset",
			Danger:       true,
		})
		c.SetSize(m.width, m.height)
		m.confirm = &c
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Dismiss):
		m.toast = ""
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	for i, id := range m.rows {
		if !m.zones.Get(rowZone(id)).InBounds(msg) {
			continue
		}
		switch {
		case msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft:
			m.cursor = i
			return m, m.toggle(id)
		case msg.Button == tea.MouseButtonWheelUp:
			m.cursor = i
			return m.nudgeVolume(id, volumeStep)
		case msg.Button == tea.MouseButtonWheelDown:
			m.cursor = i
			return m.nudgeVolume(id, -volumeStep)
		}
		return m, nil
	}
	if m.zones.Get(masterZone).InBounds(msg) {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.nudgeMaster(volumeStep)
		case tea.MouseButtonWheelDown:
			return m.nudgeMaster(-volumeStep)
		}
	}
	return m, nil
}

// toggle is a no-op while the sound is not ready or still loading.
func (m Model) toggle(id sound.ID) tea.Cmd {
	st, ok := m.state.Sound(id)
	if !ok || !st.IsInitialized || st.IsLoading {
		return nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return m.run("toggle", id, func() error { return ctrl.Toggle(ctx, id) })
}

func (m Model) nudgeVolume(id sound.ID, delta int) (tea.Model, tea.Cmd) {
	st, ok := m.state.Sound(id)
	if !ok || !st.IsInitialized {
		return m, nil
	}
	if err := m.ctrl.SetVolume(id, st.Volume.Add(delta)); err != nil {
		return m.showToast(describeError(m.state, err))
	}
	m.state = m.ctrl.Store().Snapshot()
	return m, nil
}

func (m Model) nudgeMaster(delta int) (tea.Model, tea.Cmd) {
	m.ctrl.SetMasterVolume(m.state.MasterVolume.Add(delta))
	m.state = m.ctrl.Store().Snapshot()
	return m, nil
}

func (m Model) run(op string, id sound.ID, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, id: id, err: fn()}
	}
}

func (m Model) showToast(text string) (tea.Model, tea.Cmd) {
	m.toastSeq++
	m.toast = text
	seq := m.toastSeq
	return m, tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// describeError turns controller errors into a one-line message.
func describeError(st soundscape.State, err error) string {
	name := func(id sound.ID) string {
		if s, ok := st.Sound(id); ok {
			return s.Name
		}
		return id.String()
	}

	var (
		loadErr *audio.LoadError
		initErr *audio.InitError
		pbErr   *audio.PlaybackError
	)
	switch {
	case errors.As(err, &loadErr):
		return fmt.Sprintf("Could not load %s: %v", name(loadErr.ID), loadErr.Err)
	case errors.As(err, &initErr):
		return fmt.Sprintf("Audio unavailable (%s): %v", initErr.Stage, initErr.Err)
	case errors.As(err, &pbErr):
		return fmt.Sprintf("Could not %s %s: %v", pbErr.Op, name(pbErr.ID), pbErr.Err)
	case errors.Is(err, soundscape.ErrNotInitialized):
		return "Sounds are still getting ready"
	default:
		return err.Error()
	}
}
