// Package tui provides a virtual button panel for an OpenDeck device
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dolsoidduk/OpenDeck/pkg/device"
)

var (
	accent   = lipgloss.Color("#FF8C00")
	pressed  = lipgloss.Color("#39FF14")
	silver   = lipgloss.Color("#C0C0C0")
	darkGray = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	cellStyle = lipgloss.NewStyle().
			Foreground(silver).
			Width(cellWidth)

	selectedStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Width(cellWidth)

	pressedStyle = lipgloss.NewStyle().
			Foreground(pressed).
			Bold(true).
			Width(cellWidth)

	logStyle = lipgloss.NewStyle().
			Foreground(silver).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)

const (
	cellWidth = 9
	columns   = 8
	logLines  = 10
)

// State represents the current TUI state
type State int

const (
	StatePanel State = iota
	StateFilePicker
	StateLoading
)

// Model represents the TUI model
type Model struct {
	dev        *device.Device
	state      State
	cursor     int
	filePicker filepicker.Model
	spinner    spinner.Model
	loading    string
	status     string
	err        error
}

// presetLoadedMsg signals that a preset file was applied
type presetLoadedMsg struct {
	file string
	err  error
}

// New creates a panel for dev
func New(dev *device.Device) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".yaml", ".yml"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	return Model{
		dev:        dev,
		state:      StatePanel,
		filePicker: fp,
		spinner:    s,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return nil
}

// Cursor returns the selected button index
func (m Model) Cursor() int {
	return m.cursor
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StatePanel
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.loading = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadPresets(path))
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		if m.state == StatePanel {
			return m.updatePanel(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case presetLoadedMsg:
		m.state = StatePanel
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Loaded %s", filepath.Base(msg.file))
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := m.dev.Layout().Total()
	m.err = nil

	switch msg.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < total-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor >= columns {
			m.cursor -= columns
		}
	case "down", "j":
		if m.cursor+columns < total {
			m.cursor += columns
		}
	case " ", "space", "enter":
		m.toggle()
	case "r":
		m.dev.Refresh()
		m.status = "Refreshed"
	case "]":
		m.switchPreset(1)
	case "[":
		m.switchPreset(-1)
	case "o":
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	return m, nil
}

// toggle flips the reading of the selected button
func (m *Model) toggle() {
	status := m.dev.Buttons()
	if m.cursor >= len(status) {
		return
	}

	state := !status[m.cursor].Pressed
	if err := m.dev.SetReading(m.cursor, state); err != nil {
		m.err = err
		return
	}

	verb := "Released"
	if state {
		verb = "Pressed"
	}
	m.status = fmt.Sprintf("%s button %d", verb, m.cursor)
}

func (m *Model) switchPreset(delta int) {
	preset := m.dev.Preset() + delta
	if err := m.dev.SetPreset(preset); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("Preset %d", preset)
}

func (m Model) loadPresets(path string) tea.Cmd {
	dev := m.dev
	return func() tea.Msg {
		return presetLoadedMsg{file: path, err: dev.LoadPresetFile(path)}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" OPENDECK  preset %d  bpm %d ", m.dev.Preset(), m.dev.Tempo())))
	s.WriteString("\n")

	switch m.state {
	case StatePanel:
		s.WriteString(m.viewPanel())
	case StateFilePicker:
		s.WriteString(m.filePicker.View())
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("esc: back to panel"))
	case StateLoading:
		s.WriteString(fmt.Sprintf("%s Loading %s...\n", m.spinner.View(), filepath.Base(m.loading)))
	}

	return s.String()
}

func (m Model) viewPanel() string {
	var grid strings.Builder

	for i, b := range m.dev.Buttons() {
		if i > 0 && i%columns == 0 {
			grid.WriteString("\n")
		}

		label := fmt.Sprintf("%s%d", b.Group[:1], b.Index)
		if b.Latched {
			label += "*"
		}

		style := cellStyle
		switch {
		case i == m.cursor:
			style = selectedStyle
			label = "[" + label + "]"
		case b.Pressed:
			style = pressedStyle
		}
		grid.WriteString(style.Render(label))
	}

	var s strings.Builder
	s.WriteString(boxStyle.Render(grid.String()))
	s.WriteString("\n")
	s.WriteString(m.viewSelected())
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.viewLog()))

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	} else if m.status != "" {
		s.WriteString(statusStyle.Render(m.status))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("arrows: move • space: press/release • r: refresh • [/]: preset • o: load presets • q: quit"))

	return s.String()
}

func (m Model) viewSelected() string {
	status := m.dev.Buttons()
	if m.cursor >= len(status) {
		return ""
	}

	b := status[m.cursor]
	return logStyle.Render(fmt.Sprintf("#%d %s %s  %s  ch %d  id %d  pos %d",
		b.Index, b.Group, b.Type, b.Message, b.Channel, b.ID, b.Position))
}

func (m Model) viewLog() string {
	entries := m.dev.Events("", logLines)
	if len(entries) == 0 {
		return logStyle.Render("no events")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Message
		if name == "" {
			name = e.System
		}

		line := fmt.Sprintf("%s %-12s ch %-2d %3d %3d", e.Time.Format("15:04:05.000"), name, e.Channel+1, e.Index, e.Value)
		if e.SysEx != "" {
			line += "  " + e.SysEx
		}
		if e.Forced {
			line += "  (refresh)"
		}
		lines = append(lines, line)
	}

	return logStyle.Render(strings.Join(lines, "\n"))
}

// Run starts the TUI application
func Run(dev *device.Device) error {
	p := tea.NewProgram(New(dev), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
