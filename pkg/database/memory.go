package database

import (
	"log/slog"
)

type preset [SectionAmount][]uint16

// Memory is a volatile store holding one or more presets
type Memory struct {
	layout  Layout
	presets []preset
	active  int
	logger  *slog.Logger
}

// NewMemory creates a store with the given layout and number of presets,
// filled with factory defaults
func NewMemory(layout Layout, presets int, logger *slog.Logger) *Memory {
	if presets < 1 {
		presets = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Memory{
		layout:  layout,
		presets: make([]preset, presets),
		logger:  logger,
	}

	for p := range m.presets {
		for s := Section(0); s < SectionAmount; s++ {
			m.presets[p][s] = make([]uint16, layout.Size(s))
		}
		m.presets[p].applyDefaults()
	}

	return m
}

func (p *preset) applyDefaults() {
	for i := range p[ButtonMIDIID] {
		p[ButtonMIDIID][i] = uint16(i & 0x7F)
		p[ButtonValue][i] = 127
		p[ButtonChannel][i] = 1
	}
	p[SystemSettings][SaxRegisterTranspose] = 24
	p[MIDISettings][GlobalChannel] = 1
}

// Layout returns the layout the store was created with
func (m *Memory) Layout() Layout {
	return m.layout
}

// Read returns the value at section/index in the active preset
func (m *Memory) Read(section Section, index int) (uint16, bool) {
	if !m.valid(section, index) {
		return 0, false
	}
	return m.presets[m.active][section][index], true
}

// Update writes a value into the active preset.
// Values above MaxValue are rejected.
func (m *Memory) Update(section Section, index int, value uint16) bool {
	if !m.valid(section, index) || value > MaxValue {
		m.logger.Debug("database: rejected update", "section", section.String(), "index", index, "value", value)
		return false
	}
	m.presets[m.active][section][index] = value
	return true
}

// Reset restores factory defaults in the active preset
func (m *Memory) Reset() {
	p := &m.presets[m.active]
	for s := range p {
		clear(p[s])
	}
	p.applyDefaults()
}

// Preset returns the active preset index
func (m *Memory) Preset() int {
	return m.active
}

// Presets returns the number of presets
func (m *Memory) Presets() int {
	return len(m.presets)
}

// SetPreset switches the active preset
func (m *Memory) SetPreset(index int) bool {
	if index < 0 || index >= len(m.presets) {
		return false
	}
	if index != m.active {
		m.logger.Info("database: preset changed", "from", m.active, "to", index)
	}
	m.active = index
	return true
}

func (m *Memory) valid(section Section, index int) bool {
	return section < SectionAmount && index >= 0 && index < len(m.presets[m.active][section])
}
