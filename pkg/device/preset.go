package device

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dolsoidduk/OpenDeck/pkg/buttons"
	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

// PresetFile is the YAML document describing store contents
type PresetFile struct {
	Presets []Preset `yaml:"presets"`
}

// Preset holds the settings of one preset. Omitted fields keep their
// factory defaults.
type Preset struct {
	Name          string         `yaml:"name,omitempty"`
	GlobalChannel int            `yaml:"global_channel,omitempty"`
	Encoders      []int          `yaml:"encoders,omitempty"`
	Buttons       []ButtonConfig `yaml:"buttons,omitempty"`
	Sax           *SaxConfig     `yaml:"sax,omitempty"`
}

// ButtonConfig is the configuration of one button
type ButtonConfig struct {
	Index   int    `yaml:"index"`
	Type    string `yaml:"type,omitempty"`
	Message string `yaml:"message,omitempty"`
	Channel int    `yaml:"channel,omitempty"`
	ID      *int   `yaml:"id,omitempty"`
	Value   *int   `yaml:"value,omitempty"`
	SysEx   []int  `yaml:"sysex,omitempty"`
	KeyMap  int    `yaml:"key_map,omitempty"`
}

// SaxConfig configures the sax register
type SaxConfig struct {
	Enable       bool        `yaml:"enable"`
	BaseNote     int         `yaml:"base_note"`
	Transpose    int         `yaml:"transpose"` // semitones, -24..24
	InvertInputs bool        `yaml:"invert_inputs"`
	Fingerings   []Fingering `yaml:"fingerings"`
}

// Fingering is a sax table row: the digital inputs that must be held and
// the note they produce
type Fingering struct {
	Keys []int `yaml:"keys"`
	Note int   `yaml:"note"`
}

var (
	ErrPresetFile = errors.New("invalid preset file")
	// ErrPresetSection is returned for sections a preset file cannot hold
	// as a single value
	ErrPresetSection = errors.New("section not editable in preset files")
)

// ReadPresetFile parses a preset file without applying it. A missing file
// yields an empty document.
func ReadPresetFile(filename string) (*PresetFile, error) {
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return &PresetFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}
	return &file, nil
}

// WriteFile stores the document as YAML. Comments of the original file are
// not kept.
func (f *PresetFile) WriteFile(filename string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode preset file: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}
	return nil
}

// SetButton records one button configuration value in a preset, adding
// the preset and button entries as needed. SysEx sections are edited
// through the sysex list of the button instead.
func (f *PresetFile) SetButton(preset, index int, section sysconfig.Section, value int) error {
	if preset < 0 || index < 0 {
		return fmt.Errorf("%w: preset %d button %d", ErrPresetFile, preset, index)
	}

	for len(f.Presets) <= preset {
		f.Presets = append(f.Presets, Preset{})
	}
	p := &f.Presets[preset]

	var b *ButtonConfig
	for i := range p.Buttons {
		if p.Buttons[i].Index == index {
			b = &p.Buttons[i]
			break
		}
	}

	next := ButtonConfig{Index: index}
	if b != nil {
		next = *b
	}

	switch section {
	case sysconfig.SectionType:
		if value < 0 || value >= int(buttons.TypeAmount) {
			return fmt.Errorf("%w: type %d", ErrPresetFile, value)
		}
		next.Type = buttons.Type(value).String()
	case sysconfig.SectionMessageType:
		if value < 0 || value >= int(buttons.MessageTypeAmount) {
			return fmt.Errorf("%w: message type %d", ErrPresetFile, value)
		}
		next.Message = buttons.MessageType(value).String()
	case sysconfig.SectionMIDIID:
		next.ID = &value
	case sysconfig.SectionValue:
		next.Value = &value
	case sysconfig.SectionChannel:
		if value < 1 || value > 16 {
			return fmt.Errorf("%w: channel %d", ErrPresetFile, value)
		}
		next.Channel = value
	case sysconfig.SectionSaxRegisterKeyMap:
		next.KeyMap = value
	default:
		return fmt.Errorf("%w: %s", ErrPresetSection, section)
	}

	if b != nil {
		*b = next
	} else {
		p.Buttons = append(p.Buttons, next)
	}
	return nil
}

// LoadPresetFile reads presets from a YAML file
func (d *Device) LoadPresetFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open preset file: %w", err)
	}
	defer f.Close()

	return d.LoadPresets(f)
}

// LoadPresets replaces the store contents with the presets from a YAML
// document and clears all runtime state. Preset 0 is active afterwards.
func (d *Device) LoadPresets(r io.Reader) error {
	var file PresetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse preset file: %w", err)
	}

	if len(file.Presets) > d.db.Presets() {
		return fmt.Errorf("%w: %d presets, device has %d", ErrPresetFile, len(file.Presets), d.db.Presets())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for p, preset := range file.Presets {
		d.db.SetPreset(p)
		d.db.Reset()

		if err := d.applyPreset(preset); err != nil {
			d.db.SetPreset(0)
			return fmt.Errorf("preset %d: %w", p, err)
		}

		d.logger.Info("device: preset loaded", "preset", p, "name", preset.Name, "buttons", len(preset.Buttons))
	}

	d.db.SetPreset(0)
	d.buttons.Init()
	return nil
}

// presetWriter writes store values, keeping the first failure
type presetWriter struct {
	db  *database.Memory
	err error
}

func (w *presetWriter) set(section database.Section, index int, value int) {
	if w.err != nil {
		return
	}
	if value < 0 || value > database.MaxValue || !w.db.Update(section, index, uint16(value)) {
		w.err = fmt.Errorf("%w: %s[%d] = %d", ErrPresetFile, section, index, value)
	}
}

func (d *Device) applyPreset(preset Preset) error {
	w := &presetWriter{db: d.db}

	if preset.GlobalChannel != 0 {
		w.set(database.MIDISettings, database.GlobalChannel, preset.GlobalChannel)
	}

	for _, encoder := range preset.Encoders {
		w.set(database.EncoderEnable, encoder, 1)
	}

	for _, b := range preset.Buttons {
		if err := applyButton(w, b); err != nil {
			return err
		}
	}

	if preset.Sax != nil {
		applySax(w, *preset.Sax)
	}

	return w.err
}

func applyButton(w *presetWriter, b ButtonConfig) error {
	if b.Type != "" {
		t, ok := buttons.ParseType(b.Type)
		if !ok {
			return fmt.Errorf("%w: button %d: unknown type %q", ErrPresetFile, b.Index, b.Type)
		}
		w.set(database.ButtonType, b.Index, int(t))
	}

	if b.Message != "" {
		m, ok := buttons.ParseMessageType(b.Message)
		if !ok {
			return fmt.Errorf("%w: button %d: unknown message %q", ErrPresetFile, b.Index, b.Message)
		}
		w.set(database.ButtonMessageType, b.Index, int(m))

		// MIDI_ID is the substitution position of a custom SysEx frame
		if m == buttons.MessageCustomSysEx && b.ID == nil {
			w.set(database.ButtonMIDIID, b.Index, 0)
		}
	}

	if b.Channel != 0 {
		w.set(database.ButtonChannel, b.Index, b.Channel)
	}
	if b.ID != nil {
		w.set(database.ButtonMIDIID, b.Index, *b.ID)
	}
	if b.Value != nil {
		w.set(database.ButtonValue, b.Index, *b.Value)
	}
	if b.KeyMap != 0 {
		w.set(database.ButtonSaxRegisterKeyMap, b.Index, b.KeyMap)
	}

	if len(b.SysEx) > 0 {
		payload := make([]byte, len(b.SysEx))
		for i, v := range b.SysEx {
			if v < 0 || v > 0x7F {
				return fmt.Errorf("%w: button %d: sysex byte %d out of range", ErrPresetFile, b.Index, v)
			}
			payload[i] = byte(v)
		}

		words, err := buttons.PackSysEx(payload)
		if err != nil {
			return fmt.Errorf("button %d: %w", b.Index, err)
		}

		w.set(database.ButtonSysExLength, b.Index, len(payload))
		for i, word := range words {
			w.set(database.ButtonSysExData0+database.Section(i), b.Index, int(word))
		}
	}

	return w.err
}

func applySax(w *presetWriter, sax SaxConfig) {
	if sax.Enable {
		w.set(database.SystemSettings, database.SaxRegisterChromaticEnable, 1)
	}
	if sax.InvertInputs {
		w.set(database.SystemSettings, database.SaxRegisterInputInvert, 1)
	}
	w.set(database.SystemSettings, database.SaxRegisterBaseNote, sax.BaseNote)
	w.set(database.SystemSettings, database.SaxRegisterTranspose, sax.Transpose+24)

	for entry, f := range sax.Fingerings {
		var mask uint32
		for _, key := range f.Keys {
			if key < 0 || key >= buttons.SaxFingeringKeys {
				w.err = fmt.Errorf("%w: fingering %d: key %d out of range", ErrPresetFile, entry, key)
				return
			}
			mask |= 1 << key
		}

		w.set(database.SaxFingeringMaskLo14, entry, int(mask&0x3FFF))
		w.set(database.SaxFingeringMaskHi10Enable, entry, int(mask>>14)|buttons.SaxEntryEnable)
		w.set(database.SaxFingeringNote, entry, f.Note)
	}
}
