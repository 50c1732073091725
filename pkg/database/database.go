// Package database implements the in-memory settings store read by the
// button engine. Values are 14-bit words addressed by section and index,
// grouped into switchable presets.
package database

// Section identifies a block of values in the store
type Section uint8

const (
	ButtonType Section = iota
	ButtonMessageType
	ButtonMIDIID
	ButtonValue
	ButtonChannel
	ButtonSysExLength
	ButtonSysExData0
	ButtonSysExData1
	ButtonSysExData2
	ButtonSysExData3
	ButtonSysExData4
	ButtonSysExData5
	ButtonSysExData6
	ButtonSysExData7
	ButtonSaxRegisterKeyMap
	EncoderEnable
	SystemSettings
	MIDISettings
	SaxFingeringMaskLo14
	SaxFingeringMaskHi10Enable
	SaxFingeringNote
	SectionAmount
)

// SysExDataWords is the number of packed SysEx words stored per button
const SysExDataWords = 8

// SystemSetting indexes the SystemSettings section
const (
	SaxRegisterChromaticEnable = iota
	SaxRegisterBaseNote
	SaxRegisterTranspose
	SaxRegisterInputInvert
	SystemSettingAmount
)

// MIDISetting indexes the MIDISettings section
const (
	GlobalChannel = iota
	MIDISettingAmount
)

// MaxValue is the largest value a single store word can hold
const MaxValue = 0x3FFF

// Layout describes how many entries each group of sections has
type Layout struct {
	Buttons             int
	Encoders            int
	SaxFingeringEntries int
}

// Size returns the number of indexes in a section
func (l Layout) Size(section Section) int {
	switch {
	case section <= ButtonSaxRegisterKeyMap:
		return l.Buttons
	case section == EncoderEnable:
		return l.Encoders
	case section == SystemSettings:
		return SystemSettingAmount
	case section == MIDISettings:
		return MIDISettingAmount
	case section < SectionAmount:
		return l.SaxFingeringEntries
	default:
		return 0
	}
}

var sectionNames = [SectionAmount]string{
	"button_type",
	"button_message_type",
	"button_midi_id",
	"button_value",
	"button_channel",
	"button_sysex_length",
	"button_sysex_data_0",
	"button_sysex_data_1",
	"button_sysex_data_2",
	"button_sysex_data_3",
	"button_sysex_data_4",
	"button_sysex_data_5",
	"button_sysex_data_6",
	"button_sysex_data_7",
	"button_sax_key_map",
	"encoder_enable",
	"system_settings",
	"midi_settings",
	"sax_fingering_mask_lo14",
	"sax_fingering_mask_hi10_enable",
	"sax_fingering_note",
}

func (s Section) String() string {
	if s >= SectionAmount {
		return "unknown"
	}
	return sectionNames[s]
}
