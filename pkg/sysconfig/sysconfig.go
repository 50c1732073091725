// Package sysconfig holds the identifiers shared by the button configuration
// surface and the SysExConf request encoder.
package sysconfig

// Status is the outcome of a configuration read or write
type Status uint8

const (
	StatusAck Status = iota
	StatusErrorRead
	StatusErrorWrite
)

func (s Status) String() string {
	switch s {
	case StatusAck:
		return "ACK"
	case StatusErrorRead:
		return "ERROR_READ"
	case StatusErrorWrite:
		return "ERROR_WRITE"
	default:
		return "UNKNOWN"
	}
}

// Block selects a configuration block in SysExConf requests
type Block uint8

const (
	BlockGlobal Block = iota
	BlockButtons
)

// Section is a per-button configuration section as exposed on the wire
type Section uint8

const (
	SectionType Section = iota
	SectionMessageType
	SectionMIDIID
	SectionValue
	SectionChannel
	SectionSysExLength
	SectionSysExData0
	SectionSysExData1
	SectionSysExData2
	SectionSysExData3
	SectionSysExData4
	SectionSysExData5
	SectionSysExData6
	SectionSysExData7
	SectionSaxRegisterKeyMap
	SectionAmount
)

var sectionNames = [SectionAmount]string{
	"type",
	"message_type",
	"midi_id",
	"value",
	"channel",
	"sysex_length",
	"sysex_data_0",
	"sysex_data_1",
	"sysex_data_2",
	"sysex_data_3",
	"sysex_data_4",
	"sysex_data_5",
	"sysex_data_6",
	"sysex_data_7",
	"sax_key_map",
}

func (s Section) String() string {
	if s >= SectionAmount {
		return "unknown"
	}
	return sectionNames[s]
}

// ParseSection resolves a section by its name
func ParseSection(name string) (Section, bool) {
	for i, n := range sectionNames {
		if n == name {
			return Section(i), true
		}
	}
	return SectionAmount, false
}
