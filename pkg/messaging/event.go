// Package messaging provides the event types and the dispatcher that connects
// input sources, the button engine and outbound sinks.
package messaging

// EventType identifies the category of an event on the dispatcher
type EventType uint8

const (
	EventButton            EventType = iota // Outbound protocol event produced by a button
	EventAnalogButton                       // Analog input acting as a button (state in Value)
	EventTouchscreenButton                  // Touchscreen component acting as a button (state in Value)
	EventSystem                             // System-wide request or notification
	eventTypeAmount
)

var eventTypeNames = [eventTypeAmount]string{
	"button",
	"analog_button",
	"touchscreen_button",
	"system",
}

func (t EventType) String() string {
	if t >= eventTypeAmount {
		return "unknown"
	}
	return eventTypeNames[t]
}

// MessageType is the protocol-level message carried by an outbound event
type MessageType uint8

const (
	MessageInvalid MessageType = iota
	MessageNoteOff
	MessageNoteOn
	MessageControlChange
	MessageProgramChange
	MessageSysEx
	MessageMMCPlay
	MessageMMCStop
	MessageMMCPause
	MessageMMCRecordStart
	MessageMMCRecordStop
	MessageClock
	MessageStart
	MessageContinue
	MessageStop
	MessageActiveSensing
	MessageSystemReset
	MessageBPM // Tempo change notification, not a MIDI wire message
	messageTypeAmount
)

var messageTypeNames = [messageTypeAmount]string{
	"invalid",
	"note_off",
	"note_on",
	"control_change",
	"program_change",
	"sysex",
	"mmc_play",
	"mmc_stop",
	"mmc_pause",
	"mmc_record_start",
	"mmc_record_stop",
	"clock",
	"start",
	"continue",
	"stop",
	"active_sensing",
	"system_reset",
	"bpm",
}

func (m MessageType) String() string {
	if m >= messageTypeAmount {
		return "unknown"
	}
	return messageTypeNames[m]
}

// SystemMessage is the request code carried by EventSystem events
type SystemMessage uint8

const (
	SystemNone SystemMessage = iota
	SystemForceIORefresh
	SystemPresetChangeDirectReq
	SystemPresetChanged
)

func (s SystemMessage) String() string {
	switch s {
	case SystemForceIORefresh:
		return "force_io_refresh"
	case SystemPresetChangeDirectReq:
		return "preset_change_direct_req"
	case SystemPresetChanged:
		return "preset_changed"
	default:
		return "none"
	}
}

// Event is the single event shape exchanged over the dispatcher.
// Channel is 0-based. Index holds the note/CC/program number (or a preset,
// BPM or SysEx substitution position depending on the message).
type Event struct {
	ComponentIndex int
	Channel        uint8
	Index          uint16
	Value          uint16
	Message        MessageType
	SystemMessage  SystemMessage
	SysEx          []byte // Full framed buffer including F0 and F7
	ForcedRefresh  bool
}
