// Package buttons converts button transitions into outbound protocol events
// according to per-button configuration held in the settings store.
package buttons

import (
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// Type is the button behaviour selected in the TYPE section
type Type uint8

const (
	TypeMomentary Type = iota // Event on press and release
	TypeLatching              // Press toggles the reported state
	TypeAmount
)

func (t Type) String() string {
	switch t {
	case TypeMomentary:
		return "momentary"
	case TypeLatching:
		return "latching"
	default:
		return "unknown"
	}
}

// ParseType resolves a button type by name
func ParseType(name string) (Type, bool) {
	for t := TypeMomentary; t < TypeAmount; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return TypeAmount, false
}

// MessageType is the kind of message a button sends, selected in the
// MESSAGE_TYPE section. The numeric values are part of the configuration
// wire format.
type MessageType uint8

const (
	MessageNote MessageType = iota
	MessageProgramChange
	MessageControlChange
	MessageControlChangeReset
	MessageMMCStop
	MessageMMCPlay
	MessageMMCRecord
	MessageMMCPause
	MessageRealTimeClock
	MessageRealTimeStart
	MessageRealTimeContinue
	MessageRealTimeStop
	MessageRealTimeActiveSensing
	MessageRealTimeSystemReset
	MessageProgramChangeInc
	MessageProgramChangeDec
	MessageNone
	MessagePresetChange
	MessageMultiValIncResetNote
	MessageMultiValIncDecNote
	MessageMultiValIncResetCC
	MessageMultiValIncDecCC
	MessageNoteOffOnly
	MessageControlChange0Only
	MessageBankSelectProgramChange
	MessageProgramChangeOffsetInc
	MessageProgramChangeOffsetDec
	MessageBPMInc
	MessageBPMDec
	MessageMMCPlayStop
	MessageNoteLegato
	MessageCustomSysEx
	MessageTypeAmount
)

var messageTypeNames = [...]string{
	MessageNote:                    "note",
	MessageProgramChange:           "program_change",
	MessageControlChange:           "control_change",
	MessageControlChangeReset:      "control_change_reset",
	MessageMMCStop:                 "mmc_stop",
	MessageMMCPlay:                 "mmc_play",
	MessageMMCRecord:               "mmc_record",
	MessageMMCPause:                "mmc_pause",
	MessageRealTimeClock:           "real_time_clock",
	MessageRealTimeStart:           "real_time_start",
	MessageRealTimeContinue:        "real_time_continue",
	MessageRealTimeStop:            "real_time_stop",
	MessageRealTimeActiveSensing:   "real_time_active_sensing",
	MessageRealTimeSystemReset:     "real_time_system_reset",
	MessageProgramChangeInc:        "program_change_inc",
	MessageProgramChangeDec:        "program_change_dec",
	MessageNone:                    "none",
	MessagePresetChange:            "preset_change",
	MessageMultiValIncResetNote:    "multi_val_inc_reset_note",
	MessageMultiValIncDecNote:      "multi_val_inc_dec_note",
	MessageMultiValIncResetCC:      "multi_val_inc_reset_cc",
	MessageMultiValIncDecCC:        "multi_val_inc_dec_cc",
	MessageNoteOffOnly:             "note_off_only",
	MessageControlChange0Only:      "control_change0_only",
	MessageBankSelectProgramChange: "bank_select_program_change",
	MessageProgramChangeOffsetInc:  "program_change_offset_inc",
	MessageProgramChangeOffsetDec:  "program_change_offset_dec",
	MessageBPMInc:                  "bpm_inc",
	MessageBPMDec:                  "bpm_dec",
	MessageMMCPlayStop:             "mmc_play_stop",
	MessageNoteLegato:              "note_legato",
	MessageCustomSysEx:             "custom_sysex",
}

func (m MessageType) String() string {
	if int(m) >= len(messageTypeNames) {
		return "unknown"
	}
	return messageTypeNames[m]
}

// ParseMessageType resolves a message type by name
func ParseMessageType(name string) (MessageType, bool) {
	for i, n := range messageTypeNames {
		if n == name {
			return MessageType(i), true
		}
	}
	return MessageTypeAmount, false
}

// defaultMessage is the outbound message each kind starts from before the
// press/release handlers adjust it
var defaultMessage = [...]messaging.MessageType{
	MessageNote:                    messaging.MessageNoteOn,
	MessageProgramChange:           messaging.MessageProgramChange,
	MessageControlChange:           messaging.MessageControlChange,
	MessageControlChangeReset:      messaging.MessageControlChange,
	MessageMMCStop:                 messaging.MessageMMCStop,
	MessageMMCPlay:                 messaging.MessageMMCPlay,
	MessageMMCRecord:               messaging.MessageMMCRecordStart,
	MessageMMCPause:                messaging.MessageMMCPause,
	MessageRealTimeClock:           messaging.MessageClock,
	MessageRealTimeStart:           messaging.MessageStart,
	MessageRealTimeContinue:        messaging.MessageContinue,
	MessageRealTimeStop:            messaging.MessageStop,
	MessageRealTimeActiveSensing:   messaging.MessageActiveSensing,
	MessageRealTimeSystemReset:     messaging.MessageSystemReset,
	MessageProgramChangeInc:        messaging.MessageProgramChange,
	MessageProgramChangeDec:        messaging.MessageProgramChange,
	MessageNone:                    messaging.MessageInvalid,
	MessagePresetChange:            messaging.MessageInvalid,
	MessageMultiValIncResetNote:    messaging.MessageNoteOn,
	MessageMultiValIncDecNote:      messaging.MessageNoteOn,
	MessageMultiValIncResetCC:      messaging.MessageControlChange,
	MessageMultiValIncDecCC:        messaging.MessageControlChange,
	MessageNoteOffOnly:             messaging.MessageNoteOff,
	MessageControlChange0Only:      messaging.MessageControlChange,
	MessageBankSelectProgramChange: messaging.MessageProgramChange,
	MessageProgramChangeOffsetInc:  messaging.MessageInvalid,
	MessageProgramChangeOffsetDec:  messaging.MessageInvalid,
	MessageBPMInc:                  messaging.MessageBPM,
	MessageBPMDec:                  messaging.MessageBPM,
	MessageMMCPlayStop:             messaging.MessageMMCPlay,
	MessageNoteLegato:              messaging.MessageNoteOn,
	MessageCustomSysEx:             messaging.MessageSysEx,
}

// Both tables must cover every kind
var (
	_ = [1]struct{}{}[len(messageTypeNames)-int(MessageTypeAmount)]
	_ = [1]struct{}{}[len(defaultMessage)-int(MessageTypeAmount)]
)
