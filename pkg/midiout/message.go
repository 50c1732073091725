// Package midiout turns outbound button events into MIDI wire messages and
// delivers them to ports and Standard MIDI Files.
package midiout

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// MIDI Machine Control commands
const (
	mmcStop        = 0x01
	mmcPlay        = 0x02
	mmcRecordStart = 0x06
	mmcRecordStop  = 0x07
	mmcPause       = 0x09
)

// Message converts an event into its MIDI wire form. Events without a wire
// representation (BPM changes, invalid messages) return false.
func Message(e messaging.Event) (midi.Message, bool) {
	ch := e.Channel & 0x0F
	key := uint8(e.Index & 0x7F)
	value := uint8(e.Value & 0x7F)

	switch e.Message {
	case messaging.MessageNoteOn:
		return midi.NoteOn(ch, key, value), true
	case messaging.MessageNoteOff:
		return midi.NoteOff(ch, key), true
	case messaging.MessageControlChange:
		return midi.ControlChange(ch, key, value), true
	case messaging.MessageProgramChange:
		return midi.ProgramChange(ch, key), true
	case messaging.MessageSysEx:
		if len(e.SysEx) < 2 || e.SysEx[0] != 0xF0 || e.SysEx[len(e.SysEx)-1] != 0xF7 {
			return nil, false
		}
		return midi.SysEx(e.SysEx[1 : len(e.SysEx)-1]), true
	case messaging.MessageMMCPlay:
		return mmc(key, mmcPlay), true
	case messaging.MessageMMCStop:
		return mmc(key, mmcStop), true
	case messaging.MessageMMCPause:
		return mmc(key, mmcPause), true
	case messaging.MessageMMCRecordStart:
		return mmc(key, mmcRecordStart), true
	case messaging.MessageMMCRecordStop:
		return mmc(key, mmcRecordStop), true
	case messaging.MessageClock:
		return midi.TimingClock(), true
	case messaging.MessageStart:
		return midi.Start(), true
	case messaging.MessageContinue:
		return midi.Continue(), true
	case messaging.MessageStop:
		return midi.Stop(), true
	case messaging.MessageActiveSensing:
		return midi.Activesense(), true
	case messaging.MessageSystemReset:
		return midi.Reset(), true
	default:
		return nil, false
	}
}

// mmc builds a real-time universal SysEx MMC command for a device ID
func mmc(device uint8, command uint8) midi.Message {
	return midi.SysEx([]byte{0x7F, device, 0x06, command})
}
