package buttons

import (
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// kindHandler adjusts the descriptor event for one message kind and
// reports whether it should be emitted
type kindHandler func(b *Buttons, index int, d *Descriptor) bool

func send(*Buttons, int, *Descriptor) bool     { return true }
func suppress(*Buttons, int, *Descriptor) bool { return false }

var pressHandlers = [...]kindHandler{
	MessageNote:                    send,
	MessageProgramChange:           (*Buttons).pressProgramChange,
	MessageControlChange:           send,
	MessageControlChangeReset:      send,
	MessageMMCStop:                 send,
	MessageMMCPlay:                 send,
	MessageMMCRecord:               send,
	MessageMMCPause:                send,
	MessageRealTimeClock:           send,
	MessageRealTimeStart:           send,
	MessageRealTimeContinue:        send,
	MessageRealTimeStop:            send,
	MessageRealTimeActiveSensing:   send,
	MessageRealTimeSystemReset:     send,
	MessageProgramChangeInc:        (*Buttons).pressProgramChangeInc,
	MessageProgramChangeDec:        (*Buttons).pressProgramChangeDec,
	MessageNone:                    suppress,
	MessagePresetChange:            (*Buttons).pressPresetChange,
	MessageMultiValIncResetNote:    (*Buttons).pressMultiValIncResetNote,
	MessageMultiValIncDecNote:      (*Buttons).pressMultiValIncDecNote,
	MessageMultiValIncResetCC:      (*Buttons).pressMultiValIncResetCC,
	MessageMultiValIncDecCC:        (*Buttons).pressMultiValIncDecCC,
	MessageNoteOffOnly:             (*Buttons).pressNoteOffOnly,
	MessageControlChange0Only:      (*Buttons).pressControlChange0Only,
	MessageBankSelectProgramChange: (*Buttons).pressBankSelectProgramChange,
	MessageProgramChangeOffsetInc:  (*Buttons).pressProgramChangeOffsetInc,
	MessageProgramChangeOffsetDec:  (*Buttons).pressProgramChangeOffsetDec,
	MessageBPMInc:                  (*Buttons).pressBPMInc,
	MessageBPMDec:                  (*Buttons).pressBPMDec,
	MessageMMCPlayStop:             send,
	MessageNoteLegato:              (*Buttons).pressNoteLegato,
	MessageCustomSysEx:             (*Buttons).pressCustomSysEx,
}

var releaseHandlers = [...]kindHandler{
	MessageNote:                    (*Buttons).releaseNote,
	MessageProgramChange:           suppress,
	MessageControlChange:           suppress,
	MessageControlChangeReset:      (*Buttons).releaseControlChangeReset,
	MessageMMCStop:                 suppress,
	MessageMMCPlay:                 suppress,
	MessageMMCRecord:               (*Buttons).releaseMMCRecord,
	MessageMMCPause:                suppress,
	MessageRealTimeClock:           suppress,
	MessageRealTimeStart:           suppress,
	MessageRealTimeContinue:        suppress,
	MessageRealTimeStop:            suppress,
	MessageRealTimeActiveSensing:   suppress,
	MessageRealTimeSystemReset:     suppress,
	MessageProgramChangeInc:        suppress,
	MessageProgramChangeDec:        suppress,
	MessageNone:                    suppress,
	MessagePresetChange:            suppress,
	MessageMultiValIncResetNote:    suppress,
	MessageMultiValIncDecNote:      suppress,
	MessageMultiValIncResetCC:      suppress,
	MessageMultiValIncDecCC:        suppress,
	MessageNoteOffOnly:             suppress,
	MessageControlChange0Only:      suppress,
	MessageBankSelectProgramChange: suppress,
	MessageProgramChangeOffsetInc:  suppress,
	MessageProgramChangeOffsetDec:  suppress,
	MessageBPMInc:                  suppress,
	MessageBPMDec:                  suppress,
	MessageMMCPlayStop:             (*Buttons).releaseMMCPlayStop,
	MessageNoteLegato:              (*Buttons).releaseNoteLegato,
	MessageCustomSysEx:             suppress,
}

// The build fails if a table does not cover every kind
var (
	_ = [1]struct{}{}[len(pressHandlers)-int(MessageTypeAmount)]
	_ = [1]struct{}{}[len(releaseHandlers)-int(MessageTypeAmount)]
)

// sendMessage runs the press or release handler of the descriptor's kind
// and emits the resulting event
func (b *Buttons) sendMessage(index int, state bool, d *Descriptor) {
	if d.MessageType >= MessageTypeAmount {
		b.logger.Debug("buttons: unknown message type", "index", index, "type", uint8(d.MessageType))
		return
	}

	handlers := &releaseHandlers
	if state {
		handlers = &pressHandlers
	}

	if !handlers[d.MessageType](b, index, d) {
		return
	}

	b.notify(d.target, d.Event)
}

func (b *Buttons) pressNoteLegato(index int, d *Descriptor) bool {
	ch := d.Event.Channel & 0x0F
	note := uint8(d.Event.Index & 0x7F)

	d.Event.Message = messaging.MessageNoteOn

	if d.Event.ForcedRefresh {
		if b.legato.held[ch] == 0 {
			return false
		}
		d.Event.Index = uint16(b.legato.active[ch])
		return true
	}

	b.legato.held[ch]++

	if b.legato.held[ch] > 1 && b.legato.active[ch] != note {
		off := d.Event
		off.Index = uint16(b.legato.active[ch])
		off.Value = 0
		off.Message = messaging.MessageNoteOff
		b.notify(messaging.EventButton, off)
	}

	b.legato.active[ch] = note
	d.Event.Index = uint16(note)
	return true
}

func (b *Buttons) releaseNoteLegato(index int, d *Descriptor) bool {
	if d.Event.ForcedRefresh {
		return false
	}

	ch := d.Event.Channel & 0x0F

	if b.legato.held[ch] > 0 {
		b.legato.held[ch]--
	}

	if b.legato.held[ch] != 0 {
		return false
	}

	d.Event.Index = uint16(b.legato.active[ch])
	d.Event.Value = 0
	d.Event.Message = messaging.MessageNoteOff
	b.legato.active[ch] = 0
	return true
}

func (b *Buttons) pressProgramChange(index int, d *Descriptor) bool {
	d.Event.Value = 0
	d.Event.Index = (d.Event.Index + uint16(b.program.Offset())) & 0x7F
	return true
}

func (b *Buttons) pressProgramChangeInc(index int, d *Descriptor) bool {
	return b.stepProgram(d, b.program.IncrementProgram)
}

func (b *Buttons) pressProgramChangeDec(index int, d *Descriptor) bool {
	return b.stepProgram(d, b.program.DecrementProgram)
}

func (b *Buttons) stepProgram(d *Descriptor, step func(channel uint8, step uint8) bool) bool {
	d.Event.Value = 0

	if !d.Event.ForcedRefresh && !step(d.Event.Channel, 1) {
		return false
	}

	d.Event.Index = uint16(b.program.Program(d.Event.Channel))
	return true
}

func (b *Buttons) pressMultiValIncResetNote(index int, d *Descriptor) bool {
	return b.stepValue(index, d, StepOverflow, true)
}

func (b *Buttons) pressMultiValIncDecNote(index int, d *Descriptor) bool {
	return b.stepValue(index, d, StepEdge, true)
}

func (b *Buttons) pressMultiValIncResetCC(index int, d *Descriptor) bool {
	return b.stepValue(index, d, StepOverflow, false)
}

func (b *Buttons) pressMultiValIncDecCC(index int, d *Descriptor) bool {
	return b.stepValue(index, d, StepEdge, false)
}

// stepValue advances the accumulator by the configured VALUE and emits the
// new value. A forced refresh resends the current value without stepping.
func (b *Buttons) stepValue(index int, d *Descriptor, policy StepPolicy, note bool) bool {
	value := b.state.accumulator[index]

	if !d.Event.ForcedRefresh {
		next, descending := Step(value, d.Event.Value, policy, b.state.descending.get(index))
		b.state.descending.set(index, descending)

		if next == value {
			return false
		}

		b.state.accumulator[index] = next
		value = next
	}

	d.Event.Value = uint16(value)

	if note {
		if value == 0 {
			d.Event.Message = messaging.MessageNoteOff
		} else {
			d.Event.Message = messaging.MessageNoteOn
		}
	}

	return true
}

func (b *Buttons) pressNoteOffOnly(index int, d *Descriptor) bool {
	d.Event.Value = 0
	d.Event.Message = messaging.MessageNoteOff
	return true
}

func (b *Buttons) pressControlChange0Only(index int, d *Descriptor) bool {
	d.Event.Value = 0
	return true
}

// pressBankSelectProgramChange expands into bank MSB, bank LSB and program
// change. VALUE holds the 14-bit bank, MIDI_ID the program.
func (b *Buttons) pressBankSelectProgramChange(index int, d *Descriptor) bool {
	bank := d.Event.Value & 0x3FFF

	msb := d.Event
	msb.Message = messaging.MessageControlChange
	msb.Index = 0
	msb.Value = (bank >> 7) & 0x7F

	lsb := d.Event
	lsb.Message = messaging.MessageControlChange
	lsb.Index = 32
	lsb.Value = bank & 0x7F

	pc := d.Event
	pc.Message = messaging.MessageProgramChange
	pc.Index = d.Event.Index & 0x7F
	pc.Value = 0

	b.notify(messaging.EventButton, msb)
	b.notify(messaging.EventButton, lsb)
	b.notify(messaging.EventButton, pc)

	return false
}

func (b *Buttons) pressProgramChangeOffsetInc(index int, d *Descriptor) bool {
	if !d.Event.ForcedRefresh {
		b.program.IncrementOffset(d.Event.Value)
	}
	return false
}

func (b *Buttons) pressProgramChangeOffsetDec(index int, d *Descriptor) bool {
	if !d.Event.ForcedRefresh {
		b.program.DecrementOffset(d.Event.Value)
	}
	return false
}

// pressPresetChange requests the preset selected by MIDI_ID
func (b *Buttons) pressPresetChange(index int, d *Descriptor) bool {
	if d.Event.ForcedRefresh {
		return false
	}

	d.target = messaging.EventSystem
	d.Event.SystemMessage = messaging.SystemPresetChangeDirectReq
	return true
}

func (b *Buttons) pressBPMInc(index int, d *Descriptor) bool {
	return b.stepTempo(d, b.tempo.Increment)
}

func (b *Buttons) pressBPMDec(index int, d *Descriptor) bool {
	return b.stepTempo(d, b.tempo.Decrement)
}

func (b *Buttons) stepTempo(d *Descriptor, step func(int) bool) bool {
	if d.Event.ForcedRefresh || !step(1) {
		return false
	}

	d.Event.Index = uint16(b.tempo.Value())
	d.Event.Value = 0
	return true
}

func (b *Buttons) releaseNote(index int, d *Descriptor) bool {
	d.Event.Value = 0
	d.Event.Message = messaging.MessageNoteOff
	return true
}

func (b *Buttons) releaseControlChangeReset(index int, d *Descriptor) bool {
	d.Event.Value = 0
	return true
}

func (b *Buttons) releaseMMCRecord(index int, d *Descriptor) bool {
	d.Event.Message = messaging.MessageMMCRecordStop
	return true
}

func (b *Buttons) releaseMMCPlayStop(index int, d *Descriptor) bool {
	d.Event.Message = messaging.MessageMMCStop
	return true
}
