package buttons

import (
	"math/bits"

	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// Sax register fingering table layout. A row stores the low 14 mask bits in
// one word and the remaining mask bits plus the enable flag in another.
const (
	SaxFingeringKeys           = 24
	DefaultSaxFingeringEntries = 32

	saxMaskLoBits  = 14
	saxMaskLo      = 1<<saxMaskLoBits - 1
	saxMaskHiBits  = SaxFingeringKeys - saxMaskLoBits
	saxMaskHi      = 1<<saxMaskHiBits - 1
	SaxEntryEnable = 1 << saxMaskHiBits

	saxTransposeCenter = 24
	saxNoteOnVelocity  = 127
)

func (b *Buttons) saxActive() bool {
	return b.cfg.SaxRegister && b.read(database.SystemSettings, database.SaxRegisterChromaticEnable) != 0
}

// saxKeyCount is the number of digital inputs taking part in fingerings
func (b *Buttons) saxKeyCount() int {
	return min(b.cfg.Layout.Digital, SaxFingeringKeys)
}

func (b *Buttons) saxInvert() bool {
	return b.read(database.SystemSettings, database.SaxRegisterInputInvert) != 0
}

// saxMask returns the pressed state of the fingering keys, bit i for input i
func (b *Buttons) saxMask() uint32 {
	invert := b.saxInvert()

	var mask uint32
	for i := 0; i < b.saxKeyCount(); i++ {
		if b.state.pressed.get(i) != invert {
			mask |= 1 << i
		}
	}
	return mask
}

func (b *Buttons) saxChannel() uint8 {
	return channel(b.read(database.MIDISettings, database.GlobalChannel))
}

// processSaxRegister recomputes the sax note from the pressed digital inputs
func (b *Buttons) processSaxRegister() {
	ch := b.saxChannel()
	transpose := int(b.read(database.SystemSettings, database.SaxRegisterTranspose)) - saxTransposeCenter
	mask := b.saxMask()

	if note, enabled, matched := b.matchFingering(mask); enabled {
		if !matched || mask == 0 {
			b.saxNoteOff()
			return
		}
		b.saxPlay(ch, clampNote(int(note)+transpose))
		return
	}

	active := b.highestPressed()
	if active < 0 {
		b.saxNoteOff()
		return
	}

	base := int(b.read(database.SystemSettings, database.SaxRegisterBaseNote))
	b.saxPlay(ch, clampNote(base+b.saxKeyMap(active)+transpose))
}

// matchFingering finds the enabled row whose mask is covered by the current
// mask with the most bits set. enabled is false when the table is empty.
func (b *Buttons) matchFingering(current uint32) (note uint8, enabled bool, matched bool) {
	allowed := uint32(1)<<b.saxKeyCount() - 1
	best := -1

	for entry := 0; entry < b.cfg.SaxFingeringEntries; entry++ {
		hiEnable := b.read(database.SaxFingeringMaskHi10Enable, entry)
		if hiEnable&SaxEntryEnable == 0 {
			continue
		}

		enabled = true

		lo := uint32(b.read(database.SaxFingeringMaskLo14, entry)) & saxMaskLo
		row := (lo | uint32(hiEnable&saxMaskHi)<<saxMaskLoBits) & allowed

		if row&current != row {
			continue
		}

		score := bits.OnesCount32(row)
		if score <= best {
			continue
		}

		rowNote := b.read(database.SaxFingeringNote, entry)
		if rowNote > maxValue7Bit {
			continue
		}

		best = score
		note = uint8(rowNote)
		matched = true
	}

	return note, enabled, matched
}

// highestPressed returns the highest pressed digital input or -1
func (b *Buttons) highestPressed() int {
	invert := b.saxInvert()

	for i := b.cfg.Layout.Digital - 1; i >= 0; i-- {
		if b.state.pressed.get(i) != invert {
			return i
		}
	}
	return -1
}

// saxKeyMap remaps an input through SAX_REGISTER_KEY_MAP (0 keeps the index,
// otherwise the stored value minus one)
func (b *Buttons) saxKeyMap(index int) int {
	stored := int(b.read(database.ButtonSaxRegisterKeyMap, index))
	if stored == 0 {
		return index
	}

	mapped := stored - 1
	if mapped >= b.cfg.Layout.Digital {
		return index
	}
	return mapped
}

func (b *Buttons) saxPlay(ch uint8, note uint8) {
	if b.sax.noteOn && b.sax.active == note {
		return
	}

	b.saxNoteOff()

	b.notify(messaging.EventButton, messaging.Event{
		Channel: ch,
		Index:   uint16(note),
		Value:   saxNoteOnVelocity,
		Message: messaging.MessageNoteOn,
	})

	b.sax.active = note
	b.sax.channel = ch
	b.sax.noteOn = true
}

func (b *Buttons) saxNoteOff() {
	if !b.sax.noteOn {
		return
	}

	b.notify(messaging.EventButton, messaging.Event{
		Channel: b.sax.channel,
		Index:   uint16(b.sax.active),
		Message: messaging.MessageNoteOff,
	})

	b.sax.noteOn = false
}

// resendSax repeats the sounding sax note on a forced refresh
func (b *Buttons) resendSax() {
	if !b.sax.noteOn {
		return
	}

	b.notify(messaging.EventButton, messaging.Event{
		Channel:       b.sax.channel,
		Index:         uint16(b.sax.active),
		Value:         saxNoteOnVelocity,
		Message:       messaging.MessageNoteOn,
		ForcedRefresh: true,
	})
}

// SaxNote returns the sounding sax note, if any
func (b *Buttons) SaxNote() (uint8, bool) {
	return b.sax.active, b.sax.noteOn
}

// CaptureSaxFingering stores the currently pressed keys as an enabled row
// of the fingering table. The note is written only when it is 0..127.
func (b *Buttons) CaptureSaxFingering(entry int, note uint16) error {
	if entry < 0 || entry >= b.cfg.SaxFingeringEntries {
		return ErrInvalidEntry
	}

	mask := b.saxMask()
	lo := uint16(mask & saxMaskLo)
	hiEnable := uint16((mask>>saxMaskLoBits)&saxMaskHi) | SaxEntryEnable

	ok := b.db.Update(database.SaxFingeringMaskLo14, entry, lo)
	ok = b.db.Update(database.SaxFingeringMaskHi10Enable, entry, hiEnable) && ok

	if note <= maxValue7Bit {
		ok = b.db.Update(database.SaxFingeringNote, entry, note) && ok
	}

	if !ok {
		return ErrWriteFailed
	}

	b.logger.Info("buttons: fingering captured", "entry", entry, "mask", mask, "note", note)
	return nil
}

func clampNote(note int) uint8 {
	return uint8(max(0, min(maxValue7Bit, note)))
}
