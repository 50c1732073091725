package buttons

import (
	"errors"
	"fmt"

	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// SysEx framing
const (
	SysExStart = 0xF0
	SysExEnd   = 0xF7

	MaxSysExLength  = 16
	MaxSysExPayload = MaxSysExLength - 2
)

var (
	ErrSysExLength = errors.New("sysex payload length must be 1-14 bytes")
	ErrSysExData   = errors.New("sysex payload bytes must be 0x00-0x7F")
)

// AssembleSysEx unpacks length payload bytes from the stored words (two
// 7-bit bytes per word, low byte first) and frames them with F0/F7.
// varPos indexes the framed message, F0 being position 0. A non-zero varPos
// before the closing F7 is replaced with varValue.
func AssembleSysEx(words []uint16, length int, varPos uint8, varValue uint8) ([]byte, error) {
	if length < 1 || length > MaxSysExPayload || length > len(words)*2 {
		return nil, ErrSysExLength
	}

	frame := make([]byte, 0, length+2)
	frame = append(frame, SysExStart)

	for i := 0; i < length; i++ {
		word := words[i/2]
		if i%2 == 0 {
			frame = append(frame, byte(word&0x7F))
		} else {
			frame = append(frame, byte((word>>7)&0x7F))
		}
	}

	frame = append(frame, SysExEnd)

	if varPos != 0 && int(varPos) < len(frame)-1 {
		frame[varPos] = varValue & 0x7F
	}

	return frame, nil
}

// PackSysEx packs a payload into store words for the SYSEX_DATA sections
func PackSysEx(payload []byte) ([]uint16, error) {
	if len(payload) < 1 || len(payload) > MaxSysExPayload {
		return nil, ErrSysExLength
	}

	words := make([]uint16, database.SysExDataWords)
	for i, v := range payload {
		if v > 0x7F {
			return nil, fmt.Errorf("byte %d (0x%02X): %w", i, v, ErrSysExData)
		}
		if i%2 == 0 {
			words[i/2] |= uint16(v)
		} else {
			words[i/2] |= uint16(v) << 7
		}
	}

	return words, nil
}

func (b *Buttons) pressCustomSysEx(index int, d *Descriptor) bool {
	length := int(b.read(database.ButtonSysExLength, index))

	words := make([]uint16, database.SysExDataWords)
	for i := range words {
		words[i] = b.read(database.ButtonSysExData0+database.Section(i), index)
	}

	frame, err := AssembleSysEx(words, length, uint8(d.Event.Index&0xFF), uint8(d.Event.Value&0x7F))
	if err != nil {
		b.logger.Debug("buttons: sysex not sent", "index", index, "length", length, "error", err)
		return false
	}

	d.Event.SysEx = frame
	d.Event.Message = messaging.MessageSysEx
	return true
}
