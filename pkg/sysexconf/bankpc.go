package sysexconf

import (
	"fmt"
	"io"

	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

// messageTypeBankSelectProgramChange is the MESSAGE_TYPE value of the
// bank select + program change button kind
const messageTypeBankSelectProgramChange = 24

// BankProgram configures a button to send bank select followed by a
// program change
type BankProgram struct {
	Button  int // 0-16383
	Channel int // 1-16
	Program int // 0-127
	Bank    int // 0-16383
}

// BankFromMSBLSB combines bank select MSB and LSB into a 14-bit bank
func BankFromMSBLSB(msb, lsb int) (int, error) {
	if msb < 0 || msb > 127 || lsb < 0 || lsb > 127 {
		return 0, fmt.Errorf("bank msb/lsb %d/%d: %w", msb, lsb, ErrValueRange)
	}
	return msb<<7 | lsb, nil
}

// Validate checks every field range
func (bp BankProgram) Validate() error {
	switch {
	case bp.Button < 0 || bp.Button > 0x3FFF:
		return fmt.Errorf("button %d: %w", bp.Button, ErrValueRange)
	case bp.Channel < 1 || bp.Channel > 16:
		return fmt.Errorf("channel %d: %w", bp.Channel, ErrChannelRange)
	case bp.Program < 0 || bp.Program > 127:
		return fmt.Errorf("program %d: %w", bp.Program, ErrValueRange)
	case bp.Bank < 0 || bp.Bank > 0x3FFF:
		return fmt.Errorf("bank %d: %w", bp.Bank, ErrValueRange)
	}
	return nil
}

// Requests returns the framed requests configuring the button, wrapped in
// connection open/close
func (bp BankProgram) Requests() ([][]byte, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}

	button := uint16(bp.Button)
	set := func(section sysconfig.Section, value int) []byte {
		return SetSingle(sysconfig.BlockButtons, uint8(section), button, uint16(value))
	}

	return [][]byte{
		ConnectionOpen(),
		set(sysconfig.SectionMessageType, messageTypeBankSelectProgramChange),
		set(sysconfig.SectionChannel, bp.Channel),
		set(sysconfig.SectionMIDIID, bp.Program),
		set(sysconfig.SectionValue, bp.Bank),
		ConnectionClose(),
	}, nil
}

// WriteSyx writes frames back to back, the layout of a .syx file
func WriteSyx(w io.Writer, frames [][]byte) (int64, error) {
	var total int64
	for _, frame := range frames {
		n, err := w.Write(frame)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("failed to write sysex: %w", err)
		}
	}
	return total, nil
}
