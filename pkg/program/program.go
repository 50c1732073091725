// Package program tracks the current MIDI program per channel and the
// global program offset applied to PROGRAM_CHANGE buttons.
package program

const (
	channels   = 16
	maxProgram = 127
)

// Program holds per-channel programs and the program offset
type Program struct {
	programs [channels]uint8
	offset   uint8
}

// New creates a holder with every program and the offset at 0
func New() *Program {
	return &Program{}
}

// Program returns the current program on a 0-based channel
func (p *Program) Program(channel uint8) uint8 {
	return p.programs[channel&0x0F]
}

// IncrementProgram raises the channel program by step, stopping at 127.
// Returns false if the program did not change.
func (p *Program) IncrementProgram(channel uint8, step uint8) bool {
	ch := channel & 0x0F
	next := min(int(p.programs[ch])+int(step), maxProgram)
	return p.setProgram(ch, uint8(next))
}

// DecrementProgram lowers the channel program by step, stopping at 0.
// Returns false if the program did not change.
func (p *Program) DecrementProgram(channel uint8, step uint8) bool {
	ch := channel & 0x0F
	next := max(int(p.programs[ch])-int(step), 0)
	return p.setProgram(ch, uint8(next))
}

func (p *Program) setProgram(channel uint8, value uint8) bool {
	if p.programs[channel] == value {
		return false
	}
	p.programs[channel] = value
	return true
}

// Offset returns the program offset
func (p *Program) Offset() uint8 {
	return p.offset
}

// IncrementOffset raises the offset by step, stopping at 127
func (p *Program) IncrementOffset(step uint16) bool {
	next := min(int(p.offset)+int(step), maxProgram)
	return p.setOffset(uint8(next))
}

// DecrementOffset lowers the offset by step, stopping at 0
func (p *Program) DecrementOffset(step uint16) bool {
	next := max(int(p.offset)-int(step), 0)
	return p.setOffset(uint8(next))
}

func (p *Program) setOffset(value uint8) bool {
	if p.offset == value {
		return false
	}
	p.offset = value
	return true
}
