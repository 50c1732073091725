package buttons

const midiChannels = 16

// bitSet is a packed array of per-button flags
type bitSet []uint64

func newBitSet(size int) bitSet {
	return make(bitSet, (size+63)/64)
}

func (b bitSet) get(index int) bool {
	return b[index/64]&(1<<(uint(index)%64)) != 0
}

func (b bitSet) set(index int, value bool) {
	mask := uint64(1) << (uint(index) % 64)
	if value {
		b[index/64] |= mask
	} else {
		b[index/64] &^= mask
	}
}

func (b bitSet) clear() {
	clear(b)
}

// runtimeState is the mutable state kept for every button
type runtimeState struct {
	pressed     bitSet
	latching    bitSet
	descending  bitSet // step direction for ping-pong multi-value kinds
	accumulator []uint8
}

func newRuntimeState(size int) *runtimeState {
	return &runtimeState{
		pressed:     newBitSet(size),
		latching:    newBitSet(size),
		descending:  newBitSet(size),
		accumulator: make([]uint8, size),
	}
}

func (s *runtimeState) reset(index int) {
	s.pressed.set(index, false)
	s.latching.set(index, false)
	s.descending.set(index, false)
	s.accumulator[index] = 0
}

func (s *runtimeState) resetAll() {
	s.pressed.clear()
	s.latching.clear()
	s.descending.clear()
	clear(s.accumulator)
}

// legatoState tracks held legato buttons and the sounding note per channel
type legatoState struct {
	held   [midiChannels]uint16
	active [midiChannels]uint8
}

func (l *legatoState) reset() {
	*l = legatoState{}
}

// saxState is the device-wide monophonic note produced by the sax register
type saxState struct {
	noteOn  bool
	active  uint8
	channel uint8
}
