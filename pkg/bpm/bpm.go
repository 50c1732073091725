// Package bpm holds the device tempo adjusted by BPM_INC/BPM_DEC buttons.
package bpm

const (
	Min     = 10
	Max     = 300
	Default = 120
)

// Bpm is the current tempo in beats per minute
type Bpm struct {
	value int
}

// New creates a tempo holder at Default
func New() *Bpm {
	return &Bpm{value: Default}
}

// Value returns the current tempo
func (b *Bpm) Value() int {
	return b.value
}

// Increment raises the tempo by step. Returns false at Max.
func (b *Bpm) Increment(step int) bool {
	return b.set(min(b.value+step, Max))
}

// Decrement lowers the tempo by step. Returns false at Min.
func (b *Bpm) Decrement(step int) bool {
	return b.set(max(b.value-step, Min))
}

// Set changes the tempo, rejecting values outside [Min, Max]
func (b *Bpm) Set(value int) bool {
	if value < Min || value > Max {
		return false
	}
	return b.set(value)
}

func (b *Bpm) set(value int) bool {
	if value == b.value {
		return false
	}
	b.value = value
	return true
}
