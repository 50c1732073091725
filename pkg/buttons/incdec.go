package buttons

const maxValue7Bit = 127

// StepPolicy selects how a multi-value accumulator moves on each press
type StepPolicy uint8

const (
	// StepOverflow adds the step and restarts from 0 once 127 is exceeded
	StepOverflow StepPolicy = iota
	// StepEdge walks up to 127 and back down to 0, reversing at each end
	StepEdge
)

// Step advances a 7-bit accumulator. descending is the current direction for
// StepEdge and the returned direction is the one to store for the next press.
// A zero step never changes the value.
func Step(value uint8, step uint16, policy StepPolicy, descending bool) (uint8, bool) {
	v := int(min(value, maxValue7Bit))
	s := int(min(step, maxValue7Bit+1))

	if s == 0 {
		return uint8(v), descending
	}

	switch policy {
	case StepEdge:
		if !descending {
			if v == maxValue7Bit {
				return uint8(max(0, v-s)), true
			}
			return uint8(min(maxValue7Bit, v+s)), false
		}
		if v == 0 {
			return uint8(min(maxValue7Bit, s)), false
		}
		return uint8(max(0, v-s)), true

	default:
		next := v + s
		if next > maxValue7Bit {
			next = 0
		}
		return uint8(next), false
	}
}
