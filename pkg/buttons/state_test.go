package buttons

import "testing"

func TestBitSet(t *testing.T) {
	b := newBitSet(130)

	for _, i := range []int{0, 63, 64, 129} {
		b.set(i, true)
		if !b.get(i) {
			t.Errorf("get(%d) = false after set", i)
		}
	}

	if b.get(1) || b.get(65) {
		t.Error("unrelated bits are set")
	}

	b.set(64, false)
	if b.get(64) {
		t.Error("get(64) = true after clearing")
	}
	if !b.get(63) {
		t.Error("clearing bit 64 affected bit 63")
	}

	b.clear()
	if b.get(0) || b.get(129) {
		t.Error("clear() left bits set")
	}
}

func TestRuntimeStateReset(t *testing.T) {
	s := newRuntimeState(4)
	s.pressed.set(2, true)
	s.latching.set(2, true)
	s.descending.set(2, true)
	s.accumulator[2] = 99
	s.latching.set(3, true)

	s.reset(2)

	if s.pressed.get(2) || s.latching.get(2) || s.descending.get(2) || s.accumulator[2] != 0 {
		t.Error("reset(2) left state behind")
	}
	if !s.latching.get(3) {
		t.Error("reset(2) touched button 3")
	}
}
