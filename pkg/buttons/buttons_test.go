package buttons

import (
	"errors"
	"testing"

	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

func TestLayout(t *testing.T) {
	l := Layout{Digital: 16, Analog: 8, Touchscreen: 4}

	if got := l.Total(); got != 28 {
		t.Errorf("Total() = %d, want 28", got)
	}
	if got := l.Start(GroupAnalog); got != 16 {
		t.Errorf("Start(analog) = %d, want 16", got)
	}
	if got := l.Start(GroupTouchscreen); got != 24 {
		t.Errorf("Start(touchscreen) = %d, want 24", got)
	}
	if got := l.Size(GroupTouchscreen); got != 4 {
		t.Errorf("Size(touchscreen) = %d, want 4", got)
	}
}

func TestMomentaryNote(t *testing.T) {
	h := newHarness(t, Layout{Digital: 4})
	h.configure(2, TypeMomentary, MessageNote, 60, 100)
	h.set(database.ButtonChannel, 2, 3)

	got := h.press(2)
	assertEvents(t, got, expect{messaging.MessageNoteOn, 60, 100})

	if got[0].event.Channel != 2 {
		t.Errorf("channel = %d, want 2", got[0].event.Channel)
	}
	if got[0].event.ComponentIndex != 2 {
		t.Errorf("component = %d, want 2", got[0].event.ComponentIndex)
	}

	assertEvents(t, h.release(2), expect{messaging.MessageNoteOff, 60, 0})
}

func TestRepeatedReadingIsIgnored(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2})

	assertEvents(t, h.press(0), expect{messaging.MessageNoteOn, 0, 127})
	assertEvents(t, h.press(0))
	assertEvents(t, h.release(0), expect{messaging.MessageNoteOff, 0, 0})
	assertEvents(t, h.release(0))
}

func TestLatchingToggle(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2})
	h.configure(0, TypeLatching, MessageNote, 36, 127)

	assertEvents(t, h.press(0), expect{messaging.MessageNoteOn, 36, 127})
	assertEvents(t, h.release(0))

	if !h.buttons.LatchingState(0) {
		t.Error("LatchingState(0) = false after first press")
	}

	assertEvents(t, h.press(0), expect{messaging.MessageNoteOff, 36, 0})
	assertEvents(t, h.release(0))

	if h.buttons.LatchingState(0) {
		t.Error("LatchingState(0) = true after second press")
	}
}

func TestChannelFallback(t *testing.T) {
	tests := []struct {
		stored   uint16
		expected uint8
	}{
		{1, 0},
		{16, 15},
		{0, 0},
		{17, 0},
	}

	for _, tt := range tests {
		if got := channel(tt.stored); got != tt.expected {
			t.Errorf("channel(%d) = %d, want %d", tt.stored, got, tt.expected)
		}
	}
}

func TestMessageNoneDropsButKeepsState(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2})
	h.configure(1, TypeMomentary, MessageNone, 0, 0)

	assertEvents(t, h.press(1))

	if !h.buttons.State(1) {
		t.Error("State(1) = false, reading should still be stored")
	}
}

func TestUnknownMessageTypeDropped(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2})
	h.set(database.ButtonMessageType, 0, 200)

	assertEvents(t, h.press(0))
	assertEvents(t, h.release(0))
}

func TestInvalidIndex(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2, Analog: 1})

	for _, index := range []int{-1, 3, 100} {
		if err := h.buttons.ProcessReading(index, true); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("ProcessReading(%d) error = %v, want ErrInvalidIndex", index, err)
		}
	}

	if err := h.buttons.UpdateSingle(2, true); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("UpdateSingle(analog index) error = %v, want ErrInvalidIndex", err)
	}

	if _, err := h.buttons.Describe(3); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Describe(3) error = %v, want ErrInvalidIndex", err)
	}
}

func TestForcedRefresh(t *testing.T) {
	h := newHarness(t, Layout{Digital: 3})
	h.configure(0, TypeLatching, MessageNote, 10, 127)
	h.configure(1, TypeMomentary, MessageNote, 11, 127)
	h.configure(2, TypeMomentary, MessageControlChange, 12, 90)

	h.press(0)
	h.release(0)
	h.press(2)

	h.buttons.UpdateAll(true)
	got := h.take()

	assertEvents(t, got,
		expect{messaging.MessageNoteOn, 10, 127},
		expect{messaging.MessageNoteOff, 11, 0},
		expect{messaging.MessageControlChange, 12, 90},
	)

	for i, r := range got {
		if !r.event.ForcedRefresh {
			t.Errorf("event %d not flagged as forced refresh", i)
		}
	}
}

func TestForceIORefreshSystemEvent(t *testing.T) {
	h := newHarness(t, Layout{Digital: 1})
	h.press(0)

	h.dispatcher.Notify(messaging.EventSystem, messaging.Event{SystemMessage: messaging.SystemForceIORefresh})

	assertEvents(t, h.take(), expect{messaging.MessageNoteOn, 0, 127})
}

func TestForcedRefreshDoesNotStep(t *testing.T) {
	h := newHarness(t, Layout{Digital: 1})
	h.configure(0, TypeMomentary, MessageMultiValIncResetCC, 7, 10)

	h.press(0)
	h.take()

	h.buttons.UpdateAll(true)
	assertEvents(t, h.take(), expect{messaging.MessageControlChange, 7, 10})

	if got := h.buttons.Accumulator(0); got != 10 {
		t.Errorf("Accumulator(0) = %d, want 10", got)
	}
}

func TestAnalogAndTouchscreenButtons(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2, Analog: 2, Touchscreen: 2})

	h.dispatcher.Notify(messaging.EventAnalogButton, messaging.Event{ComponentIndex: 1, Value: 1})
	got := h.take()
	assertEvents(t, got, expect{messaging.MessageNoteOn, 3, 127})
	if got[0].event.ComponentIndex != 3 {
		t.Errorf("analog component = %d, want 3", got[0].event.ComponentIndex)
	}

	h.dispatcher.Notify(messaging.EventTouchscreenButton, messaging.Event{ComponentIndex: 0, Value: 1})
	assertEvents(t, h.take(), expect{messaging.MessageNoteOn, 4, 127})

	h.dispatcher.Notify(messaging.EventTouchscreenButton, messaging.Event{ComponentIndex: 0, Value: 0})
	assertEvents(t, h.take(), expect{messaging.MessageNoteOff, 4, 0})

	h.dispatcher.Notify(messaging.EventAnalogButton, messaging.Event{ComponentIndex: 2, Value: 1})
	assertEvents(t, h.take())

	h.dispatcher.Notify(messaging.EventAnalogButton, messaging.Event{ComponentIndex: 1, ForcedRefresh: true})
	assertEvents(t, h.take(), expect{messaging.MessageNoteOn, 3, 127})
}

type fakeHardware struct {
	readings uint8
	states   uint16
	encoder  int
}

func (f *fakeHardware) State(index int) (uint8, uint16, bool) {
	return f.readings, f.states, true
}

func (f *fakeHardware) ButtonToEncoderIndex(index int) int {
	return f.encoder
}

type fakeFilter struct {
	reject bool
}

func (f *fakeFilter) IsFiltered(index int, state bool) bool {
	return !f.reject
}

func TestHardwareUpdate(t *testing.T) {
	hw := &fakeHardware{}
	filter := &fakeFilter{}
	h := newHarness(t, Layout{Digital: 2}, func(c *Config) {
		c.Hardware = hw
		c.Filter = filter
	})

	// oldest reading sits in the highest bit
	hw.readings, hw.states = 3, 0b101
	h.buttons.UpdateAll(false)

	assertEvents(t, h.take(),
		expect{messaging.MessageNoteOn, 0, 127},
		expect{messaging.MessageNoteOff, 0, 0},
		expect{messaging.MessageNoteOn, 0, 127},
		expect{messaging.MessageNoteOn, 1, 127},
		expect{messaging.MessageNoteOff, 1, 0},
		expect{messaging.MessageNoteOn, 1, 127},
	)
}

func TestHardwareUpdateFiltered(t *testing.T) {
	hw := &fakeHardware{readings: 1, states: 1}
	h := newHarness(t, Layout{Digital: 1}, func(c *Config) {
		c.Hardware = hw
		c.Filter = &fakeFilter{reject: true}
	})

	if err := h.buttons.UpdateSingle(0, false); err != nil {
		t.Fatalf("UpdateSingle() error = %v", err)
	}
	assertEvents(t, h.take())
}

func TestHardwareUpdateSkipsEncoderInputs(t *testing.T) {
	hw := &fakeHardware{readings: 1, states: 1, encoder: 0}
	h := newHarness(t, Layout{Digital: 2}, func(c *Config) {
		c.Hardware = hw
	})
	h.set(database.EncoderEnable, 0, 1)

	h.buttons.UpdateSingle(0, false)
	assertEvents(t, h.take())
}

func TestInitClearsState(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2})
	h.configure(0, TypeLatching, MessageNote, 0, 127)

	h.press(0)
	h.take()
	h.buttons.Init()

	if h.buttons.State(0) || h.buttons.LatchingState(0) {
		t.Error("Init() left button state behind")
	}

	assertEvents(t, h.press(0), expect{messaging.MessageNoteOn, 0, 127})
}
