package messaging

import "testing"

func TestDispatcherOrder(t *testing.T) {
	d := NewDispatcher()

	var got []string
	d.Listen(EventButton, func(e Event) { got = append(got, "first") })
	d.Listen(EventButton, func(e Event) { got = append(got, "second") })
	d.Listen(EventSystem, func(e Event) { got = append(got, "system") })

	if !d.Notify(EventButton, Event{}) {
		t.Fatal("Notify() = false, want true")
	}

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("delivery order = %v, want [first second]", got)
	}
}

func TestDispatcherNoListeners(t *testing.T) {
	d := NewDispatcher()

	if d.Notify(EventTouchscreenButton, Event{}) {
		t.Error("Notify() without listeners = true, want false")
	}

	if d.Notify(EventType(200), Event{}) {
		t.Error("Notify() with unknown type = true, want false")
	}
}

func TestDispatcherNestedNotify(t *testing.T) {
	d := NewDispatcher()

	var got []MessageType
	d.Listen(EventAnalogButton, func(e Event) {
		d.Notify(EventButton, Event{Message: MessageNoteOn})
		d.Notify(EventButton, Event{Message: MessageNoteOff})
	})
	d.Listen(EventButton, func(e Event) { got = append(got, e.Message) })

	d.Notify(EventAnalogButton, Event{})

	if len(got) != 2 || got[0] != MessageNoteOn || got[1] != MessageNoteOff {
		t.Errorf("nested delivery = %v, want [note_on note_off]", got)
	}
}

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		message  MessageType
		expected string
	}{
		{MessageNoteOn, "note_on"},
		{MessageMMCRecordStop, "mmc_record_stop"},
		{MessageBPM, "bpm"},
		{MessageType(250), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.message.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
