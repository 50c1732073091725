package buttons

import (
	"testing"

	"github.com/dolsoidduk/OpenDeck/pkg/bpm"
	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
	"github.com/dolsoidduk/OpenDeck/pkg/program"
)

type recorded struct {
	eventType messaging.EventType
	event     messaging.Event
}

type harness struct {
	t          *testing.T
	db         *database.Memory
	dispatcher *messaging.Dispatcher
	program    *program.Program
	tempo      *bpm.Bpm
	buttons    *Buttons
	events     []recorded
}

func newHarness(t *testing.T, layout Layout, configure ...func(*Config)) *harness {
	t.Helper()

	cfg := Config{Layout: layout}
	for _, c := range configure {
		c(&cfg)
	}
	if cfg.SaxFingeringEntries == 0 {
		cfg.SaxFingeringEntries = DefaultSaxFingeringEntries
	}

	h := &harness{
		t: t,
		db: database.NewMemory(database.Layout{
			Buttons:             layout.Total(),
			Encoders:            layout.Digital / 2,
			SaxFingeringEntries: cfg.SaxFingeringEntries,
		}, 1, nil),
		dispatcher: messaging.NewDispatcher(),
		program:    program.New(),
		tempo:      bpm.New(),
	}

	h.dispatcher.Listen(messaging.EventButton, func(e messaging.Event) {
		h.events = append(h.events, recorded{messaging.EventButton, e})
	})
	h.dispatcher.Listen(messaging.EventSystem, func(e messaging.Event) {
		if e.SystemMessage != messaging.SystemForceIORefresh {
			h.events = append(h.events, recorded{messaging.EventSystem, e})
		}
	})

	h.buttons = New(cfg, h.db, h.dispatcher, h.program, h.tempo)
	h.buttons.Init()
	return h
}

func (h *harness) set(section database.Section, index int, value uint16) {
	h.t.Helper()
	if !h.db.Update(section, index, value) {
		h.t.Fatalf("Update(%v, %d, %d) failed", section, index, value)
	}
}

func (h *harness) configure(index int, buttonType Type, message MessageType, id uint16, value uint16) {
	h.t.Helper()
	h.set(database.ButtonType, index, uint16(buttonType))
	h.set(database.ButtonMessageType, index, uint16(message))
	h.set(database.ButtonMIDIID, index, id)
	h.set(database.ButtonValue, index, value)
}

func (h *harness) press(index int) []recorded {
	h.t.Helper()
	return h.reading(index, true)
}

func (h *harness) release(index int) []recorded {
	h.t.Helper()
	return h.reading(index, false)
}

func (h *harness) reading(index int, state bool) []recorded {
	h.t.Helper()
	if err := h.buttons.ProcessReading(index, state); err != nil {
		h.t.Fatalf("ProcessReading(%d, %v) error = %v", index, state, err)
	}
	return h.take()
}

// take returns and clears the events emitted so far
func (h *harness) take() []recorded {
	events := h.events
	h.events = nil
	return events
}

type expect struct {
	message messaging.MessageType
	index   uint16
	value   uint16
}

func assertEvents(t *testing.T, got []recorded, want ...expect) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(got), got, len(want))
	}

	for i, w := range want {
		e := got[i].event
		if e.Message != w.message || e.Index != w.index || e.Value != w.value {
			t.Errorf("event %d = %s %d/%d, want %s %d/%d",
				i, e.Message, e.Index, e.Value, w.message, w.index, w.value)
		}
	}
}
