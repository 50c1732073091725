package buttons

import (
	"testing"

	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

func TestConfigGetSet(t *testing.T) {
	h := newHarness(t, Layout{Digital: 4})

	tests := []struct {
		name    string
		section sysconfig.Section
		index   int
		value   uint16
		status  sysconfig.Status
	}{
		{"midi id", sysconfig.SectionMIDIID, 1, 64, sysconfig.StatusAck},
		{"channel", sysconfig.SectionChannel, 3, 16, sysconfig.StatusAck},
		{"sysex word", sysconfig.SectionSysExData7, 0, 0x3FFF, sysconfig.StatusAck},
		{"key map", sysconfig.SectionSaxRegisterKeyMap, 2, 3, sysconfig.StatusAck},
		{"index out of range", sysconfig.SectionValue, 4, 1, sysconfig.StatusErrorWrite},
		{"value too large", sysconfig.SectionValue, 0, 0x4000, sysconfig.StatusErrorWrite},
		{"unknown section", sysconfig.SectionAmount, 0, 1, sysconfig.StatusErrorWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.buttons.ConfigSet(tt.section, tt.index, tt.value); got != tt.status {
				t.Fatalf("ConfigSet() = %v, want %v", got, tt.status)
			}
			if tt.status != sysconfig.StatusAck {
				return
			}

			got, status := h.buttons.ConfigGet(tt.section, tt.index)
			if status != sysconfig.StatusAck || got != tt.value {
				t.Errorf("ConfigGet() = %d, %v, want %d, ACK", got, status, tt.value)
			}
		})
	}
}

func TestConfigGetErrors(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2})

	if _, status := h.buttons.ConfigGet(sysconfig.SectionType, 2); status != sysconfig.StatusErrorRead {
		t.Errorf("ConfigGet(index 2) status = %v, want ERROR_READ", status)
	}
	if _, status := h.buttons.ConfigGet(sysconfig.Section(99), 0); status != sysconfig.StatusErrorRead {
		t.Errorf("ConfigGet(section 99) status = %v, want ERROR_READ", status)
	}
}

func TestConfigSetResetsRuntimeState(t *testing.T) {
	h := newHarness(t, Layout{Digital: 2})
	h.configure(0, TypeLatching, MessageMultiValIncResetCC, 1, 10)

	h.press(0)
	h.release(0)
	if !h.buttons.LatchingState(0) {
		t.Fatal("LatchingState(0) = false after press")
	}

	if status := h.buttons.ConfigSet(sysconfig.SectionMessageType, 0, uint16(MessageNote)); status != sysconfig.StatusAck {
		t.Fatalf("ConfigSet() = %v", status)
	}

	if h.buttons.LatchingState(0) || h.buttons.Accumulator(0) != 0 {
		t.Error("runtime state survived a MESSAGE_TYPE write")
	}

	assertEvents(t, h.press(0), expect{messaging.MessageNoteOn, 1, 10})
}

func TestConfigSetValueKeepsRuntimeState(t *testing.T) {
	h := newHarness(t, Layout{Digital: 1})
	h.configure(0, TypeLatching, MessageNote, 1, 10)
	h.press(0)

	h.buttons.ConfigSet(sysconfig.SectionValue, 0, 20)

	if !h.buttons.LatchingState(0) {
		t.Error("VALUE write cleared runtime state")
	}
}
