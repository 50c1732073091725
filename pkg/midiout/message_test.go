package midiout

import (
	"bytes"
	"testing"

	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		event    messaging.Event
		expected []byte
	}{
		{"note on", messaging.Event{Message: messaging.MessageNoteOn, Index: 60, Value: 100}, []byte{0x90, 0x3C, 0x64}},
		{"note off channel 3", messaging.Event{Message: messaging.MessageNoteOff, Channel: 2, Index: 60}, []byte{0x82, 0x3C, 0x00}},
		{"control change", messaging.Event{Message: messaging.MessageControlChange, Index: 32, Value: 7}, []byte{0xB0, 0x20, 0x07}},
		{"program change", messaging.Event{Message: messaging.MessageProgramChange, Channel: 15, Index: 12}, []byte{0xCF, 0x0C}},
		{"sysex", messaging.Event{Message: messaging.MessageSysEx, SysEx: []byte{0xF0, 0x41, 0x42, 0xF7}}, []byte{0xF0, 0x41, 0x42, 0xF7}},
		{"mmc play", messaging.Event{Message: messaging.MessageMMCPlay, Index: 0x7F}, []byte{0xF0, 0x7F, 0x7F, 0x06, 0x02, 0xF7}},
		{"mmc record stop", messaging.Event{Message: messaging.MessageMMCRecordStop, Index: 1}, []byte{0xF0, 0x7F, 0x01, 0x06, 0x07, 0xF7}},
		{"clock", messaging.Event{Message: messaging.MessageClock}, []byte{0xF8}},
		{"start", messaging.Event{Message: messaging.MessageStart}, []byte{0xFA}},
		{"continue", messaging.Event{Message: messaging.MessageContinue}, []byte{0xFB}},
		{"stop", messaging.Event{Message: messaging.MessageStop}, []byte{0xFC}},
		{"active sensing", messaging.Event{Message: messaging.MessageActiveSensing}, []byte{0xFE}},
		{"system reset", messaging.Event{Message: messaging.MessageSystemReset}, []byte{0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Message(tt.event)
			if !ok {
				t.Fatal("Message() returned false")
			}
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Message() = % X, want % X", []byte(got), tt.expected)
			}
		})
	}
}

func TestMessageWithoutWireForm(t *testing.T) {
	events := []messaging.Event{
		{Message: messaging.MessageBPM, Index: 121},
		{Message: messaging.MessageInvalid},
		{Message: messaging.MessageSysEx, SysEx: []byte{0x41}},
		{Message: messaging.MessageSysEx},
	}

	for _, e := range events {
		if _, ok := Message(e); ok {
			t.Errorf("Message(%s) should have no wire form", e.Message)
		}
	}
}
