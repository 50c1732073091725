package device

import (
	"testing"

	"github.com/dolsoidduk/OpenDeck/pkg/buttons"
	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
	"github.com/dolsoidduk/OpenDeck/pkg/sysexconf"
)

func exchange(t *testing.T, d *Device, frame []byte) sysexconf.Message {
	t.Helper()

	resp, err := d.HandleSysExConf(frame)
	if err != nil {
		t.Fatalf("HandleSysExConf() error = %v", err)
	}

	m, err := sysexconf.Decode(resp)
	if err != nil {
		t.Fatalf("Decode(response) error = %v", err)
	}
	return m
}

func TestSysExConfRequiresConnection(t *testing.T) {
	d := New(testOptions())

	m := exchange(t, d, sysexconf.SetSingle(sysconfig.BlockButtons, uint8(sysconfig.SectionMIDIID), 0, 5))
	if m.Status != sysexconf.StatusErrorConnection {
		t.Errorf("status = %#x, want connection error", m.Status)
	}
}

func TestSysExConfBankProgramSetup(t *testing.T) {
	d := New(testOptions())

	frames, err := sysexconf.BankProgram{Button: 2, Channel: 3, Program: 12, Bank: 391}.Requests()
	if err != nil {
		t.Fatalf("Requests() error = %v", err)
	}

	for i, frame := range frames {
		if m := exchange(t, d, frame); m.Status != sysexconf.StatusAck {
			t.Fatalf("frame %d status = %#x, want ACK", i, m.Status)
		}
	}

	if got, _ := d.ConfigGet(sysconfig.SectionMessageType, 2); got != uint16(buttons.MessageBankSelectProgramChange) {
		t.Errorf("message type = %d, want bank select", got)
	}

	d.Press(2)
	events := d.Events("", 0)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Value != 3 || events[1].Value != 7 || events[2].Index != 12 || events[2].Channel != 2 {
		t.Errorf("events = %+v", events)
	}
}

func TestSysExConfGetAndErrors(t *testing.T) {
	d := New(testOptions())
	exchange(t, d, sysexconf.ConnectionOpen())

	m := exchange(t, d, sysexconf.GetSingle(sysconfig.BlockButtons, uint8(sysconfig.SectionMIDIID), 3))
	if m.Status != sysexconf.StatusAck || m.Value != 3 {
		t.Errorf("get = %#x/%d, want ACK/3", m.Status, m.Value)
	}

	m = exchange(t, d, sysexconf.GetSingle(sysconfig.BlockGlobal, 1, database.GlobalChannel))
	if m.Status != sysexconf.StatusAck || m.Value != 1 {
		t.Errorf("global get = %#x/%d, want ACK/1", m.Status, m.Value)
	}

	tests := []struct {
		name   string
		frame  []byte
		status sysexconf.Status
	}{
		{"index out of range", sysexconf.GetSingle(sysconfig.BlockButtons, 0, 100), sysexconf.StatusErrorRead},
		{"write out of range", sysexconf.SetSingle(sysconfig.BlockButtons, 0, 100, 1), sysexconf.StatusErrorWrite},
		{"unknown section", sysexconf.GetSingle(sysconfig.BlockButtons, 40, 0), sysexconf.StatusErrorSection},
		{"unknown global section", sysexconf.GetSingle(sysconfig.BlockGlobal, 9, 0), sysexconf.StatusErrorSection},
		{"unknown block", sysexconf.GetSingle(sysconfig.Block(7), 0, 0), sysexconf.StatusErrorBlock},
		{"bad wish", sysexconf.Message{Wish: 5}.Encode(), sysexconf.StatusErrorWish},
		{"bad amount", sysexconf.Message{Wish: sysexconf.WishGet, Amount: 1}.Encode(), sysexconf.StatusErrorAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m := exchange(t, d, tt.frame); m.Status != tt.status {
				t.Errorf("status = %#x, want %#x", m.Status, tt.status)
			}
		})
	}

	exchange(t, d, sysexconf.ConnectionClose())
	if m := exchange(t, d, sysexconf.GetSingle(sysconfig.BlockButtons, 0, 0)); m.Status != sysexconf.StatusErrorConnection {
		t.Errorf("status after close = %#x, want connection error", m.Status)
	}
}

func TestSysExConfMalformed(t *testing.T) {
	d := New(testOptions())

	if _, err := d.HandleSysExConf([]byte{0xF0, 0x41, 0xF7}); err == nil {
		t.Error("HandleSysExConf() accepted a foreign frame")
	}
}
