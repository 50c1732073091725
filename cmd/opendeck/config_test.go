package main

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dolsoidduk/OpenDeck/pkg/device"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

func TestSetConfigValuePersists(t *testing.T) {
	name := filepath.Join(t.TempDir(), "presets.yaml")
	logger := slog.New(slog.DiscardHandler)

	file, err := device.ReadPresetFile(name)
	if err != nil {
		t.Fatalf("ReadPresetFile() error = %v", err)
	}

	configPreset = 1
	defer func() { configPreset = 0 }()

	if err := setConfigValue(file, logger, sysconfig.SectionChannel, 3, 10); err != nil {
		t.Fatalf("setConfigValue() error = %v", err)
	}
	if err := file.WriteFile(name); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	configFile = name
	defer func() { configFile = "" }()

	dev, err := newDevice(logger)
	if err != nil {
		t.Fatalf("newDevice() error = %v", err)
	}
	if err := dev.SetPreset(1); err != nil {
		t.Fatalf("SetPreset() error = %v", err)
	}

	got, status := dev.ConfigGet(sysconfig.SectionChannel, 3)
	if status != sysconfig.StatusAck || got != 10 {
		t.Errorf("ConfigGet(channel, 3) = %d %s, want 10 ACK", got, status)
	}
}

func TestSetConfigValueRejected(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name    string
		section sysconfig.Section
		index   int
		value   int
		want    error
	}{
		{"button out of range", sysconfig.SectionValue, 500, 1, device.ErrPresetFile},
		{"value above 14 bits", sysconfig.SectionValue, 0, 0x4000, device.ErrPresetFile},
		{"bad message type", sysconfig.SectionMessageType, 0, 99, device.ErrPresetFile},
		{"sysex section", sysconfig.SectionSysExLength, 0, 2, device.ErrPresetSection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setConfigValue(&device.PresetFile{}, logger, tt.section, tt.index, tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("setConfigValue() error = %v, want %v", err, tt.want)
			}
		})
	}
}
