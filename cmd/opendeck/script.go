package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dolsoidduk/OpenDeck/pkg/device"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

// Script is a recorded performance replayed against a device
type Script struct {
	BPM   float64 `yaml:"bpm"`
	Steps []Step  `yaml:"steps"`
}

// Step is one action of a script. Wait advances the virtual clock before
// the action runs. A step may carry only a wait.
type Step struct {
	Wait        string         `yaml:"wait"`
	Press       *int           `yaml:"press"`
	Release     *int           `yaml:"release"`
	Analog      *ComponentStep `yaml:"analog"`
	Touchscreen *ComponentStep `yaml:"touchscreen"`
	Refresh     bool           `yaml:"refresh"`
	Preset      *int           `yaml:"preset"`
	Config      *ConfigStep    `yaml:"config"`
	Capture     *CaptureStep   `yaml:"capture"`
	SysEx       []int          `yaml:"sysex"`
}

// ComponentStep drives an analog or touchscreen component
type ComponentStep struct {
	Component int  `yaml:"component"`
	Pressed   bool `yaml:"pressed"`
}

// ConfigStep writes a button configuration value
type ConfigStep struct {
	Section string `yaml:"section"`
	Index   int    `yaml:"index"`
	Value   int    `yaml:"value"`
}

// CaptureStep stores the held fingering into a sax table row
type CaptureStep struct {
	Entry int `yaml:"entry"`
	Note  int `yaml:"note"`
}

var errScript = errors.New("invalid script")

func loadScript(filename string) (*Script, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return parseScript(f)
}

func parseScript(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	if s.BPM == 0 {
		s.BPM = 120
	}
	return &s, nil
}

// runScript replays the steps and calls onStep with the virtual position
// before each one, so sinks can stamp the events it produces
func runScript(dev *device.Device, s *Script, onStep func(at time.Duration)) error {
	var at time.Duration

	for i, step := range s.Steps {
		if step.Wait != "" {
			wait, err := time.ParseDuration(step.Wait)
			if err != nil || wait < 0 {
				return fmt.Errorf("step %d: %w: wait %q", i, errScript, step.Wait)
			}
			at += wait
		}

		if onStep != nil {
			onStep(at)
		}

		if err := runStep(dev, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	return nil
}

func runStep(dev *device.Device, step Step) error {
	if step.Press != nil {
		if err := dev.Press(*step.Press); err != nil {
			return err
		}
	}
	if step.Release != nil {
		if err := dev.Release(*step.Release); err != nil {
			return err
		}
	}
	if step.Analog != nil {
		if err := dev.AnalogButton(step.Analog.Component, step.Analog.Pressed); err != nil {
			return err
		}
	}
	if step.Touchscreen != nil {
		if err := dev.TouchscreenButton(step.Touchscreen.Component, step.Touchscreen.Pressed); err != nil {
			return err
		}
	}
	if step.Preset != nil {
		if err := dev.SetPreset(*step.Preset); err != nil {
			return err
		}
	}
	if step.Config != nil {
		section, ok := sysconfig.ParseSection(step.Config.Section)
		if !ok {
			return fmt.Errorf("%w: unknown section %q", errScript, step.Config.Section)
		}
		if step.Config.Value < 0 || step.Config.Value > 0xFFFF {
			return fmt.Errorf("%w: value %d", errScript, step.Config.Value)
		}
		if status := dev.ConfigSet(section, step.Config.Index, uint16(step.Config.Value)); status != sysconfig.StatusAck {
			return fmt.Errorf("config %s[%d]: %s", section, step.Config.Index, status)
		}
	}
	if step.Capture != nil {
		if step.Capture.Note < 0 || step.Capture.Note > 0xFFFF {
			return fmt.Errorf("%w: note %d", errScript, step.Capture.Note)
		}
		if err := dev.CaptureSax(step.Capture.Entry, uint16(step.Capture.Note)); err != nil {
			return err
		}
	}
	if len(step.SysEx) > 0 {
		frame := make([]byte, len(step.SysEx))
		for i, b := range step.SysEx {
			if b < 0 || b > 0xFF {
				return fmt.Errorf("%w: sysex byte %d", errScript, b)
			}
			frame[i] = byte(b)
		}
		if _, err := dev.HandleSysExConf(frame); err != nil {
			return err
		}
	}
	if step.Refresh {
		dev.Refresh()
	}

	return nil
}

func formatEntry(e device.Entry) string {
	if e.System != "" {
		return fmt.Sprintf("%-8s %-24s index=%d", e.Type, e.System, e.Index)
	}

	line := fmt.Sprintf("%-8s %-16s ch=%-2d index=%-3d value=%-3d", e.Type, e.Message, e.Channel+1, e.Index, e.Value)
	if e.SysEx != "" {
		line += " sysex=" + e.SysEx
	}
	if e.Forced {
		line += " refresh"
	}
	return line
}
