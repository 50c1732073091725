// Package device hosts the button engine together with its settings store,
// program and tempo holders, and fans emitted events out to sinks.
package device

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dolsoidduk/OpenDeck/pkg/bpm"
	"github.com/dolsoidduk/OpenDeck/pkg/buttons"
	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
	"github.com/dolsoidduk/OpenDeck/pkg/program"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

// ErrInvalidPreset is returned when switching to a preset that does not exist
var ErrInvalidPreset = errors.New("preset out of range")

const defaultHistorySize = 256

// Options configures a Device
type Options struct {
	Layout              buttons.Layout
	Encoders            int
	Presets             int
	SaxRegister         bool
	SaxFingeringEntries int
	HistorySize         int
	Hardware            buttons.Hardware
	Filter              buttons.Filter
	Logger              *slog.Logger
}

// DefaultOptions returns a 16 digital / 8 analog / 8 touchscreen layout
// with sax register support
func DefaultOptions() Options {
	return Options{
		Layout:              buttons.Layout{Digital: 16, Analog: 8, Touchscreen: 8},
		Encoders:            8,
		Presets:             4,
		SaxRegister:         true,
		SaxFingeringEntries: buttons.DefaultSaxFingeringEntries,
		HistorySize:         defaultHistorySize,
	}
}

// Entry is one event observed on the bus
type Entry struct {
	ID        string          `json:"id"`
	Time      time.Time       `json:"time"`
	Type      string          `json:"type"`
	Message   string          `json:"message,omitempty"`
	System    string          `json:"system,omitempty"`
	Component int             `json:"component"`
	Channel   uint8           `json:"channel"`
	Index     uint16          `json:"index"`
	Value     uint16          `json:"value"`
	SysEx     string          `json:"sysex,omitempty"`
	Forced    bool            `json:"forced,omitempty"`
	Event     messaging.Event `json:"-"`
}

// Sink receives every entry as it is recorded. Sinks run with the device
// lock held and must not call back into the Device.
type Sink func(entry Entry)

// ButtonStatus describes a button for display
type ButtonStatus struct {
	Index    int    `json:"index"`
	Group    string `json:"group"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Channel  uint8  `json:"channel"`
	ID       uint16 `json:"id"`
	Pressed  bool   `json:"pressed"`
	Latched  bool   `json:"latched"`
	Position uint8  `json:"position"`
}

// Device serializes access to the engine
type Device struct {
	mu         sync.Mutex
	opts       Options
	logger     *slog.Logger
	db         *database.Memory
	dispatcher *messaging.Dispatcher
	program    *program.Program
	tempo      *bpm.Bpm
	buttons    *buttons.Buttons

	history        []Entry
	sinks          []Sink
	refreshPending bool
	sysexOpen      bool
	now            func() time.Time
}

// New wires a device from options
func New(opts Options) *Device {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = defaultHistorySize
	}
	if opts.SaxFingeringEntries <= 0 {
		opts.SaxFingeringEntries = buttons.DefaultSaxFingeringEntries
	}

	d := &Device{
		opts:   opts,
		logger: opts.Logger,
		db: database.NewMemory(database.Layout{
			Buttons:             opts.Layout.Total(),
			Encoders:            opts.Encoders,
			SaxFingeringEntries: opts.SaxFingeringEntries,
		}, opts.Presets, opts.Logger),
		dispatcher: messaging.NewDispatcher(),
		program:    program.New(),
		tempo:      bpm.New(),
		now:        time.Now,
	}

	d.dispatcher.Listen(messaging.EventButton, func(e messaging.Event) {
		d.record(messaging.EventButton, e)
	})
	d.dispatcher.Listen(messaging.EventSystem, d.handleSystem)

	d.buttons = buttons.New(buttons.Config{
		Layout:              opts.Layout,
		SaxRegister:         opts.SaxRegister,
		SaxFingeringEntries: opts.SaxFingeringEntries,
		Hardware:            opts.Hardware,
		Filter:              opts.Filter,
		Logger:              opts.Logger,
	}, d.db, d.dispatcher, d.program, d.tempo)
	d.buttons.Init()

	return d
}

// Layout returns the button layout
func (d *Device) Layout() buttons.Layout {
	return d.opts.Layout
}

// Subscribe adds a sink for recorded entries
func (d *Device) Subscribe(sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

// Press feeds a pressed reading for a button
func (d *Device) Press(index int) error {
	return d.SetReading(index, true)
}

// Release feeds a released reading for a button
func (d *Device) Release(index int) error {
	return d.SetReading(index, false)
}

// SetReading feeds a reading for any button index
func (d *Device) SetReading(index int, state bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.flush()

	return d.buttons.ProcessReading(index, state)
}

// AnalogButton publishes an analog-as-button event for a component
func (d *Device) AnalogButton(component int, state bool) error {
	return d.groupEvent(buttons.GroupAnalog, messaging.EventAnalogButton, component, state)
}

// TouchscreenButton publishes a touchscreen button event for a component
func (d *Device) TouchscreenButton(component int, state bool) error {
	return d.groupEvent(buttons.GroupTouchscreen, messaging.EventTouchscreenButton, component, state)
}

func (d *Device) groupEvent(group buttons.Group, eventType messaging.EventType, component int, state bool) error {
	if component < 0 || component >= d.opts.Layout.Size(group) {
		return buttons.ErrInvalidIndex
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.flush()

	var value uint16
	if state {
		value = 1
	}

	d.dispatcher.Notify(eventType, messaging.Event{ComponentIndex: component, Value: value})
	return nil
}

// Update runs a hardware update pass over the digital buttons
func (d *Device) Update() {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.flush()

	d.buttons.UpdateAll(false)
}

// Refresh resends the state of every button
func (d *Device) Refresh() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.refreshPending = true
	d.flush()
}

// ConfigGet reads a button configuration value
func (d *Device) ConfigGet(section sysconfig.Section, index int) (uint16, sysconfig.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buttons.ConfigGet(section, index)
}

// ConfigSet writes a button configuration value
func (d *Device) ConfigSet(section sysconfig.Section, index int, value uint16) sysconfig.Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := d.buttons.ConfigSet(section, index, value)
	d.logger.Debug("device: config set", "section", section.String(), "index", index, "value", value, "status", status.String())
	return status
}

// SystemSetting reads a global setting from the active preset
func (d *Device) SystemSetting(section database.Section, index int) (uint16, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.db.Read(section, index)
}

// SetSystemSetting writes a global setting into the active preset
func (d *Device) SetSystemSetting(section database.Section, index int, value uint16) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.db.Update(section, index, value)
}

// CaptureSax stores the held fingering into a sax table row
func (d *Device) CaptureSax(entry int, note uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buttons.CaptureSaxFingering(entry, note)
}

// Preset returns the active preset
func (d *Device) Preset() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.db.Preset()
}

// SetPreset switches the active preset and resends every button
func (d *Device) SetPreset(preset int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.flush()

	if !d.db.SetPreset(preset) {
		return fmt.Errorf("preset %d: %w", preset, ErrInvalidPreset)
	}

	d.refreshPending = true
	return nil
}

// Tempo returns the current BPM
func (d *Device) Tempo() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.tempo.Value()
}

// Program returns the current program of a 0-based channel
func (d *Device) Program(channel uint8) uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.program.Program(channel)
}

// Buttons returns the status of every button
func (d *Device) Buttons() []ButtonStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	layout := d.opts.Layout
	status := make([]ButtonStatus, 0, layout.Total())

	for i := 0; i < layout.Total(); i++ {
		desc, err := d.buttons.Describe(i)
		if err != nil {
			continue
		}

		status = append(status, ButtonStatus{
			Index:    i,
			Group:    groupName(layout, i),
			Type:     desc.Type.String(),
			Message:  desc.MessageType.String(),
			Channel:  desc.Event.Channel + 1,
			ID:       desc.Event.Index,
			Pressed:  d.buttons.State(i),
			Latched:  d.buttons.LatchingState(i),
			Position: d.buttons.Accumulator(i),
		})
	}

	return status
}

// Events returns recorded entries newer than the entry with ID after, or all
// of them if after is empty or unknown. limit <= 0 returns everything.
func (d *Device) Events(after string, limit int) []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := 0
	if after != "" {
		for i, e := range d.history {
			if e.ID == after {
				start = i + 1
				break
			}
		}
	}

	entries := d.history[start:]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return append([]Entry(nil), entries...)
}

func (d *Device) handleSystem(e messaging.Event) {
	d.record(messaging.EventSystem, e)

	if e.SystemMessage != messaging.SystemPresetChangeDirectReq {
		return
	}

	if !d.db.SetPreset(int(e.Index)) {
		d.logger.Warn("device: preset change rejected", "preset", e.Index)
		return
	}

	d.refreshPending = true
}

// flush runs deferred refreshes outside of the engine call that asked for
// them. Must be called with the lock held.
func (d *Device) flush() {
	for d.refreshPending {
		d.refreshPending = false
		d.dispatcher.Notify(messaging.EventSystem, messaging.Event{SystemMessage: messaging.SystemForceIORefresh})
	}
}

func (d *Device) record(eventType messaging.EventType, e messaging.Event) {
	entry := Entry{
		ID:        uuid.NewString(),
		Time:      d.now(),
		Type:      eventType.String(),
		Component: e.ComponentIndex,
		Channel:   e.Channel,
		Index:     e.Index,
		Value:     e.Value,
		Forced:    e.ForcedRefresh,
		Event:     e,
	}

	if eventType == messaging.EventSystem {
		entry.System = e.SystemMessage.String()
	} else {
		entry.Message = e.Message.String()
	}

	if len(e.SysEx) > 0 {
		entry.SysEx = fmt.Sprintf("% X", e.SysEx)
	}

	d.history = append(d.history, entry)
	if over := len(d.history) - d.opts.HistorySize; over > 0 {
		d.history = append(d.history[:0:0], d.history[over:]...)
	}

	for _, sink := range d.sinks {
		sink(entry)
	}
}

func groupName(layout buttons.Layout, index int) string {
	switch {
	case index < layout.Start(buttons.GroupAnalog):
		return "digital"
	case index < layout.Start(buttons.GroupTouchscreen):
		return "analog"
	default:
		return "touchscreen"
	}
}
