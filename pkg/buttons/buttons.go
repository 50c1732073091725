package buttons

import (
	"errors"
	"log/slog"

	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

var (
	// ErrInvalidIndex is returned for a button index outside the layout
	ErrInvalidIndex = errors.New("button index out of range")
	// ErrInvalidEntry is returned for a sax fingering row outside the table
	ErrInvalidEntry = errors.New("fingering entry out of range")
	// ErrWriteFailed is returned when the store refuses a write
	ErrWriteFailed = errors.New("database write failed")
)

// Database is the settings store the engine reads its configuration from
type Database interface {
	Read(section database.Section, index int) (uint16, bool)
	Update(section database.Section, index int, value uint16) bool
}

// Dispatcher is the event bus outbound events are published on
type Dispatcher interface {
	Listen(eventType messaging.EventType, handler messaging.Handler)
	Notify(eventType messaging.EventType, event messaging.Event) bool
}

// Program holds per-channel programs and the program offset.
// Mutators return false when the value did not change.
type Program interface {
	Program(channel uint8) uint8
	IncrementProgram(channel uint8, step uint8) bool
	DecrementProgram(channel uint8, step uint8) bool
	Offset() uint8
	IncrementOffset(step uint16) bool
	DecrementOffset(step uint16) bool
}

// Tempo holds the device BPM. Mutators return false at the limits.
type Tempo interface {
	Value() int
	Increment(step int) bool
	Decrement(step int) bool
}

// Hardware provides batched digital input samples
type Hardware interface {
	// State returns the number of buffered readings for a digital input and
	// the readings themselves, the oldest one in the highest used bit
	State(index int) (readings uint8, states uint16, ok bool)
	// ButtonToEncoderIndex returns the encoder sharing the input pin
	ButtonToEncoderIndex(index int) int
}

// Filter debounces raw readings
type Filter interface {
	// IsFiltered reports whether the reading is stable and should be processed
	IsFiltered(index int, state bool) bool
}

// Group is a range of button indexes fed by one kind of input
type Group uint8

const (
	GroupDigital Group = iota
	GroupAnalog
	GroupTouchscreen
)

// Layout sets how many buttons each group provides. Digital buttons come
// first, followed by analog and touchscreen buttons.
type Layout struct {
	Digital     int
	Analog      int
	Touchscreen int
}

// Total returns the number of buttons across all groups
func (l Layout) Total() int {
	return l.Digital + l.Analog + l.Touchscreen
}

// Start returns the first button index of a group
func (l Layout) Start(group Group) int {
	switch group {
	case GroupAnalog:
		return l.Digital
	case GroupTouchscreen:
		return l.Digital + l.Analog
	default:
		return 0
	}
}

// Size returns the number of buttons in a group
func (l Layout) Size(group Group) int {
	switch group {
	case GroupAnalog:
		return l.Analog
	case GroupTouchscreen:
		return l.Touchscreen
	default:
		return l.Digital
	}
}

// Config holds construction options for the engine
type Config struct {
	Layout              Layout
	SaxRegister         bool // enables the sax register capability
	SaxFingeringEntries int  // rows in the fingering table, DefaultSaxFingeringEntries if zero
	Hardware            Hardware
	Filter              Filter
	Logger              *slog.Logger
}

// Buttons is the button transition and message engine.
// It is not safe for concurrent use.
type Buttons struct {
	cfg        Config
	db         Database
	dispatcher Dispatcher
	program    Program
	tempo      Tempo
	logger     *slog.Logger

	state  *runtimeState
	legato legatoState
	sax    saxState
}

// New creates the engine and subscribes it to analog, touchscreen and
// system events on the dispatcher
func New(cfg Config, db Database, dispatcher Dispatcher, program Program, tempo Tempo) *Buttons {
	if cfg.SaxFingeringEntries <= 0 {
		cfg.SaxFingeringEntries = DefaultSaxFingeringEntries
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	b := &Buttons{
		cfg:        cfg,
		db:         db,
		dispatcher: dispatcher,
		program:    program,
		tempo:      tempo,
		logger:     cfg.Logger,
		state:      newRuntimeState(cfg.Layout.Total()),
	}

	dispatcher.Listen(messaging.EventAnalogButton, func(event messaging.Event) {
		b.handleGroupEvent(GroupAnalog, event)
	})
	dispatcher.Listen(messaging.EventTouchscreenButton, func(event messaging.Event) {
		b.handleGroupEvent(GroupTouchscreen, event)
	})
	dispatcher.Listen(messaging.EventSystem, b.handleSystem)

	return b
}

// Init clears all runtime state
func (b *Buttons) Init() {
	b.state.resetAll()
	b.legato.reset()
	b.sax = saxState{}
}

// Layout returns the button layout
func (b *Buttons) Layout() Layout {
	return b.cfg.Layout
}

// ProcessReading feeds one reading for a button and emits whatever the
// transition produces
func (b *Buttons) ProcessReading(index int, reading bool) error {
	if !b.valid(index) {
		return ErrInvalidIndex
	}

	d := b.fillDescriptor(index)
	b.processButton(index, reading, &d)
	return nil
}

// UpdateAll runs an update pass over every digital button. With
// forceRefresh the current states are resent instead of reading hardware.
func (b *Buttons) UpdateAll(forceRefresh bool) {
	if forceRefresh && b.saxActive() {
		b.resendSax()
	}

	for i := 0; i < b.cfg.Layout.Digital; i++ {
		b.updateSingle(i, forceRefresh)
	}
}

// UpdateSingle runs an update pass for one digital button
func (b *Buttons) UpdateSingle(index int, forceRefresh bool) error {
	if index < 0 || index >= b.cfg.Layout.Digital {
		return ErrInvalidIndex
	}

	if forceRefresh && b.saxActive() {
		b.resendSax()
		return nil
	}

	b.updateSingle(index, forceRefresh)
	return nil
}

func (b *Buttons) updateSingle(index int, forceRefresh bool) {
	if forceRefresh {
		if b.saxActive() {
			return
		}
		d := b.fillDescriptor(index)
		b.resend(index, &d)
		return
	}

	readings, states, ok := b.hardwareState(index)
	if !ok {
		return
	}

	for reading := uint8(0); reading < readings; reading++ {
		processIndex := readings - 1 - reading
		state := (states>>processIndex)&0x01 != 0

		if b.cfg.Filter != nil && !b.cfg.Filter.IsFiltered(index, state) {
			continue
		}

		d := b.fillDescriptor(index)
		b.processButton(index, state, &d)
	}
}

func (b *Buttons) hardwareState(index int) (uint8, uint16, bool) {
	if b.cfg.Hardware == nil {
		return 0, 0, false
	}

	// An input paired with an enabled encoder is read by the encoder
	if enabled, _ := b.db.Read(database.EncoderEnable, b.cfg.Hardware.ButtonToEncoderIndex(index)); enabled != 0 {
		return 0, 0, false
	}

	readings, states, ok := b.cfg.Hardware.State(index)
	if readings > 16 {
		readings = 16
	}
	return readings, states, ok
}

// State returns the last reading stored for a button
func (b *Buttons) State(index int) bool {
	if !b.valid(index) {
		return false
	}
	return b.state.pressed.get(index)
}

// LatchingState returns the toggled state of a latching button
func (b *Buttons) LatchingState(index int) bool {
	if !b.valid(index) {
		return false
	}
	return b.state.latching.get(index)
}

// Accumulator returns the multi-value accumulator of a button
func (b *Buttons) Accumulator(index int) uint8 {
	if !b.valid(index) {
		return 0
	}
	return b.state.accumulator[index]
}

// Reset clears the runtime state of a single button
func (b *Buttons) Reset(index int) {
	if !b.valid(index) {
		return
	}
	b.state.reset(index)
}

func (b *Buttons) processButton(index int, reading bool, d *Descriptor) {
	if b.state.pressed.get(index) == reading {
		return
	}

	b.state.pressed.set(index, reading)

	if index < b.cfg.Layout.Digital && b.saxActive() {
		b.processSaxRegister()
		return
	}

	if d.MessageType == MessageNone {
		return
	}

	if d.Type == TypeLatching && d.MessageType != MessageNoteLegato {
		if !reading {
			return
		}

		latched := !b.state.latching.get(index)
		b.state.latching.set(index, latched)
		reading = latched
	}

	b.sendMessage(index, reading, d)
}

// resend emits the current state of a button without edge detection
func (b *Buttons) resend(index int, d *Descriptor) {
	state := b.state.pressed.get(index)
	if d.Type == TypeLatching && d.MessageType != MessageNoteLegato {
		state = b.state.latching.get(index)
	}

	d.Event.ForcedRefresh = true
	b.sendMessage(index, state, d)
}

func (b *Buttons) handleGroupEvent(group Group, event messaging.Event) {
	if event.ComponentIndex < 0 || event.ComponentIndex >= b.cfg.Layout.Size(group) {
		b.logger.Debug("buttons: component out of range", "group", group, "component", event.ComponentIndex)
		return
	}

	index := b.cfg.Layout.Start(group) + event.ComponentIndex
	d := b.fillDescriptor(index)

	if event.ForcedRefresh {
		b.resend(index, &d)
		return
	}

	b.processButton(index, event.Value != 0, &d)
}

func (b *Buttons) handleSystem(event messaging.Event) {
	if event.SystemMessage == messaging.SystemForceIORefresh {
		b.UpdateAll(true)
	}
}

func (b *Buttons) notify(eventType messaging.EventType, event messaging.Event) {
	b.logger.Debug("buttons: emit",
		"type", eventType.String(),
		"message", event.Message.String(),
		"component", event.ComponentIndex,
		"ch", event.Channel,
		"index", event.Index,
		"value", event.Value)

	b.dispatcher.Notify(eventType, event)
}

func (b *Buttons) valid(index int) bool {
	return index >= 0 && index < b.cfg.Layout.Total()
}
