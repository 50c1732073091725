package midiout

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// Recorder collects emitted events into a single-track Standard MIDI File
type Recorder struct {
	mu              sync.Mutex
	ticksPerQuarter uint16
	bpm             float64
	track           smf.Track
	ticks           uint32 // absolute position of the newest event
	written         uint32 // absolute position already covered by track deltas
	elapsed         time.Duration
	start           time.Time
	now             func() time.Time
	events          int
}

// NewRecorder creates a recorder at the given tempo
func NewRecorder(bpm float64) *Recorder {
	if bpm <= 0 {
		bpm = 120.0
	}

	r := &Recorder{
		ticksPerQuarter: 480,
		bpm:             bpm,
		now:             time.Now,
	}
	r.start = r.now()

	r.track.Add(0, tempoMessage(bpm))
	r.track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	return r
}

// Record adds an event stamped with the time since the recorder was created
func (r *Recorder) Record(e messaging.Event) bool {
	return r.RecordAt(r.now().Sub(r.start), e)
}

// RecordAt adds an event at a position relative to the start of the
// recording. Positions earlier than the previous event are clamped to it.
// BPM events become tempo changes, events without a wire form are skipped.
func (r *Recorder) RecordAt(at time.Duration, e messaging.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msg smf.Message
	if e.Message == messaging.MessageBPM {
		if e.Index == 0 {
			return false
		}
		msg = tempoMessage(float64(e.Index))
	} else {
		wire, ok := Message(e)
		if !ok {
			return false
		}
		msg = smf.Message(wire)
	}

	// Ticks accumulate per segment so tempo changes only affect later events
	if at > r.elapsed {
		r.ticks += r.durationTicks(at - r.elapsed)
		r.elapsed = at
	}

	r.track.Add(r.ticks-r.written, msg)
	r.written = r.ticks
	r.events++

	if e.Message == messaging.MessageBPM {
		r.bpm = float64(e.Index)
	}

	return true
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events
}

// WriteTo writes the recording as an SMF
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	track := append(smf.Track(nil), r.track...)
	r.mu.Unlock()

	track.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(r.ticksPerQuarter)

	if err := s.Add(track); err != nil {
		return 0, fmt.Errorf("failed to add track: %w", err)
	}

	n, err := s.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return n, nil
}

// WriteFile writes the recording to a .mid file
func (r *Recorder) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create MIDI file: %w", err)
	}
	defer f.Close()

	if _, err := r.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}

func (r *Recorder) durationTicks(d time.Duration) uint32 {
	return uint32(d.Seconds() * r.bpm / 60.0 * float64(r.ticksPerQuarter))
}

func tempoMessage(bpm float64) smf.Message {
	microsecondsPerBeat := uint32(60000000.0 / bpm)
	return smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	})
}
