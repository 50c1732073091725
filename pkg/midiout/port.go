package midiout

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// Port is an open MIDI output port
type Port struct {
	mu     sync.Mutex
	drv    *rtmididrv.Driver
	out    drivers.Out
	logger *slog.Logger
}

// ListPorts returns the names of the available output ports
func ListPorts() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()

	outs, err := drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}

	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}

// OpenPort opens the first output port whose name contains name
// (case-insensitive)
func OpenPort(name string, logger *slog.Logger) (*Port, error) {
	if logger == nil {
		logger = slog.Default()
	}

	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list outputs: %w", err)
	}

	var found drivers.Out
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(name)) {
			found = out
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("output %q not found", name)
	}

	if err := found.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open %q: %w", name, err)
	}

	logger.Info("midi: output connected", "port", found.String())
	return &Port{drv: drv, out: found, logger: logger}, nil
}

// Send writes an event to the port. Events without a wire form are skipped.
func (p *Port) Send(e messaging.Event) error {
	msg, ok := Message(e)
	if !ok {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.out == nil {
		return errors.New("port closed")
	}

	if err := p.out.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.String(), err)
	}

	p.logger.Debug("midi: sent", "msg", msg.String())
	return nil
}

// Close closes the port and the driver
func (p *Port) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.out != nil {
		_ = p.out.Close()
		p.out = nil
	}
	p.drv.Close()
}
