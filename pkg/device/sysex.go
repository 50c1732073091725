package device

import (
	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
	"github.com/dolsoidduk/OpenDeck/pkg/sysexconf"
)

// Global block sections
const (
	globalSectionSystem = iota
	globalSectionMIDI
	globalSectionAmount
)

var globalSections = [globalSectionAmount]database.Section{
	globalSectionSystem: database.SystemSettings,
	globalSectionMIDI:   database.MIDISettings,
}

// HandleSysExConf applies a SysExConf request and returns the response
// frame. Malformed frames return an error and no response.
func (d *Device) HandleSysExConf(frame []byte) ([]byte, error) {
	req, err := sysexconf.Decode(frame)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	resp := req
	resp.Status = d.applySysExConf(&resp)

	d.logger.Debug("device: sysexconf",
		"special", req.Special,
		"wish", req.Wish,
		"block", req.Block,
		"section", req.Section,
		"index", req.Index,
		"status", resp.Status)

	return resp.Encode(), nil
}

func (d *Device) applySysExConf(m *sysexconf.Message) sysexconf.Status {
	if m.Status != sysexconf.StatusRequest {
		return sysexconf.StatusErrorConnection
	}

	if m.Special {
		switch m.Wish {
		case sysexconf.SpecialConnOpen:
			d.sysexOpen = true
		case sysexconf.SpecialConnClose:
			d.sysexOpen = false
		default:
			return sysexconf.StatusErrorWish
		}
		return sysexconf.StatusAck
	}

	switch {
	case !d.sysexOpen:
		return sysexconf.StatusErrorConnection
	case m.Wish != sysexconf.WishGet && m.Wish != sysexconf.WishSet:
		return sysexconf.StatusErrorWish
	case m.Amount != sysexconf.AmountSingle:
		return sysexconf.StatusErrorAmount
	}

	switch m.Block {
	case sysconfig.BlockButtons:
		section := sysconfig.Section(m.Section)
		if section >= sysconfig.SectionAmount {
			return sysexconf.StatusErrorSection
		}

		if m.Wish == sysexconf.WishSet {
			return sysexconf.FromConfig(d.buttons.ConfigSet(section, int(m.Index), m.Value))
		}

		value, status := d.buttons.ConfigGet(section, int(m.Index))
		m.Value = value
		return sysexconf.FromConfig(status)

	case sysconfig.BlockGlobal:
		if int(m.Section) >= len(globalSections) {
			return sysexconf.StatusErrorSection
		}
		section := globalSections[m.Section]

		if m.Wish == sysexconf.WishSet {
			if !d.db.Update(section, int(m.Index), m.Value) {
				return sysexconf.StatusErrorWrite
			}
			return sysexconf.StatusAck
		}

		value, ok := d.db.Read(section, int(m.Index))
		if !ok {
			return sysexconf.StatusErrorRead
		}
		m.Value = value
		return sysexconf.StatusAck

	default:
		return sysexconf.StatusErrorBlock
	}
}
