package buttons

import (
	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

var configSections = [...]database.Section{
	sysconfig.SectionType:              database.ButtonType,
	sysconfig.SectionMessageType:       database.ButtonMessageType,
	sysconfig.SectionMIDIID:            database.ButtonMIDIID,
	sysconfig.SectionValue:             database.ButtonValue,
	sysconfig.SectionChannel:           database.ButtonChannel,
	sysconfig.SectionSysExLength:       database.ButtonSysExLength,
	sysconfig.SectionSysExData0:        database.ButtonSysExData0,
	sysconfig.SectionSysExData1:        database.ButtonSysExData1,
	sysconfig.SectionSysExData2:        database.ButtonSysExData2,
	sysconfig.SectionSysExData3:        database.ButtonSysExData3,
	sysconfig.SectionSysExData4:        database.ButtonSysExData4,
	sysconfig.SectionSysExData5:        database.ButtonSysExData5,
	sysconfig.SectionSysExData6:        database.ButtonSysExData6,
	sysconfig.SectionSysExData7:        database.ButtonSysExData7,
	sysconfig.SectionSaxRegisterKeyMap: database.ButtonSaxRegisterKeyMap,
}

var _ = [1]struct{}{}[len(configSections)-int(sysconfig.SectionAmount)]

// ConfigGet reads one value of the button configuration block
func (b *Buttons) ConfigGet(section sysconfig.Section, index int) (uint16, sysconfig.Status) {
	if section >= sysconfig.SectionAmount {
		return 0, sysconfig.StatusErrorRead
	}

	value, ok := b.db.Read(configSections[section], index)
	if !ok {
		return 0, sysconfig.StatusErrorRead
	}

	return value, sysconfig.StatusAck
}

// ConfigSet writes one value of the button configuration block. Changing
// the type or message type of a button clears its runtime state.
func (b *Buttons) ConfigSet(section sysconfig.Section, index int, value uint16) sysconfig.Status {
	if section >= sysconfig.SectionAmount {
		return sysconfig.StatusErrorWrite
	}

	if !b.db.Update(configSections[section], index, value) {
		return sysconfig.StatusErrorWrite
	}

	switch section {
	case sysconfig.SectionType, sysconfig.SectionMessageType:
		b.Reset(index)
	}

	return sysconfig.StatusAck
}
