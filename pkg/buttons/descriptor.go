package buttons

import (
	"github.com/dolsoidduk/OpenDeck/pkg/database"
	"github.com/dolsoidduk/OpenDeck/pkg/messaging"
)

// Descriptor is the configuration of one button resolved for a transition
type Descriptor struct {
	Type        Type
	MessageType MessageType
	Event       messaging.Event

	target messaging.EventType
}

// Describe resolves the current configuration of a button
func (b *Buttons) Describe(index int) (Descriptor, error) {
	if !b.valid(index) {
		return Descriptor{}, ErrInvalidIndex
	}
	return b.fillDescriptor(index), nil
}

func (b *Buttons) fillDescriptor(index int) Descriptor {
	d := Descriptor{
		Type:        Type(b.read(database.ButtonType, index)),
		MessageType: MessageType(b.read(database.ButtonMessageType, index)),
		target:      messaging.EventButton,
	}

	if d.Type >= TypeAmount {
		d.Type = TypeMomentary
	}

	d.Event = messaging.Event{
		ComponentIndex: index,
		Channel:        channel(b.read(database.ButtonChannel, index)),
		Index:          b.read(database.ButtonMIDIID, index),
		Value:          b.read(database.ButtonValue, index),
	}

	if d.MessageType < MessageTypeAmount {
		d.Event.Message = defaultMessage[d.MessageType]
	}

	return d
}

// read returns a stored value or 0 if the store refuses the read
func (b *Buttons) read(section database.Section, index int) uint16 {
	value, ok := b.db.Read(section, index)
	if !ok {
		return 0
	}
	return value
}

// channel converts a stored 1..16 channel into the 0-based bus channel.
// Anything else falls back to the first channel.
func channel(stored uint16) uint8 {
	if stored < 1 || stored > midiChannels {
		return 0
	}
	return uint8(stored - 1)
}
