// Package sysexconf encodes and decodes OpenDeck SysExConf configuration
// frames.
package sysexconf

import (
	"errors"
	"fmt"

	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
)

// Frame constants
const (
	SysExStart = 0xF0
	SysExEnd   = 0xF7

	ManufacturerID0 = 0x00 // OpenDeck manufacturer ID (part 1)
	ManufacturerID1 = 0x53 // OpenDeck manufacturer ID (part 2)
	ManufacturerID2 = 0x43 // OpenDeck manufacturer ID (part 3)

	AmountSingle = 0x00 // One value per request

	specialLength = 8  // F0 ID(3) status part wish F7
	singleLength  = 15 // F0 ID(3) status part wish amount block section index(2) value(2) F7
)

// Status is the status byte of a frame. Requests carry StatusRequest,
// responses one of the remaining codes.
type Status uint8

const (
	StatusRequest         Status = 0x00
	StatusAck             Status = 0x01
	StatusErrorConnection Status = 0x03
	StatusErrorWish       Status = 0x04
	StatusErrorAmount     Status = 0x05
	StatusErrorBlock      Status = 0x06
	StatusErrorSection    Status = 0x07
	StatusErrorIndex      Status = 0x09
	StatusErrorWrite      Status = 0x0C
	StatusErrorRead       Status = 0x0E
)

// FromConfig maps a configuration surface status onto the wire status
func FromConfig(s sysconfig.Status) Status {
	switch s {
	case sysconfig.StatusAck:
		return StatusAck
	case sysconfig.StatusErrorRead:
		return StatusErrorRead
	default:
		return StatusErrorWrite
	}
}

// Wish selects the operation of a request. Special frames reuse the wish
// byte for the special request code.
type Wish uint8

const (
	WishGet Wish = 0x00
	WishSet Wish = 0x01

	SpecialConnClose Wish = 0x00
	SpecialConnOpen  Wish = 0x01
)

var (
	ErrFrame        = errors.New("not a SysExConf frame")
	ErrFrameLength  = errors.New("unexpected SysExConf frame length")
	ErrValueRange   = errors.New("value out of range")
	ErrChannelRange = errors.New("channel must be 1-16")
)

// Message is a decoded SysExConf frame
type Message struct {
	Special bool // connection open/close frame
	Status  Status
	Part    uint8
	Wish    Wish
	Amount  uint8
	Block   sysconfig.Block
	Section uint8
	Index   uint16
	Value   uint16
}

// Split14 splits a 14-bit value into two 7-bit bytes the way the firmware
// expects them
func Split14(value uint16) (high, low byte) {
	value &= 0x3FFF

	h := byte(value>>8) & 0xFF
	l := byte(value & 0xFF)

	h = (h << 1) & 0x7F
	h |= (l >> 7) & 0x01
	l &= 0x7F

	return h, l
}

// Merge14 is the inverse of Split14
func Merge14(high, low byte) uint16 {
	return uint16(high&0x7F)<<7 | uint16(low&0x7F)
}

// Encode serializes the message into a frame
func (m Message) Encode() []byte {
	frame := []byte{SysExStart, ManufacturerID0, ManufacturerID1, ManufacturerID2, byte(m.Status), m.Part, byte(m.Wish)}

	if m.Special {
		return append(frame, SysExEnd)
	}

	idxH, idxL := Split14(m.Index)
	valH, valL := Split14(m.Value)

	return append(frame, m.Amount, byte(m.Block), m.Section, idxH, idxL, valH, valL, SysExEnd)
}

// Decode parses a frame produced by Encode
func Decode(frame []byte) (Message, error) {
	if len(frame) < specialLength ||
		frame[0] != SysExStart || frame[len(frame)-1] != SysExEnd ||
		frame[1] != ManufacturerID0 || frame[2] != ManufacturerID1 || frame[3] != ManufacturerID2 {
		return Message{}, ErrFrame
	}

	m := Message{
		Status: Status(frame[4]),
		Part:   frame[5],
		Wish:   Wish(frame[6]),
	}

	switch len(frame) {
	case specialLength:
		m.Special = true
		return m, nil
	case singleLength:
		m.Amount = frame[7]
		m.Block = sysconfig.Block(frame[8])
		m.Section = frame[9]
		m.Index = Merge14(frame[10], frame[11])
		m.Value = Merge14(frame[12], frame[13])
		return m, nil
	default:
		return Message{}, fmt.Errorf("%w: %d bytes", ErrFrameLength, len(frame))
	}
}

// ConnectionOpen returns the frame enabling configuration
func ConnectionOpen() []byte {
	return Message{Special: true, Wish: SpecialConnOpen}.Encode()
}

// ConnectionClose returns the frame ending configuration
func ConnectionClose() []byte {
	return Message{Special: true, Wish: SpecialConnClose}.Encode()
}

// SetSingle returns a request writing one value
func SetSingle(block sysconfig.Block, section uint8, index, value uint16) []byte {
	return Message{
		Wish:    WishSet,
		Amount:  AmountSingle,
		Block:   block,
		Section: section,
		Index:   index,
		Value:   value,
	}.Encode()
}

// GetSingle returns a request reading one value
func GetSingle(block sysconfig.Block, section uint8, index uint16) []byte {
	return Message{
		Wish:    WishGet,
		Amount:  AmountSingle,
		Block:   block,
		Section: section,
		Index:   index,
	}.Encode()
}
