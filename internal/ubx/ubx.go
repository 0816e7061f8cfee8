// Package ubx implements framing and decoding for the u-blox UBX binary
// protocol: a byte-stream scanner that recovers frames from serial noise and
// mixed-protocol input, plus payload decoders for the messages the
// visualizer consumes.
package ubx

import (
	"encoding/binary"
	"fmt"
)

const (
	syncChar1 = 0xB5
	syncChar2 = 0x62

	// headerLen covers sync1 sync2 class id len(2). frameOverhead adds the
	// two trailing checksum bytes.
	headerLen     = 6
	frameOverhead = headerLen + 2

	// maxPayloadLen rejects lengths that cannot be a real message (the
	// largest periodic messages, RXM-RAWX with a full sky, stay under 2k).
	maxPayloadLen = 4096
)

// Message is a single UBX frame, parsed to class/id/payload.
type Message struct {
	Class   byte
	ID      byte
	Payload []byte
}

// Identity returns the canonical protocol-prefixed name for the message,
// e.g. "UBX-NAV-PVT". Unknown class/id pairs get a hex form such as
// "UBX-02-61" so every message has a stable, comparable identity.
func (m *Message) Identity() string {
	if name, ok := msgNames[msgKey(m.Class, m.ID)]; ok {
		return "UBX-" + name
	}
	return fmt.Sprintf("UBX-%02X-%02X", m.Class, m.ID)
}

// Serialize rebuilds the full wire frame, checksum included. For a message
// produced by Reader the output is byte-for-byte identical to the input.
func (m *Message) Serialize() []byte {
	out := make([]byte, frameOverhead+len(m.Payload))
	out[0] = syncChar1
	out[1] = syncChar2
	out[2] = m.Class
	out[3] = m.ID
	binary.LittleEndian.PutUint16(out[4:6], uint16(len(m.Payload)))
	copy(out[headerLen:], m.Payload)
	ckA, ckB := Checksum(out[2 : headerLen+len(m.Payload)])
	out[len(out)-2] = ckA
	out[len(out)-1] = ckB
	return out
}

// Checksum computes the 8-bit Fletcher checksum over class, id, length and
// payload bytes (everything between the sync chars and the checksum).
func Checksum(body []byte) (ckA, ckB byte) {
	for _, b := range body {
		ckA += b
		ckB += ckA
	}
	return ckA, ckB
}

func msgKey(class, id byte) uint16 {
	return uint16(class)<<8 | uint16(id)
}
