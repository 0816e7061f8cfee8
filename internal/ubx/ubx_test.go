package ubx

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// navPVTFixtureHex is a real UBX-NAV-PVT frame captured from a cold-started
// receiver (no fix yet, date from RTC only).
const navPVTFixtureHex = "b56201075c0000000000e5070c0c000000f0ffffffff00000000" +
	"0000240000000000000000000000000098bdffffffffffff007684df00000000000000000000" +
	"00000000000000000000204e000080a812010f270000229e45330000000000000000b78e"

func navPVTFixture(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString(navPVTFixtureHex)
	if err != nil {
		t.Fatalf("fixture decode error: %v", err)
	}
	return b
}

func TestChecksum(t *testing.T) {
	frame := navPVTFixture(t)
	ckA, ckB := Checksum(frame[2 : len(frame)-2])
	if ckA != frame[len(frame)-2] || ckB != frame[len(frame)-1] {
		t.Fatalf("Checksum() = %02x %02x, want %02x %02x", ckA, ckB, frame[len(frame)-2], frame[len(frame)-1])
	}
}

func TestMessageIdentity(t *testing.T) {
	cases := []struct {
		class, id byte
		want      string
	}{
		{ClassNAV, IDNavPVT, "UBX-NAV-PVT"},
		{ClassNAV, IDNavSig, "UBX-NAV-SIG"},
		{ClassACK, 0x01, "UBX-ACK-ACK"},
		{ClassMON, 0x38, "UBX-MON-RF"},
		{0x30, 0x99, "UBX-30-99"},
		{0x00, 0x00, "UBX-00-00"},
	}
	for _, c := range cases {
		m := &Message{Class: c.class, ID: c.id}
		if got := m.Identity(); got != c.want {
			t.Errorf("Identity(%02x,%02x) = %q, want %q", c.class, c.id, got, c.want)
		}
	}
}

func TestSerializeRoundTripsFixture(t *testing.T) {
	raw := navPVTFixture(t)
	msg, err := NewReader(bytes.NewReader(raw)).Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got := msg.Identity(); got != "UBX-NAV-PVT" {
		t.Fatalf("Identity() = %q, want UBX-NAV-PVT", got)
	}
	out := msg.Serialize()
	if !bytes.Equal(out, raw) {
		t.Fatalf("Serialize() = %x, want %x", out, raw)
	}
}

func TestSerializeEmptyPayload(t *testing.T) {
	m := &Message{Class: ClassACK, ID: 0x01}
	want := []byte{0xB5, 0x62, 0x05, 0x01, 0x00, 0x00, 0x06, 0x17}
	if got := m.Serialize(); !bytes.Equal(got, want) {
		t.Fatalf("Serialize() = %x, want %x", got, want)
	}
}
