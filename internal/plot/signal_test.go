package plot

import (
	"encoding/binary"
	"reflect"
	"sort"
	"testing"

	"gnssview/internal/ubx"
)

type sigBlock struct {
	gnssID, svID, cno uint8
}

func sigMsg(blocks ...sigBlock) *ubx.Message {
	p := make([]byte, 8+16*len(blocks))
	p[5] = uint8(len(blocks))
	for i, b := range blocks {
		off := 8 + 16*i
		p[off] = b.gnssID
		p[off+1] = b.svID
		p[off+6] = b.cno
		binary.LittleEndian.PutUint16(p[off+10:off+12], 0x0009) // healthy, prUsed
	}
	return &ubx.Message{Class: ubx.ClassNAV, ID: ubx.IDNavSig, Payload: p}
}

func TestSignalLevelsBestSignalPerSatellite(t *testing.T) {
	p := NewSignalLevels()
	p.Update(sigMsg(
		sigBlock{ubx.GNSSGPS, 5, 45},
		sigBlock{ubx.GNSSGPS, 5, 38},
		sigBlock{ubx.GNSSGLONASS, 3, 40},
		sigBlock{ubx.GNSSGPS, 7, 0},
	))

	snap := p.Snapshot().(SignalSnapshot)
	want := []SignalBar{
		{SV: "G5", CnoDbHz: 45, Color: "#2ca02c"},
		{SV: "R3", CnoDbHz: 40, Color: "#d62728"},
	}
	if !reflect.DeepEqual(snap.Satellites, want) {
		t.Fatalf("Satellites = %v, want %v", snap.Satellites, want)
	}
	if !reflect.DeepEqual(snap.Categories, []string{"G5", "R3"}) {
		t.Fatalf("Categories = %v, want [G5 R3]", snap.Categories)
	}
}

func TestSignalLevelsCategoriesOnlyGrow(t *testing.T) {
	p := NewSignalLevels()
	p.Update(sigMsg(
		sigBlock{ubx.GNSSGPS, 5, 45},
		sigBlock{ubx.GNSSGLONASS, 3, 40},
	))
	p.Update(sigMsg(
		sigBlock{ubx.GNSSGalileo, 11, 33},
	))

	snap := p.Snapshot().(SignalSnapshot)
	want := []SignalBar{{SV: "E11", CnoDbHz: 33, Color: "#1f77b4"}}
	if !reflect.DeepEqual(snap.Satellites, want) {
		t.Fatalf("Satellites = %v, want %v", snap.Satellites, want)
	}
	// Vanished satellites stay on the axis as empty slots.
	if !reflect.DeepEqual(snap.Categories, []string{"G5", "E11", "R3"}) {
		t.Fatalf("Categories = %v, want [G5 E11 R3]", snap.Categories)
	}
}

func TestSignalLevelsIgnoresForeignAndMalformed(t *testing.T) {
	p := NewSignalLevels()
	p.Update(&ubx.Message{Class: 0x05, ID: 0x01})

	truncated := sigMsg(sigBlock{ubx.GNSSGPS, 5, 45})
	truncated.Payload[5] = 2 // claims two blocks, carries one
	p.Update(truncated)
	p.Update(nil)

	snap := p.Snapshot().(SignalSnapshot)
	if len(snap.Satellites) != 0 || len(snap.Categories) != 0 {
		t.Fatalf("state changed by ignorable input: %+v", snap)
	}
}

func TestRinexSVID(t *testing.T) {
	cases := []struct {
		gnssID, svID uint8
		want         string
	}{
		{ubx.GNSSGPS, 12, "G12"},
		{ubx.GNSSSBAS, 120, "S120"},
		{ubx.GNSSGalileo, 1, "E1"},
		{ubx.GNSSBeiDou, 14, "C14"},
		{ubx.GNSSQZSS, 1, "J1"},
		{ubx.GNSSGLONASS, 9, "R9"},
		{ubx.GNSSNavIC, 2, "I2"},
		{ubx.GNSSIMES, 1, "?1"},
		{42, 7, "?7"},
	}
	for _, c := range cases {
		if got := rinexSVID(c.gnssID, c.svID); got != c.want {
			t.Errorf("rinexSVID(%d, %d) = %q, want %q", c.gnssID, c.svID, got, c.want)
		}
	}
}

func TestSVOrdering(t *testing.T) {
	ids := []string{"R7", "G10", "E1", "G2", "S120", "C5", "J1", "I3"}
	sort.Slice(ids, func(i, j int) bool { return svLess(ids[i], ids[j]) })

	want := []string{"G2", "G10", "E1", "C5", "R7", "S120", "J1", "I3"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("sorted = %v, want %v", ids, want)
	}
}
