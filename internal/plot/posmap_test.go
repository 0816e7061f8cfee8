package plot

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"gnssview/internal/geo"
	"gnssview/internal/ubx"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func pvtMsg(latDeg, lonDeg float64, fixType uint8, hAccMM uint32) *ubx.Message {
	p := make([]byte, 92)
	le := binary.LittleEndian
	le.PutUint16(p[4:6], 2024)
	p[6], p[7] = 6, 1
	p[8], p[9], p[10] = 10, 20, 30
	p[11] = 0x07 // validDate | validTime | fullyResolved
	p[20] = fixType
	if fixType == ubx.Fix2D || fixType == ubx.Fix3D {
		p[21] = 0x01 // gnssFixOK
	}
	p[23] = 12
	le.PutUint32(p[24:28], uint32(int32(math.Round(lonDeg*1e7))))
	le.PutUint32(p[28:32], uint32(int32(math.Round(latDeg*1e7))))
	le.PutUint32(p[36:40], 52000) // hMSL 52 m
	le.PutUint32(p[40:44], hAccMM)
	le.PutUint32(p[60:64], 2000) // gSpeed 2 m/s
	le.PutUint16(p[76:78], 150)  // pDOP 1.50
	return &ubx.Message{Class: ubx.ClassNAV, ID: ubx.IDNavPVT, Payload: p}
}

func TestPositionMapUpdate(t *testing.T) {
	p := NewPositionMap()
	p.Update(pvtMsg(60.1699, 24.9384, ubx.Fix3D, 2500))

	snap := p.Snapshot().(PositionSnapshot)
	if !snap.HasFix || !snap.HavePosition {
		t.Fatalf("HasFix=%v HavePosition=%v, want both true", snap.HasFix, snap.HavePosition)
	}
	if snap.FixType != "3D" || snap.NumSV != 12 {
		t.Errorf("FixType=%q NumSV=%d, want 3D and 12", snap.FixType, snap.NumSV)
	}
	if !almostEqual(snap.LatDeg, 60.1699) || !almostEqual(snap.LonDeg, 24.9384) {
		t.Errorf("position = %v,%v, want 60.1699,24.9384", snap.LatDeg, snap.LonDeg)
	}
	if !almostEqual(snap.HMSLM, 52.0) || !almostEqual(snap.HAccM, 2.5) {
		t.Errorf("hMSL/hAcc = %v/%v, want 52.0/2.5", snap.HMSLM, snap.HAccM)
	}
	if !almostEqual(snap.SpeedMS, 2.0) {
		t.Errorf("SpeedMS = %v, want 2.0", snap.SpeedMS)
	}

	wantX, wantY := geo.LatLonToWebMercator(snap.LatDeg, snap.LonDeg)
	if snap.X != wantX || snap.Y != wantY {
		t.Errorf("mercator = %v,%v, want %v,%v", snap.X, snap.Y, wantX, wantY)
	}
	// hAcc 2.5 m with no prior span suggests 5*hAcc.
	if !almostEqual(snap.SpanM, 12.5) {
		t.Errorf("SpanM = %v, want 12.5", snap.SpanM)
	}
	if snap.TimeUTC != "2024-06-01T10:20:30Z" {
		t.Errorf("TimeUTC = %q, want 2024-06-01T10:20:30Z", snap.TimeUTC)
	}
}

func TestPositionMapKeepsPositionOnFixLoss(t *testing.T) {
	p := NewPositionMap()
	p.Update(pvtMsg(60.1699, 24.9384, ubx.Fix3D, 2500))
	p.Update(pvtMsg(0, 0, ubx.FixNone, 80000))

	snap := p.Snapshot().(PositionSnapshot)
	if snap.HasFix {
		t.Fatal("HasFix = true after fix loss")
	}
	if snap.FixType != "no fix" {
		t.Errorf("FixType = %q, want %q", snap.FixType, "no fix")
	}
	if !snap.HavePosition || !almostEqual(snap.LatDeg, 60.1699) {
		t.Errorf("last good position lost: HavePosition=%v lat=%v", snap.HavePosition, snap.LatDeg)
	}
	// Status fields still follow the latest solution.
	if !almostEqual(snap.HAccM, 80.0) {
		t.Errorf("HAccM = %v, want 80.0", snap.HAccM)
	}
}

func TestPositionMapRejectsOutOfRangeCoordinates(t *testing.T) {
	p := NewPositionMap()
	p.Update(pvtMsg(91.0, 0, ubx.Fix3D, 2500))

	snap := p.Snapshot().(PositionSnapshot)
	if snap.HavePosition {
		t.Fatal("HavePosition = true for lat 91")
	}
	if !snap.HasFix {
		t.Error("HasFix should still follow the message")
	}
	// The snapshot must stay marshalable for the JSON API.
	if _, err := json.Marshal(p.Snapshot()); err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
}

func TestPositionMapIgnoresForeignAndMalformed(t *testing.T) {
	p := NewPositionMap()
	p.Update(&ubx.Message{Class: 0x05, ID: 0x01})
	p.Update(&ubx.Message{Class: ubx.ClassNAV, ID: ubx.IDNavPVT, Payload: make([]byte, 10)})
	p.Update(nil)

	snap := p.Snapshot().(PositionSnapshot)
	if snap.HasFix || snap.HavePosition || snap.NumSV != 0 {
		t.Fatalf("state changed by ignorable input: %+v", snap)
	}
}

func TestSuggestSpan(t *testing.T) {
	cases := []struct {
		hAcc, current, want float64
	}{
		{15000, 0, 10000e3},
		{15000, 500, 10000e3},
		{5000, 0, 100e3},
		{500, 0, 10e3},
		{30, 1e6, 150},
		{10, 2000, 2000},
		{10, 0, 50},
	}
	for _, c := range cases {
		if got := suggestSpan(c.hAcc, c.current); !almostEqual(got, c.want) {
			t.Errorf("suggestSpan(%v, %v) = %v, want %v", c.hAcc, c.current, got, c.want)
		}
	}
}
