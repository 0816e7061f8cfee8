package plot

import (
	"math"
	"time"

	"gnssview/internal/geo"
	"gnssview/internal/ubx"
)

// PositionMap tracks the latest receiver position for the map panel.
//
// Solution status (fix type, satellite count, accuracy) follows every
// UBX-NAV-PVT. The plotted position only moves while the receiver holds
// a 2D/3D fix, so a dropped fix leaves the last good position on the map.
type PositionMap struct {
	snap PositionSnapshot
}

// PositionSnapshot is the map panel view state. X and Y are Web Mercator
// meters matching the map tiles, SpanM the suggested viewport half-span.
type PositionSnapshot struct {
	HasFix  bool    `json:"has_fix"`
	FixType string  `json:"fix_type"`
	NumSV   int     `json:"num_sv"`
	PDOP    float64 `json:"pdop"`
	HAccM   float64 `json:"h_acc_m"`
	SpeedMS float64 `json:"speed_ms"`

	HavePosition bool    `json:"have_position"`
	LatDeg       float64 `json:"lat_deg"`
	LonDeg       float64 `json:"lon_deg"`
	HMSLM        float64 `json:"hmsl_m"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	SpanM        float64 `json:"span_m"`

	TimeUTC string `json:"time_utc,omitempty"`
}

func NewPositionMap() *PositionMap {
	return &PositionMap{snap: PositionSnapshot{FixType: "no fix"}}
}

func (p *PositionMap) Name() string  { return "position_map" }
func (p *PositionMap) Title() string { return "Position map" }

func (p *PositionMap) RequiredMessages() []string {
	return []string{"UBX-NAV-PVT"}
}

func (p *PositionMap) Update(msg *ubx.Message) {
	if msg == nil || msg.Class != ubx.ClassNAV || msg.ID != ubx.IDNavPVT {
		return
	}
	pvt, err := ubx.ParseNavPVT(msg.Payload)
	if err != nil {
		return
	}

	p.snap.HasFix = pvt.HasFix()
	p.snap.FixType = pvt.FixTypeString()
	p.snap.NumSV = int(pvt.NumSV)
	p.snap.PDOP = pvt.PDOP
	p.snap.HAccM = pvt.HAccM
	p.snap.SpeedMS = pvt.GSpeedMS
	if t, ok := pvt.UTCTime(); ok {
		p.snap.TimeUTC = t.Format(time.RFC3339Nano)
	}

	if !pvt.HasFix() {
		return
	}
	x, y := geo.LatLonToWebMercator(pvt.LatDeg, pvt.LonDeg)
	if math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	p.snap.HavePosition = true
	p.snap.LatDeg = pvt.LatDeg
	p.snap.LonDeg = pvt.LonDeg
	p.snap.HMSLM = pvt.HMSLM
	p.snap.X = x
	p.snap.Y = y
	p.snap.SpanM = suggestSpan(pvt.HAccM, p.snap.SpanM)
}

func (p *PositionMap) Snapshot() any {
	return p.snap
}

// suggestSpan picks the viewport half-span in meters for a horizontal
// accuracy estimate. Coarse fixes zoom far out. Once the estimate drops
// under 25 m the current span is kept so the operator's zoom sticks.
func suggestSpan(hAccM, current float64) float64 {
	switch {
	case hAccM > 10000:
		return 10000e3
	case hAccM > 1000:
		return 100e3
	case hAccM > 100:
		return 10e3
	case hAccM > 25 || current <= 0:
		return hAccM * 5
	}
	return current
}
