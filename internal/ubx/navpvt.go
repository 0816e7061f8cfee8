package ubx

import (
	"encoding/binary"
	"fmt"
	"time"
)

const navPVTMinLen = 92

// Fix types reported in UBX-NAV-PVT.
const (
	FixNone        = 0
	FixDeadReck    = 1
	Fix2D          = 2
	Fix3D          = 3
	FixGNSSDeadRck = 4
	FixTimeOnly    = 5
)

// NavPVT is a decoded UBX-NAV-PVT solution, scaled to degrees, meters and
// meters per second.
type NavPVT struct {
	ITOWMs uint32

	Year                 uint16
	Month, Day           uint8
	Hour, Min, Sec       uint8
	ValidDate, ValidTime bool
	FullyResolved        bool
	NanoNs               int32

	FixType   uint8
	GNSSFixOK bool
	DiffSoln  bool
	NumSV     uint8

	LonDeg, LatDeg float64
	HeightM, HMSLM float64
	HAccM, VAccM   float64

	VelNMS, VelEMS, VelDMS float64
	GSpeedMS               float64
	HeadMotDeg             float64
	SAccMS                 float64
	HeadAccDeg             float64
	PDOP                   float64
}

func ParseNavPVT(payload []byte) (*NavPVT, error) {
	if len(payload) < navPVTMinLen {
		return nil, fmt.Errorf("nav-pvt payload too short: %d bytes", len(payload))
	}

	le := binary.LittleEndian
	valid := payload[11]
	flags := payload[21]

	p := &NavPVT{
		ITOWMs: le.Uint32(payload[0:4]),

		Year:          le.Uint16(payload[4:6]),
		Month:         payload[6],
		Day:           payload[7],
		Hour:          payload[8],
		Min:           payload[9],
		Sec:           payload[10],
		ValidDate:     valid&0x01 != 0,
		ValidTime:     valid&0x02 != 0,
		FullyResolved: valid&0x04 != 0,
		NanoNs:        int32(le.Uint32(payload[16:20])),

		FixType:   payload[20],
		GNSSFixOK: flags&0x01 != 0,
		DiffSoln:  flags&0x02 != 0,
		NumSV:     payload[23],

		LonDeg:  float64(int32(le.Uint32(payload[24:28]))) * 1e-7,
		LatDeg:  float64(int32(le.Uint32(payload[28:32]))) * 1e-7,
		HeightM: float64(int32(le.Uint32(payload[32:36]))) * 1e-3,
		HMSLM:   float64(int32(le.Uint32(payload[36:40]))) * 1e-3,
		HAccM:   float64(le.Uint32(payload[40:44])) * 1e-3,
		VAccM:   float64(le.Uint32(payload[44:48])) * 1e-3,

		VelNMS:     float64(int32(le.Uint32(payload[48:52]))) * 1e-3,
		VelEMS:     float64(int32(le.Uint32(payload[52:56]))) * 1e-3,
		VelDMS:     float64(int32(le.Uint32(payload[56:60]))) * 1e-3,
		GSpeedMS:   float64(int32(le.Uint32(payload[60:64]))) * 1e-3,
		HeadMotDeg: float64(int32(le.Uint32(payload[64:68]))) * 1e-5,
		SAccMS:     float64(le.Uint32(payload[68:72])) * 1e-3,
		HeadAccDeg: float64(le.Uint32(payload[72:76])) * 1e-5,
		PDOP:       float64(le.Uint16(payload[76:78])) * 0.01,
	}
	return p, nil
}

// HasFix reports whether the solution carries a usable 2D/3D position.
func (p *NavPVT) HasFix() bool {
	switch p.FixType {
	case Fix2D, Fix3D, FixGNSSDeadRck:
		return true
	}
	return false
}

// UTCTime returns the receiver UTC timestamp, if the date and time fields
// are flagged valid.
func (p *NavPVT) UTCTime() (time.Time, bool) {
	if !p.ValidDate || !p.ValidTime {
		return time.Time{}, false
	}
	t := time.Date(int(p.Year), time.Month(p.Month), int(p.Day),
		int(p.Hour), int(p.Min), int(p.Sec), 0, time.UTC)
	return t, true
}

func (p *NavPVT) FixTypeString() string {
	switch p.FixType {
	case FixNone:
		return "no fix"
	case FixDeadReck:
		return "dead reckoning"
	case Fix2D:
		return "2D"
	case Fix3D:
		return "3D"
	case FixGNSSDeadRck:
		return "GNSS+DR"
	case FixTimeOnly:
		return "time only"
	}
	return fmt.Sprintf("unknown (%d)", p.FixType)
}
