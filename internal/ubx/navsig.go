package ubx

import (
	"encoding/binary"
	"fmt"
)

const (
	navSigHeaderLen = 8
	navSigBlockLen  = 16
)

// GNSS identifiers used in gnssId fields across UBX messages.
const (
	GNSSGPS     = 0
	GNSSSBAS    = 1
	GNSSGalileo = 2
	GNSSBeiDou  = 3
	GNSSIMES    = 4
	GNSSQZSS    = 5
	GNSSGLONASS = 6
	GNSSNavIC   = 7
)

// Sig is one signal block from UBX-NAV-SIG.
type Sig struct {
	GNSSID uint8
	SvID   uint8
	SigID  uint8
	FreqID uint8

	PrResM     float64
	CnoDbHz    uint8
	QualityInd uint8
	CorrSource uint8
	IonoModel  uint8

	Health uint8
	PrUsed bool
	CrUsed bool
	DoUsed bool
}

// NavSig is a decoded UBX-NAV-SIG message: signal state per tracked signal.
type NavSig struct {
	ITOWMs  uint32
	Version uint8
	Sigs    []Sig
}

func ParseNavSig(payload []byte) (*NavSig, error) {
	if len(payload) < navSigHeaderLen {
		return nil, fmt.Errorf("nav-sig payload too short: %d bytes", len(payload))
	}
	le := binary.LittleEndian
	numSigs := int(payload[5])
	want := navSigHeaderLen + numSigs*navSigBlockLen
	if len(payload) < want {
		return nil, fmt.Errorf("nav-sig payload truncated: %d bytes, numSigs=%d", len(payload), numSigs)
	}

	out := &NavSig{
		ITOWMs:  le.Uint32(payload[0:4]),
		Version: payload[4],
		Sigs:    make([]Sig, 0, numSigs),
	}
	for i := 0; i < numSigs; i++ {
		b := payload[navSigHeaderLen+i*navSigBlockLen:]
		flags := le.Uint16(b[10:12])
		out.Sigs = append(out.Sigs, Sig{
			GNSSID: b[0],
			SvID:   b[1],
			SigID:  b[2],
			FreqID: b[3],

			PrResM:     float64(int16(le.Uint16(b[4:6]))) * 0.1,
			CnoDbHz:    b[6],
			QualityInd: b[7],
			CorrSource: b[8],
			IonoModel:  b[9],

			Health: uint8(flags & 0x03),
			PrUsed: flags&0x08 != 0,
			CrUsed: flags&0x10 != 0,
			DoUsed: flags&0x20 != 0,
		})
	}
	return out, nil
}
