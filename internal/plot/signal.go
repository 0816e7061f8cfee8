package plot

import (
	"sort"
	"strconv"

	"gnssview/internal/ubx"
)

// SignalLevels tracks the strongest C/N0 per satellite for the signal
// strength bar chart. Bars reflect the latest UBX-NAV-SIG only, while
// Categories accumulates every satellite seen so the chart axis never
// reshuffles when a satellite drops out.
type SignalLevels struct {
	cno  map[string]int
	seen map[string]struct{}
}

// SignalBar is one satellite bar on the chart.
type SignalBar struct {
	SV      string `json:"sv"`
	CnoDbHz int    `json:"cno_dbhz"`
	Color   string `json:"color"`
}

// SignalSnapshot is the signal strength chart view state.
type SignalSnapshot struct {
	Satellites []SignalBar `json:"satellites"`
	Categories []string    `json:"categories"`
}

func NewSignalLevels() *SignalLevels {
	return &SignalLevels{
		cno:  make(map[string]int),
		seen: make(map[string]struct{}),
	}
}

func (p *SignalLevels) Name() string  { return "signal_levels" }
func (p *SignalLevels) Title() string { return "Signal strength" }

func (p *SignalLevels) RequiredMessages() []string {
	return []string{"UBX-NAV-SIG"}
}

func (p *SignalLevels) Update(msg *ubx.Message) {
	if msg == nil || msg.Class != ubx.ClassNAV || msg.ID != ubx.IDNavSig {
		return
	}
	sig, err := ubx.ParseNavSig(msg.Payload)
	if err != nil {
		return
	}

	// A satellite can be tracked on several signals. Keep the best one.
	best := make(map[string]int, len(sig.Sigs))
	for _, s := range sig.Sigs {
		if s.CnoDbHz == 0 {
			continue
		}
		id := rinexSVID(s.GNSSID, s.SvID)
		if cno := int(s.CnoDbHz); cno > best[id] {
			best[id] = cno
		}
	}

	p.cno = best
	for id := range best {
		p.seen[id] = struct{}{}
	}
}

func (p *SignalLevels) Snapshot() any {
	bars := make([]SignalBar, 0, len(p.cno))
	for id, cno := range p.cno {
		bars = append(bars, SignalBar{SV: id, CnoDbHz: cno, Color: constellationColor(id)})
	}
	sort.Slice(bars, func(i, j int) bool { return svLess(bars[i].SV, bars[j].SV) })

	cats := make([]string, 0, len(p.seen))
	for id := range p.seen {
		cats = append(cats, id)
	}
	sort.Slice(cats, func(i, j int) bool { return svLess(cats[i], cats[j]) })

	return SignalSnapshot{Satellites: bars, Categories: cats}
}

// rinexSVID renders a RINEX-style satellite id such as G12 or R3.
func rinexSVID(gnssID, svID uint8) string {
	return string(rinexLetter(gnssID)) + strconv.Itoa(int(svID))
}

func rinexLetter(gnssID uint8) byte {
	switch gnssID {
	case ubx.GNSSGPS:
		return 'G'
	case ubx.GNSSSBAS:
		return 'S'
	case ubx.GNSSGalileo:
		return 'E'
	case ubx.GNSSBeiDou:
		return 'C'
	case ubx.GNSSQZSS:
		return 'J'
	case ubx.GNSSGLONASS:
		return 'R'
	case ubx.GNSSNavIC:
		return 'I'
	}
	return '?'
}

// Bar colors per constellation, keyed by RINEX letter.
var constellationColors = map[byte]string{
	'G': "#2ca02c",
	'S': "#e377c2",
	'E': "#1f77b4",
	'C': "#ff7f0e",
	'J': "#9467bd",
	'R': "#d62728",
	'I': "#7f7f7f",
	'?': "#bcbd22",
}

func constellationColor(svID string) string {
	if svID != "" {
		if c, ok := constellationColors[svID[0]]; ok {
			return c
		}
	}
	return constellationColors['?']
}

// svLess orders satellite ids by constellation and numerically within
// one, so G2 sorts before G10 and GPS leads the chart.
func svLess(a, b string) bool {
	ra, na := svSortKey(a)
	rb, nb := svSortKey(b)
	if ra != rb {
		return ra < rb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func svSortKey(id string) (rank, num int) {
	if id == "" {
		return 6, 0
	}
	switch id[0] {
	case 'G':
		rank = 0
	case 'E':
		rank = 1
	case 'C':
		rank = 2
	case 'R':
		rank = 3
	case 'S':
		rank = 4
	case 'J':
		rank = 5
	default:
		rank = 6
	}
	num, _ = strconv.Atoi(id[1:])
	return rank, num
}
