package ubx

// Message classes.
const (
	ClassNAV = 0x01
	ClassRXM = 0x02
	ClassINF = 0x04
	ClassACK = 0x05
	ClassCFG = 0x06
	ClassUPD = 0x09
	ClassMON = 0x0A
	ClassTIM = 0x0D
	ClassESF = 0x10
	ClassMGA = 0x13
	ClassLOG = 0x21
	ClassSEC = 0x27
	ClassHNR = 0x28
)

// Message ids used directly by the decoders.
const (
	IDNavPVT = 0x07
	IDNavSig = 0x43
)

// msgNames maps class<<8|id to the u-blox interface name. Not exhaustive;
// Identity falls back to hex for anything missing here.
var msgNames = map[uint16]string{
	msgKey(ClassNAV, 0x01):     "NAV-POSECEF",
	msgKey(ClassNAV, 0x02):     "NAV-POSLLH",
	msgKey(ClassNAV, 0x03):     "NAV-STATUS",
	msgKey(ClassNAV, 0x04):     "NAV-DOP",
	msgKey(ClassNAV, IDNavPVT): "NAV-PVT",
	msgKey(ClassNAV, 0x09):     "NAV-ODO",
	msgKey(ClassNAV, 0x11):     "NAV-VELECEF",
	msgKey(ClassNAV, 0x12):     "NAV-VELNED",
	msgKey(ClassNAV, 0x13):     "NAV-HPPOSECEF",
	msgKey(ClassNAV, 0x14):     "NAV-HPPOSLLH",
	msgKey(ClassNAV, 0x20):     "NAV-TIMEGPS",
	msgKey(ClassNAV, 0x21):     "NAV-TIMEUTC",
	msgKey(ClassNAV, 0x22):     "NAV-CLOCK",
	msgKey(ClassNAV, 0x26):     "NAV-TIMELS",
	msgKey(ClassNAV, 0x32):     "NAV-SBAS",
	msgKey(ClassNAV, 0x34):     "NAV-ORB",
	msgKey(ClassNAV, 0x35):     "NAV-SAT",
	msgKey(ClassNAV, 0x36):     "NAV-COV",
	msgKey(ClassNAV, 0x39):     "NAV-GEOFENCE",
	msgKey(ClassNAV, 0x3B):     "NAV-SVIN",
	msgKey(ClassNAV, 0x3C):     "NAV-RELPOSNED",
	msgKey(ClassNAV, 0x42):     "NAV-SLAS",
	msgKey(ClassNAV, IDNavSig): "NAV-SIG",
	msgKey(ClassNAV, 0x60):     "NAV-AOPSTATUS",
	msgKey(ClassNAV, 0x61):     "NAV-EOE",

	msgKey(ClassRXM, 0x13): "RXM-SFRBX",
	msgKey(ClassRXM, 0x14): "RXM-MEASX",
	msgKey(ClassRXM, 0x15): "RXM-RAWX",
	msgKey(ClassRXM, 0x32): "RXM-RTCM",
	msgKey(ClassRXM, 0x41): "RXM-PMREQ",
	msgKey(ClassRXM, 0x59): "RXM-RLM",

	msgKey(ClassINF, 0x00): "INF-ERROR",
	msgKey(ClassINF, 0x01): "INF-WARNING",
	msgKey(ClassINF, 0x02): "INF-NOTICE",
	msgKey(ClassINF, 0x03): "INF-TEST",
	msgKey(ClassINF, 0x04): "INF-DEBUG",

	msgKey(ClassACK, 0x00): "ACK-NAK",
	msgKey(ClassACK, 0x01): "ACK-ACK",

	msgKey(ClassCFG, 0x00): "CFG-PRT",
	msgKey(ClassCFG, 0x01): "CFG-MSG",
	msgKey(ClassCFG, 0x02): "CFG-INF",
	msgKey(ClassCFG, 0x04): "CFG-RST",
	msgKey(ClassCFG, 0x08): "CFG-RATE",
	msgKey(ClassCFG, 0x09): "CFG-CFG",
	msgKey(ClassCFG, 0x24): "CFG-NAV5",
	msgKey(ClassCFG, 0x31): "CFG-TP5",
	msgKey(ClassCFG, 0x3E): "CFG-GNSS",
	msgKey(ClassCFG, 0x86): "CFG-PMS",
	msgKey(ClassCFG, 0x8A): "CFG-VALSET",
	msgKey(ClassCFG, 0x8B): "CFG-VALGET",
	msgKey(ClassCFG, 0x8C): "CFG-VALDEL",

	msgKey(ClassUPD, 0x14): "UPD-SOS",

	msgKey(ClassMON, 0x02): "MON-IO",
	msgKey(ClassMON, 0x04): "MON-VER",
	msgKey(ClassMON, 0x09): "MON-HW",
	msgKey(ClassMON, 0x0B): "MON-HW2",
	msgKey(ClassMON, 0x28): "MON-GNSS",
	msgKey(ClassMON, 0x36): "MON-COMMS",
	msgKey(ClassMON, 0x37): "MON-HW3",
	msgKey(ClassMON, 0x38): "MON-RF",

	msgKey(ClassTIM, 0x01): "TIM-TP",
	msgKey(ClassTIM, 0x03): "TIM-TM2",
	msgKey(ClassTIM, 0x04): "TIM-SVIN",
	msgKey(ClassTIM, 0x06): "TIM-VRFY",

	msgKey(ClassESF, 0x02): "ESF-MEAS",
	msgKey(ClassESF, 0x03): "ESF-RAW",
	msgKey(ClassESF, 0x10): "ESF-STATUS",
	msgKey(ClassESF, 0x15): "ESF-INS",

	msgKey(ClassMGA, 0x00): "MGA-GPS",
	msgKey(ClassMGA, 0x02): "MGA-GAL",
	msgKey(ClassMGA, 0x03): "MGA-BDS",
	msgKey(ClassMGA, 0x06): "MGA-QZSS",
	msgKey(ClassMGA, 0x20): "MGA-ANO",
	msgKey(ClassMGA, 0x40): "MGA-INI",
	msgKey(ClassMGA, 0x60): "MGA-ACK",
	msgKey(ClassMGA, 0x80): "MGA-DBD",

	msgKey(ClassLOG, 0x08): "LOG-INFO",
	msgKey(ClassLOG, 0x09): "LOG-RETRIEVE",
	msgKey(ClassLOG, 0x0E): "LOG-ERASE",

	msgKey(ClassSEC, 0x03): "SEC-UNIQID",

	msgKey(ClassHNR, 0x00): "HNR-PVT",
}
