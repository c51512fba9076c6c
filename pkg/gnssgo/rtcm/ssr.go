package rtcm

import (
	"fmt"
	"math"
)

// Constellation identifies the GNSS a decoded record belongs to.
type Constellation int

const (
	GPS Constellation = iota
	GLONASS
	Galileo
	BeiDou
	QZSS
)

func (c Constellation) String() string {
	switch c {
	case GPS:
		return "GPS"
	case GLONASS:
		return "GLONASS"
	case Galileo:
		return "Galileo"
	case BeiDou:
		return "BeiDou"
	case QZSS:
		return "QZSS"
	default:
		return "unknown"
	}
}

// SSRKind is the closed set of SSR correction message kinds.
type SSRKind int

const (
	SSROrbit SSRKind = iota
	SSRClock
	SSROrbitClock
	SSRCodeBiasKind
	SSRPhaseBiasKind
	SSRUra
	SSRHighRateClock
	SSRVtec
)

type ssrCatalogEntry struct {
	kind          SSRKind
	constellation Constellation
}

// ssrCatalog maps an RTCM message number to its SSR kind and
// constellation: the frame synchronizer yields an opaque (number,
// payload) pair and this map is the only place that resolves it to a
// variant.
var ssrCatalog = map[int]ssrCatalogEntry{
	1057: {SSROrbit, GPS}, 1063: {SSROrbit, GLONASS}, 1240: {SSROrbit, Galileo}, 1246: {SSROrbit, BeiDou}, 1258: {SSROrbit, QZSS},
	1058: {SSRClock, GPS}, 1064: {SSRClock, GLONASS}, 1241: {SSRClock, Galileo}, 1247: {SSRClock, BeiDou}, 1259: {SSRClock, QZSS},
	1060: {SSROrbitClock, GPS}, 1066: {SSROrbitClock, GLONASS}, 1243: {SSROrbitClock, Galileo}, 1249: {SSROrbitClock, BeiDou}, 1261: {SSROrbitClock, QZSS},
	1059: {SSRCodeBiasKind, GPS}, 1065: {SSRCodeBiasKind, GLONASS}, 1242: {SSRCodeBiasKind, Galileo}, 1248: {SSRCodeBiasKind, BeiDou}, 1260: {SSRCodeBiasKind, QZSS},
	1265: {SSRPhaseBiasKind, GPS}, 1266: {SSRPhaseBiasKind, GLONASS}, 1267: {SSRPhaseBiasKind, Galileo}, 1268: {SSRPhaseBiasKind, BeiDou}, 1270: {SSRPhaseBiasKind, QZSS},
	1061: {SSRUra, GPS}, 1067: {SSRUra, GLONASS}, 1244: {SSRUra, Galileo}, 1250: {SSRUra, BeiDou}, 1262: {SSRUra, QZSS},
	1245: {SSRHighRateClock, Galileo}, 1251: {SSRHighRateClock, BeiDou}, 1263: {SSRHighRateClock, QZSS},
	1264: {SSRVtec, GPS}, // constellation is meaningless for VTEC; GPS is a placeholder zero value
}

// ssrUpdateIntervalSeconds is the 16-entry update-interval lookup table.
var ssrUpdateIntervalSeconds = [16]int{1, 2, 5, 10, 15, 30, 60, 120, 240, 300, 600, 900, 1800, 3600, 7200, 10800}

// satelliteIDWidth returns the bit width of the per-satellite ID field
// in an SSR message for the given constellation; widths differ per
// constellation rather than being uniform across the catalog.
func satelliteIDWidth(c Constellation) int {
	switch c {
	case GLONASS:
		return 5
	case QZSS:
		return 4 // QZSS SSR satellite ID is a small index, not PRN-192
	default:
		return 6
	}
}

// epochWidth returns the bit width of the SSR header's epoch field;
// GLONASS uses a 17-bit time-of-day, all others a 20-bit time-of-week.
func epochWidth(c Constellation) int {
	if c == GLONASS {
		return 17
	}
	return 20
}

// SSRHeader is the common header shared by every SSR correction message.
type SSRHeader struct {
	MessageType             int
	Constellation           Constellation
	Epoch                   uint32 // seconds-of-week (seconds-of-day for GLONASS)
	UpdateIntervalIndex     uint8
	UpdateIntervalSeconds   int
	MultipleMessage         bool
	SatelliteReferenceDatum bool // ITRF (0) vs regional datum (1); informational only
	IODSSR                  uint8
	ProviderID              uint16
	SolutionID              uint8
	NumSatellites           int
}

// decodeSSRHeader decodes the header fields common to every SSR message,
// plus the two optional bits whose presence and position depend on the
// message family: the Satellite Reference Datum bit sits between the
// multiple-message flag and IODSSR for orbit and combined orbit+clock
// messages only, while phase-bias messages instead carry a dispersive
// bias consistency indicator and an MW consistency indicator between
// SolutionID and NumSatellites. Every other kind (clock, code bias, URA,
// high-rate clock) has neither.
func decodeSSRHeader(r *Reader, msgType int, entry ssrCatalogEntry) SSRHeader {
	c := entry.constellation
	h := SSRHeader{MessageType: msgType, Constellation: c}
	h.Epoch = r.U(epochWidth(c))
	h.UpdateIntervalIndex = uint8(r.U(4))
	idx := int(h.UpdateIntervalIndex)
	if idx < len(ssrUpdateIntervalSeconds) {
		h.UpdateIntervalSeconds = ssrUpdateIntervalSeconds[idx]
	}
	h.MultipleMessage = r.Bool()
	if entry.kind == SSROrbit || entry.kind == SSROrbitClock {
		h.SatelliteReferenceDatum = r.Bool()
	}
	h.IODSSR = uint8(r.U(4))
	h.ProviderID = uint16(r.U(16))
	h.SolutionID = uint8(r.U(4))
	if entry.kind == SSRPhaseBiasKind {
		r.Bool() // dispersive bias consistency indicator
		r.Bool() // MW consistency indicator
	}
	h.NumSatellites = int(r.U(6))
	return h
}

// SSROrbitCorrection is a per-satellite radial/along/cross orbit
// correction and its rates, in metres and metres/second.
type SSROrbitCorrection struct {
	SatID              uint8
	IODE               uint8
	DeltaRadial        float64
	DeltaAlongTrack    float64
	DeltaCrossTrack    float64
	DotDeltaRadial     float64
	DotDeltaAlongTrack float64
	DotDeltaCrossTrack float64
}

func decodeOrbitCorrection(r *Reader, c Constellation) SSROrbitCorrection {
	var o SSROrbitCorrection
	o.SatID = uint8(r.U(satelliteIDWidth(c)))
	o.IODE = uint8(r.U(8))
	o.DeltaRadial = float64(r.I(22)) * 0.1e-3
	o.DeltaAlongTrack = float64(r.I(20)) * 0.4e-3
	o.DeltaCrossTrack = float64(r.I(20)) * 0.4e-3
	o.DotDeltaRadial = float64(r.I(21)) * 0.001e-3
	o.DotDeltaAlongTrack = float64(r.I(19)) * 0.004e-3
	o.DotDeltaCrossTrack = float64(r.I(19)) * 0.004e-3
	return o
}

// SSRClockCorrection is a per-satellite clock polynomial correction in
// metres, metres/second, and metres/second².
type SSRClockCorrection struct {
	SatID uint8
	C0    float64
	C1    float64
	C2    float64
}

func decodeClockCorrection(r *Reader, c Constellation) SSRClockCorrection {
	var k SSRClockCorrection
	k.SatID = uint8(r.U(satelliteIDWidth(c)))
	k.C0 = float64(r.I(22)) * 0.1e-3
	k.C1 = float64(r.I(21)) * 0.001e-3
	k.C2 = float64(r.I(27)) * 0.00002e-3
	return k
}

// SSROrbitClockMessage is a decoded orbit, clock, or combined
// orbit+clock SSR message for one constellation and epoch.
type SSROrbitClockMessage struct {
	Header SSRHeader
	Orbits []SSROrbitCorrection // empty unless this message carries orbit data
	Clocks []SSRClockCorrection // empty unless this message carries clock data
}

func decodeSSROrbitClockMessage(msg *RTCMMessage, entry ssrCatalogEntry) (*SSROrbitClockMessage, error) {
	r := NewReader(msg.Data)
	r.Skip(36) // 24-bit RTCM header + 12-bit message number
	h := decodeSSRHeader(r, msg.Type, entry)

	out := &SSROrbitClockMessage{Header: h}
	switch entry.kind {
	case SSROrbit:
		out.Orbits = make([]SSROrbitCorrection, h.NumSatellites)
		for i := range out.Orbits {
			out.Orbits[i] = decodeOrbitCorrection(r, entry.constellation)
		}
	case SSRClock:
		out.Clocks = make([]SSRClockCorrection, h.NumSatellites)
		for i := range out.Clocks {
			out.Clocks[i] = decodeClockCorrection(r, entry.constellation)
		}
	case SSROrbitClock:
		out.Orbits = make([]SSROrbitCorrection, h.NumSatellites)
		out.Clocks = make([]SSRClockCorrection, h.NumSatellites)
		for i := range out.Orbits {
			out.Orbits[i] = decodeOrbitCorrection(r, entry.constellation)
			out.Clocks[i] = decodeClockCorrection(r, entry.constellation)
		}
	default:
		return nil, fmt.Errorf("%w: not an orbit/clock message", ErrUnsupportedMessage)
	}
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return out, nil
}

// SSRCodeBias is a per-satellite list of (tracking-mode, bias) pairs.
type SSRCodeBias struct {
	SatID     uint8
	SignalIDs []uint8
	Biases    []float64 // metres
}

// SSRCodeBiasMessage is a decoded code-bias SSR message.
type SSRCodeBiasMessage struct {
	Header SSRHeader
	Biases []SSRCodeBias
}

func decodeSSRCodeBias(msg *RTCMMessage, entry ssrCatalogEntry) (*SSRCodeBiasMessage, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	h := decodeSSRHeader(r, msg.Type, entry)

	out := &SSRCodeBiasMessage{Header: h, Biases: make([]SSRCodeBias, h.NumSatellites)}
	for i := 0; i < h.NumSatellites; i++ {
		var b SSRCodeBias
		b.SatID = uint8(r.U(satelliteIDWidth(entry.constellation)))
		n := int(r.U(5))
		b.SignalIDs = make([]uint8, n)
		b.Biases = make([]float64, n)
		for j := 0; j < n; j++ {
			b.SignalIDs[j] = uint8(r.U(5))
			b.Biases[j] = float64(r.I(14)) * 0.01
		}
		out.Biases[i] = b
	}
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return out, nil
}

// SSRPhaseBiasSignal is one signal's phase-bias entry within a
// satellite's phase-bias block.
type SSRPhaseBiasSignal struct {
	SignalID              uint8
	IntegerIndicator      bool
	WideLaneIntIndicator  uint8
	DiscontinuityCounter  uint8
	Bias                  float64 // metres
}

// SSRPhaseBias is a per-satellite yaw angle/rate plus its signal list.
type SSRPhaseBias struct {
	SatID   uint8
	YawRad  float64
	YawRateRadPerSec float64
	Signals []SSRPhaseBiasSignal
}

// SSRPhaseBiasMessage is a decoded phase-bias SSR message.
type SSRPhaseBiasMessage struct {
	Header SSRHeader
	Biases []SSRPhaseBias
}

func decodeSSRPhaseBias(msg *RTCMMessage, entry ssrCatalogEntry) (*SSRPhaseBiasMessage, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	h := decodeSSRHeader(r, msg.Type, entry)

	out := &SSRPhaseBiasMessage{Header: h, Biases: make([]SSRPhaseBias, h.NumSatellites)}
	for i := 0; i < h.NumSatellites; i++ {
		var b SSRPhaseBias
		b.SatID = uint8(r.U(satelliteIDWidth(entry.constellation)))
		n := int(r.U(5))
		// Yaw angle: 9-bit, resolution 1/256 semicircle (1 semicircle = pi rad).
		b.YawRad = float64(r.U(9)) / 256.0 * math.Pi
		// Yaw rate: signed 8-bit, resolution 1/8192 semicircle/s.
		b.YawRateRadPerSec = float64(r.I(8)) / 8192.0 * math.Pi
		b.Signals = make([]SSRPhaseBiasSignal, n)
		for j := 0; j < n; j++ {
			var s SSRPhaseBiasSignal
			s.SignalID = uint8(r.U(5))
			s.IntegerIndicator = r.Bool()
			s.WideLaneIntIndicator = uint8(r.U(2))
			s.DiscontinuityCounter = uint8(r.U(4))
			s.Bias = float64(r.I(20)) * 0.0001
			b.Signals[j] = s
		}
		out.Biases[i] = b
	}
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return out, nil
}

// SSRUraEntry is a per-satellite URA (user range accuracy) class/value
// pair together with the resolved scalar metres value.
type SSRUraEntry struct {
	SatID      uint8
	Class      uint8
	Value      uint8
	UraMetres  float64
}

// SSRUraMessage is a decoded URA SSR message.
type SSRUraMessage struct {
	Header  SSRHeader
	Entries []SSRUraEntry
}

// resolveURA converts a (class, value) pair to a scalar URA in metres:
// (3^class * (1 + value/4) - 1) / 1000.
func resolveURA(class, value uint8) float64 {
	return (math.Pow(3, float64(class))*(1+float64(value)/4) - 1) / 1000
}

func decodeSSRUra(msg *RTCMMessage, entry ssrCatalogEntry) (*SSRUraMessage, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	h := decodeSSRHeader(r, msg.Type, entry)

	out := &SSRUraMessage{Header: h, Entries: make([]SSRUraEntry, h.NumSatellites)}
	for i := 0; i < h.NumSatellites; i++ {
		var e SSRUraEntry
		e.SatID = uint8(r.U(satelliteIDWidth(entry.constellation)))
		e.Class = uint8(r.U(3))
		e.Value = uint8(r.U(3))
		e.UraMetres = resolveURA(e.Class, e.Value)
		out.Entries[i] = e
	}
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return out, nil
}

// SSRHighRateClockEntry is a per-satellite high-rate clock correction,
// a scalar supplement to the low-rate C0/C1/C2 clock polynomial.
type SSRHighRateClockEntry struct {
	SatID      uint8
	Correction float64 // metres
}

// SSRHighRateClockMessage is a decoded high-rate clock SSR message.
type SSRHighRateClockMessage struct {
	Header  SSRHeader
	Entries []SSRHighRateClockEntry
}

func decodeSSRHighRateClock(msg *RTCMMessage, entry ssrCatalogEntry) (*SSRHighRateClockMessage, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	h := decodeSSRHeader(r, msg.Type, entry)

	out := &SSRHighRateClockMessage{Header: h, Entries: make([]SSRHighRateClockEntry, h.NumSatellites)}
	for i := 0; i < h.NumSatellites; i++ {
		var e SSRHighRateClockEntry
		e.SatID = uint8(r.U(satelliteIDWidth(entry.constellation)))
		e.Correction = float64(r.I(22)) * 0.1e-3
		out.Entries[i] = e
	}
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return out, nil
}

var errSchedulePayloadMismatch = fmt.Errorf("schedule did not consume payload exactly")

// ClassifyMessage reports the SSR kind and constellation an RTCM message
// number resolves to, for callers (the SSR store) that need to route a
// decoded payload without re-deriving the catalog themselves.
func ClassifyMessage(msgType int) (kind SSRKind, constellation Constellation, ok bool) {
	entry, ok := ssrCatalog[msgType]
	if !ok {
		return 0, 0, false
	}
	return entry.kind, entry.constellation, true
}
