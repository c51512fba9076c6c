package rtcm

import (
	"fmt"
	"math"
)

// KeplerianEphemeris is the broadcast orbit description shared by GPS,
// Galileo (F/NAV and I/NAV), BeiDou, and QZSS: a set of Keplerian
// elements plus harmonic correction terms and a clock polynomial.
// RawWeek is the field exactly as broadcast (10, 12, or 13 bits
// depending on constellation); rebasing it against a GPS week base is
// the ephemeris store's job, not the decoder's.
type KeplerianEphemeris struct {
	Constellation Constellation
	SatID         uint8
	RawWeek       uint16
	SvAccuracy    uint8 // URA index (GPS/BeiDou/QZSS) or SISA index (Galileo)
	IDOT          float64
	IODE          uint16
	IODC          int32 // -1 where the schedule has no separate IODC (Galileo; BeiDou/QZSS use AODC in IODC's place)
	Toc           float64
	Af2, Af1, Af0 float64
	Crs           float64
	DeltaN        float64
	M0            float64
	Cuc           float64
	Eccentricity  float64
	Cus           float64
	SqrtA         float64
	Toe           float64
	Cic           float64
	Omega0        float64
	Cis           float64
	Inclination   float64
	Crc           float64
	Omega         float64
	OmegaDot      float64
	TGD           [2]float64 // TGD[1] populated only for Galileo I/NAV (E5b/E1)
	SvHealth      uint8
	CodeOnL2      uint8 // GPS and QZSS; zero elsewhere
	L2PDataFlag   bool  // GPS only, informational
	FitInterval   bool  // GPS and QZSS, informational
}

// GLONASSEphemeris is the GLONASS state-vector ephemeris: position,
// velocity, and luni-solar acceleration in PZ-90, plus clock terms.
type GLONASSEphemeris struct {
	SatID         uint8
	FreqNum       int8 // channel number, -7..+13 after the -7 offset
	DayNumber     uint8
	Tb            uint32 // seconds, 15-minute grid
	SvHealth      bool
	P1, P2, P3, P4 bool
	X, Y, Z       float64 // km
	VX, VY, VZ    float64 // km/s
	AX, AY, AZ    float64 // km/s^2
	GammaN        float64
	TauN          float64
	DeltaTauN     float64
	En            uint8
	P             bool
	FT            uint8
	NT            uint16
	N4            uint8
	M             bool
	AvailabilityA bool
	NA            uint16
	TauC          float64
	N             uint16
	AvailabilityB bool
	TauGPS        float64
}

// decodeGPSEphemeris decodes RTCM message 1019 (GPS ephemeris).
func decodeGPSEphemeris(msg *RTCMMessage) (*KeplerianEphemeris, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	e := &KeplerianEphemeris{Constellation: GPS}

	e.SatID = uint8(r.U(6))
	e.RawWeek = uint16(r.U(10))
	e.SvAccuracy = uint8(r.U(4))
	e.CodeOnL2 = uint8(r.U(2))
	e.IDOT = float64(r.I(14)) * math.Pow(2, -43) * math.Pi
	e.IODE = uint16(r.U(8))
	e.Toc = float64(r.U(16)) * 16
	e.Af2 = float64(r.I(8)) * math.Pow(2, -55)
	e.Af1 = float64(r.I(16)) * math.Pow(2, -43)
	e.Af0 = float64(r.I(22)) * math.Pow(2, -31)
	e.IODC = int32(r.U(10))
	e.Crs = float64(r.I(16)) * math.Pow(2, -5)
	e.DeltaN = float64(r.I(16)) * math.Pow(2, -43) * math.Pi
	e.M0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cuc = float64(r.I(16)) * math.Pow(2, -29)
	e.Eccentricity = float64(r.U(32)) * math.Pow(2, -33)
	e.Cus = float64(r.I(16)) * math.Pow(2, -29)
	e.SqrtA = float64(r.U(32)) * math.Pow(2, -19)
	e.Toe = float64(r.U(16)) * 16
	e.Cic = float64(r.I(16)) * math.Pow(2, -29)
	e.Omega0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cis = float64(r.I(16)) * math.Pow(2, -29)
	e.Inclination = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Crc = float64(r.I(16)) * math.Pow(2, -5)
	e.Omega = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.OmegaDot = float64(r.I(24)) * math.Pow(2, -43) * math.Pi
	e.TGD[0] = float64(r.I(8)) * math.Pow(2, -31)
	e.SvHealth = uint8(r.U(6))
	e.L2PDataFlag = r.Bool()
	e.FitInterval = r.Bool()

	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return e, nil
}

// decodeBeiDouEphemeris decodes RTCM message 1042 (BeiDou ephemeris).
// BeiDou's toc/toe are at 8-second resolution and its week field is 13
// bits wide; TGD is scaled by 1e-10 rather than a power of two.
func decodeBeiDouEphemeris(msg *RTCMMessage) (*KeplerianEphemeris, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	e := &KeplerianEphemeris{Constellation: BeiDou}

	e.SatID = uint8(r.U(6))
	e.RawWeek = uint16(r.U(13))
	e.SvAccuracy = uint8(r.U(4))
	e.IDOT = float64(r.I(14)) * math.Pow(2, -43) * math.Pi
	e.IODE = uint16(r.U(5)) // AODE
	e.Toc = float64(r.U(17)) * 8
	e.Af2 = float64(r.I(11)) * math.Pow(2, -66)
	e.Af1 = float64(r.I(22)) * math.Pow(2, -50)
	e.Af0 = float64(r.I(24)) * math.Pow(2, -33)
	e.IODC = int32(r.U(5)) // AODC
	e.Crs = float64(r.I(18)) * math.Pow(2, -6)
	e.DeltaN = float64(r.I(16)) * math.Pow(2, -43) * math.Pi
	e.M0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cuc = float64(r.I(18)) * math.Pow(2, -31)
	e.Eccentricity = float64(r.U(32)) * math.Pow(2, -33)
	e.Cus = float64(r.I(18)) * math.Pow(2, -31)
	e.SqrtA = float64(r.U(32)) * math.Pow(2, -19)
	e.Toe = float64(r.U(17)) * 8
	e.Cic = float64(r.I(18)) * math.Pow(2, -31)
	e.Omega0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cis = float64(r.I(18)) * math.Pow(2, -31)
	e.Inclination = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Crc = float64(r.I(18)) * math.Pow(2, -6)
	e.Omega = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.OmegaDot = float64(r.I(24)) * math.Pow(2, -43) * math.Pi
	e.TGD[0] = float64(r.I(10)) * 1e-10
	e.TGD[1] = float64(r.I(10)) * 1e-10
	e.SvHealth = uint8(r.U(1))

	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return e, nil
}

// decodeQZSSEphemeris decodes RTCM message 1044 (QZSS ephemeris). The
// broadcast satellite field is offset by +192 to form the PRN.
func decodeQZSSEphemeris(msg *RTCMMessage) (*KeplerianEphemeris, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	e := &KeplerianEphemeris{Constellation: QZSS}

	e.SatID = uint8(r.U(4)) + 192
	e.Toc = float64(r.U(16)) * 16
	e.Af2 = float64(r.I(8)) * math.Pow(2, -55)
	e.Af1 = float64(r.I(16)) * math.Pow(2, -43)
	e.Af0 = float64(r.I(22)) * math.Pow(2, -31)
	e.IODE = uint16(r.U(8))
	e.Crs = float64(r.I(16)) * math.Pow(2, -5)
	e.DeltaN = float64(r.I(16)) * math.Pow(2, -43) * math.Pi
	e.M0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cuc = float64(r.I(16)) * math.Pow(2, -29)
	e.Eccentricity = float64(r.U(32)) * math.Pow(2, -33)
	e.Cus = float64(r.I(16)) * math.Pow(2, -29)
	e.SqrtA = float64(r.U(32)) * math.Pow(2, -19)
	e.Toe = float64(r.U(16)) * 16
	e.Cic = float64(r.I(16)) * math.Pow(2, -29)
	e.Omega0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cis = float64(r.I(16)) * math.Pow(2, -29)
	e.Inclination = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Crc = float64(r.I(16)) * math.Pow(2, -5)
	e.Omega = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.OmegaDot = float64(r.I(24)) * math.Pow(2, -43) * math.Pi
	e.IDOT = float64(r.I(14)) * math.Pow(2, -43) * math.Pi
	e.CodeOnL2 = uint8(r.U(2))
	e.RawWeek = uint16(r.U(10))
	e.SvAccuracy = uint8(r.U(4))
	e.SvHealth = uint8(r.U(6))
	e.TGD[0] = float64(r.I(8)) * math.Pow(2, -31)
	e.IODC = int32(r.U(10))
	// Fit-interval bit semantics are inverted relative to GPS: set means
	// a 2-hour fit (shorter), clear means the default longer fit.
	e.FitInterval = !r.Bool()

	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return e, nil
}

// decodeGalileoFNAV decodes RTCM message 1045 (Galileo F/NAV, E5a/E1
// only: a single TGD value, no E5b term).
func decodeGalileoFNAV(msg *RTCMMessage) (*KeplerianEphemeris, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	e, e5aHS, e5aDVS := decodeGalileoCommon(r, 14) // toc/toe at 14-bit/60s resolution
	e.SvHealth = uint8(e5aHS<<4) | uint8(e5aDVS<<3)
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return e, nil
}

// decodeGalileoINAV decodes RTCM message 1046 (Galileo I/NAV: carries
// both E5a/E1 and E5b/E1 broadcast group delays).
func decodeGalileoINAV(msg *RTCMMessage) (*KeplerianEphemeris, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	e, _, _ := decodeGalileoCommon(r, 14)
	e.TGD[1] = float64(r.I(10)) * math.Pow(2, -32) // E5b/E1
	e5bHS := r.U(2)
	e5bDVS := r.U(1)
	e1HS := r.U(2)
	e1DVS := r.U(1)
	e.SvHealth = uint8(e5bHS<<7) | uint8(e5bDVS<<6) | uint8(e1HS<<1) | uint8(e1DVS)
	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return e, nil
}

// decodeGalileoCommon reads the field sequence shared by F/NAV and
// I/NAV up through the first (E5a/E1) TGD and its health/validity bits,
// returning those two bits unconsumed by the caller's variant-specific
// tail (I/NAV keeps reading; F/NAV stops here).
func decodeGalileoCommon(r *Reader, tocToeWidth int) (*KeplerianEphemeris, uint32, uint32) {
	e := &KeplerianEphemeris{Constellation: Galileo}
	e.SatID = uint8(r.U(6))
	e.RawWeek = uint16(r.U(12)) // GST week
	e.IODE = uint16(r.U(10))   // IODnav
	e.IODC = int32(e.IODE)
	e.SvAccuracy = uint8(r.U(8)) // SISA index
	e.IDOT = float64(r.I(14)) * math.Pow(2, -43) * math.Pi
	e.Toc = float64(r.U(tocToeWidth)) * 60
	e.Af2 = float64(r.I(6)) * math.Pow(2, -59)
	e.Af1 = float64(r.I(21)) * math.Pow(2, -46)
	e.Af0 = float64(r.I(31)) * math.Pow(2, -34)
	e.Crs = float64(r.I(16)) * math.Pow(2, -5)
	e.DeltaN = float64(r.I(16)) * math.Pow(2, -43) * math.Pi
	e.M0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cuc = float64(r.I(16)) * math.Pow(2, -29)
	e.Eccentricity = float64(r.U(32)) * math.Pow(2, -33)
	e.Cus = float64(r.I(16)) * math.Pow(2, -29)
	e.SqrtA = float64(r.U(32)) * math.Pow(2, -19)
	e.Toe = float64(r.U(tocToeWidth)) * 60
	e.Cic = float64(r.I(16)) * math.Pow(2, -29)
	e.Omega0 = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Cis = float64(r.I(16)) * math.Pow(2, -29)
	e.Inclination = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.Crc = float64(r.I(16)) * math.Pow(2, -5)
	e.Omega = float64(r.I(32)) * math.Pow(2, -31) * math.Pi
	e.OmegaDot = float64(r.I(24)) * math.Pow(2, -43) * math.Pi
	e.TGD[0] = float64(r.I(10)) * math.Pow(2, -32) // E5a/E1
	hs := r.U(2)
	dvs := r.U(1)
	return e, hs, dvs
}

// decodeGLONASSEphemeris decodes RTCM message 1020 (GLONASS ephemeris).
// Every state-vector component uses explicit sign-bit + magnitude
// encoding, not two's complement.
func decodeGLONASSEphemeris(msg *RTCMMessage) (*GLONASSEphemeris, error) {
	r := NewReader(msg.Data)
	r.Skip(36)
	e := &GLONASSEphemeris{}

	e.SatID = uint8(r.U(6))
	e.FreqNum = int8(r.U(5)) - 7
	r.Skip(1) // almanac health (reserved here)
	e.P1 = r.Bool()
	e.Tb = uint32(r.U(7)) * 15 * 60
	e.VX = float64(r.SignMagnitude(24)) * math.Pow(2, -20)
	e.X = float64(r.SignMagnitude(27)) * math.Pow(2, -11)
	e.AX = float64(r.SignMagnitude(5)) * math.Pow(2, -30)
	e.VY = float64(r.SignMagnitude(24)) * math.Pow(2, -20)
	e.Y = float64(r.SignMagnitude(27)) * math.Pow(2, -11)
	e.AY = float64(r.SignMagnitude(5)) * math.Pow(2, -30)
	e.VZ = float64(r.SignMagnitude(24)) * math.Pow(2, -20)
	e.Z = float64(r.SignMagnitude(27)) * math.Pow(2, -11)
	e.AZ = float64(r.SignMagnitude(5)) * math.Pow(2, -30)
	e.SvHealth = r.U(1) == 0
	e.P2 = r.Bool()
	e.DayNumber = uint8(r.U(5))
	e.GammaN = float64(r.SignMagnitude(11)) * math.Pow(2, -40)
	r.Skip(2) // GLONASS-M P flag
	e.TauN = float64(r.SignMagnitude(22)) * math.Pow(2, -30)
	e.DeltaTauN = float64(r.SignMagnitude(5)) * math.Pow(2, -30)
	e.En = uint8(r.U(5))
	e.P4 = r.Bool()
	e.FT = uint8(r.U(4))
	e.NT = uint16(r.U(11))
	e.M = r.Bool()
	e.AvailabilityA = r.Bool()
	if e.AvailabilityA {
		e.NA = uint16(r.U(11))
		e.TauC = float64(r.SignMagnitude(32)) * math.Pow(2, -31)
	}
	e.N4 = uint8(r.U(5))
	e.TauGPS = float64(r.SignMagnitude(22)) * math.Pow(2, -30)
	e.P3 = r.Bool()

	if r.Remaining() < 0 {
		return nil, fmt.Errorf("%w: type %d", errSchedulePayloadMismatch, msg.Type)
	}
	return e, nil
}
