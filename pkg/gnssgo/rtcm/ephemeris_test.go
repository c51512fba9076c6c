package rtcm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// bitWriter is the mirror-image of Reader, used only by tests to
// synthesize payloads field-by-field in schedule order.
type bitWriter struct {
	buf []byte
	pos int
}

func newBitWriter(totalBits int) *bitWriter {
	return &bitWriter{buf: make([]byte, (totalBits+7)/8)}
}

func (w *bitWriter) writeU(n int, v uint32) {
	setBitU(w.buf, w.pos, n, v)
	w.pos += n
}

func (w *bitWriter) writeI(n int, v int32) {
	w.writeU(n, uint32(v))
}

func (w *bitWriter) writeBool(v bool) {
	if v {
		w.writeU(1, 1)
	} else {
		w.writeU(1, 0)
	}
}

// gpsEphemerisFieldBits is the GPS 1019 schedule's total bit width,
// header included, used to size the synthetic payload.
const gpsEphemerisFieldBits = 512

func newGPSEphemerisPayload(satID uint8, rawWeek uint16) []byte {
	w := newBitWriter(gpsEphemerisFieldBits)
	w.pos = 36 // leave the 24-bit header + 12-bit message number at zero

	w.writeU(6, uint32(satID))
	w.writeU(10, uint32(rawWeek))
	w.writeU(4, 0)  // svAccuracy
	w.writeU(2, 0)  // codeOnL2
	w.writeI(14, 0) // idot
	w.writeU(8, 0)  // iode
	w.writeU(16, 0) // toc
	w.writeI(8, 0)  // af2
	w.writeI(16, 0) // af1
	w.writeI(22, 0) // af0
	w.writeU(10, 0) // iodc
	w.writeI(16, 0) // crs
	w.writeI(16, 0) // deltaN
	w.writeI(32, 0) // m0
	w.writeI(16, 0) // cuc
	w.writeU(32, 0) // eccentricity
	w.writeI(16, 0) // cus
	w.writeU(32, 0) // sqrtA
	w.writeU(16, 0) // toe
	w.writeI(16, 0) // cic
	w.writeI(32, 0) // omega0
	w.writeI(16, 0) // cis
	w.writeI(32, 0) // inclination
	w.writeI(16, 0) // crc
	w.writeI(32, 0) // omega
	w.writeI(24, 0) // omegaDot
	w.writeI(8, 0)  // tgd0
	w.writeU(6, 0)  // svHealth
	w.writeBool(false)
	w.writeBool(false)

	return w.buf
}

func TestDecodeGPSEphemerisWeekRolloverAndSatID(t *testing.T) {
	// PRN=1, raw week=1023 decodes to "G01"/2047 once the ephemeris store
	// rebases the raw week (NewKeplerianEntry calls
	// gtime.ResolveBroadcastWeek, tested separately in gtime).
	msg := &RTCMMessage{Type: 1019, Data: newGPSEphemerisPayload(1, 1023)}

	e, err := decodeGPSEphemeris(msg)
	require.NoError(t, err)
	require.Equal(t, uint8(1), e.SatID)
	require.Equal(t, uint16(1023), e.RawWeek)
	require.Equal(t, GPS, e.Constellation)
}

func TestDecodeGPSEphemerisClockScenario(t *testing.T) {
	// af0 = 1e-4, af1 = af2 = 0, toc = 0: the decoded af0 must come back
	// as 1e-4 s to within one raw step. With eccentricity zero this is
	// also the clock bias at any tk.
	w := newBitWriter(gpsEphemerisFieldBits)
	w.pos = 36
	w.writeU(6, 1)
	w.writeU(10, 0)
	w.writeU(4, 0)
	w.writeU(2, 0)
	w.writeI(14, 0)
	w.writeU(8, 0)
	w.writeU(16, 0) // toc = 0
	w.writeI(8, 0)  // af2
	w.writeI(16, 0) // af1
	// af0 = 1e-4 / 2^-31 ≈ 214748.3648 → truncated to the raw integer 214748.
	af0Raw := int32(1e-4 / pow2(-31))
	w.writeI(22, af0Raw)
	data := w.buf

	msg := &RTCMMessage{Type: 1019, Data: data}
	e, err := decodeGPSEphemeris(msg)
	require.NoError(t, err)
	require.InDelta(t, 1e-4, e.Af0, 1e-9)
}

func pow2(n int) float64 {
	v := 1.0
	if n < 0 {
		for i := 0; i > n; i-- {
			v /= 2
		}
		return v
	}
	for i := 0; i < n; i++ {
		v *= 2
	}
	return v
}

func TestDecodeQZSSEphemerisSatIDOffset(t *testing.T) {
	// QZSS sat field = 1 decodes to PRN 193 ("J193" is the ephstore/emit
	// layer's rendering of that PRN).
	w := newBitWriter(36 + 4 + 16*9) // only the sat field is written; the buffer is padded below
	w.pos = 36
	w.writeU(4, 1) // sat field
	data := w.buf
	// Pad so every subsequent field read returns zero without running
	// past the end of the schedule's declared bit width.
	padded := make([]byte, 200)
	copy(padded, data)

	msg := &RTCMMessage{Type: 1044, Data: padded}
	e, err := decodeQZSSEphemeris(msg)
	require.NoError(t, err)
	require.Equal(t, uint8(193), e.SatID)
	require.Equal(t, QZSS, e.Constellation)
}
