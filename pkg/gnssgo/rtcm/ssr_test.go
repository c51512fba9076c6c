package rtcm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// newOrbitClockPayload hand-packs a 1060 (GPS combined orbit+clock)
// message body for two satellites, header fields mostly zeroed except
// NumSatellites, with a set of raw correction values to exercise scaling.
func newOrbitClockPayload() []byte {
	// header: epoch(20) + interval(4) + multi(1) + datum(1) + iod(4) +
	// provider(16) + solution(4) + numSat(6) = 56 bits
	// per satellite: satID(6)+iode(8)+radial(22)+along(20)+cross(20)+
	// dotRadial(21)+dotAlong(19)+dotCross(19) = 135 bits (orbit)
	// + satID(6)+c0(22)+c1(21)+c2(27) = 76 bits (clock)
	// total per sat = 211 bits, two sats = 422 bits
	totalBits := 36 + 56 + 2*211
	w := newBitWriter(totalBits)
	w.pos = 36

	w.writeU(20, 0) // epoch
	w.writeU(4, 0)  // update interval index
	w.writeBool(false)
	w.writeBool(false)
	w.writeU(4, 0)  // IODSSR (4-bit field)
	w.writeU(16, 0) // provider
	w.writeU(4, 0)  // solution
	w.writeU(6, 2)  // numSat = 2

	// satellite 1: SatID=5, Δradial raw=+100 (→0.0100m), Δalong raw=-25 (→-0.0100m)
	w.writeU(6, 5)
	w.writeU(8, 75) // IODE = 75
	w.writeI(22, 100)
	w.writeI(20, -25)
	w.writeI(20, 0)
	w.writeI(21, 0)
	w.writeI(19, 0)
	w.writeI(19, 0)
	w.writeU(6, 5)   // clock satID repeats per schedule
	w.writeI(22, 1000) // C0 raw=1000 -> 0.1m
	w.writeI(21, 0)
	w.writeI(27, 0)

	// satellite 2: SatID=13, all corrections zero
	w.writeU(6, 13)
	w.writeU(8, 0)
	w.writeI(22, 0)
	w.writeI(20, 0)
	w.writeI(20, 0)
	w.writeI(21, 0)
	w.writeI(19, 0)
	w.writeI(19, 0)
	w.writeU(6, 13)
	w.writeI(22, 0)
	w.writeI(21, 0)
	w.writeI(27, 0)

	return w.buf
}

func TestDecodeSSROrbitClockScenario(t *testing.T) {
	msg := &RTCMMessage{Type: 1060, Data: newOrbitClockPayload()}
	entry := ssrCatalog[1060]

	out, err := decodeSSROrbitClockMessage(msg, entry)
	require.NoError(t, err)
	require.Equal(t, 2, out.Header.NumSatellites)
	require.Equal(t, uint8(75), out.Orbits[0].IODE)

	require.Len(t, out.Orbits, 2)
	require.Equal(t, uint8(5), out.Orbits[0].SatID)
	require.InDelta(t, 0.0100, out.Orbits[0].DeltaRadial, 1e-9)
	require.InDelta(t, -0.0100, out.Orbits[0].DeltaAlongTrack, 1e-9)
	require.Equal(t, uint8(13), out.Orbits[1].SatID)

	require.Len(t, out.Clocks, 2)
	require.Equal(t, uint8(5), out.Clocks[0].SatID)
	require.InDelta(t, 0.1000, out.Clocks[0].C0, 1e-9)
}

func TestDecodeSSRPhaseBiasYawResolution(t *testing.T) {
	// yaw raw=128 is half of the 9-bit 256-step semicircle, i.e. pi/2 rad (90 degrees).
	// Phase-bias headers have no Satellite Reference Datum bit; instead
	// they carry a dispersive bias consistency indicator and an MW
	// consistency indicator between SolutionID and NumSatellites.
	totalBits := 36 + 57 + 6 + 5 + 9 + 8
	w := newBitWriter(totalBits)
	w.pos = 36
	w.writeU(20, 0)
	w.writeU(4, 0)
	w.writeBool(false)
	w.writeU(4, 0)
	w.writeU(16, 0)
	w.writeU(4, 0)
	w.writeBool(false) // dispersive bias consistency indicator
	w.writeBool(false) // MW consistency indicator
	w.writeU(6, 1)     // numSat = 1

	w.writeU(6, 3) // satID
	w.writeU(5, 0) // no signal entries
	w.writeU(9, 128)
	w.writeI(8, 0)

	entry := ssrCatalog[1265]
	msg := &RTCMMessage{Type: 1265, Data: w.buf}

	out, err := decodeSSRPhaseBias(msg, entry)
	require.NoError(t, err)
	require.Len(t, out.Biases, 1)
	require.InDelta(t, math.Pi/2, out.Biases[0].YawRad, 1e-9)
}
