package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/submeter/ssrosr/pkg/gnssgo/ephstore"
	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// circularEquatorialEphemeris builds a zero-eccentricity, zero-inclination
// Keplerian ephemeris whose clock polynomial is just af0, so its state at
// tk=0 is checkable by hand: the satellite sits at radius SqrtA^2 in the
// equatorial plane, and Z stays zero for every tk since inclination and
// every inclination-rate term are zero.
func circularEquatorialEphemeris(semiMajorAxis, af0 float64) *rtcm.KeplerianEphemeris {
	return &rtcm.KeplerianEphemeris{
		Constellation: rtcm.GPS,
		SqrtA:         math.Sqrt(semiMajorAxis),
		Af0:           af0,
	}
}

func TestAtOwnReferenceTimeCircularEquatorialOrbit(t *testing.T) {
	const semiMajorAxis = 26560000.0
	entry := ephstore.Entry{
		AbsoluteSeconds: 100000,
		Keplerian:       circularEquatorialEphemeris(semiMajorAxis, 5e-4),
	}

	pos, _, clockBias, clockDrift, err := AtOwnReferenceTime(entry)
	require.NoError(t, err)

	require.InDelta(t, semiMajorAxis, pos.Norm(), 1e-6)
	require.InDelta(t, 0, pos.Z, 1e-9)
	require.InDelta(t, 5e-4, clockBias, 1e-12)
	require.InDelta(t, 0, clockDrift, 1e-12)
}

func TestAtOwnReferenceTimeUnpopulatedEntryErrors(t *testing.T) {
	_, _, _, _, err := AtOwnReferenceTime(ephstore.Entry{})
	require.Error(t, err)
}

func TestPropagateToTransmissionStaysInEquatorialPlane(t *testing.T) {
	const semiMajorAxis = 26560000.0
	entry := ephstore.Entry{
		AbsoluteSeconds: 100000,
		Keplerian:       circularEquatorialEphemeris(semiMajorAxis, 0),
	}

	rcv := geo.Vec3{X: geo.ReWGS84, Y: 0, Z: 0}
	state, err := PropagateToTransmission(entry, 100000, rcv, false)
	require.NoError(t, err)

	// inclination and every inclination-rate term are zero, so the orbit
	// never leaves the equatorial plane regardless of travel-time
	// iteration.
	require.InDelta(t, 0, state.Position.Z, 1e-6)
	require.Less(t, state.TransmissionTime, 100000.0)
}
