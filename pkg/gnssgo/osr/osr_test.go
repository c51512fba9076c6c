package osr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/submeter/ssrosr/pkg/gnssgo/ephstore"
	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
	"github.com/submeter/ssrosr/pkg/gnssgo/ssrstore"
)

const gpsSemiMajorAxis = 26560000.0

func circularEquatorialEphemeris(meanAnomaly float64) *rtcm.KeplerianEphemeris {
	return &rtcm.KeplerianEphemeris{
		Constellation: rtcm.GPS,
		SatID:         1,
		SqrtA:         math.Sqrt(gpsSemiMajorAxis),
		M0:            meanAnomaly,
		Af0:           0.1,
	}
}

func buildStores(t *testing.T, meanAnomaly float64) (*ephstore.Store, *ssrstore.Store) {
	t.Helper()
	eph := ephstore.New()
	eph.Add(rtcm.GPS, 1, ephstore.Entry{
		AbsoluteSeconds: 100000,
		Keplerian:       circularEquatorialEphemeris(meanAnomaly),
	})

	ssr := ssrstore.New()
	clockMsg := &rtcm.SSROrbitClockMessage{
		Header: rtcm.SSRHeader{MessageType: 1058, Constellation: rtcm.GPS, Epoch: 100000, NumSatellites: 1},
		Clocks: []rtcm.SSRClockCorrection{{SatID: 1, C0: 0.1}},
	}
	require.NoError(t, ssr.Ingest(1058, clockMsg))
	return eph, ssr
}

func TestTranslateExcludesBelowHorizonSatellite(t *testing.T) {
	// M0 = pi places the satellite on the opposite side of the Earth from
	// the receiver at (Re,0,0): strictly below the horizon.
	eph, ssr := buildStores(t, math.Pi)
	rcvECEF := geo.Pos2Ecef(geo.Geodetic{LatRad: 0, LonRad: 0, Height: 0})

	corrections := Translate(eph, ssr, rcvECEF, TimeBase{GPSWeek: 0})
	require.Empty(t, corrections)
}

func TestTranslateIncludesOverheadSatelliteWithClockCorrection(t *testing.T) {
	// M0 = 0 places the satellite roughly along the receiver's own
	// radial direction: well above the horizon.
	eph, ssr := buildStores(t, 0)
	rcvECEF := geo.Pos2Ecef(geo.Geodetic{LatRad: 0, LonRad: 0, Height: 0})

	corrections := Translate(eph, ssr, rcvECEF, TimeBase{GPSWeek: 0})
	require.Len(t, corrections, 1)

	c := corrections[0]
	require.Greater(t, c.ElevationDeg, 0.0)
	require.NotNil(t, c.ClockCorrection)
	require.InDelta(t, 0.1, *c.ClockCorrection, 1e-9)
}
