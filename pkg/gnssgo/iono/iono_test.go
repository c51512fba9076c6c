package iono

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

func TestNormalizedLegendreAtZeroDegreeZero(t *testing.T) {
	p := NormalizedLegendre(0, 2, 2)
	require.InDelta(t, 1.0, p[0][0], 1e-12)
}

func TestEvaluateZenithSingleLayerScenario(t *testing.T) {
	// A satellite directly overhead (elevation 90 degrees) sees slant
	// factor 1 and VTEC == STEC == C00 == 10 TECU; the L1 range delay is
	// 40.3e16/f^2 * STEC.
	rcv := geo.Pos2Ecef(geo.Geodetic{LatRad: 0, LonRad: 0, Height: 0})
	sat := geo.Pos2Ecef(geo.Geodetic{LatRad: 0, LonRad: 0, Height: 20200e3})

	layer := rtcm.VtecLayer{
		HeightMetres: 450000,
		Degree:       0,
		Order:        0,
		Cosine:       [][]float64{{10}},
		Sine:         [][]float64{{0}},
	}

	const l1Hz = 1575.42e6
	result := Evaluate(rcv, sat, 0, []rtcm.VtecLayer{layer}, l1Hz)

	require.InDelta(t, 1.0, result.SlantFactor, 1e-6)
	require.InDelta(t, 10.0, result.VTEC, 1e-6)
	require.InDelta(t, 10.0, result.STEC, 1e-6)

	expectedDelay := 40.3e16 / (l1Hz * l1Hz) * 10.0
	require.InDelta(t, expectedDelay, result.RangeDelayMetres, 1e-6)
}
