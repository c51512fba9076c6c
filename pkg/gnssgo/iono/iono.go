// Package iono implements the spherical-harmonic VTEC evaluator: pierce
// point geometry, normalized associated Legendre polynomials, and the
// slant-factor range delay conversion.
package iono

import (
	"math"

	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/orbit"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// Result is the full diagnostic output of one evaluation: the range
// delay plus its pierce-point, sun-fixed-longitude, VTEC/STEC and
// slant-factor intermediates.
type Result struct {
	PiercePointLatRad float64
	PiercePointLonRad float64
	SunFixedLonRad    float64
	VTEC              float64 // TECU
	SlantFactor       float64
	STEC              float64 // TECU
	RangeDelayMetres  float64
	Layers            []LayerResult
}

// LayerResult is one layer's contribution.
type LayerResult struct {
	HeightMetres float64
	VTEC         float64
}

// Evaluate computes pierce-point geometry, slant factor, and range delay
// for a single satellite/receiver/epoch/layer-set combination.
func Evaluate(rcvECEF, satECEF geo.Vec3, epochSeconds float64, layers []rtcm.VtecLayer, carrierHz float64) Result {
	rangeMetres := satECEF.Sub(rcvECEF).Norm()
	tau := rangeMetres / orbit.SpeedOfLight
	satCorrected := sagnacRotate(satECEF, orbit.EarthRotationRate*tau)

	rcvSpherical := geo.Ecef2Pos(rcvECEF)
	phiR, lambdaR := rcvSpherical.LatRad, rcvSpherical.LonRad

	az := geo.Azimuth(rcvSpherical, satCorrected.Sub(rcvECEF))
	el := geo.Elevation(rcvSpherical, satCorrected.Sub(rcvECEF))

	var result Result
	result.Layers = make([]LayerResult, len(layers))

	const earthRadius = geo.ReWGS84
	receiverHeight := rcvSpherical.Height
	for i, layer := range layers {
		psiPP := math.Pi/2 - el - math.Asin((earthRadius+receiverHeight)/(earthRadius+layer.HeightMetres)*math.Cos(el))

		sinPhiPP := math.Sin(phiR)*math.Cos(psiPP) + math.Cos(phiR)*math.Sin(psiPP)*math.Cos(az)
		phiPP := math.Asin(sinPhiPP)

		lambdaPP := piercePointLongitude(phiR, lambdaR, psiPP, az, phiPP)

		sunFixedLon := math.Mod(lambdaPP+(epochSeconds-50400)*math.Pi/43200, 2*math.Pi)
		if sunFixedLon < 0 {
			sunFixedLon += 2 * math.Pi
		}

		vtec := evaluateLayer(layer, phiPP, sunFixedLon)

		slant := 1 / math.Sin(el+psiPP)
		stec := vtec * slant

		result.PiercePointLatRad = phiPP
		result.PiercePointLonRad = lambdaPP
		result.SunFixedLonRad = sunFixedLon
		result.VTEC += vtec
		result.SlantFactor = slant
		result.STEC += stec
		result.Layers[i] = LayerResult{HeightMetres: layer.HeightMetres, VTEC: vtec}
		result.RangeDelayMetres += 40.3e16 / (carrierHz * carrierHz) * stec
	}

	return result
}

// sagnacRotate rotates an ECEF vector about the Z axis by angle, the
// satellite-position Earth-spin correction for the signal's travel time.
func sagnacRotate(v geo.Vec3, angle float64) geo.Vec3 {
	s, c := math.Sin(angle), math.Cos(angle)
	return geo.Vec3{
		X: c*v.X - s*v.Y,
		Y: s*v.X + c*v.Y,
		Z: v.Z,
	}
}

// piercePointLongitude resolves λ_pp by a quadrant-sensitive case
// analysis: the default arcsine solution is reflected through π when the
// pierce point has crossed the pole relative to the receiver, detected
// by comparing tan(ψ_pp)·cos(az) against cot(φ_R).
func piercePointLongitude(phiR, lambdaR, psiPP, az, phiPP float64) float64 {
	deflection := math.Asin(math.Sin(psiPP) * math.Sin(az) / math.Cos(phiPP))

	crossedPole := (phiR > 0 && math.Tan(psiPP)*math.Cos(az) > 1/math.Tan(phiR)) ||
		(phiR < 0 && -math.Tan(psiPP)*math.Cos(az) > 1/math.Tan(-phiR))

	if crossedPole {
		return lambdaR + math.Pi - deflection
	}
	return lambdaR + deflection
}

// evaluateLayer sums the spherical-harmonic series for one layer at
// pierce-point latitude phiPP and sun-fixed longitude sunFixedLon.
func evaluateLayer(layer rtcm.VtecLayer, phiPP, sunFixedLon float64) float64 {
	x := math.Sin(phiPP)
	p := normalizedLegendre(x, layer.Degree, layer.Order)

	var vtec float64
	for n := 0; n <= layer.Degree; n++ {
		maxM := n
		if maxM > layer.Order {
			maxM = layer.Order
		}
		for m := 0; m <= maxM; m++ {
			cnm := layer.Cosine[n][m]
			vtec += cnm * p[n][m] * math.Cos(float64(m)*sunFixedLon)
			if m > 0 {
				snm := layer.Sine[n][m]
				vtec += snm * p[n][m] * math.Sin(float64(m)*sunFixedLon)
			}
		}
	}
	return vtec
}

// NormalizedLegendre exposes the recurrence for testing.
func NormalizedLegendre(x float64, degree, order int) [][]float64 {
	return normalizedLegendre(x, degree, order)
}

// normalizedLegendre computes the fully normalized associated Legendre
// polynomials P̄_{n,m}(x) for n in [0,degree], m in [0,min(n,order)], by
// the sectoral/diagonal/vertical recurrence.
func normalizedLegendre(x float64, degree, order int) [][]float64 {
	maxOrder := order
	if degree < maxOrder {
		maxOrder = degree
	}

	p := make([][]float64, degree+1)
	for n := range p {
		cols := n
		if cols > order {
			cols = order
		}
		p[n] = make([]float64, cols+1)
	}

	p[0][0] = 1
	sinTerm := math.Sqrt(1 - x*x)

	for m := 1; m <= maxOrder; m++ {
		p[m][m] = (2*float64(m) - 1) * sinTerm * p[m-1][m-1]
	}
	for m := 0; m < maxOrder && m+1 <= degree; m++ {
		p[m+1][m] = (2*x + 1) * x * p[m][m]
	}
	for n := 2; n <= degree; n++ {
		maxM := n - 1
		if maxM > order {
			maxM = order
		}
		for m := 0; m <= maxM; m++ {
			// p[n-2][m] only exists for m <= n-2; for the sub-diagonal
			// (m == n-1) that term is absent and treated as zero, so this
			// recurrence also overwrites the sub-diagonal seeded above
			// with the same general formula the source uses.
			var prevPrev float64
			if m <= n-2 {
				prevPrev = p[n-2][m]
			}
			p[n][m] = ((2*float64(n)-1)*x*p[n-1][m] - (float64(n+m)-1)*prevPrev) / float64(n-m)
		}
	}

	out := make([][]float64, degree+1)
	for n := 0; n <= degree; n++ {
		maxM := n
		if maxM > order {
			maxM = order
		}
		out[n] = make([]float64, maxM+1)
		for m := 0; m <= maxM; m++ {
			norm := math.Sqrt(float64(2*n+1) * factorialRatio(n-m, n+m))
			if m != 0 {
				norm *= math.Sqrt(2)
			}
			out[n][m] = p[n][m] * norm
		}
	}
	return out
}

// factorialRatio computes (a!)/(b!) for a <= b without overflowing
// intermediate factorials.
func factorialRatio(a, b int) float64 {
	ratio := 1.0
	for i := a + 1; i <= b; i++ {
		ratio /= float64(i)
	}
	return ratio
}
