package orbit

import (
	"math"

	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// Gravitational parameters (m^3/s^2), per constellation.
const (
	muGPSQZS = 3.986005e14
	muGALBDS = 3.986004418e14
)

func gravitationalParameter(c rtcm.Constellation) float64 {
	switch c {
	case rtcm.Galileo, rtcm.BeiDou:
		return muGALBDS
	default: // GPS, QZSS
		return muGPSQZS
	}
}

// keplerianState evaluates the standard broadcast orbit equations at tk
// seconds relative to the ephemeris's toe, and the clock polynomial at
// tk + (toe - toc) seconds relative to toc.
func keplerianState(e *rtcm.KeplerianEphemeris, tk float64) (geo.Vec3, geo.Vec3, float64, float64, error) {
	mu := gravitationalParameter(e.Constellation)

	a := e.SqrtA * e.SqrtA
	n0 := math.Sqrt(mu / (a * a * a))
	n := n0 + e.DeltaN
	mk := e.M0 + n*tk

	ek := solveKepler(mk, e.Eccentricity)

	sinEk, cosEk := math.Sin(ek), math.Cos(ek)
	vk := math.Atan2(math.Sqrt(1-e.Eccentricity*e.Eccentricity)*sinEk, cosEk-e.Eccentricity)
	phik := vk + e.Omega

	sin2phi, cos2phi := math.Sin(2*phik), math.Cos(2*phik)
	duk := e.Cus*sin2phi + e.Cuc*cos2phi
	drk := e.Crs*sin2phi + e.Crc*cos2phi
	dik := e.Cis*sin2phi + e.Cic*cos2phi

	uk := phik + duk
	rk := a*(1-e.Eccentricity*cosEk) + drk
	ik := e.Inclination + e.IDOT*tk + dik

	xPrime := rk * math.Cos(uk)
	yPrime := rk * math.Sin(uk)

	omegak := e.Omega0 + (e.OmegaDot-EarthRotationRate)*tk - EarthRotationRate*e.Toe

	sinOmegak, cosOmegak := math.Sin(omegak), math.Cos(omegak)
	sinIk, cosIk := math.Sin(ik), math.Cos(ik)

	pos := geo.Vec3{
		X: xPrime*cosOmegak - yPrime*cosIk*sinOmegak,
		Y: xPrime*sinOmegak + yPrime*cosIk*cosOmegak,
		Z: yPrime * sinIk,
	}

	// Velocity via central finite difference: the broadcast orbit
	// equations are cheap enough that a closed-form derivative isn't
	// worth the bug surface it invites.
	const dt = 1e-3
	posAfter, _, _, _, _ := keplerianPositionOnly(e, tk+dt/2, mu)
	posBefore, _, _, _, _ := keplerianPositionOnly(e, tk-dt/2, mu)
	vel := posAfter.Sub(posBefore).Scale(1 / dt)

	clockBias, clockDrift := keplerianClock(e, tk, ek, mu)

	return pos, vel, clockBias, clockDrift, nil
}

// keplerianPositionOnly is keplerianState's position-only core, reused
// by the velocity finite-difference without recomputing the clock.
func keplerianPositionOnly(e *rtcm.KeplerianEphemeris, tk float64, mu float64) (geo.Vec3, geo.Vec3, float64, float64, error) {
	a := e.SqrtA * e.SqrtA
	n0 := math.Sqrt(mu / (a * a * a))
	n := n0 + e.DeltaN
	mk := e.M0 + n*tk
	ek := solveKepler(mk, e.Eccentricity)

	sinEk, cosEk := math.Sin(ek), math.Cos(ek)
	vk := math.Atan2(math.Sqrt(1-e.Eccentricity*e.Eccentricity)*sinEk, cosEk-e.Eccentricity)
	phik := vk + e.Omega

	sin2phi, cos2phi := math.Sin(2*phik), math.Cos(2*phik)
	duk := e.Cus*sin2phi + e.Cuc*cos2phi
	drk := e.Crs*sin2phi + e.Crc*cos2phi
	dik := e.Cis*sin2phi + e.Cic*cos2phi

	uk := phik + duk
	rk := a*(1-e.Eccentricity*cosEk) + drk
	ik := e.Inclination + e.IDOT*tk + dik

	xPrime := rk * math.Cos(uk)
	yPrime := rk * math.Sin(uk)
	omegak := e.Omega0 + (e.OmegaDot-EarthRotationRate)*tk - EarthRotationRate*e.Toe

	sinOmegak, cosOmegak := math.Sin(omegak), math.Cos(omegak)
	sinIk, cosIk := math.Sin(ik), math.Cos(ik)

	pos := geo.Vec3{
		X: xPrime*cosOmegak - yPrime*cosIk*sinOmegak,
		Y: xPrime*sinOmegak + yPrime*cosIk*cosOmegak,
		Z: yPrime * sinIk,
	}
	return pos, geo.Vec3{}, 0, 0, nil
}

// solveKepler solves Ek = Mk + e*sin(Ek) by fixed-point iteration to
// 5e-12 radians or 10 iterations.
func solveKepler(mk, ecc float64) float64 {
	ek := mk
	for i := 0; i < 10; i++ {
		next := mk + ecc*math.Sin(ek)
		if math.Abs(next-ek) < 5e-12 {
			ek = next
			break
		}
		ek = next
	}
	return ek
}

// keplerianClock evaluates the clock polynomial plus the relativistic
// correction F*e*sqrtA*sin(Ek), F = -2*sqrt(mu)/c^2, using the explicit
// form uniformly rather than a per-constellation constant since the two
// are numerically identical.
func keplerianClock(e *rtcm.KeplerianEphemeris, tk, ek, mu float64) (bias, drift float64) {
	dt := tk + (e.Toe - e.Toc) // time since toc; equals tk when toe and toc coincide
	f := -2 * math.Sqrt(mu) / (SpeedOfLight * SpeedOfLight)
	relativistic := f * e.Eccentricity * e.SqrtA * math.Sin(ek)

	bias = e.Af0 + e.Af1*dt + e.Af2*dt*dt + relativistic
	drift = e.Af1 + 2*e.Af2*dt
	return bias, drift
}
