// Package orbit propagates broadcast ephemerides (Keplerian for GPS,
// Galileo, BeiDou, QZSS; numerically integrated state vectors for
// GLONASS) to a target time, and resolves the satellite's signal
// transmission time against a given receiver position.
package orbit

import (
	"fmt"

	"github.com/submeter/ssrosr/pkg/gnssgo/ephstore"
	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
)

// SpeedOfLight is the vacuum speed of light in m/s.
const SpeedOfLight = 299792458.0

// EarthRotationRate is WGS-84's Earth rotation rate in rad/s.
const EarthRotationRate = 7.29211514670e-5

// State is a satellite's resolved position, velocity, and clock state
// at its signal transmission time.
type State struct {
	Position         geo.Vec3
	Velocity         geo.Vec3
	ClockBias        float64 // seconds
	ClockDrift       float64 // s/s
	TransmissionTime float64 // seconds since the GPS epoch
}

// evaluate dispatches to the Keplerian or GLONASS equations of motion
// for entry, at tk seconds relative to entry's reference time.
func evaluate(entry ephstore.Entry, tk float64) (geo.Vec3, geo.Vec3, float64, float64, error) {
	switch {
	case entry.Keplerian != nil:
		return keplerianState(entry.Keplerian, tk)
	case entry.Glonass != nil:
		return glonassState(entry.Glonass, tk)
	default:
		return geo.Vec3{}, geo.Vec3{}, 0, 0, fmt.Errorf("orbit: empty ephemeris entry")
	}
}

// PropagateToTransmission resolves entry's position/velocity/clock at
// the signal transmission time implied by receptionTime and rcvECEF, via
// a two-step fixed point: iterate signal travel time ρ/c from the
// previous range estimate, then re-evaluate the orbit at the new
// transmission time, until the range settles to 0.1 mm and the clock
// estimate to 10 ns.
func PropagateToTransmission(entry ephstore.Entry, receptionTime float64, rcvECEF geo.Vec3, applyClockCorrection bool) (State, error) {
	const (
		maxIterations  = 10
		rangeTolerance = 0.1e-3 // metres
		clockTolerance = 1e-8   // seconds
	)

	rangeEstimate := 20e6
	var prevClockBias float64

	var pos, vel geo.Vec3
	var clockBias, clockDrift float64
	var transmissionTime float64

	for i := 0; i < maxIterations; i++ {
		tau := rangeEstimate / SpeedOfLight
		transmissionTime = receptionTime - tau
		tk := transmissionTime - entry.AbsoluteSeconds

		var err error
		pos, vel, clockBias, clockDrift, err = evaluate(entry, tk)
		if err != nil {
			return State{}, err
		}

		if applyClockCorrection {
			pos, vel, clockBias, clockDrift, err = evaluate(entry, tk-clockBias)
			if err != nil {
				return State{}, err
			}
		}

		newRange := pos.Sub(rcvECEF).Norm()
		rangeDelta := newRange - rangeEstimate
		clockDelta := clockBias - prevClockBias
		rangeEstimate = newRange
		prevClockBias = clockBias

		if abs(rangeDelta) < rangeTolerance && abs(clockDelta) < clockTolerance {
			break
		}
	}

	return State{
		Position:         pos,
		Velocity:         vel,
		ClockBias:        clockBias,
		ClockDrift:       clockDrift,
		TransmissionTime: transmissionTime,
	}, nil
}

// AtOwnReferenceTime evaluates entry's orbit equations at its own
// reference time (tk = 0), with no travel-time iteration: a
// self-consistency check against the broadcast elements themselves.
func AtOwnReferenceTime(entry ephstore.Entry) (geo.Vec3, geo.Vec3, float64, float64, error) {
	return evaluate(entry, 0)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
