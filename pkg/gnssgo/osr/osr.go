// Package osr implements the SSR→OSR translator: for each SSR epoch and
// visible satellite it resolves the matching ephemeris, propagates the
// orbit, and evaluates every per-signal scalar correction (orbit
// projection, clock polynomial, biases, Shapiro delay, VTEC, and carrier
// phase wind-up).
package osr

import (
	"math"

	"github.com/submeter/ssrosr/pkg/gnssgo/ephstore"
	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/iono"
	"github.com/submeter/ssrosr/pkg/gnssgo/orbit"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
	"github.com/submeter/ssrosr/pkg/gnssgo/ssrstore"
)

// Correction is the fully evaluated OSR record for one satellite at one
// epoch. Pointer fields are nil when the underlying correction is
// unavailable ("n/a").
type Correction struct {
	Epoch         uint32
	Constellation rtcm.Constellation
	SatID         uint8
	TrackingMode  string
	ElevationDeg  float64

	OrbitCorrection *float64 // metres, projected onto line-of-sight
	ClockCorrection *float64 // metres
	CodeBias        *float64 // metres
	PhaseBias       *float64 // metres
	Shapiro         float64  // metres
	VtecDelay       *float64 // metres, on TrackingMode's carrier
	WindupMetres    *float64 // metres
}

// TimeBase anchors the SSR store's epoch-of-week/epoch-of-day keys to
// the continuous GPS-epoch-relative timescale ephstore.Entry uses.
type TimeBase struct {
	GPSWeek                int     // week containing the configured decoding day
	DayStartAbsoluteSeconds float64 // GPS-epoch-relative seconds at 00:00 UTC of that day (GLONASS epochs are seconds-of-day)
}

// Translate walks every epoch in ssr, and for every constellation and
// satellite with any correction data, resolves the nearest ephemeris and
// evaluates the OSR record. Satellites with no matching ephemeris, or a
// negative elevation, are skipped.
func Translate(eph *ephstore.Store, ssr *ssrstore.Store, rcvECEF geo.Vec3, tb TimeBase) []Correction {
	var out []Correction
	rcvGeodetic := geo.Ecef2Pos(rcvECEF)

	for _, epochSeconds := range ssr.Epochs() {
		epochRecord, ok := ssr.Get(epochSeconds)
		if !ok {
			continue
		}
		for _, c := range epochRecord.Constellations() {
			bucket := epochRecord.Bucket(c)
			absolute := epochAbsoluteSeconds(c, epochSeconds, tb)

			for _, satID := range satelliteIDs(bucket) {
				corr, ok := translateSatellite(eph, ssr, bucket, c, satID, epochSeconds, absolute, rcvECEF, rcvGeodetic)
				if ok {
					out = append(out, corr)
				}
			}
		}
	}
	return out
}

// epochAbsoluteSeconds resolves an SSR epoch key to the GPS-epoch-
// relative timescale: non-GLONASS epochs are seconds-of-week against
// tb.GPSWeek; GLONASS epochs are seconds-of-day against tb's day start.
func epochAbsoluteSeconds(c rtcm.Constellation, epochSeconds uint32, tb TimeBase) float64 {
	if c == rtcm.GLONASS {
		return tb.DayStartAbsoluteSeconds + float64(epochSeconds)
	}
	const secondsInWeek = 604800.0
	return float64(tb.GPSWeek)*secondsInWeek + float64(epochSeconds)
}

// satelliteIDs unions every satellite ID present across a bucket's
// correction kinds.
func satelliteIDs(b *ssrstore.Bucket) []uint8 {
	seen := make(map[uint8]bool)
	add := func(id uint8) { seen[id] = true }

	if b.Orbit != nil {
		for _, o := range b.Orbit.Orbits {
			add(o.SatID)
		}
	}
	if b.Clock != nil {
		for _, k := range b.Clock.Clocks {
			add(k.SatID)
		}
	}
	if b.OrbitClock != nil {
		for _, o := range b.OrbitClock.Orbits {
			add(o.SatID)
		}
		for _, k := range b.OrbitClock.Clocks {
			add(k.SatID)
		}
	}
	if b.CodeBias != nil {
		for _, cb := range b.CodeBias.Biases {
			add(cb.SatID)
		}
	}
	if b.PhaseBias != nil {
		for _, pb := range b.PhaseBias.Biases {
			add(pb.SatID)
		}
	}
	if b.Ura != nil {
		for _, e := range b.Ura.Entries {
			add(e.SatID)
		}
	}
	if b.HighRateClock != nil {
		for _, e := range b.HighRateClock.Entries {
			add(e.SatID)
		}
	}

	out := make([]uint8, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

func translateSatellite(eph *ephstore.Store, ssr *ssrstore.Store, b *ssrstore.Bucket, c rtcm.Constellation, satID uint8, epochSeconds uint32, absolute float64, rcvECEF geo.Vec3, rcvGeodetic geo.Geodetic) (Correction, bool) {
	entry, ok := eph.Nearest(c, satID, absolute)
	if !ok {
		return Correction{}, false
	}

	corrected, err := orbit.PropagateToTransmission(entry, absolute, rcvECEF, true)
	if err != nil {
		return Correction{}, false
	}
	uncorrected, err := orbit.PropagateToTransmission(entry, absolute, rcvECEF, false)
	if err != nil {
		return Correction{}, false
	}

	elevation := geo.Elevation(rcvGeodetic, corrected.Position.Sub(rcvECEF))
	if elevation < 0 {
		return Correction{}, false
	}

	los := corrected.Position.Sub(rcvECEF).Unit()

	result := Correction{
		Epoch:         epochSeconds,
		Constellation: c,
		SatID:         satID,
		ElevationDeg:  elevation * 180 / math.Pi,
		Shapiro:       shapiroDelay(corrected.Position, rcvECEF),
	}

	if orbitDelta, ok := lookupOrbitCorrection(b, satID); ok {
		scalar := projectOrbitCorrection(uncorrected.Position, uncorrected.Velocity, orbitDelta, los)
		result.OrbitCorrection = &scalar
	}
	if clock, ok := lookupClockCorrection(b, satID); ok {
		scalar := clock.C0 // Δt = 0 in this demo; C0/C1/C2 are already decoded to metres
		result.ClockCorrection = &scalar
	}

	trackingMode, freqHz := defaultSignal(c, entry)
	result.TrackingMode = trackingMode

	if bias, ok := lookupCodeBias(b, satID, c, trackingMode); ok {
		result.CodeBias = &bias
	}

	var yawRad, yawRateRad float64
	if bias, yaw, yawRate, ok := lookupPhaseBias(b, satID, c, trackingMode); ok {
		result.PhaseBias = &bias
		yawRad, yawRateRad = yaw, yawRate
	}

	if vtec, ok := ssr.NearestIono(epochSeconds); ok && freqHz > 0 {
		secOfDay := math.Mod(absolute, 86400)
		ionoResult := iono.Evaluate(rcvECEF, corrected.Position, secOfDay, vtec.Layers, freqHz)
		delay := ionoResult.RangeDelayMetres
		result.VtecDelay = &delay
	}

	if freqHz > 0 {
		windup := windupMetres(rcvECEF, rcvGeodetic, corrected.Position, corrected.Velocity, los, yawRad, yawRateRad, freqHz)
		result.WindupMetres = &windup
	}

	return result, true
}

// shapiroDelay is the gravitational (Shapiro) time-delay correction:
// 2μ/c² · ln((rs+rr+d)/(rs+rr-d)), d = |rs - rr|.
func shapiroDelay(satECEF, rcvECEF geo.Vec3) float64 {
	const mu = 3.986005e14
	rs := satECEF.Norm()
	rr := rcvECEF.Norm()
	d := satECEF.Sub(rcvECEF).Norm()
	return 2 * mu / (orbit.SpeedOfLight * orbit.SpeedOfLight) * math.Log((rs+rr+d)/(rs+rr-d))
}

func lookupOrbitCorrection(b *ssrstore.Bucket, satID uint8) (rtcm.SSROrbitCorrection, bool) {
	if b.OrbitClock != nil {
		for _, o := range b.OrbitClock.Orbits {
			if o.SatID == satID {
				return o, true
			}
		}
	}
	if b.Orbit != nil {
		for _, o := range b.Orbit.Orbits {
			if o.SatID == satID {
				return o, true
			}
		}
	}
	return rtcm.SSROrbitCorrection{}, false
}

func lookupClockCorrection(b *ssrstore.Bucket, satID uint8) (rtcm.SSRClockCorrection, bool) {
	if b.OrbitClock != nil {
		for _, k := range b.OrbitClock.Clocks {
			if k.SatID == satID {
				return k, true
			}
		}
	}
	if b.Clock != nil {
		for _, k := range b.Clock.Clocks {
			if k.SatID == satID {
				return k, true
			}
		}
	}
	return rtcm.SSRClockCorrection{}, false
}

func lookupCodeBias(b *ssrstore.Bucket, satID uint8, c rtcm.Constellation, trackingMode string) (float64, bool) {
	if b.CodeBias == nil {
		return 0, false
	}
	for _, entry := range b.CodeBias.Biases {
		if entry.SatID != satID {
			continue
		}
		for i, signalID := range entry.SignalIDs {
			name, err := rtcm.ResolveSignalName(c, signalID)
			if err == nil && name == trackingMode {
				return entry.Biases[i], true
			}
		}
	}
	return 0, false
}

func lookupPhaseBias(b *ssrstore.Bucket, satID uint8, c rtcm.Constellation, trackingMode string) (bias, yawRad, yawRateRad float64, ok bool) {
	if b.PhaseBias == nil {
		return 0, 0, 0, false
	}
	for _, entry := range b.PhaseBias.Biases {
		if entry.SatID != satID {
			continue
		}
		for _, s := range entry.Signals {
			name, err := rtcm.ResolveSignalName(c, s.SignalID)
			if err == nil && name == trackingMode {
				return s.Bias, entry.YawRad, entry.YawRateRadPerSec, true
			}
		}
	}
	return 0, 0, 0, false
}

// projectOrbitCorrection builds the orbital radial/along/cross-track
// frame from the uncorrected satellite position/velocity, projects the
// SSR delta into ECEF, and returns its component along the
// line-of-sight unit vector.
func projectOrbitCorrection(pos, vel geo.Vec3, delta rtcm.SSROrbitCorrection, los geo.Vec3) float64 {
	radial := pos.Unit()
	cross := pos.Cross(vel).Unit()
	along := cross.Cross(radial).Unit()

	ecef := radial.Scale(delta.DeltaRadial).Add(along.Scale(delta.DeltaAlongTrack)).Add(cross.Scale(delta.DeltaCrossTrack))
	return ecef.Dot(los)
}

// defaultSignal resolves the default tracking-mode name and carrier
// frequency for constellation c.
func defaultSignal(c rtcm.Constellation, entry ephstore.Entry) (string, float64) {
	const l1 = 1575.42e6
	switch c {
	case rtcm.GPS, rtcm.QZSS:
		return "1C", l1
	case rtcm.GLONASS:
		ch := 0.0
		if entry.Glonass != nil {
			ch = float64(entry.Glonass.FreqNum)
		}
		return "1C", (1602 + ch*9.0/16.0) * 1e6
	case rtcm.Galileo:
		return "1X", 2 * 77 * 10.23e6
	case rtcm.BeiDou:
		return "2I", 1561.098e6
	default:
		return "1C", l1
	}
}

// windupMetres evaluates the carrier phase wind-up correction, returning
// it in metres on the chosen carrier.
func windupMetres(rcvECEF geo.Vec3, rcvGeodetic geo.Geodetic, satECEF, satVel, los geo.Vec3, yawRad, yawRateRad, freqHz float64) float64 {
	omegaVec := geo.Vec3{X: 0, Y: 0, Z: orbit.EarthRotationRate}
	satVelCorrected := satVel.Add(omegaVec.Cross(satECEF))

	ez := satECEF.Unit().Scale(-1)
	ey := satECEF.Cross(satVelCorrected).Unit().Scale(-1)
	ex := ey.Cross(ez)

	const deltaT = 0.0
	yaw := yawRad + yawRateRad*deltaT
	ex = rotateAboutAxis(ex, ez, yaw)
	ey = rotateAboutAxis(ey, ez, yaw)

	sinLat, cosLat := math.Sincos(rcvGeodetic.LatRad)
	sinLon, cosLon := math.Sincos(rcvGeodetic.LonRad)
	east := geo.Vec3{X: -sinLon, Y: cosLon, Z: 0}
	north := geo.Vec3{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat}

	k := los
	dSat := ex.Sub(k.Scale(k.Dot(ex))).Sub(k.Cross(ey.Scale(-1)))
	dRec := east.Sub(k.Scale(k.Dot(east))).Add(k.Cross(north))

	cosOmega := dSat.Dot(dRec) / (dSat.Norm() * dRec.Norm())
	cosOmega = math.Max(-1, math.Min(1, cosOmega))
	omega := math.Acos(cosOmega)

	if k.Dot(dSat.Cross(dRec)) < 0 {
		omega = -omega
	}

	wavelength := orbit.SpeedOfLight / freqHz
	return -omega / (2 * math.Pi) * wavelength
}

// rotateAboutAxis rotates v by angle radians about unit axis, using the
// Rodrigues rotation formula.
func rotateAboutAxis(v, axis geo.Vec3, angle float64) geo.Vec3 {
	sinA, cosA := math.Sincos(angle)
	term1 := v.Scale(cosA)
	term2 := axis.Cross(v).Scale(sinA)
	term3 := axis.Scale(axis.Dot(v) * (1 - cosA))
	return term1.Add(term2).Add(term3)
}
