package orbit

import (
	"math"

	"github.com/submeter/ssrosr/pkg/gnssgo/geo"
	"github.com/submeter/ssrosr/pkg/gnssgo/rtcm"
)

// GLONASS perturbed two-body equation constants.
const (
	muGLONASS    = 398600.44e9 // m^3/s^2
	j2Factor     = -26332671177.69
	earthOmegaSq = 5.317494e-9
	glonassStepS = 60.0
	pz90ToWGS84B = -1.66291e-6
)

// glonassDerivative evaluates the right-hand side of the perturbed
// two-body equation for state y = [x,y,z,vx,vy,vz] with a constant
// luni-solar acceleration forcing term.
func glonassDerivative(lsAccel geo.Vec3) func(y [6]float64) [6]float64 {
	return func(y [6]float64) [6]float64 {
		x, yy, z := y[0], y[1], y[2]
		vx, vy, vz := y[3], y[4], y[5]

		r := math.Sqrt(x*x + yy*yy + z*z)
		r3 := r * r * r
		r5 := r3 * r * r
		zr := z / r

		commonXY := -muGLONASS/r3 + j2Factor*(1-5*zr*zr)/r5 + earthOmegaSq
		commonZ := -muGLONASS/r3 + j2Factor*(3-5*zr*zr)/r5

		ax := commonXY*x + 2*math.Sqrt(earthOmegaSq)*vy + lsAccel.X
		ay := commonXY*yy - 2*math.Sqrt(earthOmegaSq)*vx + lsAccel.Y
		az := commonZ*z + lsAccel.Z

		return [6]float64{vx, vy, vz, ax, ay, az}
	}
}

// glonassState integrates e's state vector from its reference time (tb)
// to tk seconds later (or earlier), using fixed 60-second Dormand-Prince
// 8(5,3) steps for better accuracy than a fixed-step RK4 integrator
// over the same step size, then rotates the PZ-90 result into WGS-84.
func glonassState(e *rtcm.GLONASSEphemeris, tk float64) (geo.Vec3, geo.Vec3, float64, float64, error) {
	lsAccel := geo.Vec3{X: e.AX * 1000, Y: e.AY * 1000, Z: e.AZ * 1000}
	deriv := glonassDerivative(lsAccel)

	y := [6]float64{
		e.X * 1000, e.Y * 1000, e.Z * 1000,
		e.VX * 1000, e.VY * 1000, e.VZ * 1000,
	}

	remaining := tk
	step := glonassStepS
	if remaining < 0 {
		step = -glonassStepS
	}
	for math.Abs(remaining) > 0 {
		h := step
		if math.Abs(remaining) < math.Abs(step) {
			h = remaining
		}
		y = dop853Step(y, h, deriv)
		remaining -= h
	}

	posPZ90 := geo.Vec3{X: y[0], Y: y[1], Z: y[2]}
	velPZ90 := geo.Vec3{X: y[3], Y: y[4], Z: y[5]}

	pos := rotatePZ90ToWGS84(posPZ90)
	vel := rotatePZ90ToWGS84(velPZ90)

	clockBias := -e.TauN + e.GammaN*tk
	clockDrift := e.GammaN

	return pos, vel, clockBias, clockDrift, nil
}

// rotatePZ90ToWGS84 applies the small PZ-90-to-WGS-84 rotation
// R = [[1,-1.66291e-6,0],[1.66291e-6,1,0],[0,0,1]].
func rotatePZ90ToWGS84(v geo.Vec3) geo.Vec3 {
	return geo.Vec3{
		X: v.X + pz90ToWGS84B*v.Y,
		Y: -pz90ToWGS84B*v.X + v.Y,
		Z: v.Z,
	}
}
