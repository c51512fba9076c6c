// Package geo implements WGS-84 ellipsoid/ECEF/ENU coordinate transforms
// shared by the orbit propagator, the ionosphere evaluator and the OSR
// translator.
package geo

import "math"

// WGS-84 ellipsoid constants.
const (
	ReWGS84 = 6378137.0         // semi-major axis (m)
	FeWGS84 = 1.0 / 298.257223563 // flattening
)

// Vec3 is a 3-element Cartesian vector, used for both ECEF positions and
// local ENU vectors depending on context.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3    { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3    { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Geodetic is a WGS-84 ellipsoidal position.
type Geodetic struct {
	LatRad float64 // geodetic latitude (rad)
	LonRad float64 // geodetic longitude (rad)
	Height float64 // ellipsoidal height (m)
}

// Ecef2Pos transforms an ECEF position to WGS-84 geodetic, by the
// standard iterative latitude solve (Bowring-style fixed point on the
// reduced-latitude auxiliary z).
func Ecef2Pos(r Vec3) Geodetic {
	e2 := FeWGS84 * (2.0 - FeWGS84)
	r2 := r.X*r.X + r.Y*r.Y
	v := ReWGS84
	z, zk := r.Z, 0.0
	for math.Abs(z-zk) >= 1e-4 {
		zk = z
		sinp := z / math.Sqrt(r2+z*z)
		v = ReWGS84 / math.Sqrt(1.0-e2*sinp*sinp)
		z = r.Z + v*e2*sinp
	}
	var pos Geodetic
	if r2 > 1e-12 {
		pos.LatRad = math.Atan(z / math.Sqrt(r2))
		pos.LonRad = math.Atan2(r.Y, r.X)
	} else if r.Z > 0 {
		pos.LatRad = math.Pi / 2
	} else {
		pos.LatRad = -math.Pi / 2
	}
	pos.Height = math.Sqrt(r2+z*z) - v
	return pos
}

// Pos2Ecef transforms a WGS-84 geodetic position to ECEF.
func Pos2Ecef(pos Geodetic) Vec3 {
	sinp, cosp := math.Sincos(pos.LatRad)
	sinl, cosl := math.Sincos(pos.LonRad)
	e2 := FeWGS84 * (2.0 - FeWGS84)
	v := ReWGS84 / math.Sqrt(1.0-e2*sinp*sinp)

	return Vec3{
		X: (v + pos.Height) * cosp * cosl,
		Y: (v + pos.Height) * cosp * sinl,
		Z: (v*(1.0-e2) + pos.Height) * sinp,
	}
}

// enuBasis returns the ECEF-to-ENU rotation's east/north/up row vectors
// for a given geodetic latitude/longitude.
func enuBasis(pos Geodetic) (east, north, up Vec3) {
	sinp, cosp := math.Sincos(pos.LatRad)
	sinl, cosl := math.Sincos(pos.LonRad)
	east = Vec3{-sinl, cosl, 0}
	north = Vec3{-sinp * cosl, -sinp * sinl, cosp}
	up = Vec3{cosp * cosl, cosp * sinl, sinp}
	return
}

// Ecef2Enu rotates an ECEF vector into the local east/north/up frame at
// the given geodetic position.
func Ecef2Enu(pos Geodetic, r Vec3) Vec3 {
	east, north, up := enuBasis(pos)
	return Vec3{east.Dot(r), north.Dot(r), up.Dot(r)}
}

// Enu2Ecef rotates a local east/north/up vector into ECEF.
func Enu2Ecef(pos Geodetic, e Vec3) Vec3 {
	east, north, up := enuBasis(pos)
	return Vec3{
		east.X*e.X + north.X*e.Y + up.X*e.Z,
		east.Y*e.X + north.Y*e.Y + up.Y*e.Z,
		east.Z*e.X + north.Z*e.Y + up.Z*e.Z,
	}
}

// Elevation returns the elevation angle (rad) of vector satMinusRcv (the
// receiver-to-satellite ECEF difference) as seen from a receiver at pos.
func Elevation(pos Geodetic, satMinusRcv Vec3) float64 {
	enu := Ecef2Enu(pos, satMinusRcv)
	horiz := math.Hypot(enu.X, enu.Y)
	return math.Atan2(enu.Z, horiz)
}

// Azimuth returns the azimuth angle (rad, clockwise from north) of
// satMinusRcv as seen from a receiver at pos.
func Azimuth(pos Geodetic, satMinusRcv Vec3) float64 {
	enu := Ecef2Enu(pos, satMinusRcv)
	az := math.Atan2(enu.X, enu.Y)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az
}
