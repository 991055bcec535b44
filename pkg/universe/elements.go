package universe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Units: lengths in astronomical units, times in seconds, so gravitational
// parameters carry AU^3/s^2.
const (
	// AU is one astronomical unit in kilometers.
	AU = 149597871.0

	// GMsun is the Sun's gravitational parameter.
	GMsun = 1.327124400e11 / (AU * AU * AU)

	// Rsun is the Sun's radius in kilometers.
	Rsun = 695800.0

	// epsilon guards squared magnitudes against division by near-zero.
	epsilon = 1e-40

	// thrustAccel is the fixed engine acceleration applied along a craft's
	// forward axis each substep while thrust is enabled, in AU/s^2.
	thrustAccel = 5e-10
)

var (
	xAxis = mgl64.Vec3{1, 0, 0}
	yAxis = mgl64.Vec3{0, 1, 0}
	zAxis = mgl64.Vec3{0, 0, 1}
)

// OrbitalElements are the classical Keplerian elements describing an orbit
// relative to the gravitational parent. Angles are radians, lengths AU.
// Epoch and SOI are authoritative inputs at construction time and are never
// rederived; the remaining fields are recomputed from the body state once
// per tick.
type OrbitalElements struct {
	SemimajorAxis        float64
	AscendingNode        float64
	Inclination          float64
	Eccentricity         float64
	Epoch                float64
	MeanAnomaly          float64
	ArgumentOfPerihelion float64
	SOI                  float64
}

// ToCartesian converts the elements to a parent-relative position and
// velocity, placing the body at periapsis (zero true anomaly). gm is the
// parent's gravitational parameter. The perifocal state is rotated into the
// parent frame by composing the argument-of-perihelion, inclination and
// ascending-node rotations, in that order; the composition is the exact
// inverse of the extraction in UpdateElements, so rederiving elements from
// the returned state reproduces the inputs.
func (oe OrbitalElements) ToCartesian(gm float64) (pos, vel mgl64.Vec3) {
	if oe.SemimajorAxis == 0 || gm <= 0 {
		return pos, vel
	}
	rp := oe.SemimajorAxis * (1 - oe.Eccentricity)
	vp := math.Sqrt(gm * (2/rp - 1/oe.SemimajorAxis))

	rot := mgl64.QuatRotate(oe.AscendingNode-math.Pi/2, zAxis).
		Mul(mgl64.QuatRotate(math.Pi-oe.Inclination, yAxis)).
		Mul(mgl64.QuatRotate(oe.ArgumentOfPerihelion, zAxis))

	pos = rot.Rotate(mgl64.Vec3{0, rp, 0})
	vel = rot.Rotate(mgl64.Vec3{vp, 0, 0})
	return pos, vel
}

// Periapsis returns the periapsis distance.
func (oe OrbitalElements) Periapsis() float64 {
	return oe.SemimajorAxis * (1 - oe.Eccentricity)
}

// Apoapsis returns the apoapsis distance. Negative for hyperbolic orbits.
func (oe OrbitalElements) Apoapsis() float64 {
	return oe.SemimajorAxis * (1 + oe.Eccentricity)
}

// Period returns the orbital period in seconds for the given parent
// gravitational parameter, or 0 when the orbit is not closed.
func (oe OrbitalElements) Period(gm float64) float64 {
	if oe.SemimajorAxis <= 0 || gm <= 0 {
		return 0
	}
	return 2 * math.Pi * math.Sqrt(oe.SemimajorAxis*oe.SemimajorAxis*oe.SemimajorAxis/gm)
}
