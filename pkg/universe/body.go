package universe

import (
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CelestialBody is one node of the body tree: a star, planet, moon or
// player craft. Position and velocity are relative to the immediate
// parent's frame, not inertial. A body is mutated only by Advance (state
// integration) and UpdateElements (element rederivation); it is never
// removed once added.
type CelestialBody struct {
	ID   int
	Name string

	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Quaternion      mgl64.Quat
	AngularVelocity mgl64.Vec3

	OrbitColor string

	GM     float64
	Radius float64

	// Parent is the id of the gravitational parent, 0 for the root.
	// Children mirrors the parent ids of all direct children.
	Parent   int
	Children []int

	// Thrust applies a fixed engine acceleration along the body's forward
	// axis each substep while set. Player craft only.
	Thrust bool

	Elements OrbitalElements
}

// BodyParams carries the attitude parameters used when constructing a body
// from orbital elements. The zero value yields an identity orientation with
// no spin.
type BodyParams struct {
	AxialTilt       float64 // radians, applied about the x axis
	RotationPeriod  float64 // sidereal rotation period in seconds, 0 for none
	Quaternion      mgl64.Quat
	AngularVelocity mgl64.Vec3
}

// Advance integrates one gravity substep of timeScale/div simulated seconds.
// others must cover every body except b; each contributes inverse-square
// acceleration proportional to its gravitational parameter, so massless
// craft pull nothing but are pulled by everything. Attitude integrates from
// the angular velocity, unaffected by gravity. Bodies earlier in the array
// have already advanced within the same substep; that fixed ordering is what
// keeps repeated runs identical.
func (b *CelestialBody) Advance(others iter.Seq[*CelestialBody], timeScale, div float64) {
	dt := timeScale / div

	var accel mgl64.Vec3
	for other := range others {
		if other.GM <= 0 {
			continue
		}
		delta := other.Position.Sub(b.Position)
		r2 := delta.Dot(delta)
		if r2 <= epsilon {
			continue
		}
		accel = accel.Add(delta.Mul(other.GM / (r2 * math.Sqrt(r2))))
	}
	if b.Thrust {
		accel = accel.Add(b.Quaternion.Rotate(zAxis).Mul(thrustAccel))
	}

	b.Velocity = b.Velocity.Add(accel.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	if w := b.AngularVelocity.Len(); w > 0 {
		spin := mgl64.QuatRotate(w*dt, b.AngularVelocity.Mul(1/w))
		b.Quaternion = spin.Mul(b.Quaternion).Normalize()
	}
}

// UpdateElements rederives the Keplerian elements from the body's current
// state relative to its parent, located among others by id. Root bodies are
// a no-op. The derivation follows chapter 4.4 of Curtis, "Orbital Mechanics
// for Engineering Students", with the specific angular momentum taken as
// v x r. MeanAnomaly, Epoch and SOI keep their prior values.
func (b *CelestialBody) UpdateElements(others iter.Seq[*CelestialBody]) {
	if b.Parent == 0 {
		return
	}
	var parent *CelestialBody
	for other := range others {
		if other.ID == b.Parent {
			parent = other
			break
		}
	}
	if parent == nil {
		panic(fmt.Sprintf("universe: body %d (%s) references missing parent %d", b.ID, b.Name, b.Parent))
	}

	gm := parent.GM
	ang := b.Velocity.Cross(b.Position)
	r := b.Position.Len()
	v := b.Velocity.Len()
	if gm <= epsilon || r*r <= epsilon || ang.Dot(ang) <= epsilon {
		return
	}

	// Node vector and eccentricity vector.
	node := zAxis.Cross(ang)
	ecc := b.Position.Mul(1 / gm * (v*v - gm/r)).
		Sub(b.Velocity.Mul(b.Position.Dot(b.Velocity) / gm))

	oe := &b.Elements
	oe.Eccentricity = ecc.Len()
	oe.Inclination = math.Acos(-ang.Z() / ang.Len())

	if node.Dot(node) <= epsilon {
		// Equatorial orbit, the node line is undefined.
		oe.AscendingNode = 0
	} else {
		oe.AscendingNode = math.Acos(node.X() / node.Len())
		if node.Y() < 0 {
			oe.AscendingNode = 2*math.Pi - oe.AscendingNode
		}
	}

	oe.SemimajorAxis = 1 / (2/r - v*v/gm)

	if node.Dot(node) <= epsilon || ecc.Dot(ecc) <= epsilon {
		// Equatorial or circular orbit: measure perihelion directly in the
		// reference plane, with e_y flipped when the momentum points below
		// it so the angle keeps the orbital sense.
		ey := ecc.Y()
		if ang.Z() < 0 {
			ey = -ey
		}
		oe.ArgumentOfPerihelion = math.Atan2(ey, ecc.X())
	} else {
		oe.ArgumentOfPerihelion = math.Acos(node.Dot(ecc) / node.Len() / ecc.Len())
		if ecc.Z() < 0 {
			oe.ArgumentOfPerihelion = 2*math.Pi - oe.ArgumentOfPerihelion
		}
	}
}
