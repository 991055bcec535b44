package universe

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

// twoBody builds a universe with a single massive primary and one body on
// the given orbit, elements already rederived from the constructed state.
func twoBody(t *testing.T, primaryGM float64, oe OrbitalElements) (*Universe, *CelestialBody) {
	t.Helper()
	u := New(1, 1)
	primary := u.NewBody(0, mgl64.Vec3{}, "#ffffff", "primary", primaryGM, 1, OrbitalElements{})
	u.Root = primary
	id := u.NewBodyFromElements(primary, oe, BodyParams{}, 0, 1, "#00ff00", "orbiter")
	u.RefreshElements()
	return u, u.BodyByID(id)
}

func TestElementsRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		oe   OrbitalElements
	}{
		{"mars", OrbitalElements{
			SemimajorAxis:        1.523679,
			Eccentricity:         0.0935,
			Inclination:          1.850 * radPerDeg,
			AscendingNode:        49.562 * radPerDeg,
			ArgumentOfPerihelion: 286.537 * radPerDeg,
		}},
		{"jupiter", OrbitalElements{
			SemimajorAxis:        5.204267,
			Eccentricity:         0.048775,
			Inclination:          1.305 * radPerDeg,
			AscendingNode:        100.492 * radPerDeg,
			ArgumentOfPerihelion: 275.066 * radPerDeg,
		}},
		{"eccentric inclined", OrbitalElements{
			SemimajorAxis:        2.5,
			Eccentricity:         0.4,
			Inclination:          35 * radPerDeg,
			AscendingNode:        200 * radPerDeg,
			ArgumentOfPerihelion: 80 * radPerDeg,
		}},
	}
	const tol = 1e-9
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, b := twoBody(t, GMsun, tc.oe)
			got := b.Elements
			checks := []struct {
				field      string
				got, want float64
			}{
				{"semimajor axis", got.SemimajorAxis, tc.oe.SemimajorAxis},
				{"eccentricity", got.Eccentricity, tc.oe.Eccentricity},
				{"inclination", got.Inclination, tc.oe.Inclination},
				{"ascending node", got.AscendingNode, tc.oe.AscendingNode},
				{"argument of perihelion", got.ArgumentOfPerihelion, tc.oe.ArgumentOfPerihelion},
			}
			for _, c := range checks {
				if !scalar.EqualWithinAbsOrRel(c.got, c.want, tol, tol) {
					t.Errorf("%s: got %.12g, want %.12g", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestElementsRoundTripNegativeNode(t *testing.T) {
	// A node given as a negative angle comes back as its 2*pi complement.
	oe := OrbitalElements{
		SemimajorAxis:        384399 / AU,
		Eccentricity:         0.048775,
		Inclination:          5.145 * radPerDeg,
		AscendingNode:        -11.26064 * radPerDeg,
		ArgumentOfPerihelion: 114.20783 * radPerDeg,
	}
	_, b := twoBody(t, 398600/(AU*AU*AU), oe)
	want := 2*math.Pi + oe.AscendingNode
	if !scalar.EqualWithinAbsOrRel(b.Elements.AscendingNode, want, 1e-9, 1e-9) {
		t.Errorf("ascending node: got %.12g, want %.12g", b.Elements.AscendingNode, want)
	}
}

func TestElementsEquatorialFallback(t *testing.T) {
	// Zero inclination degenerates the node vector: the node falls back to 0
	// and the perihelion is measured directly in the reference plane, which
	// folds the declared node into it.
	oe := OrbitalElements{
		SemimajorAxis:        1,
		Eccentricity:         0.0167086,
		Inclination:          0,
		AscendingNode:        -11.26064 * radPerDeg,
		ArgumentOfPerihelion: 114.20783 * radPerDeg,
	}
	_, b := twoBody(t, GMsun, oe)
	got := b.Elements
	if got.AscendingNode != 0 {
		t.Errorf("ascending node: got %.12g, want 0", got.AscendingNode)
	}
	want := oe.ArgumentOfPerihelion - oe.AscendingNode
	if !scalar.EqualWithinAbs(got.ArgumentOfPerihelion, want, 1e-9) {
		t.Errorf("argument of perihelion: got %.12g, want %.12g", got.ArgumentOfPerihelion, want)
	}
	if !scalar.EqualWithinAbsOrRel(got.SemimajorAxis, 1, 1e-9, 1e-9) {
		t.Errorf("semimajor axis: got %.12g", got.SemimajorAxis)
	}
	if !scalar.EqualWithinAbs(got.Eccentricity, oe.Eccentricity, 1e-9) {
		t.Errorf("eccentricity: got %.12g", got.Eccentricity)
	}
}

func TestElementsCircularEquatorial(t *testing.T) {
	// Fully degenerate geometry: both the node and eccentricity vectors
	// vanish. Every derived element must stay finite and take the fallback
	// branches, and the result must be repeatable.
	oe := OrbitalElements{SemimajorAxis: 10000 / AU}
	_, b := twoBody(t, 398600/(AU*AU*AU), oe)
	first := b.Elements

	for _, v := range []struct {
		field string
		val   float64
	}{
		{"semimajor axis", first.SemimajorAxis},
		{"eccentricity", first.Eccentricity},
		{"inclination", first.Inclination},
		{"ascending node", first.AscendingNode},
		{"argument of perihelion", first.ArgumentOfPerihelion},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			t.Errorf("%s is not finite: %v", v.field, v.val)
		}
	}
	if first.AscendingNode != 0 {
		t.Errorf("ascending node: got %.12g, want 0", first.AscendingNode)
	}
	if first.Eccentricity > 1e-12 {
		t.Errorf("eccentricity: got %.12g, want ~0", first.Eccentricity)
	}

	_, b2 := twoBody(t, 398600/(AU*AU*AU), oe)
	if b2.Elements != first {
		t.Errorf("rederivation not repeatable: %+v vs %+v", b2.Elements, first)
	}
}

func TestPeriodAndApsides(t *testing.T) {
	oe := OrbitalElements{SemimajorAxis: 1, Eccentricity: 0.0167086}
	yr := oe.Period(GMsun)
	if !scalar.EqualWithinAbsOrRel(yr, 365.25*86400, 0, 1e-2) {
		t.Errorf("period: got %.6g s, want about one year", yr)
	}
	if got := oe.Periapsis(); !scalar.EqualWithinAbs(got, 1-0.0167086, 1e-12) {
		t.Errorf("periapsis: got %.12g", got)
	}
	if got := oe.Apoapsis(); !scalar.EqualWithinAbs(got, 1+0.0167086, 1e-12) {
		t.Errorf("apoapsis: got %.12g", got)
	}
}
