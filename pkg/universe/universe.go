package universe

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/helioslab/orbitd/pkg/sliceutil"
)

// subSteps is the fixed number of integration substeps per tick.
const subSteps = 100

const radPerDeg = math.Pi / 180

// Universe owns the flat collection of all celestial bodies, the parent and
// child adjacency and the simulation clock. Ids are assigned monotonically
// starting at 1 and are never reused, so 0 stays out of band as the "no
// parent" marker both in memory and on the wire. A Universe is not safe for
// concurrent use; the caller serializes ticking and body insertion.
type Universe struct {
	Bodies []CelestialBody

	// Root is the id of the single parentless body, 0 while empty.
	Root int

	// TimeScale is the simulated seconds advanced per tick.
	TimeScale float64

	idGen     int
	simTime   float64
	startTime float64
	ticks     int

	rng *rand.Rand
}

// New returns an empty universe advancing timeScale simulated seconds per
// tick. seed drives spacecraft spawning only; two universes built and ticked
// identically from the same seed stay bit-identical.
func New(timeScale float64, seed int64) *Universe {
	return &Universe{
		TimeScale: timeScale,
		idGen:     1,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// NewSolarSystem returns the default universe: the Sun, Earth with its Moon
// and one rocket in low orbit, Mars and Jupiter.
func NewSolarSystem(timeScale float64, seed int64) *Universe {
	u := New(timeScale, seed)

	sun := u.NewBody(0, mgl64.Vec3{}, "#ffffff", "sun", GMsun, Rsun, OrbitalElements{})
	u.Root = sun

	earth := u.NewBodyFromElements(sun, OrbitalElements{
		SemimajorAxis:        1,
		Eccentricity:         0.0167086,
		Inclination:          0,
		AscendingNode:        -11.26064 * radPerDeg,
		ArgumentOfPerihelion: 114.20783 * radPerDeg,
		SOI:                  1,
	}, BodyParams{
		AxialTilt:      23.4392811 * radPerDeg,
		RotationPeriod: (23*60+56)*60 + 4.10,
	}, 398600/(AU*AU*AU), 6534, "#3f7fff", "earth")

	rocket := u.NewBodyFromElements(earth, OrbitalElements{
		SemimajorAxis: 10000 / AU,
		SOI:           1,
	}, BodyParams{}, 100/(AU*AU*AU), 0.1, "#ff7fff", "rocket")
	u.mustBody(rocket).Quaternion = launchAttitude()

	u.NewBodyFromElements(earth, OrbitalElements{
		SemimajorAxis:        384399 / AU,
		Eccentricity:         0.048775,
		Inclination:          -11.26064 * radPerDeg,
		AscendingNode:        100.492 * radPerDeg,
		ArgumentOfPerihelion: 114.20783 * radPerDeg,
		SOI:                  1e5,
	}, BodyParams{}, 4904.8695/(AU*AU*AU), 1737.1, "#bfbfbf", "moon")

	u.NewBodyFromElements(sun, OrbitalElements{
		SemimajorAxis:        1.523679,
		Eccentricity:         0.0935,
		Inclination:          1.850 * radPerDeg,
		AscendingNode:        49.562 * radPerDeg,
		ArgumentOfPerihelion: 286.537 * radPerDeg,
		SOI:                  3e5,
	}, BodyParams{}, 42828/(AU*AU*AU), 3389.5, "#ff7f3f", "mars")

	u.NewBodyFromElements(sun, OrbitalElements{
		SemimajorAxis:        5.204267,
		Eccentricity:         0.048775,
		Inclination:          1.305 * radPerDeg,
		AscendingNode:        100.492 * radPerDeg,
		ArgumentOfPerihelion: 275.066 * radPerDeg,
		SOI:                  10e6,
	}, BodyParams{}, 126686534/(AU*AU*AU), 69911, "#ffbf7f", "jupiter")

	return u
}

// NewBody creates a body from raw parent-relative state, assigns it the next
// id and links it into the tree. Returns the new id.
func (u *Universe) NewBody(parent int, position mgl64.Vec3, color, name string, gm, radius float64, elements OrbitalElements) int {
	b := CelestialBody{
		ID:         u.nextID(),
		Name:       name,
		Position:   position,
		Quaternion: mgl64.QuatIdent(),
		OrbitColor: color,
		GM:         gm,
		Radius:     radius,
		Parent:     parent,
		Elements:   elements,
	}
	u.addBody(b)
	return b.ID
}

// NewBodyFromElements creates a body on the orbit described by elements
// around parent, which must already be part of the universe. The attitude is
// derived from params: axial tilt about the x axis, spin about the tilted
// pole at the given rotation period.
func (u *Universe) NewBodyFromElements(parent int, elements OrbitalElements, params BodyParams, gm, radius float64, color, name string) int {
	pos, vel := elements.ToCartesian(u.mustBody(parent).GM)

	quat := params.Quaternion
	if (quat == mgl64.Quat{}) {
		quat = mgl64.QuatIdent()
	}
	if params.AxialTilt != 0 {
		quat = mgl64.QuatRotate(params.AxialTilt, xAxis).Mul(quat)
	}
	angVel := params.AngularVelocity
	if params.RotationPeriod != 0 {
		angVel = quat.Rotate(zAxis).Mul(2 * math.Pi / params.RotationPeriod)
	}

	b := CelestialBody{
		ID:              u.nextID(),
		Name:            name,
		Position:        pos,
		Velocity:        vel,
		Quaternion:      quat,
		AngularVelocity: angVel,
		OrbitColor:      color,
		GM:              gm,
		Radius:          radius,
		Parent:          parent,
		Elements:        elements,
	}
	u.addBody(b)
	return b.ID
}

// SpawnSpacecraft adds a player craft on a randomized orbit around the named
// body: semimajor axis 10000-20000 km, eccentricity 0-0.5, inclination
// 0-30 degrees, node and argument of perihelion 0-360 degrees. Returns the
// new body's id. Must not be called while a tick is in progress.
func (u *Universe) SpawnSpacecraft(parentName string) (int, error) {
	parent := u.BodyByName(parentName)
	if parent == nil {
		return 0, fmt.Errorf("universe: no body named %q", parentName)
	}

	name := fmt.Sprintf("rocket%d", u.idGen)
	id := u.NewBodyFromElements(parent.ID, OrbitalElements{
		SemimajorAxis:        (10000 + u.rng.Float64()*10000) / AU,
		Eccentricity:         u.rng.Float64() * 0.5,
		Inclination:          u.rng.Float64() * 30 * radPerDeg,
		AscendingNode:        u.rng.Float64() * 2 * math.Pi,
		ArgumentOfPerihelion: u.rng.Float64() * 2 * math.Pi,
		SOI:                  1,
	}, BodyParams{}, 100/(AU*AU*AU), 0.1, "#7fff7f", name)
	u.mustBody(id).Quaternion = launchAttitude()
	return id, nil
}

// launchAttitude is the initial spacecraft orientation: engine axis turned
// into the orbital plane.
func launchAttitude() mgl64.Quat {
	return mgl64.QuatRotate(math.Pi/2, xAxis).Mul(mgl64.QuatRotate(math.Pi/2, yAxis))
}

// Update advances every body by one tick of TimeScale simulated seconds in
// subSteps fixed substeps, then rederives all orbital elements once. Bodies
// advance in array order, in place; within a substep a body sees the
// already-advanced state of lower-indexed bodies, and that ordering is part
// of the determinism contract.
func (u *Universe) Update() {
	for s := 0; s < subSteps; s++ {
		for i := range u.Bodies {
			center, rest := sliceutil.SplitOne(u.Bodies, i)
			center.Advance(rest, u.TimeScale, subSteps)
		}
	}
	u.RefreshElements()
	u.ticks++
	u.simTime += u.TimeScale
}

// RefreshElements rederives every body's orbital elements from its current
// state. Update calls this once per tick; it is also the entry point for
// rederiving without integrating.
func (u *Universe) RefreshElements() {
	for i := range u.Bodies {
		center, rest := sliceutil.SplitOne(u.Bodies, i)
		center.UpdateElements(rest)
	}
}

// Ticks returns the number of completed ticks.
func (u *Universe) Ticks() int { return u.ticks }

// SimTime returns the accumulated simulated seconds.
func (u *Universe) SimTime() float64 { return u.simTime }

// BodyByID returns the body with the given id, or nil. The pointer is valid
// until the next insertion.
func (u *Universe) BodyByID(id int) *CelestialBody {
	for i := range u.Bodies {
		if u.Bodies[i].ID == id {
			return &u.Bodies[i]
		}
	}
	return nil
}

// BodyByName returns the first body with the given name, or nil.
func (u *Universe) BodyByName(name string) *CelestialBody {
	for i := range u.Bodies {
		if u.Bodies[i].Name == name {
			return &u.Bodies[i]
		}
	}
	return nil
}

// Validate checks the tree invariants: every non-root body has a resolvable
// parent, and children lists exactly mirror parent pointers.
func (u *Universe) Validate() error {
	for i := range u.Bodies {
		b := &u.Bodies[i]
		if b.Parent == 0 {
			if b.ID != u.Root {
				return fmt.Errorf("universe: body %d (%s) has no parent but is not the root", b.ID, b.Name)
			}
			continue
		}
		parent := u.BodyByID(b.Parent)
		if parent == nil {
			return fmt.Errorf("universe: body %d (%s) references missing parent %d", b.ID, b.Name, b.Parent)
		}
		n := 0
		for _, c := range parent.Children {
			if c == b.ID {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("universe: body %d (%s) appears %d times in parent %d's children", b.ID, b.Name, n, parent.ID)
		}
	}
	for i := range u.Bodies {
		for _, c := range u.Bodies[i].Children {
			child := u.BodyByID(c)
			if child == nil || child.Parent != u.Bodies[i].ID {
				return fmt.Errorf("universe: body %d lists child %d that does not point back", u.Bodies[i].ID, c)
			}
		}
	}
	return nil
}

func (u *Universe) nextID() int {
	id := u.idGen
	u.idGen++
	return id
}

// addBody links the body into its parent's children and appends it to the
// collection. Insertion never interleaves with Update.
func (u *Universe) addBody(b CelestialBody) {
	if b.Parent != 0 {
		parent := u.mustBody(b.Parent)
		parent.Children = append(parent.Children, b.ID)
	}
	u.Bodies = append(u.Bodies, b)
}

// mustBody resolves an id that is required to exist; a miss is an internal
// invariant violation, not a user error.
func (u *Universe) mustBody(id int) *CelestialBody {
	if b := u.BodyByID(id); b != nil {
		return b
	}
	panic(fmt.Sprintf("universe: unknown body id %d", id))
}
