package universe

import "github.com/go-gl/mathgl/mgl64"

// Snapshot is the wire representation of the whole universe, consumed by the
// rendering client after every tick.
type Snapshot struct {
	SimTime   float64        `json:"simTime"`
	StartTime float64        `json:"startTime"`
	TimeScale float64        `json:"timeScale"`
	Bodies    []BodySnapshot `json:"bodies"`
}

// BodySnapshot mirrors one body. Parent is 0 when the body has none; body
// ids start at 1 so the sentinel never collides with a real id.
type BodySnapshot struct {
	ID              int              `json:"id"`
	Position        [3]float64       `json:"position"`
	Velocity        [3]float64       `json:"velocity"`
	Quaternion      [4]float64       `json:"quaternion"` // x, y, z, w
	AngularVelocity [3]float64       `json:"angular_velocity"`
	OrbitColor      string           `json:"orbit_color"`
	Children        []int            `json:"children"`
	Parent          int              `json:"parent"`
	Radius          float64          `json:"radius"`
	GM              float64          `json:"GM"`
	Elements        ElementsSnapshot `json:"orbital_elements"`
}

// ElementsSnapshot mirrors the derived orbital elements.
type ElementsSnapshot struct {
	SemimajorAxis        float64 `json:"semimajor_axis"`
	AscendingNode        float64 `json:"ascending_node"`
	Inclination          float64 `json:"inclination"`
	Eccentricity         float64 `json:"eccentricity"`
	Epoch                float64 `json:"epoch"`
	MeanAnomaly          float64 `json:"mean_anomaly"`
	ArgumentOfPerihelion float64 `json:"argument_of_perihelion"`
	SOI                  float64 `json:"soi"`
}

// Snapshot captures the current state of every body in insertion order.
func (u *Universe) Snapshot() Snapshot {
	bodies := make([]BodySnapshot, len(u.Bodies))
	for i := range u.Bodies {
		b := &u.Bodies[i]
		children := make([]int, len(b.Children))
		copy(children, b.Children)
		bodies[i] = BodySnapshot{
			ID:              b.ID,
			Position:        vec3Array(b.Position),
			Velocity:        vec3Array(b.Velocity),
			Quaternion:      [4]float64{b.Quaternion.X(), b.Quaternion.Y(), b.Quaternion.Z(), b.Quaternion.W},
			AngularVelocity: vec3Array(b.AngularVelocity),
			OrbitColor:      b.OrbitColor,
			Children:        children,
			Parent:          b.Parent,
			Radius:          b.Radius,
			GM:              b.GM,
			Elements: ElementsSnapshot{
				SemimajorAxis:        b.Elements.SemimajorAxis,
				AscendingNode:        b.Elements.AscendingNode,
				Inclination:          b.Elements.Inclination,
				Eccentricity:         b.Elements.Eccentricity,
				Epoch:                b.Elements.Epoch,
				MeanAnomaly:          b.Elements.MeanAnomaly,
				ArgumentOfPerihelion: b.Elements.ArgumentOfPerihelion,
				SOI:                  b.Elements.SOI,
			},
		}
	}
	return Snapshot{
		SimTime:   u.simTime,
		StartTime: u.startTime,
		TimeScale: u.TimeScale,
		Bodies:    bodies,
	}
}

func vec3Array(v mgl64.Vec3) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}
