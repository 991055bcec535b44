package universe

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Energy and momentum diagnostics. Bodies carry GM rather than mass, so the
// totals are per unit gravitational constant; only drift matters.

// KineticEnergy returns the total kinetic energy of the massive bodies.
func (u *Universe) KineticEnergy() float64 {
	var e float64
	for i := range u.Bodies {
		b := &u.Bodies[i]
		if b.GM > 0 {
			e += 0.5 * b.GM * b.Velocity.Dot(b.Velocity)
		}
	}
	return e
}

// PotentialEnergy returns the total pairwise gravitational potential of the
// massive bodies.
func (u *Universe) PotentialEnergy() float64 {
	var e float64
	for i := 0; i < len(u.Bodies)-1; i++ {
		if u.Bodies[i].GM <= 0 {
			continue
		}
		for j := i + 1; j < len(u.Bodies); j++ {
			if u.Bodies[j].GM <= 0 {
				continue
			}
			r := u.Bodies[j].Position.Sub(u.Bodies[i].Position).Len()
			if r*r > epsilon {
				e -= u.Bodies[i].GM * u.Bodies[j].GM / r
			}
		}
	}
	return e
}

// TotalEnergy returns kinetic plus potential energy; conserved for a closed
// system with no thrust, up to discretization error.
func (u *Universe) TotalEnergy() float64 {
	return u.KineticEnergy() + u.PotentialEnergy()
}

// AngularMomentumZ returns the z component of the total angular momentum of
// the massive bodies.
func (u *Universe) AngularMomentumZ() float64 {
	var l float64
	for i := range u.Bodies {
		b := &u.Bodies[i]
		if b.GM > 0 {
			l += b.GM * b.Position.Cross(b.Velocity).Z()
		}
	}
	return l
}

// DriftSummary describes a sampled series of a derived quantity over a run,
// used to judge secular drift.
type DriftSummary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Spread returns the total excursion of the series.
func (d DriftSummary) Spread() float64 { return d.Max - d.Min }

// SummarizeDrift computes drift statistics for a series of samples. An empty
// series yields the zero summary.
func SummarizeDrift(series []float64) DriftSummary {
	if len(series) == 0 {
		return DriftSummary{}
	}
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) == 1 {
		std = 0
	}
	return DriftSummary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(series),
		Max:    floats.Max(series),
	}
}
