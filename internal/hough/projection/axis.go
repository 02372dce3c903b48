package projection

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/houghroads/internal/hough/errs"
)

// Axis is a closed interval split into Bins equal bins. Bin i covers
// [Edge(i), Edge(i+1)).
type Axis struct {
	Min, Max float64
	Bins     int
	edges    []float64
}

// NewAxis validates and builds an axis.
func NewAxis(min, max float64, bins int) (Axis, error) {
	if bins <= 0 {
		return Axis{}, errs.Invalid("axis", "bins", "must be positive, got %d", bins)
	}
	if !(max > min) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return Axis{}, errs.Invalid("axis", "range", "need finite min < max, got [%v, %v]", min, max)
	}
	return Axis{
		Min:   min,
		Max:   max,
		Bins:  bins,
		edges: floats.Span(make([]float64, bins+1), min, max),
	}, nil
}

// MustAxis is NewAxis for fixed, known-good arguments.
func MustAxis(min, max float64, bins int) Axis {
	a, err := NewAxis(min, max, bins)
	if err != nil {
		panic(err)
	}
	return a
}

// Step is the bin width.
func (a Axis) Step() float64 { return (a.Max - a.Min) / float64(a.Bins) }

// Edge is the lower edge of bin i; Edge(Bins) is Max.
func (a Axis) Edge(i int) float64 {
	if a.edges != nil && i >= 0 && i < len(a.edges) {
		return a.edges[i]
	}
	return a.Min + float64(i)*a.Step()
}

// Edges returns a copy of the Bins+1 bin edges.
func (a Axis) Edges() []float64 {
	return append([]float64(nil), a.edges...)
}

// Center is the midpoint of bin i.
func (a Axis) Center(i int) float64 { return a.Min + (float64(i)+0.5)*a.Step() }

// Pos converts v to a continuous bin coordinate: bin i covers [i, i+1).
func (a Axis) Pos(v float64) float64 { return (v - a.Min) / a.Step() }

// Bin returns the bin containing v, or false when v is outside the axis.
func (a Axis) Bin(v float64) (int, bool) {
	if math.IsNaN(v) || v < a.Min || v >= a.Max {
		return 0, false
	}
	i := int(math.Floor(a.Pos(v)))
	if i >= a.Bins {
		i = a.Bins - 1
	}
	return i, true
}

// Grid pairs the x and y axes of an image.
type Grid struct {
	X, Y Axis
}

// NX is the number of x bins.
func (g Grid) NX() int { return g.X.Bins }

// NY is the number of y bins.
func (g Grid) NY() int { return g.Y.Bins }

// XCenter is the x parameter at the centre of bin x.
func (g Grid) XCenter(x int) float64 { return g.X.Center(x) }

// YCenter is the y parameter at the centre of bin y.
func (g Grid) YCenter(y int) float64 { return g.Y.Center(y) }
