package doublet

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/projection"
)

// CircleD0 returns the signed impact parameter of the circle of curvature
// qpt through p1 and p2, or NaN when no such circle exists (the chord is
// longer than the diameter, or qpt is zero). Positive q/pT bends clockwise,
// matching the standard transform, and d0 carries the sign of the radius.
func CircleD0(p1, p2 r2.Vec, qpt float64) float64 {
	radius := -1 / (2 * projection.A * qpt)
	half := r2.Scale(0.5, r2.Sub(p2, p1))
	halfLen := r2.Norm(half)
	if halfLen == 0 || math.IsInf(radius, 0) {
		return math.NaN()
	}
	scale := math.Copysign(math.Sqrt(math.Pow(radius/halfLen, 2)-1), radius)
	if math.IsNaN(scale) {
		return math.NaN()
	}
	centre := r2.Add(r2.Add(p1, half), r2.Scale(scale, rot90(half)))
	return sign(radius) * (r2.Norm(centre) - math.Abs(radius))
}

func rot90(v r2.Vec) r2.Vec { return r2.Vec{X: -v.Y, Y: v.X} }

func sign(v float64) float64 {
	if math.Signbit(v) {
		return -1
	}
	return 1
}

func point(h hits.Hit) r2.Vec { return r2.Vec{X: h.X(), Y: h.Y()} }

// wrapPhi folds an angle difference into (-pi, pi].
func wrapPhi(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// phiSlope is dphi/dr from a to b. Hits at equal radius get an infinite
// slope with the sign of dphi.
func phiSlope(a, b hits.Hit) float64 {
	dphi := wrapPhi(b.Phi - a.Phi)
	dr := b.R - a.R
	if dr != 0 {
		return dphi / dr
	}
	switch {
	case dphi > 0:
		return math.MaxFloat64
	case dphi < 0:
		return -math.MaxFloat64
	}
	return 0
}

// consistentTriplet reports whether c continues the a-b segment: the same
// sign of dr/dz on both segments and the same sign of the phi slope.
func consistentTriplet(a, b, c hits.Hit) bool {
	rz12 := (b.R - a.R) / (b.Z - a.Z)
	rz23 := (c.R - b.R) / (c.Z - b.Z)
	return rz12*rz23 > 0 && phiSlope(a, b)*phiSlope(b, c) > 0
}

// Voter turns hit pairs into (d0, q/pT) votes.
type Voter struct {
	cfg Config
}

// NewVoter returns a voter for a validated configuration.
func NewVoter(cfg Config) *Voter { return &Voter{cfg: cfg} }

// Pairs calls fn for every accepted pair, inner hit first, and returns
// the number of pairs accepted. Hits are taken in order of radius and
// hits outside the configured layers are ignored. A pair needs different
// layers and a radial gap within [MinDR, MaxDR]; in triplet mode it also
// needs a consistent third hit further out on a layer other than the
// outer hit's.
func (v *Voter) Pairs(arena *hits.Arena, fn func(a, b hits.Ref)) int {
	var refs []hits.Ref
	for _, layer := range arena.ByLayer(v.cfg.NLayers) {
		refs = append(refs, layer...)
	}
	refs = arena.SortByRadius(refs)
	n := 0
	for i, ra := range refs {
		a := arena.At(ra)
		for j := i + 1; j < len(refs); j++ {
			b := arena.At(refs[j])
			if a.Layer == b.Layer {
				continue
			}
			dr := b.R - a.R
			if dr < v.cfg.MinDR || dr > v.cfg.MaxDR {
				continue
			}
			if v.cfg.Triplet && !v.hasThird(arena, refs[j+1:], a, b) {
				continue
			}
			n++
			fn(ra, refs[j])
		}
	}
	return n
}

func (v *Voter) hasThird(arena *hits.Arena, outer []hits.Ref, a, b hits.Hit) bool {
	for _, rc := range outer {
		c := arena.At(rc)
		if c.Layer != b.Layer && consistentTriplet(a, b, c) {
			return true
		}
	}
	return false
}

// PairBins calls fn for every image cell the pair a, b votes for. Each q/pT
// row gets the d0 bin of the circle at the row centre; with Continuous the
// bins between consecutive rows' d0 values are filled too, so a steep line
// leaves no holes.
func (v *Voter) PairBins(a, b hits.Hit, fn func(x, y int)) {
	p1, p2 := point(a), point(b)
	g := v.cfg.Grid
	prev := -1
	for y := 0; y < g.NY(); y++ {
		d0 := CircleD0(p1, p2, g.YCenter(y))
		if math.IsNaN(d0) {
			continue
		}
		x, ok := g.X.Bin(d0)
		if !ok {
			continue
		}
		if prev < 0 {
			prev = x
		}
		lo, hi := x, x
		if v.cfg.Continuous {
			lo, hi = min(prev, x), max(prev, x)
		}
		for xi := lo; xi <= hi; xi++ {
			fn(xi, y)
		}
		prev = x
	}
}
