package projection

import (
	"math"

	"github.com/banshee-data/houghroads/internal/hough/errs"
)

// ExtensionPolicy decides how far, in bins, a hit's fired range is widened
// on each side to emulate finite resolution. Fractional widths are allowed;
// see FiredBins for how they are rounded onto the grid.
type ExtensionPolicy interface {
	HalfWidth(layer, yBin int) float64
}

// FixedExtension widens every layer by its own constant. Layers beyond the
// slice are not widened.
type FixedExtension []float64

// HalfWidth implements ExtensionPolicy.
func (f FixedExtension) HalfWidth(layer, _ int) float64 {
	if layer < 0 || layer >= len(f) {
		return 0
	}
	return f[layer]
}

// PtBandExtension uses LowPt in the outer quarters of the curvature axis
// (|q/pT| large) and HighPt in the central half.
type PtBandExtension struct {
	LowPt  []float64
	HighPt []float64
	YBins  int
}

// HalfWidth implements ExtensionPolicy.
func (p PtBandExtension) HalfWidth(layer, yBin int) float64 {
	if yBin < p.YBins/4 || yBin > 3*p.YBins/4 {
		return FixedExtension(p.LowPt).HalfWidth(layer, yBin)
	}
	return FixedExtension(p.HighPt).HalfWidth(layer, yBin)
}

// NewExtension builds the policy for a flat per-layer vector: nLayers
// entries give a FixedExtension, 2*nLayers entries give a PtBandExtension
// whose first half is the low-pT set.
func NewExtension(values []float64, nLayers, yBins int) (ExtensionPolicy, error) {
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Invalid("extension", "hit_extend", "entry %d must be finite and non-negative, got %v", i, v)
		}
	}
	switch len(values) {
	case nLayers:
		return FixedExtension(append([]float64(nil), values...)), nil
	case 2 * nLayers:
		return PtBandExtension{
			LowPt:  append([]float64(nil), values[:nLayers]...),
			HighPt: append([]float64(nil), values[nLayers:]...),
			YBins:  yBins,
		}, nil
	}
	return nil, errs.Invalid("extension", "hit_extend", "need %d or %d entries, got %d", nLayers, 2*nLayers, len(values))
}

// FiredBins converts the continuous bin interval [posLo, posHi] widened by
// halfWidth on both sides into the half-open bin range [lo, hi) clamped to
// [0, n). Every bin the widened interval touches is fired, so an integer
// halfWidth adds exactly that many bins per side. The range is empty when
// lo >= hi.
func FiredBins(posLo, posHi, halfWidth float64, n int) (lo, hi int) {
	if math.IsNaN(posLo) || math.IsNaN(posHi) {
		return 0, 0
	}
	if posLo > posHi {
		posLo, posHi = posHi, posLo
	}
	l := math.Floor(posLo - halfWidth)
	h := math.Floor(posHi+halfWidth) + 1
	if h <= 0 || l >= float64(n) {
		return 0, 0
	}
	lo, hi = int(math.Max(l, 0)), int(math.Min(h, float64(n)))
	return lo, hi
}
