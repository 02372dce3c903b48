package projection

import (
	"math"

	"github.com/banshee-data/houghroads/internal/hough/hits"
)

// A converts curvature to bending: sin(phi_track - phi_hit) = A * r * q/pT,
// with r in mm and q/pT in e/GeV. Units GeV / (c * mm * e).
const A = 0.0003

// Projector maps hits onto a phi_track (x) versus q/pT (y) grid.
type Projector struct {
	Grid Grid
	// D0 is the impact parameter the image assumes, in mm.
	D0 float64
	// Region selects the field correction coefficients.
	Region int
	// Field is applied when non-nil.
	Field FieldCorrection
	// Extension may be nil for no widening.
	Extension ExtensionPolicy
}

// YToX returns the track phi that hit h implies for curvature y. The result
// is NaN when no track of that curvature and impact parameter reaches the
// hit.
func (p *Projector) YToX(y float64, h hits.Hit) float64 {
	if h.R <= 0 {
		return math.NaN()
	}
	x := h.Phi + math.Asin(A*h.R*y-p.D0/h.R)
	if p.Field != nil {
		x += p.Field.Delta(p.Region, y, h.R)
	}
	return x
}

// XBins returns the half-open x bin range hit h fires for the y bins
// [yLo, yHi). The range is empty when the line leaves the image or is
// undefined over the band.
func (p *Projector) XBins(yLo, yHi int, h hits.Hit) (lo, hi int) {
	if yHi > p.Grid.Y.Bins {
		yHi = p.Grid.Y.Bins
	}
	if yLo < 0 || yLo >= yHi {
		return 0, 0
	}
	x1 := p.YToX(p.Grid.Y.Edge(yLo), h)
	x2 := p.YToX(p.Grid.Y.Edge(yHi), h)
	if math.IsNaN(x1) || math.IsNaN(x2) {
		return 0, 0
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	ax := p.Grid.X
	if x2 < ax.Min || x1 > ax.Max {
		return 0, 0
	}
	var ext float64
	if p.Extension != nil {
		ext = p.Extension.HalfWidth(h.Layer, yLo)
	}
	return FiredBins(ax.Pos(x1), ax.Pos(x2), ext, ax.Bins)
}

// ScaledYBand returns the y bin band of width scale that contains y.
func ScaledYBand(y, scale int) (lo, hi int) {
	if scale < 1 {
		scale = 1
	}
	lo = (y / scale) * scale
	return lo, lo + scale
}
