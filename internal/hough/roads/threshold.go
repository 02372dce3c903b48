package roads

import (
	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/errs"
)

// Binning maps bin indices to the physical parameters reported on roads.
type Binning interface {
	NX() int
	NY() int
	XCenter(x int) float64
	YCenter(y int) float64
}

// BandAxis selects which parameter a Band is defined on.
type BandAxis int

const (
	BandX BandAxis = iota
	BandY
)

// Band overrides the centre threshold for cells whose bin-centre parameter
// lies strictly between Lo and Hi.
type Band struct {
	Axis BandAxis `json:"axis"`
	Lo   float64  `json:"lo"`
	Hi   float64  `json:"hi"`
	Min  int      `json:"min"`
}

// Thresholds is the acceptance test applied to every cell. Window is a
// run of minimum counts centred on the cell along x; a single entry is a
// plain threshold. The first matching Band replaces the centre entry.
type Thresholds struct {
	Window []int
	Bands  []Band
}

// Single is a one-entry threshold.
func Single(min int) Thresholds { return Thresholds{Window: []int{min}} }

// Validate rejects empty or even-length windows and inverted bands.
func (t Thresholds) Validate(component string) error {
	if len(t.Window) == 0 {
		return errs.Invalid(component, "threshold", "no threshold given")
	}
	if len(t.Window)%2 == 0 {
		return errs.Invalid(component, "threshold", "window must have odd length, got %d", len(t.Window))
	}
	for i, b := range t.Bands {
		if !(b.Hi > b.Lo) {
			return errs.Invalid(component, "threshold_bands", "band %d has empty range [%v, %v]", i, b.Lo, b.Hi)
		}
		if b.Axis != BandX && b.Axis != BandY {
			return errs.Invalid(component, "threshold_bands", "band %d has unknown axis %d", i, b.Axis)
		}
	}
	return nil
}

// Centre is the plain threshold at the middle of the window.
func (t Thresholds) Centre() int { return t.Window[len(t.Window)/2] }

func (t Thresholds) centreMin(bins Binning, x, y int) int {
	for _, b := range t.Bands {
		var v float64
		if b.Axis == BandX {
			v = bins.XCenter(x)
		} else {
			v = bins.YCenter(y)
		}
		if v > b.Lo && v < b.Hi {
			return b.Min
		}
	}
	return t.Centre()
}

// Pass reports whether cell (x, y) meets every window entry. Cells whose
// window would extend past the image edge fail.
func (t Thresholds) Pass(im *accumulator.Image, bins Binning, x, y int) bool {
	w := len(t.Window) / 2
	if x < w || x+w >= im.NX() {
		return false
	}
	for i, need := range t.Window {
		if i == w {
			need = t.centreMin(bins, x, y)
		}
		if im.Count(x-w+i, y) < need {
			return false
		}
	}
	return true
}
